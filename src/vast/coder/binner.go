// Copyright (c) 2026 the VAST authors.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package coder maps typed values onto bit positions in a vector of
// bitmap.Bitmap instances. Binners pre-transform values before coding
// (dropping precision so nearby values collapse onto the same code);
// coders own the bitmap vector and answer lookups.
package coder

import "math"

// Binner reduces a value's domain before it reaches a Coder.
type Binner interface {
	Bin(v int64) int64
}

// Identity is a no-op binner.
type Identity struct{}

// Bin implements Binner.
func (Identity) Bin(v int64) int64 { return v }

// Precision drops the low P decimal digits of v, rounding toward
// negative infinity so ordering (and thus range-coder semantics) is
// preserved across the binning.
type Precision struct {
	P uint
}

// Bin implements Binner.
func (p Precision) Bin(v int64) int64 {
	if p.P == 0 {
		return v
	}
	div := pow10(p.P)
	if v >= 0 {
		return (v / div) * div
	}
	// Round toward negative infinity for negative values.
	q := v / div
	if v%div != 0 {
		q--
	}
	return q * div
}

// Decimal divides v by 10^P, discarding the low P decimal digits
// instead of merely zeroing them. Used to fold nanosecond timestamps
// down to coarser units (e.g. decimal_9 folds ns to s).
type Decimal struct {
	P uint
}

// Bin implements Binner.
func (d Decimal) Bin(v int64) int64 {
	if d.P == 0 {
		return v
	}
	div := pow10(d.P)
	if v >= 0 {
		return v / div
	}
	q := v / div
	if v%div != 0 {
		q--
	}
	return q
}

func pow10(p uint) int64 {
	r := int64(1)
	for i := uint(0); i < p; i++ {
		r *= 10
	}
	return r
}

// FloatBits reinterprets a float64 as a monotonic int64 so that
// arithmetic coders (which operate on ordered integers) can index
// real values while preserving ordering, including across the
// positive/negative boundary.
func FloatBits(f float64) int64 {
	bits := math.Float64bits(f)
	if bits&(1<<63) != 0 {
		bits = ^bits
	} else {
		bits |= 1 << 63
	}
	return int64(bits)
}
