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

package coder

import "github.com/vast-io/vast/src/vast/bitmap"

// NewCoderFunc constructs the inner coder used for each digit of a
// Multilevel coder.
type NewCoderFunc func() Coder

// Multilevel decomposes each appended value into digits under a
// positional base b = (b_k, ..., b_0) and maintains one inner coder
// per digit, most-significant digit first. Base [10]*k yields decimal
// digits; base [256]*k yields byte-slicing.
type Multilevel struct {
	base   []int64 // most-significant first
	coders []Coder
	offset uint64
}

// NewMultilevel builds a multi-level coder. base lists digit radices
// from most to least significant; newCoder constructs the coder used
// for every digit (typically an Equality or Range coder).
func NewMultilevel(base []int64, newCoder NewCoderFunc) *Multilevel {
	coders := make([]Coder, len(base))
	for i := range coders {
		coders[i] = newCoder()
	}
	return &Multilevel{base: base, coders: coders}
}

// digits decomposes v into per-position digits, most-significant
// first, using the mixed-radix base.
func (m *Multilevel) digits(v int64) []int64 {
	digits := make([]int64, len(m.base))
	rem := v
	for i := len(m.base) - 1; i >= 0; i-- {
		radix := m.base[i]
		digits[i] = rem % radix
		rem /= radix
	}
	return digits
}

// Append implements Coder.
func (m *Multilevel) Append(v int64) {
	digits := m.digits(v)
	for i, d := range digits {
		m.coders[i].Append(d)
	}
	m.offset++
}

// Offset implements Coder.
func (m *Multilevel) Offset() uint64 {
	return m.offset
}

// Lookup implements Coder for equality/inequality directly (AND
// across digit coders). Ordering operators additionally require a
// most-significant-digit-first tie-break, handled the same way a
// multi-digit decimal comparison would be: equal digits down to the
// first digit where the operator's strict comparison holds.
func (m *Multilevel) Lookup(op Op, v int64) (*bitmap.Bitmap, error) {
	digits := m.digits(v)
	switch op {
	case OpEqual:
		result := fullSized(m.offset)
		for i, d := range digits {
			eq, err := m.coders[i].Lookup(OpEqual, d)
			if err != nil {
				return nil, err
			}
			result = result.And(eq)
		}
		return result, nil
	case OpNotEqual:
		eq, err := m.Lookup(OpEqual, v)
		if err != nil {
			return nil, err
		}
		return eq.Not(), nil
	case OpLessEqual, OpLess, OpGreater, OpGreaterEqual:
		return m.orderedLookup(op, digits)
	default:
		return nil, unsupportedOpError("multi-level", op)
	}
}

// orderedLookup implements <, <=, >, >= via the standard
// lexicographic decomposition: `x <= v` iff there exists a prefix of
// equal leading digits followed by either an exact match on the
// remaining digits or a strictly-smaller digit at the first point of
// difference.
func (m *Multilevel) orderedLookup(op Op, digits []int64) (*bitmap.Bitmap, error) {
	strict := op == OpLess || op == OpGreater
	greater := op == OpGreater || op == OpGreaterEqual

	leq := emptySized(m.offset)
	prefixEqual := fullSized(m.offset)
	for i, d := range digits {
		var cmpOp Op
		if greater {
			cmpOp = OpGreater
		} else {
			cmpOp = OpLess
		}
		strictAtDigit, err := m.coders[i].Lookup(cmpOp, d)
		if err != nil {
			return nil, err
		}
		leq = leq.Or(prefixEqual.And(strictAtDigit))

		eqAtDigit, err := m.coders[i].Lookup(OpEqual, d)
		if err != nil {
			return nil, err
		}
		prefixEqual = prefixEqual.And(eqAtDigit)
	}
	if !strict {
		leq = leq.Or(prefixEqual)
	}
	return leq, nil
}
