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

import (
	"fmt"

	"github.com/vast-io/vast/src/vast/bitmap"
)

// Equality codes one bitmap per distinct value observed from a finite
// domain, e.g. the four protocol values of a port index.
type Equality struct {
	offset uint64
	bits   map[int64]*bitmap.Bitmap
}

// NewEquality returns an empty equality coder.
func NewEquality() *Equality {
	return &Equality{bits: make(map[int64]*bitmap.Bitmap)}
}

// Append implements Coder.
func (e *Equality) Append(v int64) {
	for val, b := range e.bits {
		b.AppendBit(val == v)
	}
	if _, ok := e.bits[v]; !ok {
		b := emptySized(e.offset)
		b.AppendBit(true)
		e.bits[v] = b
	}
	e.offset++
}

// Offset implements Coder.
func (e *Equality) Offset() uint64 {
	return e.offset
}

// Lookup implements Coder.
func (e *Equality) Lookup(op Op, v int64) (*bitmap.Bitmap, error) {
	switch op {
	case OpEqual:
		if b, ok := e.bits[v]; ok {
			return b.Clone(), nil
		}
		return emptySized(e.offset), nil
	case OpNotEqual:
		if b, ok := e.bits[v]; ok {
			return b.Not(), nil
		}
		return fullSized(e.offset), nil
	default:
		return nil, fmt.Errorf("equality coder: unsupported operator %v", op)
	}
}
