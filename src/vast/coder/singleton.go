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

// Singleton codes a single fixed value v, e.g. bool's `true`. It
// stores one bitmap: bit i is set iff the i'th appended value equals
// Value.
type Singleton struct {
	Value int64
	bits  *bitmap.Bitmap
}

// NewSingleton returns a coder fixed to value v.
func NewSingleton(v int64) *Singleton {
	return &Singleton{Value: v, bits: bitmap.New()}
}

// Append implements Coder.
func (s *Singleton) Append(v int64) {
	s.bits.AppendBit(v == s.Value)
}

// Offset implements Coder.
func (s *Singleton) Offset() uint64 {
	return s.bits.Size()
}

// Lookup implements Coder.
func (s *Singleton) Lookup(op Op, v int64) (*bitmap.Bitmap, error) {
	switch op {
	case OpEqual:
		if v == s.Value {
			return s.bits.Clone(), nil
		}
		return emptySized(s.Offset()), nil
	case OpNotEqual:
		if v == s.Value {
			return s.bits.Not(), nil
		}
		return fullSized(s.Offset()), nil
	default:
		return nil, fmt.Errorf("singleton coder: unsupported operator %v", op)
	}
}
