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
	"sort"

	"github.com/vast-io/vast/src/vast/bitmap"
)

// Range codes one bitmap per distinct value v such that position i's
// bit is set in v's bitmap iff value(i) <= v. This directly answers
// <= and <, and =, !=, >, >= by set difference against the top level.
type Range struct {
	offset uint64
	values []int64            // sorted distinct values seen
	bits   map[int64]*bitmap.Bitmap
}

// NewRange returns an empty range coder.
func NewRange() *Range {
	return &Range{bits: make(map[int64]*bitmap.Bitmap)}
}

// Append implements Coder.
func (r *Range) Append(v int64) {
	if _, ok := r.bits[v]; !ok {
		r.values = append(r.values, v)
		sort.Slice(r.values, func(i, j int) bool { return r.values[i] < r.values[j] })
		// Every earlier position whose value is <= the next-smaller coded
		// value is also <= v, so v's bitmap starts as a copy of that one.
		idx := sort.Search(len(r.values), func(i int) bool { return r.values[i] >= v })
		if idx > 0 {
			r.bits[v] = r.bits[r.values[idx-1]].Clone()
		} else {
			r.bits[v] = emptySized(r.offset)
		}
	}
	for _, val := range r.values {
		r.bits[val].AppendBit(v <= val)
	}
	r.offset++
}

// Offset implements Coder.
func (r *Range) Offset() uint64 {
	return r.offset
}

// leq returns the bitmap for `value <= v`, interpolating between the
// bracketing coded values when v itself was never appended.
func (r *Range) leq(v int64) *bitmap.Bitmap {
	if len(r.values) == 0 {
		return emptySized(r.offset)
	}
	// Find the smallest coded value >= v. If it is v itself, its
	// bitmap is the answer; otherwise the answer is the bitmap of the
	// coded value just below it, since nothing between the two was
	// appended.
	idx := sort.Search(len(r.values), func(i int) bool { return r.values[i] >= v })
	if idx == len(r.values) {
		return fullSized(r.offset)
	}
	if r.values[idx] == v {
		return r.bits[v].Clone()
	}
	// values[idx] > v and, by minimality of idx, nothing observed
	// falls strictly between values[idx-1] and values[idx]; the
	// largest observed value that is still <= v is values[idx-1].
	if idx == 0 {
		return emptySized(r.offset)
	}
	return r.bits[r.values[idx-1]].Clone()
}

// Lookup implements Coder.
func (r *Range) Lookup(op Op, v int64) (*bitmap.Bitmap, error) {
	leq := r.leq(v)
	switch op {
	case OpLessEqual:
		return leq, nil
	case OpGreater:
		return leq.Not(), nil
	case OpLess:
		return r.leq(v - 1), nil
	case OpGreaterEqual:
		return r.leq(v - 1).Not(), nil
	case OpEqual:
		return leq.AndNot(r.leq(v - 1)), nil
	case OpNotEqual:
		eq := leq.AndNot(r.leq(v - 1))
		return eq.Not(), nil
	default:
		return nil, unsupportedOpError("range", op)
	}
}
