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

package index

import (
	"math"

	"github.com/vast-io/vast/src/vast/bitmap"
	"github.com/vast-io/vast/src/vast/coder"
	"github.com/vast-io/vast/src/vast/vdata"
	"github.com/vast-io/vast/src/vast/verrors"
)

// NewElementFunc constructs the per-position element index used by a
// Sequence, one instance per position up to maxSize.
type NewElementFunc func() Concrete

// Sequence indexes a vector or set as one element index per position
// (up to maxSize, default 128) plus a multi-level decimal range
// coder over the container's size. Positions past a given row's
// length are simply never appended to, the same lazy-catch-up scheme
// String uses for character positions.
type Sequence struct {
	maxSize  int
	newElem  NewElementFunc
	size     *coder.Multilevel
	elements []*Wrapper
	offset   uint64
}

// NewSequence returns an empty sequence index. newElem builds the
// per-position value index for the sequence's element type.
func NewSequence(maxSize int, newElem NewElementFunc) *Sequence {
	if maxSize <= 0 {
		maxSize = 128
	}
	components := int(math.Log10(float64(maxSize)))
	if maxSize%10 != 0 {
		components++
	}
	if components < 1 {
		components = 1
	}
	base := make([]int64, components)
	for i := range base {
		base[i] = 10
	}
	return &Sequence{
		maxSize: maxSize,
		newElem: newElem,
		size:    coder.NewMultilevel(base, func() coder.Coder { return coder.NewRange() }),
	}
}

func (s *Sequence) growTo(n int) {
	for len(s.elements) < n {
		s.elements = append(s.elements, NewWrapper(s.newElem()))
	}
}

// Append implements Concrete.
func (s *Sequence) Append(x vdata.Data) error {
	if _, ok := x.(vdata.Nil); ok {
		s.size.Append(0)
		s.offset++
		return nil
	}
	var elems []vdata.Data
	switch v := x.(type) {
	case vdata.Vector:
		elems = v
	case vdata.Set:
		elems = []vdata.Data(v)
	default:
		return verrors.New(verrors.TypeClash, "expected vector or set")
	}
	n := len(elems)
	if n > s.maxSize {
		n = s.maxSize
	}
	s.growTo(n)
	for i := 0; i < n; i++ {
		if err := s.elements[i].AppendAt(elems[i], s.offset); err != nil {
			return err
		}
	}
	s.size.Append(int64(n))
	s.offset++
	return nil
}

// Offset implements Concrete.
func (s *Sequence) Offset() uint64 {
	return s.offset
}

func (s *Sequence) elemEqual(i int, x vdata.Data) (*bitmap.Bitmap, error) {
	if i >= len(s.elements) {
		return emptySized(s.offset), nil
	}
	b, err := s.elements[i].Lookup(OpEqual, x)
	if err != nil {
		return nil, err
	}
	if b.Size() < s.offset {
		full := emptySized(s.offset)
		full = full.Or(b)
		b = full
	}
	return b, nil
}

// Lookup implements Concrete. Only ni/!ni (containment) is
// supported: a row matches if any of its elements equals x.
func (s *Sequence) Lookup(op Op, x vdata.Data) (*bitmap.Bitmap, error) {
	if op != OpNi && op != OpNni {
		return nil, verrors.New(verrors.UnsupportedOperator, "sequence index: "+op.String())
	}
	result := emptySized(s.offset)
	for i := range s.elements {
		b, err := s.elemEqual(i, x)
		if err != nil {
			return nil, err
		}
		result = result.Or(b)
	}
	if op == OpNni {
		return result.Not(), nil
	}
	return result, nil
}
