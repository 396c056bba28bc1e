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

// String indexes a string column as a length (multi-level decimal
// range coder) plus one 8-bit bitslice coder per character position,
// grown lazily as longer strings arrive. Strings beyond maxLength are
// truncated.
type String struct {
	maxLength int
	length    *coder.Multilevel
	chars     []*coder.Bitslice
	offset    uint64
}

// NewString returns a string index truncating at maxLength characters
// (default 1024 when maxLength is unset).
func NewString(maxLength int) *String {
	if maxLength <= 0 {
		maxLength = 1024
	}
	components := int(math.Log10(float64(maxLength)))
	if maxLength%10 != 0 {
		components++
	}
	if components < 1 {
		components = 1
	}
	base := make([]int64, components)
	for i := range base {
		base[i] = 10
	}
	return &String{
		maxLength: maxLength,
		length:    coder.NewMultilevel(base, func() coder.Coder { return coder.NewRange() }),
	}
}

func (s *String) growTo(n int) {
	for len(s.chars) < n {
		s.chars = append(s.chars, coder.NewBitslice(8))
	}
}

// Append implements Concrete.
func (s *String) Append(x vdata.Data) error {
	if _, ok := x.(vdata.Nil); ok {
		s.length.Append(0)
		s.offset++
		return nil
	}
	v, ok := x.(vdata.String)
	if !ok {
		return verrors.New(verrors.TypeClash, "expected string")
	}
	str := string(v)
	length := len(str)
	if length > s.maxLength {
		length = s.maxLength
	}
	s.growTo(length)
	for i := 0; i < length; i++ {
		// Positions this character coder has not yet seen are
		// implicitly the empty character (0); catch it up to the
		// column's offset before appending the real byte.
		for s.chars[i].Offset() < s.offset {
			s.chars[i].Append(0)
		}
		s.chars[i].Append(int64(str[i]))
	}
	s.length.Append(int64(length))
	s.offset++
	return nil
}

// Offset implements Concrete.
func (s *String) Offset() uint64 {
	return s.offset
}

// allFalse reports whether b has no set bits.
func allFalse(b *bitmap.Bitmap) bool {
	return b.Cardinality() == 0
}

func (s *String) charEqual(i int, want byte) (*bitmap.Bitmap, error) {
	if i >= len(s.chars) {
		return emptySized(s.offset), nil
	}
	b, err := s.chars[i].Lookup(coder.OpEqual, int64(want))
	if err != nil {
		return nil, err
	}
	// Positions beyond this character coder's own offset never had
	// a character appended here; pad with false up to s.offset.
	if b.Size() < s.offset {
		full := emptySized(s.offset)
		full = full.Or(b)
		b = full
	}
	return b, nil
}

// Lookup implements Concrete.
func (s *String) Lookup(op Op, x vdata.Data) (*bitmap.Bitmap, error) {
	switch v := x.(type) {
	case vdata.Vector:
		return containerLookup(s, op, v)
	case vdata.Set:
		return containerLookup(s, op, []vdata.Data(v))
	case vdata.String:
		return s.lookupString(op, string(v))
	default:
		return nil, verrors.New(verrors.TypeClash, "expected string")
	}
}

func (s *String) lookupString(op Op, str string) (*bitmap.Bitmap, error) {
	strSize := len(str)
	if strSize > s.maxLength {
		strSize = s.maxLength
	}
	switch op {
	case OpEqual, OpNotEqual:
		if strSize == 0 {
			result, err := s.length.Lookup(coder.OpEqual, 0)
			if err != nil {
				return nil, err
			}
			if op == OpNotEqual {
				return result.Not(), nil
			}
			return result, nil
		}
		if strSize > len(s.chars) {
			return constSized(s.offset, op == OpNotEqual), nil
		}
		result, err := s.length.Lookup(coder.OpLessEqual, int64(strSize))
		if err != nil {
			return nil, err
		}
		if allFalse(result) {
			return constSized(s.offset, op == OpNotEqual), nil
		}
		for i := 0; i < strSize; i++ {
			b, err := s.charEqual(i, str[i])
			if err != nil {
				return nil, err
			}
			result = result.And(b)
			if allFalse(result) {
				return constSized(s.offset, op == OpNotEqual), nil
			}
		}
		if op == OpNotEqual {
			return result.Not(), nil
		}
		return result, nil
	case OpNi, OpNni:
		if strSize == 0 {
			return constSized(s.offset, op == OpNi), nil
		}
		if strSize > len(s.chars) {
			return constSized(s.offset, op == OpNni), nil
		}
		result := emptySized(s.offset)
		for i := 0; i+strSize <= len(s.chars); i++ {
			window := fullSizedLocal(s.offset)
			skip := false
			for j := 0; j < strSize; j++ {
				b, err := s.charEqual(i+j, str[j])
				if err != nil {
					return nil, err
				}
				if allFalse(b) {
					skip = true
					break
				}
				window = window.And(b)
			}
			if !skip {
				result = result.Or(window)
			}
		}
		if op == OpNni {
			return result.Not(), nil
		}
		return result, nil
	default:
		return nil, verrors.New(verrors.UnsupportedOperator, "string index: "+op.String())
	}
}

func constSized(n uint64, v bool) *bitmap.Bitmap {
	if v {
		return fullSizedLocal(n)
	}
	return emptySized(n)
}

func fullSizedLocal(n uint64) *bitmap.Bitmap {
	b := bitmap.New()
	b.AppendBits(true, n)
	return b
}

// containerLookup implements ni/!ni-agnostic in/!in over a vector or
// set: OR of per-element equality, negated for NotIn.
func containerLookup(c Concrete, op Op, elems []vdata.Data) (*bitmap.Bitmap, error) {
	if op != OpIn && op != OpNotIn {
		return nil, verrors.New(verrors.UnsupportedOperator, "container expects in/!in")
	}
	result := emptySized(c.Offset())
	for _, e := range elems {
		eq, err := c.Lookup(OpEqual, e)
		if err != nil {
			return nil, err
		}
		result = result.Or(eq)
	}
	if op == OpNotIn {
		return result.Not(), nil
	}
	return result, nil
}
