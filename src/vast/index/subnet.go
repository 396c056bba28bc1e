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
	"github.com/vast-io/vast/src/vast/bitmap"
	"github.com/vast-io/vast/src/vast/coder"
	"github.com/vast-io/vast/src/vast/vdata"
	"github.com/vast-io/vast/src/vast/verrors"
)

// Subnet indexes a network/prefix-length pair as an Address index
// over the network address plus a range coder over prefix length
// (0..128); a range coder is used rather than a plain equality coder
// so that the "in" operator's greater_equal comparison over prefix
// length has somewhere to land.
type Subnet struct {
	network *Address
	length  *coder.Range
	offset  uint64
}

// NewSubnet returns an empty subnet index.
func NewSubnet() *Subnet {
	return &Subnet{network: NewAddress(), length: coder.NewRange()}
}

// Append implements Concrete.
func (s *Subnet) Append(x vdata.Data) error {
	if _, ok := x.(vdata.Nil); ok {
		s.length.Append(0)
		if err := s.network.Append(vdata.Nil{}); err != nil {
			return err
		}
		s.offset++
		return nil
	}
	v, ok := x.(vdata.Subnet)
	if !ok {
		return verrors.New(verrors.TypeClash, "expected subnet")
	}
	s.length.Append(int64(v.Prefix.Bits()))
	if err := s.network.Append(vdata.Address{Addr: v.Prefix.Addr()}); err != nil {
		return err
	}
	s.offset++
	return nil
}

// Offset implements Concrete.
func (s *Subnet) Offset() uint64 {
	return s.offset
}

// Lookup implements Concrete: ==/!= for exact subnet match, in/!in
// for "stored subnet is a subset of x", ni/!ni for "stored subnet
// contains x".
func (s *Subnet) Lookup(op Op, x vdata.Data) (*bitmap.Bitmap, error) {
	v, ok := x.(vdata.Subnet)
	if !ok {
		switch c := x.(type) {
		case vdata.Vector:
			return containerLookup(s, op, c)
		case vdata.Set:
			return containerLookup(s, op, []vdata.Data(c))
		default:
			return nil, verrors.New(verrors.TypeClash, "expected subnet")
		}
	}
	switch op {
	case OpEqual, OpNotEqual:
		result, err := s.network.Lookup(OpEqual, vdata.Address{Addr: v.Prefix.Addr()})
		if err != nil {
			return nil, err
		}
		n, err := s.length.Lookup(coder.OpEqual, int64(v.Prefix.Bits()))
		if err != nil {
			return nil, err
		}
		result = result.And(n)
		if op == OpNotEqual {
			return result.Not(), nil
		}
		return result, nil
	case OpIn, OpNotIn:
		result, err := s.network.Lookup(OpIn, v)
		if err != nil {
			return nil, err
		}
		n, err := s.length.Lookup(coder.OpGreaterEqual, int64(v.Prefix.Bits()))
		if err != nil {
			return nil, err
		}
		result = result.And(n)
		if op == OpNotIn {
			return result.Not(), nil
		}
		return result, nil
	case OpNi, OpNni:
		result := emptySized(s.offset)
		for i := 1; i <= v.Prefix.Bits(); i++ {
			p, err := v.Prefix.Addr().Prefix(i)
			if err != nil {
				return nil, err
			}
			xs, err := s.network.Lookup(OpIn, vdata.Subnet{Prefix: p})
			if err != nil {
				return nil, err
			}
			n, err := s.length.Lookup(coder.OpEqual, int64(i))
			if err != nil {
				return nil, err
			}
			result = result.Or(xs.And(n))
		}
		if op == OpNni {
			return result.Not(), nil
		}
		return result, nil
	default:
		return nil, verrors.New(verrors.UnsupportedOperator, "subnet index: "+op.String())
	}
}
