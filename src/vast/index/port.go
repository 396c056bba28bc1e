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

// Port indexes a (number, protocol) pair as a multi-level decimal
// range coder over the port number (base [10]*5, covering [0,
// 2^16)) plus an equality coder over the protocol tag.
type Port struct {
	number *coder.Multilevel
	proto  *coder.Equality
	offset uint64
}

// NewPort returns an empty port index.
func NewPort() *Port {
	base := []int64{10, 10, 10, 10, 10}
	return &Port{
		number: coder.NewMultilevel(base, func() coder.Coder { return coder.NewRange() }),
		proto:  coder.NewEquality(),
	}
}

// Append implements Concrete.
func (p *Port) Append(x vdata.Data) error {
	if _, ok := x.(vdata.Nil); ok {
		p.number.Append(0)
		p.proto.Append(int64(vdata.ProtoUnknown))
		p.offset++
		return nil
	}
	v, ok := x.(vdata.Port)
	if !ok {
		return verrors.New(verrors.TypeClash, "expected port")
	}
	p.number.Append(int64(v.Number))
	p.proto.Append(int64(v.Protocol))
	p.offset++
	return nil
}

// Offset implements Concrete.
func (p *Port) Offset() uint64 {
	return p.offset
}

// Lookup implements Concrete. in/!in against a port are unsupported;
// a vector/set argument is answered by containerLookup's element-wise
// decomposition.
func (p *Port) Lookup(op Op, x vdata.Data) (*bitmap.Bitmap, error) {
	switch v := x.(type) {
	case vdata.Port:
		if op == OpIn || op == OpNotIn {
			return nil, verrors.New(verrors.UnsupportedOperator, "port index: "+op.String())
		}
		cop, ok := toCoderOp(op)
		if !ok {
			return nil, verrors.New(verrors.UnsupportedOperator, "port index: "+op.String())
		}
		n, err := p.number.Lookup(cop, int64(v.Number))
		if err != nil {
			return nil, err
		}
		if allFalse(n) {
			return emptySized(p.offset), nil
		}
		if v.Protocol != vdata.ProtoUnknown {
			proto, err := p.proto.Lookup(coder.OpEqual, int64(v.Protocol))
			if err != nil {
				return nil, err
			}
			n = n.And(proto)
		}
		return n, nil
	case vdata.Vector:
		return containerLookup(p, op, v)
	case vdata.Set:
		return containerLookup(p, op, []vdata.Data(v))
	default:
		return nil, verrors.New(verrors.TypeClash, "expected port")
	}
}
