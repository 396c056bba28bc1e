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

// Address indexes an IP address as 16 per-byte bitslice coders (the
// 16-byte form covers both v4-in-v6-embedded and native v6
// addresses) plus a bitmap recording which positions carry an
// embedded IPv4 address, kept exactly offset()-sized so every appended
// position, including nils, has a v4/v6 classification.
type Address struct {
	bytes  [16]*coder.Bitslice
	v4     *bitmap.Bitmap
	offset uint64
}

// NewAddress returns an empty address index.
func NewAddress() *Address {
	a := &Address{v4: bitmap.New()}
	for i := range a.bytes {
		a.bytes[i] = coder.NewBitslice(8)
	}
	return a
}

func to16(x vdata.Address) ([16]byte, bool) {
	if x.Addr.Is4() || x.Addr.Is4In6() {
		a4 := x.Addr.As4()
		var b [16]byte
		copy(b[12:], a4[:])
		return b, true
	}
	return x.Addr.As16(), false
}

// Append implements Concrete.
func (a *Address) Append(x vdata.Data) error {
	if _, ok := x.(vdata.Nil); ok {
		for i := range a.bytes {
			a.bytes[i].Append(0)
		}
		a.v4.AppendBit(false)
		a.offset++
		return nil
	}
	addr, ok := x.(vdata.Address)
	if !ok {
		return verrors.New(verrors.TypeClash, "expected address")
	}
	bytes, isV4 := to16(addr)
	for i, b := range bytes {
		a.bytes[i].Append(int64(b))
	}
	a.v4.AppendBit(isV4)
	a.offset++
	return nil
}

// Offset implements Concrete.
func (a *Address) Offset() uint64 {
	return a.offset
}

// Lookup implements Concrete: ==/!= against another address, in/!in
// against a subnet.
func (a *Address) Lookup(op Op, x vdata.Data) (*bitmap.Bitmap, error) {
	switch v := x.(type) {
	case vdata.Address:
		if op != OpEqual && op != OpNotEqual {
			return nil, verrors.New(verrors.UnsupportedOperator, "address index: "+op.String())
		}
		return a.lookupAddress(op, v)
	case vdata.Subnet:
		if op != OpIn && op != OpNotIn {
			return nil, verrors.New(verrors.UnsupportedOperator, "address index: "+op.String())
		}
		return a.lookupSubnet(op, v)
	case vdata.Vector:
		return containerLookup(a, op, v)
	case vdata.Set:
		return containerLookup(a, op, []vdata.Data(v))
	default:
		return nil, verrors.New(verrors.TypeClash, "expected address or subnet")
	}
}

func (a *Address) lookupAddress(op Op, x vdata.Address) (*bitmap.Bitmap, error) {
	bytes, isV4 := to16(x)
	var result *bitmap.Bitmap
	start := 0
	if isV4 {
		result = a.v4.Clone()
		start = 12
	} else {
		result = fullSizedLocal(a.offset)
	}
	for i := start; i < 16; i++ {
		b, err := a.bytes[i].Lookup(coder.OpEqual, int64(bytes[i]))
		if err != nil {
			return nil, err
		}
		result = result.And(b)
		if allFalse(result) {
			return constSized(a.offset, op == OpNotEqual), nil
		}
	}
	if op == OpNotEqual {
		return result.Not(), nil
	}
	return result, nil
}

// lookupSubnet answers `address in x`: does the stored address fall
// within the network x describes.
func (a *Address) lookupSubnet(op Op, x vdata.Subnet) (*bitmap.Bitmap, error) {
	topk := x.Prefix.Bits()
	if topk < 0 {
		return nil, verrors.New(verrors.InvalidArgument, "invalid subnet")
	}
	network := x.Prefix.Addr()
	bytes, isV4 := to16(vdata.Address{Addr: network})
	if isV4 {
		topk += 96
	}
	if topk == 128 {
		return a.lookupAddress(boolToEqualOp(op), vdata.Address{Addr: network})
	}
	var result *bitmap.Bitmap
	i := 0
	if isV4 {
		result = a.v4.Clone()
		i = 12
	} else {
		result = fullSizedLocal(a.offset)
	}
	remaining := topk
	if isV4 {
		remaining = topk - 96
	}
	for ; i < 16 && remaining >= 8; i, remaining = i+1, remaining-8 {
		b, err := a.bytes[i].Lookup(coder.OpEqual, int64(bytes[i]))
		if err != nil {
			return nil, err
		}
		result = result.And(b)
	}
	for j := 0; j < remaining; j++ {
		bit := uint(7 - j)
		plane := a.bytes[i].Storage(bit)
		if (bytes[i]>>bit)&1 == 1 {
			result = result.And(plane.Clone())
		} else {
			result = result.And(plane.Not())
		}
	}
	if op == OpNotIn {
		return result.Not(), nil
	}
	return result, nil
}

func boolToEqualOp(op Op) Op {
	if op == OpNotIn {
		return OpNotEqual
	}
	return OpEqual
}
