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

// Bitslice codes one bitmap per bit of a fixed-width binary
// representation, supporting equality over arbitrary widths without
// per-value bitmaps. Bit 0 is the least significant.
type Bitslice struct {
	width  uint
	offset uint64
	planes []*bitmap.Bitmap
}

// NewBitslice returns an empty bitslice coder over the given bit
// width (e.g. 8 for a byte, 16 for a port number).
func NewBitslice(width uint) *Bitslice {
	planes := make([]*bitmap.Bitmap, width)
	for i := range planes {
		planes[i] = bitmap.New()
	}
	return &Bitslice{width: width, planes: planes}
}

// Append implements Coder.
func (b *Bitslice) Append(v int64) {
	for i := uint(0); i < b.width; i++ {
		b.planes[i].AppendBit((v>>i)&1 == 1)
	}
	b.offset++
}

// Offset implements Coder.
func (b *Bitslice) Offset() uint64 {
	return b.offset
}

// Storage returns the bit-plane at position i (0 = least
// significant), exposed for callers such as the address index that
// need to combine partial planes across a subnet mask boundary.
func (b *Bitslice) Storage(i uint) *bitmap.Bitmap {
	return b.planes[i]
}

// Width returns the number of bit planes.
func (b *Bitslice) Width() uint {
	return b.width
}

// Lookup implements Coder; only equality and inequality are
// supported (arbitrary-width equality, not ordering).
func (b *Bitslice) Lookup(op Op, v int64) (*bitmap.Bitmap, error) {
	switch op {
	case OpEqual:
		result := fullSized(b.offset)
		for i := uint(0); i < b.width; i++ {
			bit := (v>>i)&1 == 1
			plane := b.planes[i]
			var match *bitmap.Bitmap
			if bit {
				match = plane.Clone()
			} else {
				match = plane.Not()
			}
			result = result.And(match)
		}
		return result, nil
	case OpNotEqual:
		eq, _ := b.Lookup(OpEqual, v)
		return eq.Not(), nil
	default:
		return nil, unsupportedOpError("bitslice", op)
	}
}
