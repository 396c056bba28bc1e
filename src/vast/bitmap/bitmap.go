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

// Package bitmap implements the compressed bitmap primitive that every
// value index is built on. The wire contract is EWAH-style run-length
// semantics (append_bit/append_bits, boolean algebra, positional
// iteration, bit-stable serialization); the backing store is a
// github.com/RoaringBitmap/roaring container, which already gives run
// and array compression without hand-rolling word RLE.
package bitmap

import (
	"bytes"
	"fmt"

	"github.com/RoaringBitmap/roaring"
)

// Bitmap is an immutable-until-mutated compressed bit sequence indexed
// by position. A Bitmap tracks its own logical size independently of
// the highest set bit, since append_bits(0, n) must be observable by
// Size() even though it sets nothing in the underlying container.
type Bitmap struct {
	bits *roaring.Bitmap
	size uint64
}

// New returns an empty bitmap.
func New() *Bitmap {
	return &Bitmap{bits: roaring.NewBitmap()}
}

// Size returns the number of appended bit positions, i.e. one past the
// highest position ever appended to.
func (b *Bitmap) Size() uint64 {
	return b.size
}

// AppendBit appends a single bit at the next position.
func (b *Bitmap) AppendBit(v bool) {
	if v {
		b.bits.Add(uint32(b.size))
	}
	b.size++
}

// AppendBits appends n copies of bit v.
func (b *Bitmap) AppendBits(v bool, n uint64) {
	if n == 0 {
		return
	}
	if v {
		b.bits.AddRange(b.size, b.size+n)
	}
	b.size += n
}

// Set sets the bit at position i, growing the bitmap if necessary.
func (b *Bitmap) Set(i uint64) {
	if i >= b.size {
		b.size = i + 1
	}
	b.bits.Add(uint32(i))
}

// Get returns the bit at position i.
func (b *Bitmap) Get(i uint64) bool {
	if i >= b.size {
		return false
	}
	return b.bits.Contains(uint32(i))
}

// Clone returns a deep copy.
func (b *Bitmap) Clone() *Bitmap {
	return &Bitmap{bits: b.bits.Clone(), size: b.size}
}

func maxSize(a, b *Bitmap) uint64 {
	if a.size > b.size {
		return a.size
	}
	return b.size
}

// And returns the bitwise AND of b and other.
func (b *Bitmap) And(other *Bitmap) *Bitmap {
	return &Bitmap{bits: roaring.And(b.bits, other.bits), size: maxSize(b, other)}
}

// Or returns the bitwise OR of b and other.
func (b *Bitmap) Or(other *Bitmap) *Bitmap {
	return &Bitmap{bits: roaring.Or(b.bits, other.bits), size: maxSize(b, other)}
}

// Xor returns the bitwise XOR of b and other.
func (b *Bitmap) Xor(other *Bitmap) *Bitmap {
	return &Bitmap{bits: roaring.Xor(b.bits, other.bits), size: maxSize(b, other)}
}

// AndNot returns b with every bit set in other cleared ("SUB" in
// spec terms).
func (b *Bitmap) AndNot(other *Bitmap) *Bitmap {
	return &Bitmap{bits: roaring.AndNot(b.bits, other.bits), size: b.size}
}

// Not returns the complement of b over its own size (not the union
// size with any other bitmap); positions beyond Size() are never
// considered set.
func (b *Bitmap) Not() *Bitmap {
	out := roaring.NewBitmap()
	if b.size > 0 {
		full := roaring.New()
		full.AddRange(0, b.size)
		out = roaring.AndNot(full, b.bits)
	}
	return &Bitmap{bits: out, size: b.size}
}

// All reports whether every appended position holds bit v. An empty
// bitmap trivially satisfies All(false) and All(true).
func (b *Bitmap) All(v bool) bool {
	if b.size == 0 {
		return true
	}
	card := uint64(b.bits.GetCardinality())
	if v {
		return card == b.size
	}
	return card == 0
}

// Cardinality returns the number of set bits.
func (b *Bitmap) Cardinality() uint64 {
	return uint64(b.bits.GetCardinality())
}

// Positions returns the sorted list of set bit positions.
func (b *Bitmap) Positions() []uint64 {
	card := b.bits.GetCardinality()
	out := make([]uint64, 0, card)
	it := b.bits.Iterator()
	for it.HasNext() {
		out = append(out, uint64(it.Next()))
	}
	return out
}

// ForEach calls fn for every set bit position in ascending order,
// stopping early if fn returns false.
func (b *Bitmap) ForEach(fn func(pos uint64) bool) {
	it := b.bits.Iterator()
	for it.HasNext() {
		if !fn(uint64(it.Next())) {
			return
		}
	}
}

// MarshalBinary serializes the bitmap. The format is a fixed 8-byte
// little-endian size prefix followed by the roaring container's own
// portable encoding, so two bitmaps that compare equal always produce
// byte-identical output, which on-disk column and segment persistence
// depends on for round-tripping.
func (b *Bitmap) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	var sizeBytes [8]byte
	putUint64(sizeBytes[:], b.size)
	buf.Write(sizeBytes[:])
	if _, err := b.bits.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("bitmap: marshal: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary is the inverse of MarshalBinary.
func (b *Bitmap) UnmarshalBinary(data []byte) error {
	if len(data) < 8 {
		return fmt.Errorf("bitmap: short buffer (%d bytes)", len(data))
	}
	size := getUint64(data[:8])
	rb := roaring.NewBitmap()
	if _, err := rb.ReadFrom(bytes.NewReader(data[8:])); err != nil {
		return fmt.Errorf("bitmap: unmarshal: %w", err)
	}
	b.size = size
	b.bits = rb
	return nil
}

func putUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * uint(i)))
	}
}

func getUint64(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(b[i]) << (8 * uint(i))
	}
	return v
}
