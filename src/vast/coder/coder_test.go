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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSingletonCoder(t *testing.T) {
	s := NewSingleton(1) // true == 1
	for _, v := range []int64{1, 0, 1, 1, 0} {
		s.Append(v)
	}
	eq, err := s.Lookup(OpEqual, 1)
	require.NoError(t, err)
	require.Equal(t, []uint64{0, 2, 3}, eq.Positions())

	neq, err := s.Lookup(OpNotEqual, 1)
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 4}, neq.Positions())
}

func TestEqualityCoder(t *testing.T) {
	e := NewEquality()
	for _, v := range []int64{6, 17, 6, 1, 17} {
		e.Append(v)
	}
	got, err := e.Lookup(OpEqual, 17)
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 4}, got.Positions())

	none, err := e.Lookup(OpEqual, 99)
	require.NoError(t, err)
	require.Zero(t, none.Cardinality())
}

func TestRangeCoder(t *testing.T) {
	r := NewRange()
	for _, v := range []int64{22, 53, 80, 443, 8080} {
		r.Append(v)
	}
	gt, err := r.Lookup(OpGreater, 100)
	require.NoError(t, err)
	require.Equal(t, []uint64{3, 4}, gt.Positions())

	eq, err := r.Lookup(OpEqual, 53)
	require.NoError(t, err)
	require.Equal(t, []uint64{1}, eq.Positions())

	eqMissing, err := r.Lookup(OpEqual, 54)
	require.NoError(t, err)
	require.Zero(t, eqMissing.Cardinality())

	le, err := r.Lookup(OpLessEqual, 80)
	require.NoError(t, err)
	require.Equal(t, []uint64{0, 1, 2}, le.Positions())

	lt, err := r.Lookup(OpLess, 80)
	require.NoError(t, err)
	require.Equal(t, []uint64{0, 1}, lt.Positions())

	ge, err := r.Lookup(OpGreaterEqual, 80)
	require.NoError(t, err)
	require.Equal(t, []uint64{2, 3, 4}, ge.Positions())
}

func TestBitsliceCoder(t *testing.T) {
	b := NewBitslice(8)
	for _, v := range []int64{0x2A, 0xFF, 0x2A, 0x00} {
		b.Append(v)
	}
	eq, err := b.Lookup(OpEqual, 0x2A)
	require.NoError(t, err)
	require.Equal(t, []uint64{0, 2}, eq.Positions())

	neq, err := b.Lookup(OpNotEqual, 0x2A)
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 3}, neq.Positions())
}

func TestMultilevelDecimal(t *testing.T) {
	m := NewMultilevel([]int64{10, 10}, func() Coder { return NewRange() })
	for _, v := range []int64{7, 23, 42, 99, 0} {
		m.Append(v)
	}
	eq, err := m.Lookup(OpEqual, 42)
	require.NoError(t, err)
	require.Equal(t, []uint64{2}, eq.Positions())

	lt, err := m.Lookup(OpLess, 42)
	require.NoError(t, err)
	require.Equal(t, []uint64{0, 1, 4}, lt.Positions())

	gt, err := m.Lookup(OpGreater, 42)
	require.NoError(t, err)
	require.Equal(t, []uint64{3}, gt.Positions())

	le, err := m.Lookup(OpLessEqual, 42)
	require.NoError(t, err)
	require.Equal(t, []uint64{0, 1, 2, 4}, le.Positions())
}

func TestPrecisionBinner(t *testing.T) {
	p := Precision{P: 2}
	require.EqualValues(t, 1200, p.Bin(1234))
	require.EqualValues(t, -1300, p.Bin(-1234))
}

func TestDecimalBinner(t *testing.T) {
	d := Decimal{P: 9}
	require.EqualValues(t, 1, d.Bin(1_500_000_000))
	require.EqualValues(t, 0, d.Bin(999_999_999))
}
