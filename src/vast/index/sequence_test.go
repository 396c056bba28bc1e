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
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vast-io/vast/src/vast/vdata"
)

func TestSequenceContainment(t *testing.T) {
	s := NewSequence(8, func() Concrete { return NewArithmetic(ArithCount) })
	require.NoError(t, s.Append(vdata.Vector{vdata.Count(1), vdata.Count(2), vdata.Count(3)}))
	require.NoError(t, s.Append(vdata.Vector{vdata.Count(4), vdata.Count(5)}))
	require.NoError(t, s.Append(vdata.Vector{}))

	ni, err := s.Lookup(OpNi, vdata.Count(2))
	require.NoError(t, err)
	require.Equal(t, []uint64{0}, ni.Positions())

	nni, err := s.Lookup(OpNni, vdata.Count(2))
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 2}, nni.Positions())
}

func TestSequenceGrowingLengthAlignsLazyElement(t *testing.T) {
	s := NewSequence(8, func() Concrete { return NewArithmetic(ArithCount) })
	require.NoError(t, s.Append(vdata.Vector{vdata.Count(1)}))
	require.NoError(t, s.Append(vdata.Vector{vdata.Count(2), vdata.Count(3)}))

	// elements[1] is created lazily by the second row and must reserve
	// a nil position for row 0 before its own first real append, or its
	// lookups land in the wrong row.
	ni, err := s.Lookup(OpNi, vdata.Count(3))
	require.NoError(t, err)
	require.Equal(t, []uint64{1}, ni.Positions())

	ni, err = s.Lookup(OpNi, vdata.Count(1))
	require.NoError(t, err)
	require.Equal(t, []uint64{0}, ni.Positions())
}

func TestSequenceUnsupportedOperator(t *testing.T) {
	s := NewSequence(8, func() Concrete { return NewArithmetic(ArithCount) })
	require.NoError(t, s.Append(vdata.Vector{vdata.Count(1)}))
	_, err := s.Lookup(OpEqual, vdata.Count(1))
	require.Error(t, err)
}
