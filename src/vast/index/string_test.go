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

func mustAppend(t *testing.T, s *String, x vdata.Data) {
	t.Helper()
	require.NoError(t, s.Append(x))
}

func TestStringEquality(t *testing.T) {
	s := NewString(64)
	mustAppend(t, s, vdata.String("foo"))
	mustAppend(t, s, vdata.String("bar"))
	mustAppend(t, s, vdata.String("foo"))
	mustAppend(t, s, vdata.String("foobar"))

	eq, err := s.Lookup(OpEqual, vdata.String("foo"))
	require.NoError(t, err)
	require.Equal(t, []uint64{0, 2}, eq.Positions())

	neq, err := s.Lookup(OpNotEqual, vdata.String("foo"))
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 3}, neq.Positions())
}

func TestStringSubstring(t *testing.T) {
	s := NewString(64)
	mustAppend(t, s, vdata.String("evil.example.com"))
	mustAppend(t, s, vdata.String("benign.org"))
	mustAppend(t, s, vdata.String("www.evil.example.com"))

	ni, err := s.Lookup(OpNi, vdata.String("evil"))
	require.NoError(t, err)
	require.Equal(t, []uint64{0, 2}, ni.Positions())

	nni, err := s.Lookup(OpNni, vdata.String("evil"))
	require.NoError(t, err)
	require.Equal(t, []uint64{1}, nni.Positions())
}

func TestStringEmptyQuery(t *testing.T) {
	s := NewString(64)
	mustAppend(t, s, vdata.String(""))
	mustAppend(t, s, vdata.String("x"))

	eq, err := s.Lookup(OpEqual, vdata.String(""))
	require.NoError(t, err)
	require.Equal(t, []uint64{0}, eq.Positions())
}

func TestStringNilHandling(t *testing.T) {
	w := NewWrapper(NewString(64))
	require.NoError(t, w.Append(vdata.String("a")))
	require.NoError(t, w.Append(vdata.Nil{}))
	require.NoError(t, w.Append(vdata.String("a")))

	eq, err := w.Lookup(OpEqual, vdata.String("a"))
	require.NoError(t, err)
	require.Equal(t, []uint64{0, 2}, eq.Positions())

	isNil, err := w.Lookup(OpEqual, vdata.Nil{})
	require.NoError(t, err)
	require.Equal(t, []uint64{1}, isNil.Positions())
}
