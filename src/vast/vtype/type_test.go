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

package vtype

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCongruenceIgnoresNameAndAttributes(t *testing.T) {
	a := NewSimple(KindCount).Named("bytes").WithAttributes([]Attribute{{Key: "skip"}})
	b := NewSimple(KindCount)
	require.True(t, a.Congruent(b))
	require.False(t, a.Equal(b))
}

func TestFlattenNestedRecord(t *testing.T) {
	inner := NewRecord([]Field{
		{Name: "src", Type: NewSimple(KindAddress)},
		{Name: "dst", Type: NewSimple(KindAddress)},
	})
	rec := NewRecord([]Field{
		{Name: "conn", Type: inner},
		{Name: "duration", Type: NewSimple(KindTimespan)},
	})
	flat := rec.Flatten()
	names := make([]string, len(flat))
	for i, f := range flat {
		names[i] = f.Name
	}
	require.Equal(t, []string{"conn.src", "conn.dst", "duration"}, names)
}

func TestSkipAttribute(t *testing.T) {
	t1 := NewSimple(KindString)
	require.False(t, t1.Skip())
	t2 := t1.WithAttributes([]Attribute{{Key: "skip"}})
	require.True(t, t2.Skip())
}

func TestMaxLengthDefault(t *testing.T) {
	s := NewSimple(KindString)
	require.Equal(t, 1024, s.MaxLength())
	s2 := s.WithAttributes([]Attribute{{Key: "max_length", Value: "256"}})
	require.Equal(t, 256, s2.MaxLength())
}

func TestAliasUnderlying(t *testing.T) {
	base := NewSimple(KindCount)
	alias := NewAlias(base).Named("bytes_t")
	require.Equal(t, KindCount, alias.Underlying().Kind())
}
