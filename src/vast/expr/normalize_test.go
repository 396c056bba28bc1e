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

package expr

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vast-io/vast/src/vast/index"
	"github.com/vast-io/vast/src/vast/vdata"
)

func TestNormalizePushesNegationThroughConjunction(t *testing.T) {
	p1 := Predicate{Extractor: KeyExtractor{Suffix: "port"}, Op: index.OpEqual, Data: vdata.Count(80)}
	p2 := Predicate{Extractor: KeyExtractor{Suffix: "proto"}, Op: index.OpEqual, Data: vdata.String("tcp")}
	n := Negation{Child: Conjunction{Children: []Node{p1, p2}}}

	got := Normalize(n).(Disjunction)
	require.Len(t, got.Children, 2)
	require.Equal(t, index.OpNotEqual, got.Children[0].(Predicate).Op)
	require.Equal(t, index.OpNotEqual, got.Children[1].(Predicate).Op)
}

func TestNormalizeCanonicalizesSwappedPredicate(t *testing.T) {
	p := Predicate{Extractor: KeyExtractor{Suffix: "port"}, Op: index.OpLess, Data: vdata.Count(80), Swapped: true}
	got := Normalize(p).(Predicate)
	require.False(t, got.Swapped)
	require.Equal(t, index.OpGreater, got.Op)
}

func TestNormalizeFoldsAndDedupes(t *testing.T) {
	p1 := Predicate{Extractor: KeyExtractor{Suffix: "port"}, Op: index.OpEqual, Data: vdata.Count(80)}
	inner := Conjunction{Children: []Node{p1, p1}}
	outer := Conjunction{Children: []Node{inner, p1}}

	got := Normalize(outer).(Conjunction)
	require.Len(t, got.Children, 1)
}

func TestMatchingColumnsByAttribute(t *testing.T) {
	layout := timestampLayout(t)
	p := Predicate{Extractor: AttributeExtractor{Name: "time"}, Op: index.OpGreater, Data: nil}
	require.Equal(t, []string{"ts"}, p.MatchingColumns(layout))
}
