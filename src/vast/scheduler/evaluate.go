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

package scheduler

import (
	"github.com/vast-io/vast/src/vast/bitmap"
	"github.com/vast-io/vast/src/vast/expr"
	"github.com/vast-io/vast/src/vast/verrors"
)

// evaluate answers an expression against one partition's resolved
// column indexers: a predicate's truth set is the OR of its matching
// columns' individual lookups (an indexer whose column the predicate
// doesn't resolve to contributes nothing); conjunction is AND,
// disjunction is OR, negation is the partition's universe minus the
// child's result.
func evaluate(n expr.Node, cols partitionColumns) (*bitmap.Bitmap, error) {
	switch v := n.(type) {
	case expr.Predicate:
		return evaluatePredicate(v, cols)
	case expr.Conjunction:
		if len(v.Children) == 0 {
			return cols.universe.Clone(), nil
		}
		result, err := evaluate(v.Children[0], cols)
		if err != nil {
			return nil, err
		}
		for _, c := range v.Children[1:] {
			next, err := evaluate(c, cols)
			if err != nil {
				return nil, err
			}
			result = result.And(next)
		}
		return result, nil
	case expr.Disjunction:
		result := emptySized(cols.universe.Size())
		for _, c := range v.Children {
			next, err := evaluate(c, cols)
			if err != nil {
				return nil, err
			}
			result = result.Or(next)
		}
		return result, nil
	case expr.Negation:
		child, err := evaluate(v.Child, cols)
		if err != nil {
			return nil, err
		}
		return cols.universe.AndNot(child), nil
	default:
		return nil, verrors.New(verrors.UnsupportedOperator, "unknown expression node kind")
	}
}

func evaluatePredicate(p expr.Predicate, cols partitionColumns) (*bitmap.Bitmap, error) {
	result := emptySized(cols.universe.Size())
	for _, name := range p.MatchingColumns(cols.layout) {
		idx, ok := cols.indexers[name]
		if !ok {
			continue
		}
		got, err := idx.Lookup(p.Op, p.Data)
		if err != nil {
			// An operator unsupported by this column's index kind
			// contributes no matches rather than failing the whole
			// query; other matching columns (or other predicates) may
			// still answer it.
			continue
		}
		result = result.Or(got)
	}
	return result, nil
}

func emptySized(n uint64) *bitmap.Bitmap {
	b := bitmap.New()
	b.AppendBits(false, n)
	return b
}
