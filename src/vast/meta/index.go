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

package meta

import (
	"sort"
	"sync"

	"github.com/pborman/uuid"

	"github.com/vast-io/vast/src/vast/expr"
	"github.com/vast-io/vast/src/vast/vdata"
	"github.com/vast-io/vast/src/vast/vtype"
)

type partitionMeta struct {
	layout   vtype.Type
	synopses map[string]Synopsis
}

// Index maps partition_id -> layout -> column synopses and answers
// lookup(expression) with a pruned, deduplicated, sorted candidate
// list.
type Index struct {
	mu         sync.RWMutex
	factory    SynopsisFactory
	partitions map[string]*partitionMeta
	order      []uuid.UUID // insertion order, for stable output
}

// New returns an empty meta index using factory to build per-column
// synopses. A nil factory defaults to DefaultFactory.
func New(factory SynopsisFactory) *Index {
	if factory == nil {
		factory = DefaultFactory
	}
	return &Index{factory: factory, partitions: make(map[string]*partitionMeta)}
}

// Register declares a partition's layout so future Add calls know
// which columns to synthesize synopses for.
func (idx *Index) Register(id uuid.UUID, layout vtype.Type) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if _, ok := idx.partitions[id.String()]; ok {
		return
	}
	idx.partitions[id.String()] = &partitionMeta{layout: layout, synopses: make(map[string]Synopsis)}
	idx.order = append(idx.order, id)
}

// Add feeds an incoming value to partition id's column synopsis,
// lazily constructing it from the factory on first use.
func (idx *Index) Add(id uuid.UUID, column string, value vdata.Data) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	p, ok := idx.partitions[id.String()]
	if !ok {
		return
	}
	s, ok := p.synopses[column]
	if !ok {
		field := fieldType(p.layout, column)
		s, ok = idx.factory(field)
		if !ok {
			return
		}
		p.synopses[column] = s
	}
	s.Add(value)
}

func fieldType(layout vtype.Type, column string) vtype.Type {
	for _, f := range layout.Flatten() {
		if f.Name == column {
			return f.Type
		}
	}
	return vtype.NewSimple(vtype.KindNone)
}

// Lookup walks e's AST and returns the sorted, deduplicated set of
// partition UUIDs that could possibly satisfy it.
func (idx *Index) Lookup(e expr.Node) []uuid.UUID {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	all := idx.allIDs()
	set := idx.evaluate(e, all)
	return sortedUUIDs(set)
}

func (idx *Index) allIDs() map[string]uuid.UUID {
	out := make(map[string]uuid.UUID, len(idx.order))
	for _, id := range idx.order {
		out[id.String()] = id
	}
	return out
}

func (idx *Index) evaluate(n expr.Node, all map[string]uuid.UUID) map[string]uuid.UUID {
	switch v := n.(type) {
	case expr.Negation:
		// Synopses can't safely support negation: any partition might
		// hold a row satisfying the negated predicate.
		return all
	case expr.Conjunction:
		if len(v.Children) == 0 {
			return all
		}
		result := idx.evaluate(v.Children[0], all)
		for _, c := range v.Children[1:] {
			result = intersect(result, idx.evaluate(c, all))
			if len(result) == 0 {
				return result
			}
		}
		return result
	case expr.Disjunction:
		result := make(map[string]uuid.UUID)
		for _, c := range v.Children {
			for k, id := range idx.evaluate(c, all) {
				result[k] = id
			}
			if len(result) == len(all) {
				return result
			}
		}
		return result
	case expr.Predicate:
		return idx.evaluatePredicate(v, all)
	default:
		return all
	}
}

func (idx *Index) evaluatePredicate(p expr.Predicate, all map[string]uuid.UUID) map[string]uuid.UUID {
	anySynopsis := false
	candidates := make(map[string]uuid.UUID)
	for key, id := range all {
		part := idx.partitions[key]
		if part == nil {
			continue
		}
		for _, col := range p.MatchingColumns(part.layout) {
			s, ok := part.synopses[col]
			if !ok {
				continue
			}
			anySynopsis = true
			if s.Lookup(p.Op, p.Data) {
				candidates[key] = id
				break
			}
		}
	}
	if !anySynopsis {
		return all
	}
	return candidates
}

func intersect(a, b map[string]uuid.UUID) map[string]uuid.UUID {
	out := make(map[string]uuid.UUID)
	for k, id := range a {
		if _, ok := b[k]; ok {
			out[k] = id
		}
	}
	return out
}

func sortedUUIDs(m map[string]uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(m))
	for _, id := range m {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}
