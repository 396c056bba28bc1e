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

// Package expr implements the boolean predicate AST that drives
// lookups across the meta index and the query scheduler: predicate |
// conjunction | disjunction | negation, with a normalization pass that
// pushes negations to the leaves and canonicalizes every predicate to
// extractor-op-literal form.
package expr

import (
	"fmt"

	"github.com/vast-io/vast/src/vast/index"
	"github.com/vast-io/vast/src/vast/vdata"
	"github.com/vast-io/vast/src/vast/vtype"
)

// Node is one term of the expression AST.
type Node interface {
	isNode()
}

// Extractor names the column(s) a predicate's non-literal side
// resolves to.
type Extractor interface {
	isExtractor()
	String() string
}

// AttributeExtractor resolves by a well-known semantic attribute. The
// only attribute currently defined is "time", matching every column
// whose type is a timestamp.
type AttributeExtractor struct {
	Name string
}

func (AttributeExtractor) isExtractor()    {}
func (a AttributeExtractor) String() string { return "#" + a.Name }

// KeyExtractor resolves to every column whose flattened name ends
// with Suffix (e.g. "src_ip" matches "conn.src_ip").
type KeyExtractor struct {
	Suffix string
}

func (KeyExtractor) isExtractor()    {}
func (k KeyExtractor) String() string { return k.Suffix }

// TypeExtractor resolves to every column whose type is congruent to
// Type.
type TypeExtractor struct {
	Type vtype.Type
}

func (TypeExtractor) isExtractor()    {}
func (t TypeExtractor) String() string { return ":" + t.Type.Name() }

// Predicate is a leaf comparing an extractor's resolved column(s)
// against a literal. Op and Data are always stored in
// extractor-op-literal orientation once Normalize has run; before
// that, Swapped records that the caller wrote `data op extractor`.
type Predicate struct {
	Extractor Extractor
	Op        index.Op
	Data      vdata.Data
	Swapped   bool
}

func (Predicate) isNode() {}

// Conjunction is the logical AND of its children.
type Conjunction struct {
	Children []Node
}

func (Conjunction) isNode() {}

// Disjunction is the logical OR of its children.
type Disjunction struct {
	Children []Node
}

func (Disjunction) isNode() {}

// Negation is the logical NOT of its child.
type Negation struct {
	Child Node
}

func (Negation) isNode() {}

// MatchingColumns returns the flattened field names of layout that
// the predicate's extractor resolves to.
func (p Predicate) MatchingColumns(layout vtype.Type) []string {
	fields := layout.Flatten()
	var names []string
	switch e := p.Extractor.(type) {
	case AttributeExtractor:
		if e.Name != "time" {
			return nil
		}
		for _, f := range fields {
			if f.Type.Underlying().Kind() == vtype.KindTimestamp {
				names = append(names, f.Name)
			}
		}
	case KeyExtractor:
		for _, f := range fields {
			if hasSuffix(f.Name, e.Suffix) {
				names = append(names, f.Name)
			}
		}
	case TypeExtractor:
		for _, f := range fields {
			if f.Type.Congruent(e.Type) {
				names = append(names, f.Name)
			}
		}
	}
	return names
}

func hasSuffix(s, suffix string) bool {
	if len(suffix) > len(s) {
		return false
	}
	return s[len(s)-len(suffix):] == suffix
}

func (p Predicate) String() string {
	if p.Swapped {
		return fmt.Sprintf("%v %s %v", p.Data, p.Op, p.Extractor)
	}
	return fmt.Sprintf("%v %s %v", p.Extractor, p.Op, p.Data)
}
