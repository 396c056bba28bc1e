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

import "github.com/vast-io/vast/src/vast/index"

// Normalize applies a three-step normalization: push negations to the
// leaves (De Morgan), canonicalize every predicate to extractor-left
// form, then fold nested conjunctions/disjunctions and drop duplicate
// operands.
func Normalize(n Node) Node {
	return fold(canonicalize(pushNegations(n)))
}

// pushNegations eliminates every Negation wrapping a compound node,
// leaving negation only as a per-predicate operator flip.
func pushNegations(n Node) Node {
	switch v := n.(type) {
	case Negation:
		switch c := v.Child.(type) {
		case Negation:
			return pushNegations(c.Child)
		case Conjunction:
			children := make([]Node, len(c.Children))
			for i, ch := range c.Children {
				children[i] = pushNegations(Negation{Child: ch})
			}
			return Disjunction{Children: children}
		case Disjunction:
			children := make([]Node, len(c.Children))
			for i, ch := range c.Children {
				children[i] = pushNegations(Negation{Child: ch})
			}
			return Conjunction{Children: children}
		case Predicate:
			return negatePredicate(c)
		default:
			return v
		}
	case Conjunction:
		children := make([]Node, len(v.Children))
		for i, ch := range v.Children {
			children[i] = pushNegations(ch)
		}
		return Conjunction{Children: children}
	case Disjunction:
		children := make([]Node, len(v.Children))
		for i, ch := range v.Children {
			children[i] = pushNegations(ch)
		}
		return Disjunction{Children: children}
	default:
		return n
	}
}

func negatePredicate(p Predicate) Predicate {
	p.Op = negatedOp(p.Op)
	return p
}

func negatedOp(op index.Op) index.Op {
	switch op {
	case index.OpEqual:
		return index.OpNotEqual
	case index.OpNotEqual:
		return index.OpEqual
	case index.OpLess:
		return index.OpGreaterEqual
	case index.OpLessEqual:
		return index.OpGreater
	case index.OpGreater:
		return index.OpLessEqual
	case index.OpGreaterEqual:
		return index.OpLess
	case index.OpIn:
		return index.OpNotIn
	case index.OpNotIn:
		return index.OpIn
	case index.OpNi:
		return index.OpNni
	case index.OpNni:
		return index.OpNi
	case index.OpMatch:
		return index.OpNotMatch
	case index.OpNotMatch:
		return index.OpMatch
	default:
		return op
	}
}

// mirroredOp flips an operator's sense when the extractor and literal
// swap sides (`< ↔ >`, `≤ ↔ ≥`, `in ↔ ni`); ==/!= are symmetric.
func mirroredOp(op index.Op) index.Op {
	switch op {
	case index.OpLess:
		return index.OpGreater
	case index.OpGreater:
		return index.OpLess
	case index.OpLessEqual:
		return index.OpGreaterEqual
	case index.OpGreaterEqual:
		return index.OpLessEqual
	case index.OpIn:
		return index.OpNi
	case index.OpNi:
		return index.OpIn
	case index.OpNotIn:
		return index.OpNni
	case index.OpNni:
		return index.OpNotIn
	default:
		return op
	}
}

// canonicalize places the extractor on the left of every predicate.
func canonicalize(n Node) Node {
	switch v := n.(type) {
	case Predicate:
		if !v.Swapped {
			return v
		}
		v.Op = mirroredOp(v.Op)
		v.Swapped = false
		return v
	case Conjunction:
		children := make([]Node, len(v.Children))
		for i, ch := range v.Children {
			children[i] = canonicalize(ch)
		}
		return Conjunction{Children: children}
	case Disjunction:
		children := make([]Node, len(v.Children))
		for i, ch := range v.Children {
			children[i] = canonicalize(ch)
		}
		return Disjunction{Children: children}
	case Negation:
		return Negation{Child: canonicalize(v.Child)}
	default:
		return n
	}
}

// fold flattens nested conjunctions/disjunctions of the same kind and
// drops duplicate operands (compared structurally via their string
// form, which is stable once canonicalized).
func fold(n Node) Node {
	switch v := n.(type) {
	case Conjunction:
		return Conjunction{Children: foldChildren(v.Children, true)}
	case Disjunction:
		return Disjunction{Children: foldChildren(v.Children, false)}
	case Negation:
		return Negation{Child: fold(v.Child)}
	default:
		return n
	}
}

func foldChildren(children []Node, conjunction bool) []Node {
	var flat []Node
	for _, ch := range children {
		ch = fold(ch)
		switch c := ch.(type) {
		case Conjunction:
			if conjunction {
				flat = append(flat, c.Children...)
				continue
			}
		case Disjunction:
			if !conjunction {
				flat = append(flat, c.Children...)
				continue
			}
		}
		flat = append(flat, ch)
	}
	seen := make(map[string]bool, len(flat))
	deduped := flat[:0]
	for _, ch := range flat {
		key := key(ch)
		if seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, ch)
	}
	return deduped
}

func key(n Node) string {
	if p, ok := n.(Predicate); ok {
		return p.String()
	}
	return nodeString(n)
}

func nodeString(n Node) string {
	switch v := n.(type) {
	case Predicate:
		return v.String()
	case Conjunction:
		s := "and("
		for i, c := range v.Children {
			if i > 0 {
				s += ","
			}
			s += nodeString(c)
		}
		return s + ")"
	case Disjunction:
		s := "or("
		for i, c := range v.Children {
			if i > 0 {
				s += ","
			}
			s += nodeString(c)
		}
		return s + ")"
	case Negation:
		return "not(" + nodeString(v.Child) + ")"
	default:
		return ""
	}
}
