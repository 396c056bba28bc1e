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

// Package index implements per-column value indexes over
// bitmap-backed coders: one concrete index kind per vtype.Kind that
// supports indexing, sharing bookkeeping (mask_/none_) through a
// common wrapper rather than an inheritance hierarchy. Dispatch across
// concrete kinds happens through a single tagged-variant switch rather
// than a virtual table.
package index

import (
	"github.com/vast-io/vast/src/vast/bitmap"
	"github.com/vast-io/vast/src/vast/vdata"
)

// Op is the relational/set operator a predicate applies to an index.
type Op int

const (
	OpEqual Op = iota
	OpNotEqual
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual
	OpIn
	OpNotIn
	OpNi  // substring / containment ("ni": needle-in)
	OpNni // negated ni
	OpMatch
	OpNotMatch
)

func (o Op) String() string {
	names := [...]string{"=", "!=", "<", "<=", ">", ">=", "in", "!in", "ni", "!ni", "~", "!~"}
	if int(o) < len(names) {
		return names[o]
	}
	return "?"
}

// Concrete implements the per-kind append/lookup logic that Wrapper
// delegates to. Every concrete index kind (arithmetic, string,
// address, subnet, port, sequence) implements this.
type Concrete interface {
	// Append appends x at the next position.
	Append(x vdata.Data) error
	// Offset is the number of non-nil-tracking appends made so far
	// (equal to the owning Wrapper's offset; concrete indexes never
	// track nil themselves).
	Offset() uint64
	// Lookup returns positions where the stored value satisfies
	// `value op x`, before nil filtering.
	Lookup(op Op, x vdata.Data) (*bitmap.Bitmap, error)
}

// Index is the public value-index surface every value index in the
// system exposes.
type Index interface {
	// Append appends x at offset().
	Append(x vdata.Data) error
	// AppendAt appends x at pos >= offset(); intermediate positions
	// become implicitly nil.
	AppendAt(x vdata.Data, pos uint64) error
	// Lookup returns IDs matching `x op value`, with nil filtering
	// already applied.
	Lookup(op Op, x vdata.Data) (*bitmap.Bitmap, error)
	// Offset is the smallest ID not yet written.
	Offset() uint64
}
