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
	"fmt"

	"github.com/vast-io/vast/src/vast/bitmap"
)

// Op enumerates the relational operators a coder may be asked to
// evaluate. Not every coder supports every op; unsupported ops make
// Lookup return a non-nil "unsupported operator" error.
type Op int

// Relational operators a coder may answer directly.
const (
	OpEqual Op = iota
	OpNotEqual
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual
)

// Coder maps values of a discretized integer domain onto bit
// positions and answers relational lookups over the appended values.
type Coder interface {
	// Append records that the next position holds value v.
	Append(v int64)
	// Offset is the number of values appended so far.
	Offset() uint64
	// Lookup returns the bitmap of positions whose value satisfies
	// `value op v`.
	Lookup(op Op, v int64) (*bitmap.Bitmap, error)
}

// emptySized returns an all-zero bitmap with the given logical size.
func emptySized(n uint64) *bitmap.Bitmap {
	b := bitmap.New()
	b.AppendBits(false, n)
	return b
}

// fullSized returns an all-one bitmap with the given logical size.
func fullSized(n uint64) *bitmap.Bitmap {
	b := bitmap.New()
	b.AppendBits(true, n)
	return b
}

// unsupportedOpError formats a consistent error for a coder that
// cannot answer a given operator.
func unsupportedOpError(coder string, op Op) error {
	return fmt.Errorf("%s coder: unsupported operator %v", coder, op)
}
