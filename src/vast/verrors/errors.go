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

// Package verrors defines the typed error kinds surfaced across the
// core. Errors are values, never panics; the core reserves panics for
// invariants it must itself maintain.
package verrors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies an Error for callers that need to branch on it
// (e.g. the scheduler discarding a query vs. retrying an I/O error).
type Kind int

// Error kinds.
const (
	Unspecified Kind = iota
	TypeClash
	UnsupportedOperator
	ParseError
	IOError
	FormatError
	InvalidArgument
)

func (k Kind) String() string {
	switch k {
	case TypeClash:
		return "type_clash"
	case UnsupportedOperator:
		return "unsupported_operator"
	case ParseError:
		return "parse_error"
	case IOError:
		return "io_error"
	case FormatError:
		return "format_error"
	case InvalidArgument:
		return "invalid_argument"
	default:
		return "unspecified"
	}
}

// Error is a typed, wrapped error. The wrapped cause retains its
// pkg/errors stack trace when one was attached with New or Wrap.
type Error struct {
	Kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.msg, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.msg)
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.err
}

// New constructs a bare typed error with a stack trace attached.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, msg: msg, err: errors.New(msg)}
}

// Wrap attaches kind and msg to an existing cause, preserving it for
// Unwrap and keeping a stack trace via pkg/errors.
func Wrap(kind Kind, cause error, msg string) *Error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, msg: msg, err: errors.Wrap(cause, msg)}
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}
