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
	"time"

	"github.com/vast-io/vast/src/vast/bitmap"
	"github.com/vast-io/vast/src/vast/coder"
	"github.com/vast-io/vast/src/vast/vdata"
	"github.com/vast-io/vast/src/vast/verrors"
)

// Arithmetic indexes bool, int, count, real, timespan, and timestamp
// columns over a single range coder, with a type-appropriate default
// binner: decimal_9 for time (folding nanoseconds to seconds) and
// precision_10 for real (dropping the low 10 decimal digits before
// coding, since real equality is otherwise nearly always false).
type Arithmetic struct {
	kind   arithmeticKind
	binner coder.Binner
	rc     *coder.Range
}

type arithmeticKind int

// Kinds of arithmetic index, selecting how Data is projected to int64.
const (
	ArithBool arithmeticKind = iota
	ArithInt
	ArithCount
	ArithReal
	ArithTimespan
	ArithTimestamp
)

// NewArithmetic returns an arithmetic index of the given kind with
// the spec-mandated default binner.
func NewArithmetic(kind arithmeticKind) *Arithmetic {
	var b coder.Binner = coder.Identity{}
	switch kind {
	case ArithReal:
		b = coder.Precision{P: 10}
	case ArithTimespan, ArithTimestamp:
		b = coder.Decimal{P: 9}
	}
	return &Arithmetic{kind: kind, binner: b, rc: coder.NewRange()}
}

func (a *Arithmetic) toInt64(x vdata.Data) (int64, error) {
	switch a.kind {
	case ArithBool:
		v, ok := x.(vdata.Bool)
		if !ok {
			return 0, verrors.New(verrors.TypeClash, "expected bool")
		}
		if v {
			return 1, nil
		}
		return 0, nil
	case ArithInt:
		v, ok := x.(vdata.Int)
		if !ok {
			return 0, verrors.New(verrors.TypeClash, "expected int")
		}
		return int64(v), nil
	case ArithCount:
		v, ok := x.(vdata.Count)
		if !ok {
			return 0, verrors.New(verrors.TypeClash, "expected count")
		}
		return int64(v), nil
	case ArithReal:
		v, ok := x.(vdata.Real)
		if !ok {
			return 0, verrors.New(verrors.TypeClash, "expected real")
		}
		return coder.FloatBits(float64(v)), nil
	case ArithTimespan:
		v, ok := x.(vdata.Timespan)
		if !ok {
			return 0, verrors.New(verrors.TypeClash, "expected timespan")
		}
		return int64(v), nil
	case ArithTimestamp:
		v, ok := x.(vdata.Timestamp)
		if !ok {
			return 0, verrors.New(verrors.TypeClash, "expected timestamp")
		}
		return time.Time(v).UnixNano(), nil
	default:
		return 0, verrors.New(verrors.TypeClash, "unknown arithmetic kind")
	}
}

// Append implements Concrete.
func (a *Arithmetic) Append(x vdata.Data) error {
	if _, ok := x.(vdata.Nil); ok {
		a.rc.Append(0)
		return nil
	}
	v, err := a.toInt64(x)
	if err != nil {
		return err
	}
	a.rc.Append(a.binner.Bin(v))
	return nil
}

// Offset implements Concrete.
func (a *Arithmetic) Offset() uint64 {
	return a.rc.Offset()
}

func toCoderOp(op Op) (coder.Op, bool) {
	switch op {
	case OpEqual:
		return coder.OpEqual, true
	case OpNotEqual:
		return coder.OpNotEqual, true
	case OpLess:
		return coder.OpLess, true
	case OpLessEqual:
		return coder.OpLessEqual, true
	case OpGreater:
		return coder.OpGreater, true
	case OpGreaterEqual:
		return coder.OpGreaterEqual, true
	default:
		return 0, false
	}
}

// Lookup implements Concrete. In/NotIn decompose into an OR of
// equality lookups over the container elements.
func (a *Arithmetic) Lookup(op Op, x vdata.Data) (*bitmap.Bitmap, error) {
	if op == OpIn || op == OpNotIn {
		return a.lookupContainer(op, x)
	}
	cop, ok := toCoderOp(op)
	if !ok {
		return nil, verrors.New(verrors.UnsupportedOperator, "arithmetic index: "+op.String())
	}
	v, err := a.toInt64(x)
	if err != nil {
		return nil, err
	}
	return a.rc.Lookup(cop, a.binner.Bin(v))
}

func (a *Arithmetic) lookupContainer(op Op, x vdata.Data) (*bitmap.Bitmap, error) {
	var elems []vdata.Data
	switch v := x.(type) {
	case vdata.Vector:
		elems = v
	case vdata.Set:
		elems = v
	default:
		return nil, verrors.New(verrors.TypeClash, "in/!in expects a container")
	}
	result := emptySized(a.Offset())
	for _, e := range elems {
		eq, err := a.Lookup(OpEqual, e)
		if err != nil {
			return nil, err
		}
		result = result.Or(eq)
	}
	if op == OpNotIn {
		return result.Not(), nil
	}
	return result, nil
}

func emptySized(n uint64) *bitmap.Bitmap {
	b := bitmap.New()
	b.AppendBits(false, n)
	return b
}
