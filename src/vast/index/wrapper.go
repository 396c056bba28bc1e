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
	"github.com/vast-io/vast/src/vast/bitmap"
	"github.com/vast-io/vast/src/vast/vdata"
	"github.com/vast-io/vast/src/vast/verrors"
)

// Wrapper is the universal shell every concrete value index is built
// through. It maintains mask_ (set at every appended position) and
// none_ (set at every appended nil position) and answers every
// lookup as (subclass_result - none_) & mask_, so nil participates in
// no operator except ==/!= nil, which are answered directly from
// none_.
type Wrapper struct {
	concrete Concrete
	mask     *bitmap.Bitmap
	none     *bitmap.Bitmap
}

// NewWrapper wraps a concrete index implementation.
func NewWrapper(c Concrete) *Wrapper {
	return &Wrapper{concrete: c, mask: bitmap.New(), none: bitmap.New()}
}

// Offset implements Index.
func (w *Wrapper) Offset() uint64 {
	return w.mask.Size()
}

// Mask returns the wrapper's bitmap of every appended position (nil
// positions included), exposed for
// callers (e.g. partition persistence) that need to serialize a
// coarse presence summary without walking the concrete index's own
// coder tree.
func (w *Wrapper) Mask() *bitmap.Bitmap {
	return w.mask
}

// Append implements Index.
func (w *Wrapper) Append(x vdata.Data) error {
	return w.AppendAt(x, w.Offset())
}

// AppendAt implements Index.
func (w *Wrapper) AppendAt(x vdata.Data, pos uint64) error {
	offset := w.Offset()
	if pos < offset {
		return verrors.New(verrors.InvalidArgument, "append with regressing ID")
	}
	// Positions in [offset, pos) are implicitly nil. The concrete index
	// has no notion of a gap, so it needs one reserved position per gap
	// slot too, or its own position count falls behind the wrapper's
	// and every subsequent lookup is misaligned.
	gap := pos - offset
	w.mask.AppendBits(true, gap)
	w.none.AppendBits(true, gap)
	for i := uint64(0); i < gap; i++ {
		if err := w.concrete.Append(vdata.Nil{}); err != nil {
			return err
		}
	}

	if _, isNil := x.(vdata.Nil); isNil {
		w.mask.AppendBit(true)
		w.none.AppendBit(true)
		// The concrete index still needs a position reserved so that
		// its own offset tracks the wrapper's; append its type's
		// zero value convention via a dedicated no-op path.
		return w.concrete.Append(vdata.Nil{})
	}

	if err := w.concrete.Append(x); err != nil {
		return err
	}
	w.mask.AppendBit(true)
	w.none.AppendBit(false)
	return nil
}

// Lookup implements Index.
func (w *Wrapper) Lookup(op Op, x vdata.Data) (*bitmap.Bitmap, error) {
	if _, isNil := x.(vdata.Nil); isNil {
		switch op {
		case OpEqual:
			return w.none.Clone(), nil
		case OpNotEqual:
			return w.none.Not(), nil
		default:
			return nil, verrors.New(verrors.UnsupportedOperator, "nil only supports ==/!=")
		}
	}

	result, err := w.concrete.Lookup(op, x)
	if err != nil {
		return nil, err
	}
	return result.AndNot(w.none).And(w.mask), nil
}
