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
	"github.com/vast-io/vast/src/vast/vtype"
)

// Make constructs the value index appropriate for t, wrapped in the
// universal mask_/none_ Wrapper, or reports ok=false for kinds that
// carry no index (none, pattern, map, record, alias to an unsupported
// kind).
func Make(t vtype.Type) (*Wrapper, bool) {
	if c, ok := makeConcrete(t); ok {
		return NewWrapper(c), true
	}
	return nil, false
}

func makeConcrete(t vtype.Type) (Concrete, bool) {
	u := t.Underlying()
	switch u.Kind() {
	case vtype.KindBool:
		return NewArithmetic(ArithBool), true
	case vtype.KindInt:
		return NewArithmetic(ArithInt), true
	case vtype.KindCount:
		return NewArithmetic(ArithCount), true
	case vtype.KindReal:
		return NewArithmetic(ArithReal), true
	case vtype.KindTimespan:
		return NewArithmetic(ArithTimespan), true
	case vtype.KindTimestamp:
		return NewArithmetic(ArithTimestamp), true
	case vtype.KindString:
		return NewString(u.MaxLength()), true
	case vtype.KindAddress:
		return NewAddress(), true
	case vtype.KindSubnet:
		return NewSubnet(), true
	case vtype.KindPort:
		return NewPort(), true
	case vtype.KindEnumeration:
		return NewArithmetic(ArithCount), true
	case vtype.KindVector, vtype.KindSet:
		elem, ok := u.Elem()
		if !ok {
			return nil, false
		}
		if _, ok := makeConcrete(elem); !ok {
			return nil, false
		}
		return NewSequence(u.MaxSize(), func() Concrete {
			c, _ := makeConcrete(elem)
			return c
		}), true
	default:
		// none, pattern, map, record: no index. Callers skip indexing
		// such columns at ingest time.
		return nil, false
	}
}
