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

// Package meta implements per-column synopses and the meta index that
// prunes partitions before a query reaches the scheduler.
package meta

import (
	"time"

	"github.com/m3db/bloom/v4"

	"github.com/vast-io/vast/src/vast/coder"
	"github.com/vast-io/vast/src/vast/index"
	"github.com/vast-io/vast/src/vast/vdata"
	"github.com/vast-io/vast/src/vast/vtype"
)

// Synopsis is a lossy summary of one column answering the same
// lookup(op, value) question a value index does, but is allowed false
// positives (never false negatives).
type Synopsis interface {
	Add(x vdata.Data)
	Lookup(op index.Op, x vdata.Data) bool
}

// SynopsisFactory constructs the synopsis kind appropriate for a
// column type, or reports ok=false if the kind carries none by
// default.
type SynopsisFactory func(t vtype.Type) (Synopsis, bool)

// DefaultFactory provides (min, max) synopses for ordered scalar
// kinds and Bloom filters for string/address kinds.
func DefaultFactory(t vtype.Type) (Synopsis, bool) {
	switch t.Underlying().Kind() {
	case vtype.KindTimestamp, vtype.KindInt, vtype.KindCount, vtype.KindReal, vtype.KindTimespan:
		return newMinMax(), true
	case vtype.KindString, vtype.KindAddress:
		return newBloomSynopsis(bloomExpectedElements, bloomFalsePositiveRate), true
	default:
		return nil, false
	}
}

func project(x vdata.Data) (int64, bool) {
	switch v := x.(type) {
	case vdata.Int:
		return int64(v), true
	case vdata.Count:
		return int64(v), true
	case vdata.Real:
		return coder.FloatBits(float64(v)), true
	case vdata.Timespan:
		return int64(v), true
	case vdata.Timestamp:
		return time.Time(v).UnixNano(), true
	default:
		return 0, false
	}
}

// minMax synopsis tracks the smallest and largest projected value
// seen, supporting every ordering operator plus equality.
type minMax struct {
	has      bool
	min, max int64
}

func newMinMax() *minMax {
	return &minMax{}
}

func (m *minMax) Add(x vdata.Data) {
	v, ok := project(x)
	if !ok {
		return
	}
	if !m.has {
		m.min, m.max, m.has = v, v, true
		return
	}
	if v < m.min {
		m.min = v
	}
	if v > m.max {
		m.max = v
	}
}

func (m *minMax) Lookup(op index.Op, x vdata.Data) bool {
	if !m.has {
		return false
	}
	v, ok := project(x)
	if !ok {
		return true // unknown literal kind: don't prune
	}
	switch op {
	case index.OpEqual:
		return v >= m.min && v <= m.max
	case index.OpNotEqual:
		return true // a range can always contain a non-matching value
	case index.OpLess:
		return v > m.min
	case index.OpLessEqual:
		return v >= m.min
	case index.OpGreater:
		return v < m.max
	case index.OpGreaterEqual:
		return v <= m.max
	default:
		return true // unsupported by this synopsis: don't prune
	}
}

const (
	// bloomExpectedElements sizes the filter for a column holding on
	// the order of a partition's worth of distinct string or address
	// values; a column that grows past this just sees its false
	// positive rate drift upward rather than losing correctness.
	bloomExpectedElements  = 65536
	bloomFalsePositiveRate = 0.01
)

// bloomSynopsis is a Bloom filter over the byte representation of
// string and address values.
type bloomSynopsis struct {
	filter *bloom.BloomFilter
}

func newBloomSynopsis(n uint, p float64) *bloomSynopsis {
	m, k := bloom.EstimateFalsePositiveRate(n, p)
	return &bloomSynopsis{filter: bloom.NewBloomFilter(m, k)}
}

func (b *bloomSynopsis) keyBytes(x vdata.Data) ([]byte, bool) {
	switch v := x.(type) {
	case vdata.String:
		return []byte(v), true
	case vdata.Address:
		addr := v.Addr.As16()
		return addr[:], true
	default:
		return nil, false
	}
}

func (b *bloomSynopsis) Add(x vdata.Data) {
	key, ok := b.keyBytes(x)
	if !ok {
		return
	}
	b.filter.Add(key)
}

func (b *bloomSynopsis) Lookup(op index.Op, x vdata.Data) bool {
	if op != index.OpEqual {
		// A Bloom filter over the set of distinct values a column has
		// held can only answer membership; not_equal, ordering, and
		// substring queries all get the conservative "don't prune"
		// answer.
		return true
	}
	key, ok := b.keyBytes(x)
	if !ok {
		return true
	}
	return b.filter.Test(key)
}
