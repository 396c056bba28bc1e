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

// Package partition implements the per-partition column indexer set
// and its lifecycle state machine. A partition owns one value index
// per non-skipped flattened column of its layout and answers
// get_indexers(expression) by resolving each predicate's extractor
// against that layout.
package partition

import (
	"fmt"
	"sync"

	"github.com/pborman/uuid"
	"go.uber.org/zap"

	"github.com/vast-io/vast/src/vast/bitmap"
	"github.com/vast-io/vast/src/vast/expr"
	"github.com/vast-io/vast/src/vast/index"
	"github.com/vast-io/vast/src/vast/vdata"
	"github.com/vast-io/vast/src/vast/verrors"
	"github.com/vast-io/vast/src/vast/vtype"
)

// State is a partition's position in its lifecycle: absent -> loading
// -> active-or-cached -> flushing -> unpersisted -> on-disk -> evicted.
type State int

// Partition lifecycle states.
const (
	StateAbsent State = iota
	StateLoading
	StateActive
	StateCached
	StateFlushing
	StateUnpersisted
	StateOnDisk
	StateEvicted
)

func (s State) String() string {
	switch s {
	case StateAbsent:
		return "absent"
	case StateLoading:
		return "loading"
	case StateActive:
		return "active"
	case StateCached:
		return "cached"
	case StateFlushing:
		return "flushing"
	case StateUnpersisted:
		return "unpersisted"
	case StateOnDisk:
		return "on_disk"
	case StateEvicted:
		return "evicted"
	default:
		return "unknown"
	}
}

// Persister writes one column's serialized index to durable storage.
// Implemented by whatever storage layer owns <dir>/<uuid>/<col>.
type Persister interface {
	PersistColumn(partitionID uuid.UUID, column string, data []byte) error
}

// Partition owns one value index per indexable flattened column of
// its layout, plus the base/n bookkeeping the archive needs to map
// IDs back to events.
type Partition struct {
	mu sync.RWMutex

	id     uuid.UUID
	layout vtype.Type
	state  State

	columns map[string]*index.Wrapper
	base    uint64
	n       uint64

	refs int
	log  *zap.Logger
}

// New returns a fresh partition over layout in the active state,
// ready to accept appends. base is the first event ID it will own.
func New(layout vtype.Type, base uint64, log *zap.Logger) *Partition {
	if log == nil {
		log = zap.NewNop()
	}
	p := &Partition{
		id:      uuid.NewUUID(),
		layout:  layout,
		state:   StateActive,
		columns: make(map[string]*index.Wrapper),
		base:    base,
		log:     log,
	}
	for _, f := range layout.Flatten() {
		if idx, ok := index.Make(f.Type); ok {
			p.columns[f.Name] = idx
		}
	}
	return p
}

// ID returns the partition's UUID.
func (p *Partition) ID() uuid.UUID {
	return p.id
}

// Layout returns the partition's record type, needed by callers (the
// scheduler's workers) that must re-resolve which columns a predicate
// matches once GetIndexers has already narrowed a query down to a
// partition's relevant indexers.
func (p *Partition) Layout() vtype.Type {
	return p.layout
}

// State returns the partition's current lifecycle state.
func (p *Partition) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Base returns the ID of the first event owned by this partition.
func (p *Partition) Base() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.base
}

// N returns the number of events appended so far.
func (p *Partition) N() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.n
}

// Append appends value to column at the next position. Only
// StateActive and StateCached accept appends.
func (p *Partition) Append(column string, value vdata.Data) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StateActive && p.state != StateCached {
		return verrors.New(verrors.InvalidArgument, fmt.Sprintf("cannot append while %s", p.state))
	}
	idx, ok := p.columns[column]
	if !ok {
		// The column carries no index (e.g. it is a pattern, map, or
		// record field) — the value is stored in the archive only.
		return nil
	}
	if err := idx.Append(value); err != nil {
		return verrors.Wrap(verrors.InvalidArgument, err, "append to column "+column)
	}
	p.n++
	return nil
}

// AppendRow appends every field of one flattened row to its matching
// column index and advances the partition's row count exactly once,
// regardless of how many columns the row touches. This is the entry
// point ingestion uses instead of repeated Append calls, which count
// n per column rather than per row.
func (p *Partition) AppendRow(fields map[string]vdata.Data) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StateActive && p.state != StateCached {
		return verrors.New(verrors.InvalidArgument, fmt.Sprintf("cannot append while %s", p.state))
	}
	for column, value := range fields {
		idx, ok := p.columns[column]
		if !ok {
			continue
		}
		if err := idx.Append(value); err != nil {
			return verrors.Wrap(verrors.InvalidArgument, err, "append to column "+column)
		}
	}
	p.n++
	return nil
}

// Ref takes a strong reference on the partition, preventing eviction
// from the partition cache until every Ref is matched by an Unref.
func (p *Partition) Ref() {
	p.mu.Lock()
	p.refs++
	p.mu.Unlock()
}

// Unref releases a strong reference taken by Ref.
func (p *Partition) Unref() {
	p.mu.Lock()
	p.refs--
	p.mu.Unlock()
}

// Refs reports the current strong reference count.
func (p *Partition) Refs() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.refs
}

// Seal transitions the partition out of the active/cached states so
// it becomes eligible for flushing, and no longer accepts appends.
func (p *Partition) Seal() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == StateActive || p.state == StateCached {
		p.state = StateFlushing
	}
}

// GetIndexers resolves expr's extractor leaves against the
// partition's layout and returns the subset of column indexers that
// could possibly match.
func (p *Partition) GetIndexers(e expr.Node) map[string]*index.Wrapper {
	p.mu.RLock()
	defer p.mu.RUnlock()
	names := make(map[string]bool)
	collectColumns(e, p.layout, names)
	out := make(map[string]*index.Wrapper, len(names))
	for name := range names {
		if idx, ok := p.columns[name]; ok {
			out[name] = idx
		}
	}
	return out
}

func collectColumns(n expr.Node, layout vtype.Type, out map[string]bool) {
	switch v := n.(type) {
	case expr.Predicate:
		for _, name := range v.MatchingColumns(layout) {
			out[name] = true
		}
	case expr.Conjunction:
		for _, c := range v.Children {
			collectColumns(c, layout, out)
		}
	case expr.Disjunction:
		for _, c := range v.Children {
			collectColumns(c, layout, out)
		}
	case expr.Negation:
		collectColumns(v.Child, layout, out)
	}
}

// Universe returns the all-true bitmap over every appended position,
// the set a top-level negation subtracts its child's result from.
func (p *Partition) Universe() *bitmap.Bitmap {
	p.mu.RLock()
	defer p.mu.RUnlock()
	b := bitmap.New()
	b.AppendBits(true, p.n)
	return b
}

// FlushToDisk serializes every non-empty column index through per via
// PersistColumn (the layout is not written), transitioning
// flushing -> unpersisted -> on-disk as columns complete.
func (p *Partition) FlushToDisk(per Persister) error {
	p.mu.Lock()
	if p.state != StateFlushing {
		p.mu.Unlock()
		return verrors.New(verrors.InvalidArgument, "flush_to_disk requires flushing state")
	}
	p.state = StateUnpersisted
	columns := make(map[string]*index.Wrapper, len(p.columns))
	for name, idx := range p.columns {
		columns[name] = idx
	}
	id := p.id
	p.mu.Unlock()

	pending := len(columns)
	for name, idx := range columns {
		if idx.Offset() == 0 {
			pending--
			continue
		}
		data, err := serializeColumn(idx)
		if err != nil {
			return verrors.Wrap(verrors.IOError, err, "serialize column "+name)
		}
		if err := per.PersistColumn(id, name, data); err != nil {
			return verrors.Wrap(verrors.IOError, err, "persist column "+name)
		}
		pending--
		p.log.Debug("persisted column", zap.String("partition", id.String()),
			zap.String("column", name), zap.Int("pending", pending))
	}

	p.mu.Lock()
	p.state = StateOnDisk
	p.mu.Unlock()
	return nil
}

// serializeColumn persists a column's mask bitmap, which marks every
// appended position (nil positions included). Concrete indexes are
// trees of coders rather than a single bitmap, and their coders are
// not serialized: only the mask round-trips.
func serializeColumn(idx *index.Wrapper) ([]byte, error) {
	return idx.Mask().MarshalBinary()
}
