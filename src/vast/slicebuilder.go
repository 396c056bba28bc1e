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

package vast

import (
	"sync"
	"time"

	"github.com/pborman/uuid"
	"go.uber.org/zap"

	"github.com/vast-io/vast/src/vast/meta"
	"github.com/vast-io/vast/src/vast/partition"
	"github.com/vast-io/vast/src/vast/segment"
	"github.com/vast-io/vast/src/vast/vdata"
	"github.com/vast-io/vast/src/vast/vtype"
)

// TableSlice is a batch of rows sharing one record layout, the unit
// the ingestion path streams through AddInboundPath.
type TableSlice struct {
	Layout vtype.Type
	Rows   []vdata.Record
}

// defaultMaxPartitionSize is the row count at which a partition seals,
// absent an explicit override.
const defaultMaxPartitionSize = 1 << 20

// nearFullFraction is how close to max_partition_size the active
// partition must get before the next one is pre-allocated.
const nearFullFraction = 0.9

// SliceBuilder batches incoming rows for one record layout into the
// active partition, publishing available ingestion credit over a
// buffered channel. Its unit of flow control is the row: a source
// blocks on Submit once the channel — sized to the credit — is full,
// the same backpressure a blocking token-channel receive gives a
// bounded worker pool, applied here to ingestion instead of dispatch.
type SliceBuilder struct {
	layout           vtype.Type
	maxPartitionSize uint64
	compression      segment.Compression

	rows chan vdata.Record

	mu      sync.Mutex
	active  *partition.Partition
	next    *partition.Partition
	base    uint64
	writers map[uuid.Array]*segment.Writer

	metaIdx    *meta.Index
	onSeal     func(*partition.Partition)
	onActivate func(*partition.Partition)
	onArchive  func([]*segment.Segment)
	log        *zap.Logger

	wg sync.WaitGroup
}

// NewSliceBuilder returns a builder that batches rows conforming to
// layout, sealing a partition every maxPartitionSize rows (a
// non-positive value uses defaultMaxPartitionSize) and publishing up
// to credit rows of ingestion headroom at a time. onSeal is called
// with each partition once it has been sealed and should hand it off
// for flushing; onActivate is called with every partition (including
// pre-allocated ones) as it becomes the active partition, so the
// caller can register it in the partition cache. onArchive is called
// once per seal with the segments produced by that partition's paired
// event writer, so the caller can hand them to the archive interface's
// store call.
func NewSliceBuilder(layout vtype.Type, maxPartitionSize uint64, credit int, compression segment.Compression, metaIdx *meta.Index, onSeal, onActivate func(*partition.Partition), onArchive func([]*segment.Segment), log *zap.Logger) *SliceBuilder {
	if maxPartitionSize == 0 {
		maxPartitionSize = defaultMaxPartitionSize
	}
	if credit <= 0 {
		credit = 1024
	}
	if log == nil {
		log = zap.NewNop()
	}
	b := &SliceBuilder{
		layout:           layout,
		maxPartitionSize: maxPartitionSize,
		compression:      compression,
		rows:             make(chan vdata.Record, credit),
		writers:          make(map[uuid.Array]*segment.Writer),
		metaIdx:          metaIdx,
		onSeal:           onSeal,
		onActivate:       onActivate,
		onArchive:        onArchive,
		log:              log,
	}
	b.active = b.newPartition(0)
	b.wg.Add(1)
	go b.run()
	return b
}

func (b *SliceBuilder) newPartition(base uint64) *partition.Partition {
	p := partition.New(b.layout, base, b.log)
	b.metaIdx.Register(p.ID(), b.layout)
	b.writers[p.ID().Array()] = segment.NewWriter(base, b.compression)
	if b.onActivate != nil {
		b.onActivate(p)
	}
	return p
}

// Credit reports how many further rows the channel can currently
// absorb without a source blocking on Submit.
func (b *SliceBuilder) Credit() int {
	return cap(b.rows) - len(b.rows)
}

// Submit enqueues slice's rows, blocking once the credit channel is
// full — the mechanism by which upstream sources are throttled to the
// indexer stage's pace.
func (b *SliceBuilder) Submit(slice TableSlice) {
	for _, row := range slice.Rows {
		b.rows <- row
	}
}

// Close stops accepting rows and waits for the consumer goroutine to
// drain what remains, sealing the final in-progress partition.
func (b *SliceBuilder) Close() {
	close(b.rows)
	b.wg.Wait()
}

func (b *SliceBuilder) run() {
	defer b.wg.Done()
	for row := range b.rows {
		b.appendRow(row)
		b.maybeRoll()
	}
	b.mu.Lock()
	final := b.active
	b.mu.Unlock()
	if final != nil && final.N() > 0 {
		b.seal(final)
	}
}

func (b *SliceBuilder) appendRow(row vdata.Record) {
	b.mu.Lock()
	active := b.active
	writer := b.writers[active.ID().Array()]
	b.mu.Unlock()
	fields := make(map[string]vdata.Data)
	flattenInto(row, "", func(name string, v vdata.Data) {
		fields[name] = v
	})
	if err := active.AppendRow(fields); err != nil {
		b.log.Warn("dropped row on append error", zap.String("partition", active.ID().String()), zap.Error(err))
		return
	}
	for name, v := range fields {
		b.metaIdx.Add(active.ID(), name, v)
	}
	event := vdata.Event{
		ID:        active.Base() + active.N() - 1,
		Timestamp: time.Now(),
		Type:      b.layout,
		Data:      row,
	}
	if writer != nil {
		if err := writer.Write(event); err != nil {
			b.log.Warn("dropped event on archive write error", zap.String("partition", active.ID().String()), zap.Error(err))
		}
	}
}

// maybeRoll pre-allocates the next partition once the active one nears
// max_partition_size and seals-and-promotes once it reaches it, so
// ingestion sees no dead time while a full partition seals.
func (b *SliceBuilder) maybeRoll() {
	b.mu.Lock()
	active := b.active
	n := active.N()
	threshold := uint64(float64(b.maxPartitionSize) * nearFullFraction)
	if n >= threshold && b.next == nil && n < b.maxPartitionSize {
		b.next = b.newPartition(active.Base() + b.maxPartitionSize)
	}
	var sealed *partition.Partition
	if n >= b.maxPartitionSize {
		sealed = active
		if b.next != nil {
			b.active = b.next
			b.next = nil
		} else {
			b.active = b.newPartition(active.Base() + b.maxPartitionSize)
		}
	}
	b.mu.Unlock()
	if sealed != nil {
		b.seal(sealed)
	}
}

func (b *SliceBuilder) seal(p *partition.Partition) {
	p.Seal()
	if b.onSeal != nil {
		b.onSeal(p)
	}
	b.mu.Lock()
	writer := b.writers[p.ID().Array()]
	delete(b.writers, p.ID().Array())
	b.mu.Unlock()
	if writer == nil {
		return
	}
	segs, err := writer.Flush()
	if err != nil {
		b.log.Warn("archive flush failed", zap.String("partition", p.ID().String()), zap.Error(err))
		return
	}
	if b.onArchive != nil && len(segs) > 0 {
		b.onArchive(segs)
	}
}

// flattenInto walks a record's fields depth-first, dot-joining nested
// record field names the same way vtype.Type.Flatten does, and calls
// fn with each non-record leaf value.
func flattenInto(rec vdata.Record, prefix string, fn func(name string, v vdata.Data)) {
	for _, f := range rec {
		name := f.Name
		if prefix != "" {
			name = prefix + "." + f.Name
		}
		if nested, ok := f.Value.(vdata.Record); ok {
			flattenInto(nested, name, fn)
			continue
		}
		fn(name, f.Value)
	}
}
