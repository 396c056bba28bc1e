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

// Package vast wires the meta index, partition cache, query scheduler
// and segment archive behind three external interfaces: an ingestion
// path that batches table slices into sealed partitions, a query
// interface of lookup/continue/cancel, and an archive interface of
// store/retrieve/extract.
package vast

import (
	"sync"

	"github.com/pborman/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/vast-io/vast/src/vast/archive"
	"github.com/vast-io/vast/src/vast/bitmap"
	"github.com/vast-io/vast/src/vast/expr"
	"github.com/vast-io/vast/src/vast/meta"
	"github.com/vast-io/vast/src/vast/partition"
	"github.com/vast-io/vast/src/vast/scheduler"
	"github.com/vast-io/vast/src/vast/segment"
	"github.com/vast-io/vast/src/vast/vtype"
)

// Options configures a Core.
type Options struct {
	Root             string // archive/index root directory
	MaxPartitionSize uint64 // rows per partition before it seals
	IngestCredit     int    // buffered rows of ingestion headroom per layout
	PartitionCache   int    // resident partition count
	SegmentCache     int    // resident segment count
	Workers          int    // scheduler worker pool size
	TastePartitions  int    // candidates scheduled before a query_id is issued
	Compression      segment.Compression
	Logger           *zap.Logger
}

// Core is the embeddable node: it owns the meta index, the partition
// cache, the scheduler, and the archive, and exposes the three
// external interfaces (ingestion, query, archive) as plain Go methods.
type Core struct {
	opts Options
	log  *zap.Logger

	meta       *meta.Index
	partitions *partitionCache
	archive    *archive.Manager
	scheduler  *scheduler.Scheduler

	mu       sync.Mutex
	builders map[string]*SliceBuilder // keyed by layout name
}

// New returns a Core ready to accept ingestion and queries.
func New(opts Options) *Core {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	c := &Core{
		opts:     opts,
		log:      opts.Logger,
		meta:     meta.New(nil),
		archive:  archive.NewManager(opts.Root, opts.SegmentCache),
		builders: make(map[string]*SliceBuilder),
	}
	c.partitions = newPartitionCache(opts.PartitionCache, c.evictPartition)
	c.scheduler = scheduler.New(c.meta, c.partitions, opts.Workers, opts.TastePartitions)
	return c
}

// Describe implements prometheus.Collector by delegating to the
// scheduler's own collector.
func (c *Core) Describe(ch chan<- *prometheus.Desc) { c.scheduler.Describe(ch) }

// Collect implements prometheus.Collector.
func (c *Core) Collect(ch chan<- prometheus.Metric) { c.scheduler.Collect(ch) }

// AddInboundPath connects a source of table slices. It blocks until
// slices is closed, dispatching each slice's rows to the SliceBuilder
// for its record layout (lazily created on first sight of that
// layout) and emits no response per row.
func (c *Core) AddInboundPath(slices <-chan TableSlice) {
	for slice := range slices {
		c.builderFor(slice.Layout).Submit(slice)
	}
}

func (c *Core) builderFor(layout vtype.Type) *SliceBuilder {
	name := layout.Name()
	c.mu.Lock()
	defer c.mu.Unlock()
	if b, ok := c.builders[name]; ok {
		return b
	}
	b := NewSliceBuilder(layout, c.opts.MaxPartitionSize, c.opts.IngestCredit, c.opts.Compression, c.meta,
		c.sealPartition, c.activatePartition, c.archiveSegments, c.log)
	c.builders[name] = b
	return b
}

// activatePartition registers a freshly created (possibly
// pre-allocated) partition in the partition cache so scheduler queries
// can resolve it as soon as it exists.
func (c *Core) activatePartition(p *partition.Partition) {
	c.partitions.Add(p)
}

// evictPartition is the partition cache's eviction callback: it flushes
// a cold partition's columns to disk via the archive's root before
// dropping it, driving the cached -> flushing -> on_disk transition
// when cache pressure rather than a seal is what retires it.
func (c *Core) evictPartition(p *partition.Partition) {
	switch p.State() {
	case partition.StateOnDisk:
		return // already sealed and flushed by sealPartition
	case partition.StateActive, partition.StateCached:
		p.Seal()
	}
	if err := p.FlushToDisk(c.persister()); err != nil {
		c.log.Warn("evict flush failed", zap.String("partition", p.ID().String()), zap.Error(err))
	}
}

// sealPartition is the SliceBuilder's onSeal callback: it flushes the
// partition's column indexes to the on-disk index directory. The
// partition stays resident in the partition cache after a seal — its
// columns are still the fastest way to answer a query — until cache
// pressure evicts it via evictPartition.
func (c *Core) sealPartition(p *partition.Partition) {
	if err := p.FlushToDisk(c.persister()); err != nil {
		c.log.Warn("seal flush failed", zap.String("partition", p.ID().String()), zap.Error(err))
	}
}

// archiveSegments is the SliceBuilder's onArchive callback: it stores
// every segment produced when a partition's paired event writer flushes
// alongside the seal, so the archive interface's retrieve/extract calls
// can serve the rows a partition's columns index.
func (c *Core) archiveSegments(segs []*segment.Segment) {
	for _, seg := range segs {
		if err := c.Store(seg); err != nil {
			c.log.Warn("archive segment failed", zap.String("segment", seg.ID.String()), zap.Error(err))
		}
	}
}

func (c *Core) persister() partition.Persister {
	return indexPersister{root: c.opts.Root}
}

// Lookup implements the query interface's entry point.
func (c *Core) Lookup(e expr.Node, client scheduler.Client) (queryID string, hits, scheduled int) {
	return c.scheduler.Lookup(e, client)
}

// Continue implements the query interface's continuation call.
func (c *Core) Continue(queryID string, num int) {
	c.scheduler.Continue(queryID, num)
}

// Cancel is equivalent to Continue(queryID, 0).
func (c *Core) Cancel(queryID string) {
	c.scheduler.Continue(queryID, 0)
}

// Store implements the archive interface's store(segment) call.
func (c *Core) Store(seg *segment.Segment) error {
	return c.archive.Store(seg)
}

// Retrieve implements the archive interface's cache-aware
// retrieve(segment_id) call.
func (c *Core) Retrieve(id uuid.UUID) (*segment.Segment, error) {
	return c.archive.Retrieve(id)
}

// Extract implements the archive interface's extract(ids_bitmap) call.
func (c *Core) Extract(ids *bitmap.Bitmap) (<-chan segment.DecodedEvent, <-chan error) {
	return c.archive.Extract(ids)
}

// Close drains every layout's SliceBuilder, sealing and flushing its
// final in-progress partition. Callers that need every ingested row
// durable before shutdown (a one-shot import, a graceful stop) call
// this after their inbound path closes.
func (c *Core) Close() {
	c.mu.Lock()
	builders := make([]*SliceBuilder, 0, len(c.builders))
	for _, b := range c.builders {
		builders = append(builders, b)
	}
	c.mu.Unlock()
	for _, b := range builders {
		b.Close()
	}
}
