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

// Package scheduler implements the query scheduler: candidate
// enumeration against the meta index, a taste-then-continue protocol
// for handing candidate partitions to a bounded worker pool, and the
// per-partition, per-column predicate evaluation each worker performs.
package scheduler

import (
	"sync"

	"github.com/pborman/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vast-io/vast/src/vast/bitmap"
	"github.com/vast-io/vast/src/vast/expr"
	"github.com/vast-io/vast/src/vast/meta"
	"github.com/vast-io/vast/src/vast/partition"
)

// PartitionResult is one partition's contribution to a query: the
// subset of its event IDs matching the query expression.
type PartitionResult struct {
	PartitionID uuid.UUID
	Matches     *bitmap.Bitmap
}

// Client receives a query's per-partition results as they complete, in
// completion order rather than partition-ID order, followed by exactly
// one Done call once no further rounds remain to schedule.
type Client interface {
	Deliver(PartitionResult)
	Done()
}

// PartitionSource resolves partition IDs to loaded partitions and
// reports whether a partition is already resident in the partition
// cache, so the scheduler can prefer cached partitions when tasting.
type PartitionSource interface {
	Get(id uuid.UUID) (*partition.Partition, bool)
	Resident(id uuid.UUID) bool
}

type pendingQuery struct {
	expression expr.Node
	remaining  []uuid.UUID
	client     Client
}

// Scheduler implements a two-phase query protocol — candidate
// enumeration, then continuation — over a bounded pool of workers.
type Scheduler struct {
	meta            *meta.Index
	parts           PartitionSource
	tastePartitions int

	workers chan *worker

	mu      sync.Mutex
	pending map[string]*pendingQuery

	metrics *metrics
}

// New returns a scheduler with workerCount workers, tasting up to
// tastePartitions candidates per lookup round.
func New(metaIndex *meta.Index, parts PartitionSource, workerCount, tastePartitions int) *Scheduler {
	if workerCount <= 0 {
		workerCount = 1
	}
	if tastePartitions <= 0 {
		tastePartitions = 1
	}
	s := &Scheduler{
		meta:            metaIndex,
		parts:           parts,
		tastePartitions: tastePartitions,
		workers:         make(chan *worker, workerCount),
		pending:         make(map[string]*pendingQuery),
		metrics:         newMetrics(),
	}
	for i := 0; i < workerCount; i++ {
		s.workers <- &worker{}
	}
	return s
}

// Describe implements prometheus.Collector so a Scheduler can be
// registered directly with a registry.
func (s *Scheduler) Describe(ch chan<- *prometheus.Desc) {
	s.metrics.describe(ch)
}

// Collect implements prometheus.Collector.
func (s *Scheduler) Collect(ch chan<- prometheus.Metric) {
	s.metrics.collect(ch)
}

// Lookup implements phase 1: it queries the meta index, schedules up
// to tastePartitions candidates (cache-resident ones first), and
// returns a query_id for further Continue calls iff candidates
// remain unscheduled.
func (s *Scheduler) Lookup(e expr.Node, client Client) (queryID string, hits, scheduled int) {
	candidates := s.meta.Lookup(e)
	hits = len(candidates)
	s.metrics.lookups.Inc()
	if hits == 0 {
		client.Done()
		return "", 0, 0
	}

	ordered := stablyPreferCached(candidates, s.parts.Resident)
	n := s.tastePartitions
	if n > hits {
		n = hits
	}
	toSchedule, remaining := ordered[:n], ordered[n:]

	var wg sync.WaitGroup
	s.dispatch(&wg, e, toSchedule, client)
	s.metrics.candidatesScheduled.Add(float64(len(toSchedule)))

	if len(remaining) == 0 {
		wg.Wait()
		client.Done()
		return "", hits, len(toSchedule)
	}

	queryID = uuid.NewUUID().String()
	s.mu.Lock()
	s.pending[queryID] = &pendingQuery{expression: e, remaining: remaining, client: client}
	s.mu.Unlock()
	return queryID, hits, len(toSchedule)
}

// Continue implements phase 2. num == 0 cancels the query and drops
// its pending state; otherwise up to num more candidates (again
// cache-resident ones first) are dispatched.
func (s *Scheduler) Continue(queryID string, num int) {
	s.mu.Lock()
	pq, ok := s.pending[queryID]
	if !ok {
		s.mu.Unlock()
		return
	}
	if num == 0 {
		delete(s.pending, queryID)
		s.mu.Unlock()
		return
	}
	remaining := stablyPreferCached(pq.remaining, s.parts.Resident)
	if num > len(remaining) {
		num = len(remaining)
	}
	batch, rest := remaining[:num], remaining[num:]
	pq.remaining = rest
	finished := len(rest) == 0
	if finished {
		delete(s.pending, queryID)
	}
	client := pq.client
	expression := pq.expression
	s.mu.Unlock()

	var wg sync.WaitGroup
	s.dispatch(&wg, expression, batch, client)
	s.metrics.candidatesScheduled.Add(float64(len(batch)))
	if finished {
		wg.Wait()
		client.Done()
	}
}

// dispatch pops an idle worker (blocking if none is free, which is
// how a lookup or continue call queues behind in-flight work) and
// hands it the resolved per-partition column indexers for ids. Every
// partition it resolves is Ref'd before the worker sees it and Unref'd
// only once the worker has returned, so a partition a worker is
// actively evaluating can never be evicted out from under it. wg is
// marked done only once the worker has delivered every result, so a
// caller that must call client.Done() after the last delivery (the
// final round of a query) can wg.Wait() first without racing the
// worker's own goroutine.
func (s *Scheduler) dispatch(wg *sync.WaitGroup, e expr.Node, ids []uuid.UUID, client Client) {
	if len(ids) == 0 {
		return
	}
	w := <-s.workers
	queryMap := make(map[uuid.Array]partitionColumns, len(ids))
	order := make([]uuid.UUID, 0, len(ids))
	refed := make([]*partition.Partition, 0, len(ids))
	for _, id := range ids {
		p, ok := s.parts.Get(id)
		if !ok {
			continue
		}
		p.Ref()
		refed = append(refed, p)
		queryMap[id.Array()] = partitionColumns{
			id:       id,
			layout:   p.Layout(),
			indexers: p.GetIndexers(e),
			universe: p.Universe(),
		}
		order = append(order, id)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			for _, p := range refed {
				p.Unref()
			}
		}()
		w.run(e, queryMap, order, client)
		s.workers <- w
	}()
}

// stablyPreferCached returns a copy of ids stably partitioned so that
// resident partitions come first, since those are cheapest to evaluate.
func stablyPreferCached(ids []uuid.UUID, resident func(uuid.UUID) bool) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if resident(id) {
			out = append(out, id)
		}
	}
	for _, id := range ids {
		if !resident(id) {
			out = append(out, id)
		}
	}
	return out
}
