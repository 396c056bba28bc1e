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

package scheduler

import (
	"sync"
	"testing"
	"time"

	"github.com/pborman/uuid"
	"github.com/stretchr/testify/require"

	"github.com/vast-io/vast/src/vast/expr"
	"github.com/vast-io/vast/src/vast/index"
	"github.com/vast-io/vast/src/vast/meta"
	"github.com/vast-io/vast/src/vast/partition"
	"github.com/vast-io/vast/src/vast/vdata"
	"github.com/vast-io/vast/src/vast/vtype"
)

func protoLayout() vtype.Type {
	return vtype.NewRecord([]vtype.Field{
		{Name: "proto", Type: vtype.NewSimple(vtype.KindString)},
	}).Named("conn")
}

type fakeSource struct {
	parts    map[uuid.Array]*partition.Partition
	resident map[uuid.Array]bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{parts: make(map[uuid.Array]*partition.Partition), resident: make(map[uuid.Array]bool)}
}

func (f *fakeSource) add(p *partition.Partition, resident bool) {
	f.parts[p.ID().Array()] = p
	f.resident[p.ID().Array()] = resident
}

func (f *fakeSource) Get(id uuid.UUID) (*partition.Partition, bool) {
	p, ok := f.parts[id.Array()]
	return p, ok
}

func (f *fakeSource) Resident(id uuid.UUID) bool {
	return f.resident[id.Array()]
}

type fakeClient struct {
	mu      sync.Mutex
	results []PartitionResult
	done    chan struct{}
}

func newFakeClient() *fakeClient {
	return &fakeClient{done: make(chan struct{})}
}

func (c *fakeClient) Deliver(r PartitionResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, r)
}

func (c *fakeClient) Done() {
	close(c.done)
}

func (c *fakeClient) waitDone(t *testing.T) {
	t.Helper()
	select {
	case <-c.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for Done")
	}
}

func buildTCPPartition(t *testing.T, val string, resident bool, src *fakeSource, idx *meta.Index) *partition.Partition {
	t.Helper()
	p := partition.New(protoLayout(), 0, nil)
	require.NoError(t, p.Append("proto", vdata.String(val)))
	idx.Register(p.ID(), protoLayout())
	idx.Add(p.ID(), "proto", vdata.String(val))
	src.add(p, resident)
	return p
}

func TestLookupSchedulesAllWhenUnderTaste(t *testing.T) {
	mi := meta.New(nil)
	src := newFakeSource()
	buildTCPPartition(t, "tcp", false, src, mi)

	s := New(mi, src, 2, 4)
	client := newFakeClient()
	pred := expr.Predicate{Extractor: expr.KeyExtractor{Suffix: "proto"}, Op: index.OpEqual, Data: vdata.String("tcp")}

	queryID, hits, scheduled := s.Lookup(pred, client)
	require.Equal(t, "", queryID)
	require.Equal(t, 1, hits)
	require.Equal(t, 1, scheduled)
	client.waitDone(t)
	require.Len(t, client.results, 1)
	require.EqualValues(t, 1, client.results[0].Matches.Cardinality())
}

func TestLookupTastesThenContinues(t *testing.T) {
	mi := meta.New(nil)
	src := newFakeSource()
	buildTCPPartition(t, "tcp", false, src, mi)
	buildTCPPartition(t, "tcp", false, src, mi)
	buildTCPPartition(t, "tcp", true, src, mi)

	s := New(mi, src, 3, 1)
	client := newFakeClient()
	pred := expr.Predicate{Extractor: expr.KeyExtractor{Suffix: "proto"}, Op: index.OpEqual, Data: vdata.String("tcp")}

	queryID, hits, scheduled := s.Lookup(pred, client)
	require.NotEqual(t, "", queryID)
	require.Equal(t, 3, hits)
	require.Equal(t, 1, scheduled)

	s.Continue(queryID, 10)
	client.waitDone(t)
	client.mu.Lock()
	defer client.mu.Unlock()
	require.Len(t, client.results, 3)
}

func TestContinueCancelDropsPending(t *testing.T) {
	mi := meta.New(nil)
	src := newFakeSource()
	buildTCPPartition(t, "tcp", false, src, mi)
	buildTCPPartition(t, "tcp", false, src, mi)

	s := New(mi, src, 2, 1)
	client := newFakeClient()
	pred := expr.Predicate{Extractor: expr.KeyExtractor{Suffix: "proto"}, Op: index.OpEqual, Data: vdata.String("tcp")}

	queryID, _, _ := s.Lookup(pred, client)
	require.NotEqual(t, "", queryID)
	s.Continue(queryID, 0)

	s.mu.Lock()
	_, stillPending := s.pending[queryID]
	s.mu.Unlock()
	require.False(t, stillPending)
}

func TestLookupWithNoCandidatesReturnsImmediately(t *testing.T) {
	mi := meta.New(nil)
	src := newFakeSource()
	s := New(mi, src, 1, 1)
	client := newFakeClient()
	pred := expr.Predicate{Extractor: expr.KeyExtractor{Suffix: "proto"}, Op: index.OpEqual, Data: vdata.String("tcp")}

	queryID, hits, scheduled := s.Lookup(pred, client)
	require.Equal(t, "", queryID)
	require.Equal(t, 0, hits)
	require.Equal(t, 0, scheduled)
	client.waitDone(t)
}
