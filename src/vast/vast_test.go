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
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vast-io/vast/src/vast/expr"
	"github.com/vast-io/vast/src/vast/index"
	"github.com/vast-io/vast/src/vast/scheduler"
	"github.com/vast-io/vast/src/vast/segment"
	"github.com/vast-io/vast/src/vast/vdata"
)

type fakeClientForCore struct {
	mu      sync.Mutex
	results []uint64
	done    chan struct{}
}

func (c *fakeClientForCore) Deliver(r scheduler.PartitionResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, r.Matches.Cardinality())
}

func (c *fakeClientForCore) Done() {
	close(c.done)
}

func TestCoreIngestThenLookup(t *testing.T) {
	root := t.TempDir()
	c := New(Options{
		Root:             root,
		MaxPartitionSize: 2,
		IngestCredit:     8,
		PartitionCache:   4,
		SegmentCache:     4,
		Workers:          2,
		TastePartitions:  4,
	})

	layout := connLayout()
	slices := make(chan TableSlice, 1)
	slices <- TableSlice{Layout: layout, Rows: []vdata.Record{
		{{Name: "proto", Value: vdata.String("tcp")}, {Name: "id", Value: vdata.Record{{Name: "orig_h", Value: vdata.Nil{}}}}},
		{{Name: "proto", Value: vdata.String("udp")}, {Name: "id", Value: vdata.Record{{Name: "orig_h", Value: vdata.Nil{}}}}},
	}}
	close(slices)
	c.AddInboundPath(slices)

	c.mu.Lock()
	builder := c.builders[layout.Name()]
	c.mu.Unlock()
	require.NotNil(t, builder)
	builder.Close()

	pred := expr.Predicate{Extractor: expr.KeyExtractor{Suffix: "proto"}, Op: index.OpEqual, Data: vdata.String("tcp")}
	client := &fakeClientForCore{done: make(chan struct{})}
	queryID, hits, scheduled := c.Lookup(pred, client)
	require.Equal(t, "", queryID)
	require.Equal(t, 1, hits)
	require.Equal(t, 1, scheduled)

	select {
	case <-client.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for query completion")
	}
	require.Len(t, client.results, 1)
	require.EqualValues(t, 1, client.results[0])
}

func TestCoreStoreRetrieveExtractRoundtrip(t *testing.T) {
	root := t.TempDir()
	c := New(Options{Root: root})

	w := segment.NewWriter(0, segment.CompressionNone)
	require.NoError(t, w.Write(vdata.Event{ID: 0, Data: vdata.String("a")}))
	require.NoError(t, w.Write(vdata.Event{ID: 1, Data: vdata.String("b")}))
	segs, err := w.Flush()
	require.NoError(t, err)
	require.Len(t, segs, 1)

	require.NoError(t, c.Store(segs[0]))

	got, err := c.Retrieve(segs[0].ID)
	require.NoError(t, err)
	require.Equal(t, segs[0].ID, got.ID)
}
