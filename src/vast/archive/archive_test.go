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

package archive

import (
	"sync"
	"testing"
	"time"

	"github.com/pborman/uuid"
	"github.com/stretchr/testify/require"

	"github.com/vast-io/vast/src/vast/bitmap"
	"github.com/vast-io/vast/src/vast/segment"
	"github.com/vast-io/vast/src/vast/vdata"
)

func buildSegment(t *testing.T, base uint64, n int) *segment.Segment {
	t.Helper()
	w := segment.NewWriter(base, segment.CompressionSnappy)
	for i := 0; i < n; i++ {
		id := base + uint64(i)
		require.NoError(t, w.Write(vdata.Event{ID: id, Timestamp: time.Unix(0, int64(id)), Data: vdata.Count(id)}))
	}
	segs, err := w.Flush()
	require.NoError(t, err)
	require.Len(t, segs, 1)
	return segs[0]
}

func TestStoreRetrieveRoundtrip(t *testing.T) {
	m := NewManager(t.TempDir(), 0)
	seg := buildSegment(t, 0, 10)
	require.NoError(t, m.Store(seg))

	got, err := m.Retrieve(seg.ID)
	require.NoError(t, err)
	require.Equal(t, seg.ID, got.ID)
}

func TestRetrieveMissesCacheAndLoadsFromDisk(t *testing.T) {
	m := NewManager(t.TempDir(), 0)
	seg := buildSegment(t, 100, 5)
	require.NoError(t, m.Store(seg))
	m.cache.Remove(seg.ID)

	got, err := m.Retrieve(seg.ID)
	require.NoError(t, err)
	require.EqualValues(t, 5, got.N)
}

func TestRetrieveUnknownIDFails(t *testing.T) {
	m := NewManager(t.TempDir(), 0)
	_, err := m.Retrieve(uuid.NewUUID())
	require.Error(t, err)
}

func TestExtractStreamsMatchingEvents(t *testing.T) {
	m := NewManager(t.TempDir(), 0)
	require.NoError(t, m.Store(buildSegment(t, 0, 4)))
	require.NoError(t, m.Store(buildSegment(t, 4, 4)))

	ids := bitmap.New()
	ids.AppendBits(false, 8)
	ids.Set(1)
	ids.Set(5)

	out, errc := m.Extract(ids)
	var got []uint64
	for ev := range out {
		got = append(got, ev.ID)
	}
	require.NoError(t, <-errc)
	require.ElementsMatch(t, []uint64{1, 5}, got)
}

func TestRetrieveCoalescesConcurrentMisses(t *testing.T) {
	m := NewManager(t.TempDir(), 0)
	seg := buildSegment(t, 0, 3)
	require.NoError(t, m.Store(seg))
	m.cache.Remove(seg.ID)

	var wg sync.WaitGroup
	results := make([]*segment.Segment, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := m.Retrieve(seg.ID)
			require.NoError(t, err)
			results[i] = got
		}(i)
	}
	wg.Wait()
	for _, r := range results {
		require.Equal(t, seg.ID, r.ID)
	}
}
