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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vast-io/vast/src/vast/partition"
	"github.com/vast-io/vast/src/vast/vtype"
)

func testLayout() vtype.Type {
	return vtype.NewRecord([]vtype.Field{
		{Name: "x", Type: vtype.NewSimple(vtype.KindInt)},
	}).Named("t")
}

func TestPartitionCacheGetAndResident(t *testing.T) {
	c := newPartitionCache(2, nil)
	p := partition.New(testLayout(), 0, nil)
	c.Add(p)

	got, ok := c.Get(p.ID())
	require.True(t, ok)
	require.Equal(t, p.ID(), got.ID())
	require.True(t, c.Resident(p.ID()))
}

func TestPartitionCacheEvictsOldestOverCapacity(t *testing.T) {
	var evicted []string
	c := newPartitionCache(1, func(p *partition.Partition) {
		evicted = append(evicted, p.ID().String())
	})
	p1 := partition.New(testLayout(), 0, nil)
	p2 := partition.New(testLayout(), 10, nil)
	c.Add(p1)
	c.Add(p2)

	require.Equal(t, 1, c.Len())
	require.False(t, c.Resident(p1.ID()))
	require.True(t, c.Resident(p2.ID()))
	require.Equal(t, []string{p1.ID().String()}, evicted)
}

func TestPartitionCacheSkipsRefedEntryOnEviction(t *testing.T) {
	var evicted []string
	c := newPartitionCache(1, func(p *partition.Partition) {
		evicted = append(evicted, p.ID().String())
	})
	p1 := partition.New(testLayout(), 0, nil)
	p1.Ref()
	p2 := partition.New(testLayout(), 10, nil)
	c.Add(p1)
	c.Add(p2)

	// p1 is refed, so it survives; nothing gets evicted even though the
	// cache is nominally over capacity.
	require.True(t, c.Resident(p1.ID()))
	require.True(t, c.Resident(p2.ID()))
	require.Empty(t, evicted)
}
