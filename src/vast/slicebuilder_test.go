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

	"github.com/stretchr/testify/require"

	"github.com/vast-io/vast/src/vast/meta"
	"github.com/vast-io/vast/src/vast/partition"
	"github.com/vast-io/vast/src/vast/segment"
	"github.com/vast-io/vast/src/vast/vdata"
	"github.com/vast-io/vast/src/vast/vtype"
)

func connLayout() vtype.Type {
	return vtype.NewRecord([]vtype.Field{
		{Name: "proto", Type: vtype.NewSimple(vtype.KindString)},
		{Name: "id", Type: vtype.NewRecord([]vtype.Field{
			{Name: "orig_h", Type: vtype.NewSimple(vtype.KindAddress)},
		})},
	}).Named("conn")
}

func TestSliceBuilderFlattensNestedRecordFields(t *testing.T) {
	mi := meta.New(nil)
	var mu sync.Mutex
	var sealed []*partition.Partition
	b := NewSliceBuilder(connLayout(), 4, 16, segment.CompressionNone, mi, func(p *partition.Partition) {
		mu.Lock()
		sealed = append(sealed, p)
		mu.Unlock()
	}, nil, nil, nil)

	row := vdata.Record{
		{Name: "proto", Value: vdata.String("tcp")},
		{Name: "id", Value: vdata.Record{
			{Name: "orig_h", Value: vdata.Nil{}},
		}},
	}
	b.Submit(TableSlice{Layout: connLayout(), Rows: []vdata.Record{row}})
	b.Close()

	require.Len(t, sealed, 1)
	require.EqualValues(t, 1, sealed[0].N())
}

func TestSliceBuilderSealsAtMaxPartitionSize(t *testing.T) {
	mi := meta.New(nil)
	var mu sync.Mutex
	var sealed []*partition.Partition
	layout := vtype.NewRecord([]vtype.Field{
		{Name: "proto", Type: vtype.NewSimple(vtype.KindString)},
	}).Named("small")
	b := NewSliceBuilder(layout, 2, 16, segment.CompressionNone, mi, func(p *partition.Partition) {
		mu.Lock()
		sealed = append(sealed, p)
		mu.Unlock()
	}, nil, nil, nil)

	rows := make([]vdata.Record, 0, 5)
	for i := 0; i < 5; i++ {
		rows = append(rows, vdata.Record{{Name: "proto", Value: vdata.String("tcp")}})
	}
	b.Submit(TableSlice{Layout: layout, Rows: rows})
	b.Close()

	mu.Lock()
	defer mu.Unlock()
	// 5 rows at max_partition_size=2 seals twice (at 2 and 4) plus the
	// final drain seals the last partial partition of 1.
	require.Len(t, sealed, 3)
	require.EqualValues(t, 2, sealed[0].N())
	require.EqualValues(t, 2, sealed[1].N())
	require.EqualValues(t, 1, sealed[2].N())
}

func TestSliceBuilderPreallocatesNearCapacity(t *testing.T) {
	mi := meta.New(nil)
	var mu sync.Mutex
	activated := 0
	layout := vtype.NewRecord([]vtype.Field{
		{Name: "proto", Type: vtype.NewSimple(vtype.KindString)},
	}).Named("small")
	b := NewSliceBuilder(layout, 10, 16, segment.CompressionNone, mi, nil, func(p *partition.Partition) {
		mu.Lock()
		activated++
		mu.Unlock()
	}, nil, nil)

	rows := make([]vdata.Record, 0, 9)
	for i := 0; i < 9; i++ {
		rows = append(rows, vdata.Record{{Name: "proto", Value: vdata.String("tcp")}})
	}
	b.Submit(TableSlice{Layout: layout, Rows: rows})
	b.Close()

	mu.Lock()
	defer mu.Unlock()
	// The initial partition plus one pre-allocated near max_partition_size
	// (90% of 10 == 9) gives two activations even though nothing sealed.
	require.Equal(t, 2, activated)
}
