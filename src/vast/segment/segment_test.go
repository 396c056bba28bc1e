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

package segment

import (
	"bytes"
	"testing"
	"time"

	"github.com/pborman/uuid"
	"github.com/stretchr/testify/require"

	"github.com/vast-io/vast/src/vast/vdata"
)

func mkEvent(id uint64, s string) vdata.Event {
	return vdata.Event{ID: id, Timestamp: time.Unix(0, int64(id)), Data: vdata.String(s)}
}

func TestEncodeDecodeEventRoundtrip(t *testing.T) {
	e := mkEvent(42, "hello")
	b, err := EncodeEvent(e)
	require.NoError(t, err)
	got, err := DecodeEvent(b)
	require.NoError(t, err)
	require.Equal(t, e.ID, got.ID)
	require.Equal(t, e.Data, got.Data)
}

func TestWriterFlushRoundtripsThroughDisk(t *testing.T) {
	fixedID := uuid.NewUUID()
	w := newWriterWithIDFunc(0, CompressionSnappy, func() uuid.UUID { return fixedID })
	w.MaxEventsPerChunk = 2
	for i := 0; i < 5; i++ {
		require.NoError(t, w.Write(mkEvent(uint64(i), "v")))
	}
	segments, err := w.Flush()
	require.NoError(t, err)
	require.Len(t, segments, 1)
	require.EqualValues(t, 5, segments[0].N)
	require.Len(t, segments[0].Chunks, 3) // 2 + 2 + 1

	var buf bytes.Buffer
	_, err = segments[0].WriteTo(&buf)
	require.NoError(t, err)

	got, err := ReadFrom(&buf)
	require.NoError(t, err)
	require.Equal(t, segments[0].ID, got.ID)
	require.EqualValues(t, 5, got.N)

	events, err := got.Events()
	require.NoError(t, err)
	require.Len(t, events, 5)
	for i, ev := range events {
		require.EqualValues(t, i, ev.ID)
	}
}

func TestSegmentAppendRejectsOverBudgetChunk(t *testing.T) {
	s := New(uuid.NewUUID(), 0, CompressionNone)
	err := s.Append(Chunk{Base: 0, N: 1, Compressed: make([]byte, 100)}, 10)
	require.Error(t, err)
}

func TestSegmentSeekLocatesOwningChunk(t *testing.T) {
	fixedID := uuid.NewUUID()
	w := newWriterWithIDFunc(100, CompressionLZ4, func() uuid.UUID { return fixedID })
	w.MaxEventsPerChunk = 4
	for i := 100; i < 112; i++ {
		require.NoError(t, w.Write(mkEvent(uint64(i), "v")))
	}
	segments, err := w.Flush()
	require.NoError(t, err)
	require.Len(t, segments, 1)

	events, offset, ok := segments[0].Seek(105)
	require.True(t, ok)
	require.EqualValues(t, 1, offset) // chunk covering [104,108) -> position 1
	require.EqualValues(t, 105, events[offset].ID)

	_, _, ok = segments[0].Seek(999)
	require.False(t, ok)
}

func TestReadFromRejectsBadMagic(t *testing.T) {
	_, err := ReadFrom(bytes.NewReader([]byte{0, 0, 0, 0}))
	require.Error(t, err)
}
