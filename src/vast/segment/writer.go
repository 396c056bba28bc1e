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
	"encoding/binary"
	"io"

	"github.com/golang/snappy"
	"github.com/pborman/uuid"
	"github.com/pierrec/lz4/v4"

	"github.com/vast-io/vast/src/vast/vdata"
	"github.com/vast-io/vast/src/vast/verrors"
)

// DecodedEvent pairs an absolute event ID with its decoded
// payload.
type DecodedEvent struct {
	ID   uint64
	Data vdata.Data
}

// countingWriter tracks the number of bytes written through it so
// WriteTo can report an accurate byte count even on partial failure.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

const (
	// DefaultMaxEventsPerChunk is the default chunk size.
	DefaultMaxEventsPerChunk = 4096
	// DefaultMaxBytes is the default per-segment byte budget.
	DefaultMaxBytes = 128 << 20
)

// Writer implements the event -> chunk::writer -> chunk::flush ->
// segment::append pipeline: it buffers events into chunks and rolls
// segments over once a chunk would exceed MaxBytes.
type Writer struct {
	MaxEventsPerChunk int
	MaxBytes          uint32
	Compression       Compression

	newID func() uuid.UUID

	current  *Segment
	pending  []vdata.Event
	base     uint64
	nextID   uint64
	finished []*Segment
}

// NewWriter returns a writer starting event numbering at base.
func NewWriter(base uint64, compression Compression) *Writer {
	return newWriterWithIDFunc(base, compression, uuid.NewUUID)
}

func newWriterWithIDFunc(base uint64, compression Compression, newID func() uuid.UUID) *Writer {
	w := &Writer{
		MaxEventsPerChunk: DefaultMaxEventsPerChunk,
		MaxBytes:          DefaultMaxBytes,
		Compression:       compression,
		newID:             newID,
		base:              base,
		nextID:            base,
	}
	w.current = New(w.newID(), base, compression)
	return w
}

// Write buffers one event, flushing a chunk (and rolling to a new
// segment if necessary) once MaxEventsPerChunk is reached. The
// caller's events must carry consecutive IDs starting at base.
func (w *Writer) Write(e vdata.Event) error {
	w.pending = append(w.pending, e)
	w.nextID++
	if len(w.pending) >= w.MaxEventsPerChunk {
		return w.flushChunk()
	}
	return nil
}

func (w *Writer) flushChunk() error {
	if len(w.pending) == 0 {
		return nil
	}
	chunkBase := w.nextID - uint64(len(w.pending))
	payload, err := encodeChunkPayload(w.pending)
	if err != nil {
		return err
	}
	compressed, err := compress(w.Compression, payload)
	if err != nil {
		return err
	}
	chunk := Chunk{Base: chunkBase, N: uint32(len(w.pending)), Compressed: compressed}
	if err := w.current.Append(chunk, w.MaxBytes); err != nil {
		w.finished = append(w.finished, w.current)
		w.current = New(w.newID(), chunkBase, w.Compression)
		if err := w.current.Append(chunk, w.MaxBytes); err != nil {
			return verrors.Wrap(verrors.InvalidArgument, err, "chunk exceeds segment max_bytes on its own")
		}
	}
	w.pending = w.pending[:0]
	return nil
}

// Flush closes out any buffered events into a final chunk and returns
// every segment produced so far, resetting the writer for a fresh
// segment.
func (w *Writer) Flush() ([]*Segment, error) {
	if err := w.flushChunk(); err != nil {
		return nil, err
	}
	out := w.finished
	if w.current.N > 0 {
		out = append(out, w.current)
	}
	w.finished = nil
	w.current = New(w.newID(), w.nextID, w.Compression)
	return out, nil
}

func encodeChunkPayload(events []vdata.Event) ([]byte, error) {
	var buf bytes.Buffer
	for _, e := range events {
		ev, err := EncodeEvent(e)
		if err != nil {
			return nil, err
		}
		if err := binary.Write(&buf, binary.LittleEndian, uint32(len(ev))); err != nil {
			return nil, err
		}
		buf.Write(ev)
	}
	return buf.Bytes(), nil
}

func decodeChunkPayload(buf []byte) ([]DecodedEvent, error) {
	r := bytes.NewReader(buf)
	var out []DecodedEvent
	for r.Len() > 0 {
		var n uint32
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return nil, verrors.Wrap(verrors.FormatError, err, "read chunk event length")
		}
		raw := make([]byte, n)
		if _, err := io.ReadFull(r, raw); err != nil {
			return nil, verrors.Wrap(verrors.FormatError, err, "read truncated chunk event")
		}
		ev, err := DecodeEvent(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, DecodedEvent{ID: ev.ID, Data: ev.Data})
	}
	return out, nil
}

func compress(method Compression, buf []byte) ([]byte, error) {
	switch method {
	case CompressionNone:
		return buf, nil
	case CompressionSnappy:
		return snappy.Encode(nil, buf), nil
	case CompressionLZ4:
		var out bytes.Buffer
		zw := lz4.NewWriter(&out)
		if _, err := zw.Write(buf); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		return out.Bytes(), nil
	default:
		return nil, verrors.New(verrors.InvalidArgument, "unknown compression method")
	}
}

func decompress(method Compression, buf []byte) ([]byte, error) {
	switch method {
	case CompressionNone:
		return buf, nil
	case CompressionSnappy:
		out, err := snappy.Decode(nil, buf)
		if err != nil {
			return nil, verrors.Wrap(verrors.FormatError, err, "snappy decompress")
		}
		return out, nil
	case CompressionLZ4:
		zr := lz4.NewReader(bytes.NewReader(buf))
		out, err := io.ReadAll(zr)
		if err != nil {
			return nil, verrors.Wrap(verrors.FormatError, err, "lz4 decompress")
		}
		return out, nil
	default:
		return nil, verrors.New(verrors.FormatError, "unknown compression method")
	}
}
