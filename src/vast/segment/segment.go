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
	"bufio"
	"encoding/binary"
	"io"

	"github.com/pborman/uuid"

	"github.com/vast-io/vast/src/vast/verrors"
)

const (
	magic   uint32 = 0x56415354 // "VAST"
	version uint8  = 1
)

// Compression identifies the codec applied to a chunk's byte buffer.
type Compression uint8

const (
	CompressionNone Compression = iota
	CompressionLZ4
	CompressionSnappy
)

// Chunk holds a run of encoded events, compressed as one buffer, plus
// the [Base, Base+N) event ID range it covers.
type Chunk struct {
	Base       uint64
	N          uint32
	Compressed []byte
}

// Segment is the in-memory representation of one archive file: an
// ordered run of chunks spanning [Base, Base+N) event IDs.
type Segment struct {
	ID          uuid.UUID
	Base        uint64
	N           uint32
	Bytes       uint32
	Compression Compression
	Chunks      []Chunk
}

// New creates an empty segment starting at event ID base.
func New(id uuid.UUID, base uint64, compression Compression) *Segment {
	return &Segment{ID: id, Base: base, Compression: compression}
}

// Append adds a chunk to the segment, rejecting it if doing so would
// push the segment's occupied bytes past maxBytes. Callers finish the
// current segment and start a new one on rejection.
func (s *Segment) Append(c Chunk, maxBytes uint32) error {
	if s.Bytes+uint32(len(c.Compressed)) > maxBytes {
		return verrors.New(verrors.InvalidArgument, "chunk would exceed segment max_bytes")
	}
	s.Chunks = append(s.Chunks, c)
	s.N += c.N
	s.Bytes += uint32(len(c.Compressed))
	return nil
}

// WriteTo serializes the segment in its little-endian on-disk layout.
func (s *Segment) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	bw := bufio.NewWriter(cw)
	write := func(v interface{}) error {
		return binary.Write(bw, binary.LittleEndian, v)
	}
	if err := write(magic); err != nil {
		return cw.n, err
	}
	if err := write(version); err != nil {
		return cw.n, err
	}
	if _, err := bw.Write(s.ID); err != nil {
		return cw.n, err
	}
	if err := write(uint8(s.Compression)); err != nil {
		return cw.n, err
	}
	if err := write(s.Base); err != nil {
		return cw.n, err
	}
	if err := write(s.N); err != nil {
		return cw.n, err
	}
	if err := write(s.Bytes); err != nil {
		return cw.n, err
	}
	if err := write(uint32(len(s.Chunks))); err != nil {
		return cw.n, err
	}
	for _, c := range s.Chunks {
		if err := write(c.Base); err != nil {
			return cw.n, err
		}
		if err := write(c.N); err != nil {
			return cw.n, err
		}
		if err := write(uint32(len(c.Compressed))); err != nil {
			return cw.n, err
		}
		if _, err := bw.Write(c.Compressed); err != nil {
			return cw.n, err
		}
	}
	if err := bw.Flush(); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

// ReadFrom parses a segment from its on-disk representation,
// validating magic and version.
func ReadFrom(r io.Reader) (*Segment, error) {
	br := bufio.NewReader(r)
	read := func(v interface{}) error {
		return binary.Read(br, binary.LittleEndian, v)
	}
	var gotMagic uint32
	if err := read(&gotMagic); err != nil {
		return nil, verrors.Wrap(verrors.FormatError, err, "read segment magic")
	}
	if gotMagic != magic {
		return nil, verrors.New(verrors.FormatError, "segment magic mismatch")
	}
	var gotVersion uint8
	if err := read(&gotVersion); err != nil {
		return nil, verrors.Wrap(verrors.FormatError, err, "read segment version")
	}
	if gotVersion != version {
		return nil, verrors.New(verrors.FormatError, "unsupported segment version")
	}
	id := make(uuid.UUID, 16)
	if _, err := io.ReadFull(br, id); err != nil {
		return nil, verrors.Wrap(verrors.FormatError, err, "read segment id")
	}
	var compression uint8
	if err := read(&compression); err != nil {
		return nil, err
	}
	s := &Segment{ID: id, Compression: Compression(compression)}
	if err := read(&s.Base); err != nil {
		return nil, err
	}
	if err := read(&s.N); err != nil {
		return nil, err
	}
	if err := read(&s.Bytes); err != nil {
		return nil, err
	}
	var nchunks uint32
	if err := read(&nchunks); err != nil {
		return nil, err
	}
	s.Chunks = make([]Chunk, nchunks)
	for i := range s.Chunks {
		c := &s.Chunks[i]
		if err := read(&c.Base); err != nil {
			return nil, verrors.Wrap(verrors.FormatError, err, "read chunk base")
		}
		if err := read(&c.N); err != nil {
			return nil, verrors.Wrap(verrors.FormatError, err, "read chunk n")
		}
		var clen uint32
		if err := read(&clen); err != nil {
			return nil, verrors.Wrap(verrors.FormatError, err, "read chunk length")
		}
		c.Compressed = make([]byte, clen)
		if _, err := io.ReadFull(br, c.Compressed); err != nil {
			return nil, verrors.Wrap(verrors.FormatError, err, "read truncated chunk")
		}
	}
	return s, nil
}

// Events decompresses and decodes every event in the segment, in
// order, for sequential Read.
func (s *Segment) Events() ([]DecodedEvent, error) {
	var out []DecodedEvent
	for _, c := range s.Chunks {
		buf, err := decompress(s.Compression, c.Compressed)
		if err != nil {
			return nil, err
		}
		events, err := decodeChunkPayload(buf)
		if err != nil {
			return nil, err
		}
		if uint32(len(events)) != c.N {
			return nil, verrors.New(verrors.FormatError, "chunk element count mismatch")
		}
		out = append(out, events...)
	}
	return out, nil
}

// Seek returns the events of the chunk covering id, and the position
// of id within that chunk's decoded events. It reports ok=false if id
// falls outside the segment's [Base, Base+N) range.
func (s *Segment) Seek(id uint64) (events []DecodedEvent, offset int, ok bool) {
	if id < s.Base || id >= s.Base+uint64(s.N) {
		return nil, 0, false
	}
	for _, c := range s.Chunks {
		if id >= c.Base && id < c.Base+uint64(c.N) {
			buf, err := decompress(s.Compression, c.Compressed)
			if err != nil {
				return nil, 0, false
			}
			decoded, err := decodeChunkPayload(buf)
			if err != nil {
				return nil, 0, false
			}
			return decoded, int(id - c.Base), true
		}
	}
	return nil, 0, false
}
