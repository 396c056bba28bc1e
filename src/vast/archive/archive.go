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

// Package archive implements the segment manager and its
// store/retrieve/extract interface: a directory index from segment
// UUID to on-disk path, a cache-aware retrieve path, and an extract
// operation that streams events by mapping a bitmap of event IDs to
// their owning segments.
package archive

import (
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/pborman/uuid"

	"github.com/vast-io/vast/src/vast/bitmap"
	"github.com/vast-io/vast/src/vast/segment"
	"github.com/vast-io/vast/src/vast/verrors"
)

const defaultCacheSize = 64

type location struct {
	path string
	base uint64
	n    uint32
}

// Manager owns the on-disk archive rooted at Root: a directory index
// mapping segment IDs to file paths and a bounded cache of decoded
// segments.
type Manager struct {
	Root string

	mu       sync.RWMutex
	dir      map[uuid.Array]location
	order    []uuid.UUID // base-sorted for range lookups
	cache    *segmentLRU
	inflight map[uuid.Array]chan struct{}
}

// NewManager returns a manager rooted at root with a cache holding up
// to cacheSize segments. cacheSize <= 0 uses a sensible default.
func NewManager(root string, cacheSize int) *Manager {
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	return &Manager{
		Root:     root,
		dir:      make(map[uuid.Array]location),
		cache:    newSegmentLRU(cacheSize),
		inflight: make(map[uuid.Array]chan struct{}),
	}
}

func (m *Manager) pathFor(id uuid.UUID) string {
	return filepath.Join(m.Root, "archive", id.String())
}

// Store writes a finalized segment to disk and registers it in the
// directory index and cache.
func (m *Manager) Store(seg *segment.Segment) error {
	path := m.pathFor(seg.ID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return verrors.Wrap(verrors.IOError, err, "create archive directory")
	}
	f, err := os.Create(path)
	if err != nil {
		return verrors.Wrap(verrors.IOError, err, "create segment file")
	}
	defer f.Close()
	if _, err := seg.WriteTo(f); err != nil {
		return verrors.Wrap(verrors.IOError, err, "write segment")
	}

	m.mu.Lock()
	key := seg.ID.Array()
	_, exists := m.dir[key]
	m.dir[key] = location{path: path, base: seg.Base, n: seg.N}
	if !exists {
		m.order = append(m.order, seg.ID)
		sort.Slice(m.order, func(i, j int) bool {
			return m.dir[m.order[i].Array()].base < m.dir[m.order[j].Array()].base
		})
	}
	m.mu.Unlock()

	m.cache.Add(seg.ID, seg)
	return nil
}

// Retrieve returns the decoded segment for id, loading it from disk
// on a cache miss. Concurrent misses for the same id coalesce into a
// single disk read.
func (m *Manager) Retrieve(id uuid.UUID) (*segment.Segment, error) {
	if seg, ok := m.cache.Get(id); ok {
		return seg, nil
	}

	key := id.Array()
	m.mu.Lock()
	if wait, loading := m.inflight[key]; loading {
		m.mu.Unlock()
		<-wait
		if seg, ok := m.cache.Get(id); ok {
			return seg, nil
		}
		return nil, verrors.New(verrors.IOError, "segment load failed in another goroutine")
	}
	done := make(chan struct{})
	m.inflight[key] = done
	loc, ok := m.dir[key]
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		delete(m.inflight, key)
		m.mu.Unlock()
		close(done)
	}()

	if !ok {
		return nil, verrors.New(verrors.InvalidArgument, "unknown segment id")
	}
	f, err := os.Open(loc.path)
	if err != nil {
		return nil, verrors.Wrap(verrors.IOError, err, "open segment file")
	}
	defer f.Close()
	seg, err := segment.ReadFrom(f)
	if err != nil {
		return nil, err
	}
	m.cache.Add(id, seg)
	return seg, nil
}

// Extract streams the decoded events whose IDs are set in ids, in
// increasing ID order, by mapping each ID to its owning segment and
// calling that segment's Seek.
func (m *Manager) Extract(ids *bitmap.Bitmap) (<-chan segment.DecodedEvent, <-chan error) {
	out := make(chan segment.DecodedEvent)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		for _, pos := range ids.Positions() {
			id, ok := m.locate(pos)
			if !ok {
				continue
			}
			seg, err := m.Retrieve(id)
			if err != nil {
				errc <- err
				return
			}
			events, offset, ok := seg.Seek(pos)
			if !ok || offset >= len(events) {
				continue
			}
			out <- events[offset]
		}
	}()
	return out, errc
}

// locate finds the segment owning event ID pos by walking the
// base-sorted directory index for the range [base, base+n) containing
// it.
func (m *Manager) locate(pos uint64) (uuid.UUID, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, id := range m.order {
		loc := m.dir[id.Array()]
		if pos >= loc.base && pos < loc.base+uint64(loc.n) {
			return id, true
		}
	}
	return nil, false
}
