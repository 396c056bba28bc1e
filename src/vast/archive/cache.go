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
	"container/list"
	"sync"

	"github.com/pborman/uuid"

	"github.com/vast-io/vast/src/vast/segment"
)

// segmentLRU is a fixed-size, uuid.Array-keyed LRU cache of decoded
// segments. The key space is a single segment UUID rather than a
// compound field/pattern key, so one evict list and one map suffice;
// there's no need to shard the lock, since a single segment UUID
// keyspace never sees the contention a much higher-cardinality key
// space would.
type segmentLRU struct {
	mu        sync.Mutex
	size      int
	evictList *list.List
	items     map[uuid.Array]*list.Element
}

type cacheEntry struct {
	id  uuid.UUID
	seg *segment.Segment
}

func newSegmentLRU(size int) *segmentLRU {
	return &segmentLRU{
		size:      size,
		evictList: list.New(),
		items:     make(map[uuid.Array]*list.Element),
	}
}

// Get returns the cached segment for id, moving it to the front of
// the eviction order on a hit.
func (c *segmentLRU) Get(id uuid.UUID) (*segment.Segment, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[id.Array()]
	if !ok {
		return nil, false
	}
	c.evictList.MoveToFront(el)
	return el.Value.(*cacheEntry).seg, true
}

// Add inserts or refreshes a segment, evicting the least recently
// used entry if the cache is now over capacity.
func (c *segmentLRU) Add(id uuid.UUID, seg *segment.Segment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := id.Array()
	if el, ok := c.items[key]; ok {
		c.evictList.MoveToFront(el)
		el.Value.(*cacheEntry).seg = seg
		return
	}
	el := c.evictList.PushFront(&cacheEntry{id: id, seg: seg})
	c.items[key] = el
	if c.evictList.Len() > c.size {
		c.removeOldest()
	}
}

// Remove purges id from the cache, e.g. once its segment file is
// deleted from the archive.
func (c *segmentLRU) Remove(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[id.Array()]; ok {
		c.evictList.Remove(el)
		delete(c.items, id.Array())
	}
}

func (c *segmentLRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evictList.Len()
}

func (c *segmentLRU) removeOldest() {
	el := c.evictList.Back()
	if el == nil {
		return
	}
	c.evictList.Remove(el)
	delete(c.items, el.Value.(*cacheEntry).id.Array())
}
