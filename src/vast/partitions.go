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
	"container/list"
	"sync"

	"github.com/pborman/uuid"

	"github.com/vast-io/vast/src/vast/partition"
)

// partitionCache is the LRU of open partitions shared between
// ingestion and the query scheduler: the scheduler only ever reads it
// through the scheduler.PartitionSource interface, but the core is the
// sole mutator, adding a partition when it is created and evicting the
// coldest one once the cache is full.
type partitionCache struct {
	mu        sync.Mutex
	size      int
	evictList *list.List
	items     map[uuid.Array]*list.Element
	onEvict   func(*partition.Partition)
}

type partitionCacheEntry struct {
	id uuid.UUID
	p  *partition.Partition
}

func newPartitionCache(size int, onEvict func(*partition.Partition)) *partitionCache {
	if size <= 0 {
		size = 256
	}
	return &partitionCache{
		size:      size,
		evictList: list.New(),
		items:     make(map[uuid.Array]*list.Element),
		onEvict:   onEvict,
	}
}

// Get implements scheduler.PartitionSource.
func (c *partitionCache) Get(id uuid.UUID) (*partition.Partition, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[id.Array()]
	if !ok {
		return nil, false
	}
	c.evictList.MoveToFront(el)
	return el.Value.(*partitionCacheEntry).p, true
}

// Resident implements scheduler.PartitionSource: every partition this
// cache holds is, by definition, resident.
func (c *partitionCache) Resident(id uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[id.Array()]
	return ok
}

// Add inserts or refreshes p, evicting the least-recently-used
// partition (via onEvict, expected to seal and flush it) if the cache
// is now over capacity. A partition with outstanding Refs (see
// partition.Ref) is skipped during eviction and retried against the
// next-oldest entry, so a partition a query is actively evaluating is
// never evicted out from under it. The entry being added is never
// evicted; when every older entry holds Refs the cache stays over
// capacity.
func (c *partitionCache) Add(p *partition.Partition) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := p.ID().Array()
	if el, ok := c.items[key]; ok {
		c.evictList.MoveToFront(el)
		el.Value.(*partitionCacheEntry).p = p
		return
	}
	el := c.evictList.PushFront(&partitionCacheEntry{id: p.ID(), p: p})
	c.items[key] = el
	for c.evictList.Len() > c.size {
		if !c.evictOldest() {
			break
		}
	}
}

// Remove drops id from the cache without invoking onEvict, used once
// a partition has already been sealed and flushed by other means.
func (c *partitionCache) Remove(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[id.Array()]; ok {
		c.evictList.Remove(el)
		delete(c.items, id.Array())
	}
}

func (c *partitionCache) evictOldest() bool {
	for el := c.evictList.Back(); el != nil; el = el.Prev() {
		if el == c.evictList.Front() {
			// Never evict the entry Add just inserted.
			return false
		}
		entry := el.Value.(*partitionCacheEntry)
		if entry.p.Refs() > 0 {
			continue
		}
		c.evictList.Remove(el)
		delete(c.items, entry.id.Array())
		if c.onEvict != nil {
			c.onEvict(entry.p)
		}
		return true
	}
	return false
}

// Len reports the number of partitions currently cached.
func (c *partitionCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evictList.Len()
}
