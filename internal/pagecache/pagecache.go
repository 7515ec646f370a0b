/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package pagecache keeps recently decoded page bytes in memory so that
// flipping back and forth between pages does not re-read the archive. It is
// a byte-budgeted LRU: the unit of accounting is the stored value's length,
// not the entry count.
package pagecache

import (
	"container/list"
	"sync"
)

// Cache is an LRU byte cache with a configurable byte budget. It is safe
// for concurrent use.
type Cache struct {
	mu      sync.Mutex
	maxSize int
	size    int
	order   *list.List // front is most recently used
	entries map[string]*list.Element
}

type entry struct {
	key  string
	data []byte
}

// New returns a cache that holds at most maxSize bytes of values.
func New(maxSize int) *Cache {
	return &Cache{
		maxSize: maxSize,
		order:   list.New(),
		entries: make(map[string]*list.Element),
	}
}

// Get returns the cached bytes for key and marks the entry recently used,
// or nil when the key is absent. Callers must not mutate the returned slice.
func (c *Cache) Get(key string) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.entries[key]
	if !ok {
		return nil
	}
	c.order.MoveToFront(el)
	return el.Value.(*entry).data
}

// Store inserts or replaces the bytes for key, then evicts least recently
// used entries until the cache fits its budget again. A value larger than
// the whole budget is evicted immediately.
func (c *Cache) Store(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[key]; ok {
		e := el.Value.(*entry)
		c.size += len(data) - len(e.data)
		e.data = data
		c.order.MoveToFront(el)
	} else {
		c.entries[key] = c.order.PushFront(&entry{key: key, data: data})
		c.size += len(data)
	}
	c.drop()
}

// Size returns the current byte usage.
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// MaxSize returns the byte budget.
func (c *Cache) MaxSize() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.maxSize
}

// SetMaxSize changes the byte budget and evicts immediately if the cache
// no longer fits.
func (c *Cache) SetMaxSize(maxSize int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maxSize = maxSize
	c.drop()
}

// Fits reports whether n more bytes would fit without eviction.
func (c *Cache) Fits(n int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size+n <= c.maxSize
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// drop evicts from the least recently used end until size <= maxSize.
// Callers hold the lock.
func (c *Cache) drop() {
	for c.size > c.maxSize {
		el := c.order.Back()
		if el == nil {
			return
		}
		e := el.Value.(*entry)
		c.order.Remove(el)
		delete(c.entries, e.key)
		c.size -= len(e.data)
	}
}
