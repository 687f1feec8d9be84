package cache

import (
	"container/list"
	"sync"

	"github.com/dongleekousik-jpg/narada/narrate/codec"
)

// Memory is an in-memory cache of decoded sample buffers with LRU eviction.
// Entries live for the process lifetime or until evicted under the byte
// capacity limit.
type Memory struct {
	capacity int64
	size     int64

	items    map[string]*list.Element
	eviction *list.List

	mu sync.Mutex

	hits   int64
	misses int64
}

type memoryEntry struct {
	key    string
	buffer *codec.Buffer
	size   int64
}

// NewMemory creates a memory cache with the given capacity in bytes.
func NewMemory(capacity int64) *Memory {
	return &Memory{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		eviction: list.New(),
	}
}

// Get retrieves a decoded buffer from the cache.
func (c *Memory) Get(key string) (*codec.Buffer, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		c.misses++
		return nil, false
	}

	c.eviction.MoveToFront(elem)
	c.hits++
	return elem.Value.(*memoryEntry).buffer, true
}

// Put stores a decoded buffer, evicting least recently used entries as
// needed. Buffers larger than the whole cache are silently skipped.
func (c *Memory) Put(key string, buffer *codec.Buffer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	size := buffer.MemSize()
	if size > c.capacity {
		return
	}

	if elem, ok := c.items[key]; ok {
		entry := elem.Value.(*memoryEntry)
		c.size += size - entry.size
		entry.buffer = buffer
		entry.size = size
		c.eviction.MoveToFront(elem)
		c.evictLocked()
		return
	}

	elem := c.eviction.PushFront(&memoryEntry{key: key, buffer: buffer, size: size})
	c.items[key] = elem
	c.size += size
	c.evictLocked()
}

// Contains reports whether the key is cached without touching LRU order.
func (c *Memory) Contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok
}

// Len returns the number of cached entries.
func (c *Memory) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Size returns the current cache size in bytes.
func (c *Memory) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// Clear removes all entries.
func (c *Memory) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element)
	c.eviction.Init()
	c.size = 0
}

func (c *Memory) evictLocked() {
	for c.size > c.capacity {
		elem := c.eviction.Back()
		if elem == nil {
			return
		}
		entry := elem.Value.(*memoryEntry)
		c.eviction.Remove(elem)
		delete(c.items, entry.key)
		c.size -= entry.size
	}
}
