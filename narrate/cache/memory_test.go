package cache

import (
	"fmt"
	"testing"

	"github.com/dongleekousik-jpg/narada/narrate/codec"
)

func bufferOfFrames(frames int) *codec.Buffer {
	return &codec.Buffer{SampleRate: 24000, Channels: [][]float32{make([]float32, frames)}}
}

func TestMemory_BasicOperations(t *testing.T) {
	cache := NewMemory(1 << 20)

	key := "en-srivaritemple"
	buf := bufferOfFrames(100)

	cache.Put(key, buf)

	retrieved, ok := cache.Get(key)
	if !ok {
		t.Fatal("Get failed: key not found")
	}
	if retrieved.FrameCount() != 100 {
		t.Errorf("frame count = %d, want 100", retrieved.FrameCount())
	}

	if !cache.Contains(key) {
		t.Error("Contains returned false for existing key")
	}
	if cache.Size() != buf.MemSize() {
		t.Errorf("Size = %d, want %d", cache.Size(), buf.MemSize())
	}

	cache.Clear()
	if cache.Contains(key) {
		t.Error("key still present after Clear")
	}
	if cache.Len() != 0 || cache.Size() != 0 {
		t.Errorf("Len=%d Size=%d after Clear, want 0/0", cache.Len(), cache.Size())
	}
}

func TestMemory_Miss(t *testing.T) {
	cache := NewMemory(1 << 20)
	if _, ok := cache.Get("absent"); ok {
		t.Error("Get of absent key returned ok")
	}
}

func TestMemory_LRUEviction(t *testing.T) {
	// Each 100-frame mono buffer is 400 bytes; room for two.
	cache := NewMemory(800)

	cache.Put("a", bufferOfFrames(100))
	cache.Put("b", bufferOfFrames(100))

	// Touch "a" so "b" becomes the eviction candidate.
	if _, ok := cache.Get("a"); !ok {
		t.Fatal("a missing before eviction")
	}

	cache.Put("c", bufferOfFrames(100))

	if cache.Contains("b") {
		t.Error("b should have been evicted")
	}
	if !cache.Contains("a") || !cache.Contains("c") {
		t.Error("a and c should survive eviction")
	}
}

func TestMemory_OversizedSkipped(t *testing.T) {
	cache := NewMemory(100)
	cache.Put("huge", bufferOfFrames(1000))
	if cache.Contains("huge") {
		t.Error("oversized buffer should not be cached")
	}
	if cache.Size() != 0 {
		t.Errorf("Size = %d, want 0", cache.Size())
	}
}

func TestMemory_UpdateExisting(t *testing.T) {
	cache := NewMemory(1 << 20)
	cache.Put("k", bufferOfFrames(10))
	cache.Put("k", bufferOfFrames(20))

	buf, ok := cache.Get("k")
	if !ok {
		t.Fatal("k missing")
	}
	if buf.FrameCount() != 20 {
		t.Errorf("frame count = %d, want 20", buf.FrameCount())
	}
	if cache.Len() != 1 {
		t.Errorf("Len = %d, want 1", cache.Len())
	}
}

func TestMemory_ManyEntries(t *testing.T) {
	cache := NewMemory(1 << 20)
	for i := 0; i < 50; i++ {
		cache.Put(fmt.Sprintf("key-%d", i), bufferOfFrames(10))
	}
	if cache.Len() != 50 {
		t.Errorf("Len = %d, want 50", cache.Len())
	}
}
