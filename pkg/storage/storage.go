// Package storage persists globally immutable bindings between runs.
// Values arrive already serialized; a store only keeps bytes, the declared
// confidence, and the key.
package storage

import (
	"sort"
	"sync"
)

// Entry is one stored binding.
type Entry struct {
	Confidence int
	Data       []byte
}

// Store is the persistence backend contract. Put overwrites only when the
// incoming confidence is at least the stored one; lower-confidence writes
// are dropped silently, mirroring how redeclaration works in memory.
type Store interface {
	Put(key string, confidence int, data []byte) error
	Get(key string) (Entry, bool, error)
	Keys() ([]string, error)
}

// MemoryStore keeps entries for the lifetime of the process. It backs
// tests and ephemeral runs.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

func (s *MemoryStore) Put(key string, confidence int, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.entries[key]; ok && prev.Confidence > confidence {
		return nil
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	s.entries[key] = Entry{Confidence: confidence, Data: stored}
	return nil
}

func (s *MemoryStore) Get(key string) (Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	return e, ok, nil
}

func (s *MemoryStore) Keys() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
