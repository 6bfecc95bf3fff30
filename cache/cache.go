// api/cache/cache.go
package cache

import (
	"encoding/json"
	"strings"
	"sync"
)

// Store is the process-wide result cache: a key to serialized-JSON mapping
// with explicit invalidation and no expiry. Entries live until they are
// deleted, overwritten, or the process exits.
//
// Reads and writes are atomic per key; there is no cross-key transaction.
// A handler writing several related keys may be observed mid-update by a
// concurrent reader, which is tolerated (stale, never partial).
type Store struct {
	mu      sync.RWMutex
	entries map[string]string
}

// New creates an empty store. The store is shared, mutable state: construct
// one per process and inject it into whatever composes the handlers.
func New() *Store {
	return &Store{entries: make(map[string]string)}
}

// Read returns the serialized value under key, or ok=false on a miss.
// A miss is not an error and has no side effects.
func (s *Store) Read(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.entries[key]
	return value, ok
}

// Write serializes value and stores it under key, unconditionally replacing
// any prior entry. The argument order mirrors the write path: the computed
// value exists first, the key addresses it.
func (s *Store) Write(value interface{}, key string) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.entries[key] = string(data)
	s.mu.Unlock()
	return nil
}

// Delete removes exactly one entry; a no-op if the key is absent.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// DeletePrefix removes every entry whose key starts with prefix. This is
// the bulk-invalidation primitive: keys are constructed so that one prefix
// covers exactly the family of cached results a mutation staled. The scan
// is O(n) over all keys, which is fine because invalidation runs on the
// low-frequency write path.
func (s *Store) DeletePrefix(prefix string) {
	s.mu.Lock()
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
		}
	}
	s.mu.Unlock()
}

// Len reports the number of live entries. There is no eviction policy, so
// this is the knob to watch for unbounded growth.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
