package timeline

import (
	"encoding/json"
	"sort"
	"sync"
)

// StatusStore is the keyed name→status aggregate for the replace-field
// merge policy. Background pushes replace one process's blob without
// touching the rest; the store is owned by one view controller and read
// by others through accessors, never as ambient shared state.
type StatusStore struct {
	mu       sync.RWMutex
	statuses map[string]json.RawMessage
}

// NewStatusStore creates an empty status store.
func NewStatusStore() *StatusStore {
	return &StatusStore{statuses: make(map[string]json.RawMessage)}
}

// ReplaceAll swaps in a full authoritative snapshot.
func (s *StatusStore) ReplaceAll(statuses map[string]json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.statuses = make(map[string]json.RawMessage, len(statuses))
	for name, status := range statuses {
		s.statuses[name] = status
	}
}

// Set replaces the single named field, leaving every other key intact.
func (s *StatusStore) Set(name string, status json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[name] = status
}

// Get returns the raw blob for name. The boolean existence check is the
// only interpretation the console performs on the blob.
func (s *StatusStore) Get(name string) (json.RawMessage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status, ok := s.statuses[name]
	return status, ok
}

// Names returns the known process names, sorted for stable rendering.
func (s *StatusStore) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.statuses))
	for name := range s.statuses {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
