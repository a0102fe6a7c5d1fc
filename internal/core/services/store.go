package services

import (
	"sync"

	"github.com/w365ops/cloudpcctl/internal/core/domain"
)

// InventoryStore holds the last-fetched Cloud PC collection. The collection
// is replaced wholesale on every refresh; there is no incremental merge.
type InventoryStore struct {
	mu      sync.RWMutex
	records []domain.CloudPC
}

// NewInventoryStore creates an empty store.
func NewInventoryStore() *InventoryStore {
	return &InventoryStore{}
}

// Replace atomically swaps the held collection.
func (s *InventoryStore) Replace(records []domain.CloudPC) {
	copied := make([]domain.CloudPC, len(records))
	copy(copied, records)

	s.mu.Lock()
	s.records = copied
	s.mu.Unlock()
}

// All returns a copy of the full collection in original order.
func (s *InventoryStore) All() []domain.CloudPC {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.CloudPC, len(s.records))
	copy(out, s.records)
	return out
}

// Filtered returns the records whose ID, name, user, status, or service
// plan contains the query, case-insensitively. An empty query returns the
// full collection. Original order is preserved.
func (s *InventoryStore) Filtered(query string) []domain.CloudPC {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.CloudPC, 0, len(s.records))
	for i := range s.records {
		if s.records[i].Matches(query) {
			out = append(out, s.records[i])
		}
	}
	return out
}

// Get returns the record with the given ID.
func (s *InventoryStore) Get(id string) (domain.CloudPC, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.records {
		if s.records[i].ID == id {
			return s.records[i], true
		}
	}
	return domain.CloudPC{}, false
}

// GraceCount returns how many held records are in grace period.
func (s *InventoryStore) GraceCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for i := range s.records {
		if s.records[i].InGracePeriod() {
			count++
		}
	}
	return count
}

// Len returns the number of held records.
func (s *InventoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
