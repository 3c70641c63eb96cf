// Package store keeps the latest integrated record per facility and
// hands out point-in-time snapshots to readers.
package store

import (
	"sync"

	"github.com/renggafirmandika/de-datastreaming/internal/models"
)

// Store maps facility code to its latest integrated record. Writers
// replace records wholesale; readers get independent copies.
type Store struct {
	mu      sync.RWMutex
	records map[string]models.IntegratedRecord
}

// NewStore allocates an empty store.
func NewStore() *Store {
	return &Store{
		records: make(map[string]models.IntegratedRecord),
	}
}

// Upsert replaces the record for a facility code. No field-by-field
// merging: the previous record is discarded entirely.
func (s *Store) Upsert(facilityCode string, record models.IntegratedRecord) {
	s.mu.Lock()
	s.records[facilityCode] = record
	s.mu.Unlock()
}

// Snapshot returns an independent, point-in-time copy of the mapping.
// A consumer iterating the result never observes a partial mutation
// and never blocks a writer beyond the copy itself.
func (s *Store) Snapshot() map[string]models.IntegratedRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]models.IntegratedRecord, len(s.records))
	for code, record := range s.records {
		out[code] = record
	}
	return out
}

// Len reports the number of facilities tracked.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
