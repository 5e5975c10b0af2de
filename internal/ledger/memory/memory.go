// Package memory is the in-process ledger adapter used for tests and local
// runs without external services.
package memory

import (
	"context"
	"fmt"
	"sync"

	"quanly/internal/core"
)

type Store struct {
	mu      sync.Mutex
	entries []core.LeaseEntry
}

func New() *Store {
	return &Store{}
}

// NewSeeded creates a store preloaded with entries, normalized the same way
// Append normalizes.
func NewSeeded(entries []core.LeaseEntry) *Store {
	s := New()
	for i := range entries {
		entries[i].UnitID = core.NormalizeUnitID(entries[i].UnitID)
	}
	s.entries = append(s.entries, entries...)
	return s
}

// Append stores the entry and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, e core.LeaseEntry) (string, error) {
	e.UnitID = core.NormalizeUnitID(e.UnitID)
	if err := e.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	return fmt.Sprintf("mem:%d", len(s.entries)), nil
}

// ListEntries returns a copy of the raw entry log in insertion order.
func (s *Store) ListEntries(_ context.Context) ([]core.LeaseEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.LeaseEntry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

// ReplaceAll swaps the whole table, mirroring the spreadsheet semantics.
func (s *Store) ReplaceAll(_ context.Context, entries []core.LeaseEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make([]core.LeaseEntry, len(entries))
	copy(s.entries, entries)
	return nil
}
