// Package memstore is an in-memory store.Store for tests.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/nordtext/bidict/pkg/bidict/aggregate"
	"github.com/nordtext/bidict/pkg/bidict/store"
)

// Store is an in-memory implementation of store.Store.
type Store struct {
	mu      sync.RWMutex
	runs    map[string]store.Run
	entries map[string][]aggregate.Entry
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		runs:    make(map[string]store.Run),
		entries: make(map[string][]aggregate.Entry),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveRun inserts or replaces a run record.
func (s *Store) SaveRun(ctx context.Context, r store.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[r.ID] = r
	return nil
}

// GetRun returns a run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (store.Run, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.runs[id]
	return r, ok, nil
}

// ListRuns returns all runs sorted by ID. ULIDs sort chronologically,
// so this is also start order.
func (s *Store) ListRuns(ctx context.Context) ([]store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]store.Run, 0, len(s.runs))
	for _, r := range s.runs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// SaveEntries replaces the stored dictionary for a run.
func (s *Store) SaveEntries(ctx context.Context, runID string, entries []aggregate.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[runID] = copyEntries(entries)
	return nil
}

// GetEntries returns a run's dictionary sorted by source token.
func (s *Store) GetEntries(ctx context.Context, runID string) ([]aggregate.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := copyEntries(s.entries[runID])
	sort.Slice(out, func(i, j int) bool { return out[i].Source < out[j].Source })
	return out, nil
}

// GetEntry returns one source token's entry.
func (s *Store) GetEntry(ctx context.Context, runID, source string) (aggregate.Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries[runID] {
		if e.Source == source {
			return copyEntry(e), true, nil
		}
	}
	return aggregate.Entry{}, false, nil
}

func copyEntries(entries []aggregate.Entry) []aggregate.Entry {
	if entries == nil {
		return nil
	}
	out := make([]aggregate.Entry, len(entries))
	for i, e := range entries {
		out[i] = copyEntry(e)
	}
	return out
}

func copyEntry(e aggregate.Entry) aggregate.Entry {
	targets := make([]aggregate.Translation, len(e.Targets))
	copy(targets, e.Targets)
	return aggregate.Entry{Source: e.Source, Targets: targets}
}
