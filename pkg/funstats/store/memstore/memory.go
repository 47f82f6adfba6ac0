package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cognicore/funstats/pkg/funstats/internalerr"
	"github.com/cognicore/funstats/pkg/funstats/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu   sync.RWMutex
	runs map[string]store.Run
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{runs: make(map[string]store.Run)}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// RecordRun stores a copy of r.
func (s *Store) RecordRun(ctx context.Context, r store.Run) error {
	if r.ID == "" {
		return fmt.Errorf("%w: run without id", internalerr.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[r.ID]; ok {
		return fmt.Errorf("%w: duplicate run id %s", internalerr.ErrInvalidInput, r.ID)
	}
	s.runs[r.ID] = copyRun(r)
	return nil
}

// GetRun returns a run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.runs[id]
	if !ok {
		return store.Run{}, fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	return copyRun(r), nil
}

// Runs lists runs newest first without snapshots or documents.
func (s *Store) Runs(ctx context.Context, limit int) ([]store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]store.Run, 0, len(s.runs))
	for _, r := range s.sortedLocked() {
		r.Documents = nil
		r.Snapshot = nil
		runs = append(runs, r)
	}
	return truncate(runs, limit), nil
}

// DocumentHistory lists the rows recorded for name, newest run first.
func (s *Store) DocumentHistory(ctx context.Context, name string, limit int) ([]store.DocumentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []store.DocumentRecord
	for _, r := range s.sortedLocked() {
		for _, d := range r.Documents {
			if d.Name == name {
				d.RunID = r.ID
				out = append(out, d)
			}
		}
	}
	return truncate(out, limit), nil
}

func (s *Store) sortedLocked() []store.Run {
	runs := make([]store.Run, 0, len(s.runs))
	for _, r := range s.runs {
		runs = append(runs, r)
	}
	sort.Slice(runs, func(i, j int) bool {
		if !runs[i].GeneratedAt.Equal(runs[j].GeneratedAt) {
			return runs[i].GeneratedAt.After(runs[j].GeneratedAt)
		}
		return runs[i].ID > runs[j].ID
	})
	return runs
}

func truncate[T any](in []T, limit int) []T {
	if limit <= 0 {
		limit = store.DefaultLimit
	}
	if len(in) > limit {
		return in[:limit]
	}
	return in
}

func copyRun(r store.Run) store.Run {
	out := r
	if r.Documents != nil {
		out.Documents = make([]store.DocumentRecord, len(r.Documents))
		for i, d := range r.Documents {
			d.RunID = r.ID
			out.Documents[i] = d
		}
	}
	if r.Snapshot != nil {
		out.Snapshot = append([]byte(nil), r.Snapshot...)
	}
	return out
}
