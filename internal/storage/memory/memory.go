package memory

import (
	"context"
	"moviesocial/proj/internal/domain/models"
	"moviesocial/proj/internal/storage"
	"slices"
	"sync"
	"time"
)

type Storage struct {
	mu      sync.RWMutex
	entries map[string]models.SearchResult
}

func New() *Storage {
	return &Storage{entries: make(map[string]models.SearchResult)}
}

func (s *Storage) Get(_ context.Context, browserID string) (*models.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[browserID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	entry.Results = slices.Clone(entry.Results)
	return &entry, nil
}

func (s *Storage) Save(_ context.Context, browserID string, result models.SearchResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	result.Results = slices.Clone(result.Results)
	s.entries[browserID] = result
	return nil
}

func (s *Storage) Prune(_ context.Context, olderThan time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, entry := range s.entries {
		if entry.UpdatedAt.Before(olderThan) {
			delete(s.entries, id)
			n++
		}
	}
	return n, nil
}

func (s *Storage) Close() error {
	return nil
}
