// Package search runs catalog searches and remembers the last one per browser.
//
// The cache is keyed by browser, not by user, so people sharing a browser see
// each other's last search. A cached search is shown again without touching the
// catalog until the browser submits a new query.
package search

import (
	"context"
	"errors"
	"log/slog"
	"moviesocial/proj/internal/domain/models"
	"moviesocial/proj/internal/storage"
	"time"
)

type Searcher interface {
	Search(ctx context.Context, query string) ([]models.Movie, error)
}

type Cache interface {
	Get(ctx context.Context, browserID string) (*models.SearchResult, error)
	Save(ctx context.Context, browserID string, result models.SearchResult) error
	Prune(ctx context.Context, olderThan time.Time) (int64, error)
}

type TaskExecutor interface {
	Add(task func())
}

type SearchService struct {
	log          *slog.Logger
	searcher     Searcher
	cache        Cache
	taskExecutor TaskExecutor
	retention    time.Duration
	now          func() time.Time
}

func New(log *slog.Logger, searcher Searcher, cache Cache, taskExecutor TaskExecutor, retention time.Duration) *SearchService {
	return &SearchService{
		log:          log,
		searcher:     searcher,
		cache:        cache,
		taskExecutor: taskExecutor,
		retention:    retention,
		now:          time.Now,
	}
}

// Restore returns the browser's last search, or nil when there is none.
func (s *SearchService) Restore(ctx context.Context, browserID string) (*models.SearchResult, error) {
	const op = "search.SearchService.Restore"
	log := s.log.With("op", op, "browser_id", browserID)
	if browserID == "" {
		return nil, nil
	}
	result, err := s.cache.Get(ctx, browserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		log.Error(err.Error())
		return nil, err
	}
	return result, nil
}

// Search queries the catalog and overwrites the browser's cached search.
// A failed cache write is logged; the fresh results are still returned.
func (s *SearchService) Search(ctx context.Context, browserID, query string) (*models.SearchResult, error) {
	const op = "search.SearchService.Search"
	log := s.log.With("op", op, "browser_id", browserID, "query", query)
	movies, err := s.searcher.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	result := models.SearchResult{Query: query, Results: movies, UpdatedAt: s.now()}
	if browserID != "" {
		if err := s.cache.Save(ctx, browserID, result); err != nil {
			log.Error("failed to cache search", "errMsg", err.Error())
		}
		s.schedulePrune()
	}
	return &result, nil
}

func (s *SearchService) schedulePrune() {
	if s.taskExecutor == nil || s.retention <= 0 {
		return
	}
	cutoff := s.now().Add(-s.retention)
	s.taskExecutor.Add(func() {
		const op = "search.SearchService.prune"
		log := s.log.With("op", op)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		n, err := s.cache.Prune(ctx, cutoff)
		if err != nil {
			log.Error("failed to prune search cache", "errMsg", err.Error())
			return
		}
		if n > 0 {
			log.Info("pruned stale searches", "count", n)
		}
	})
}
