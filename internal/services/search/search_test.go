package search

import (
	"context"
	"errors"
	"moviesocial/proj/internal/domain/models"
	"moviesocial/proj/internal/lib/logger"
	"moviesocial/proj/internal/storage/memory"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSearcher struct {
	calls   int
	results []models.Movie
	err     error
}

func (s *stubSearcher) Search(_ context.Context, query string) ([]models.Movie, error) {
	s.calls++
	return s.results, s.err
}

type inlineTasks struct {
	added int
}

func (t *inlineTasks) Add(task func()) {
	t.added++
	task()
}

func TestSearchCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	searcher := &stubSearcher{results: []models.Movie{{ID: 24428, Title: "The Avengers"}, {ID: 1726, Title: "Iron Man"}}}
	tasks := &inlineTasks{}
	svc := New(logger.Discard(), searcher, memory.New(), tasks, time.Hour)

	restored, err := svc.Restore(ctx, "browser-1")
	require.NoError(t, err)
	assert.Nil(t, restored)

	fresh, err := svc.Search(ctx, "browser-1", "marvel")
	require.NoError(t, err)
	assert.Equal(t, 1, tasks.added)

	restored, err = svc.Restore(ctx, "browser-1")
	require.NoError(t, err)
	require.NotNil(t, restored)
	assert.Equal(t, "marvel", restored.Query)
	assert.Equal(t, fresh.Results, restored.Results)
	assert.Equal(t, 1, searcher.calls)
}

func TestSearchFailureKeepsCache(t *testing.T) {
	ctx := context.Background()
	searcher := &stubSearcher{results: []models.Movie{{ID: 1}}}
	svc := New(logger.Discard(), searcher, memory.New(), nil, 0)
	_, err := svc.Search(ctx, "b", "first")
	require.NoError(t, err)

	searcher.err = errors.New("catalog down")
	_, err = svc.Search(ctx, "b", "second")
	require.Error(t, err)

	restored, err := svc.Restore(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "first", restored.Query)
}

func TestPruneRemovesStaleEntries(t *testing.T) {
	ctx := context.Background()
	cache := memory.New()
	require.NoError(t, cache.Save(ctx, "stale", models.SearchResult{Query: "old", UpdatedAt: time.Now().Add(-48 * time.Hour)}))
	svc := New(logger.Discard(), &stubSearcher{}, cache, &inlineTasks{}, 24*time.Hour)

	_, err := svc.Search(ctx, "b", "new")
	require.NoError(t, err)
	restored, err := svc.Restore(ctx, "stale")
	require.NoError(t, err)
	assert.Nil(t, restored)
}
