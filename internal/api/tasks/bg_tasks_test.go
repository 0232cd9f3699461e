package tasks

import (
	"context"
	"moviesocial/proj/internal/lib/logger"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	bgTasks := New(logger.Discard(), 3, 10)
	bgTasks.Run()
	var runs atomic.Int32
	for i := 0; i < 5; i++ {
		bgTasks.Add(func() { runs.Add(1) })
	}
	require.NoError(t, bgTasks.Shutdown(context.Background()))
	assert.Equal(t, int32(5), runs.Load())
	assert.True(t, bgTasks.IsEmpty())
}

func TestPanicKeepsWorkerAlive(t *testing.T) {
	bgTasks := New(logger.Discard(), 1, 10)
	bgTasks.Run()
	ran := false
	bgTasks.Add(func() { panic("boom") })
	bgTasks.Add(func() { ran = true })
	require.NoError(t, bgTasks.Shutdown(context.Background()))
	assert.True(t, ran)
}

func TestAddAfterShutdown(t *testing.T) {
	bgTasks := New(logger.Discard(), 1, 1)
	bgTasks.Run()
	require.NoError(t, bgTasks.Shutdown(context.Background()))
	assert.NotPanics(t, func() { bgTasks.Add(func() {}) })
}

func TestAddDropsWhenFull(t *testing.T) {
	bgTasks := New(logger.Discard(), 1, 1)
	bgTasks.Add(func() {})
	assert.NotPanics(t, func() { bgTasks.Add(func() {}) })
	assert.False(t, bgTasks.IsEmpty())
}
