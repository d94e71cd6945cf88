package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/silt/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func awaitEvent(t *testing.T, events <-chan core.Event, key string, timeout time.Duration) core.Event {
	t.Helper()
	deadline := time.After(timeout)
	for {
		select {
		case event := <-events:
			if event.Key == key {
				return event
			}
			// Unrelated churn, keep draining.
		case <-deadline:
			t.Fatalf("timed out waiting for event on %q", key)
			return core.Event{}
		}
	}
}

func TestWatch_ExternalCreate(t *testing.T) {
	repo, path := setupRepo(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	events, err := repo.Watch(ctx, "")
	require.NoError(t, err)
	require.NotNil(t, events)

	// Give the watcher a moment to arm before touching the directory.
	time.Sleep(100 * time.Millisecond)

	doc := mustDoc(t, "incoming", "dropped in from outside", "text")
	data, err := doc.MarshalRecord()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(path, "incoming.json"), data, 0644))

	event := awaitEvent(t, events, "incoming", 3*time.Second)
	assert.Equal(t, core.EventCreate, event.Type)
	assert.NotZero(t, event.Timestamp)
}

func TestWatch_Delete(t *testing.T) {
	repo, path := setupRepo(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, repo.Save(ctx, mustDoc(t, "ephemeral", "x", "text")))

	events, err := repo.Watch(ctx, "")
	require.NoError(t, err)
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.Remove(filepath.Join(path, "ephemeral.json")))

	event := awaitEvent(t, events, "ephemeral", 3*time.Second)
	assert.Equal(t, core.EventDelete, event.Type)
}

func TestWatch_PatternFilter(t *testing.T) {
	repo, path := setupRepo(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	events, err := repo.Watch(ctx, "notes-*")
	require.NoError(t, err)
	time.Sleep(100 * time.Millisecond)

	for _, key := range []string{"config", "notes-today"} {
		doc := mustDoc(t, key, "payload", "text")
		data, merr := doc.MarshalRecord()
		require.NoError(t, merr)
		require.NoError(t, os.WriteFile(filepath.Join(path, key+".json"), data, 0644))
	}

	// Only the matching key may come through.
	event := awaitEvent(t, events, "notes-today", 3*time.Second)
	assert.Equal(t, core.EventCreate, event.Type)

	select {
	case stray := <-events:
		assert.NotEqual(t, "config", stray.Key, "pattern should have filtered this key")
	case <-time.After(300 * time.Millisecond):
		// No stray event, filter held.
	}
}

func TestWatch_InvalidPattern(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	_, err := repo.Watch(ctx, "[unterminated")
	require.Error(t, err)
}

func TestWatch_StopsOnCancel(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx, cancel := context.WithCancel(context.Background())

	events, err := repo.Watch(ctx, "")
	require.NoError(t, err)

	cancel()

	select {
	case _, open := <-events:
		require.False(t, open, "channel should close once the context is cancelled")
	case <-time.After(2 * time.Second):
		t.Fatal("watch channel did not close after cancel")
	}
}
