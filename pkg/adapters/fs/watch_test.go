package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plumekit/plume/pkg/core"
)

// waitForEvent drains the channel until an event for the given ID and type
// arrives, or the timeout expires.
func waitForEvent(t *testing.T, events <-chan core.Event, id string, eType core.EventType, timeout time.Duration) core.Event {
	t.Helper()

	deadline := time.After(timeout)
	for {
		select {
		case e, ok := <-events:
			if !ok {
				t.Fatalf("events channel closed while waiting for %s %s", eType, id)
			}
			if e.ID == id && e.Type == eType {
				return e
			}
			// Other debounced events (e.g. directory noise) are fine to skip.
		case <-deadline:
			t.Fatalf("timed out waiting for %s event for %s", eType, id)
		}
	}
}

func TestWatch_EmitsLifecycleEvents(t *testing.T) {
	repo, path := setupRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, repo.Initialize(ctx))

	events, err := repo.Watch(ctx, "")
	require.NoError(t, err)

	target := filepath.Join(path, "watched.md")

	// Create
	require.NoError(t, os.WriteFile(target, []byte("---\ntitle: W\n---\nv1"), 0644))
	e := waitForEvent(t, events, "watched", core.EventCreate, 3*time.Second)
	assert.Equal(t, core.EventCreate, e.Type)

	// Modify
	require.NoError(t, os.WriteFile(target, []byte("---\ntitle: W\n---\nv2"), 0644))
	waitForEvent(t, events, "watched", core.EventModify, 3*time.Second)

	// Delete
	require.NoError(t, os.Remove(target))
	waitForEvent(t, events, "watched", core.EventDelete, 3*time.Second)

	// Cancellation closes the channel.
	cancel()
	select {
	case _, ok := <-events:
		if ok {
			// Drain anything still in flight; the close must follow.
			for range events {
			}
		}
	case <-time.After(5 * time.Second):
		t.Fatal("events channel not closed after cancel")
	}
}

func TestWatch_IgnoresUnsupportedAndSystemFiles(t *testing.T) {
	repo, path := setupRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, repo.Initialize(ctx))

	events, err := repo.Watch(ctx, "")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(path, "scratch.txt"), []byte("noise"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(path, "real.md"), []byte("signal"), 0644))

	// Only the markdown file may surface.
	e := waitForEvent(t, events, "real", core.EventCreate, 3*time.Second)
	assert.Equal(t, "real", e.ID)

	// A create also produces a write, so drain by ID instead of count.
	deadline := time.After(300 * time.Millisecond)
	for {
		select {
		case extra := <-events:
			if extra.ID != "real" {
				t.Fatalf("unexpected event for ignored file: %+v", extra)
			}
		case <-deadline:
			return
		}
	}
}

func TestWatch_PatternFilter(t *testing.T) {
	repo, path := setupRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, repo.Initialize(ctx))
	require.NoError(t, os.MkdirAll(filepath.Join(path, "posts"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(path, "drafts"), 0755))

	events, err := repo.Watch(ctx, "posts/**")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(path, "drafts", "hidden.md"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(path, "posts", "visible.md"), []byte("x"), 0644))

	e := waitForEvent(t, events, "posts/visible", core.EventCreate, 3*time.Second)
	assert.Equal(t, "posts/visible", e.ID)

	deadline := time.After(300 * time.Millisecond)
	for {
		select {
		case extra := <-events:
			if extra.ID != "posts/visible" {
				t.Fatalf("event leaked past the pattern filter: %+v", extra)
			}
		case <-deadline:
			return
		}
	}
}

func TestReconcile_DetectsOfflineChanges(t *testing.T) {
	repo, path := setupRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Initialize(ctx))

	require.NoError(t, repo.Save(ctx, core.Post{ID: "stays", Content: "a"}))
	require.NoError(t, repo.Save(ctx, core.Post{ID: "changes", Content: "b"}))
	require.NoError(t, repo.Save(ctx, core.Post{ID: "vanishes", Content: "c"}))

	// Populate the index.
	_, err := repo.List(ctx)
	require.NoError(t, err)

	// Simulate changes behind the repository's back. The bumped mtime is what
	// Reconcile keys on.
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.WriteFile(filepath.Join(path, "changes.md"), []byte("b2"), 0644))
	require.NoError(t, os.Chtimes(filepath.Join(path, "changes.md"), future, future))
	require.NoError(t, os.Remove(filepath.Join(path, "vanishes.md")))
	require.NoError(t, os.WriteFile(filepath.Join(path, "appears.md"), []byte("d"), 0644))

	events, err := repo.Reconcile(ctx)
	require.NoError(t, err)

	byID := make(map[string]core.EventType)
	for _, e := range events {
		byID[e.ID] = e.Type
	}

	assert.Equal(t, core.EventModify, byID["changes"])
	assert.Equal(t, core.EventDelete, byID["vanishes"])
	assert.Equal(t, core.EventCreate, byID["appears"])
	assert.NotContains(t, byID, "stays")
}
