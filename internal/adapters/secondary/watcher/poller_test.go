package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/ariel/internal/domain/ports"
)

func createTempFile(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp(t.TempDir(), "watcher-test-*.mmd")
	require.NoError(t, err)

	_, err = tmpFile.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, tmpFile.Close())

	return tmpFile.Name()
}

func updateFile(t *testing.T, path string, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func waitForEvent(t *testing.T, events <-chan ports.FileChangeEvent) ports.FileChangeEvent {
	t.Helper()
	select {
	case event := <-events:
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
		return ports.FileChangeEvent{}
	}
}

func TestPollingWatcher(t *testing.T) {
	t.Run("create new watcher", func(t *testing.T) {
		w := NewPollingWatcher(100*time.Millisecond, 500*time.Millisecond)
		assert.NotNil(t, w)
		assert.Equal(t, 100*time.Millisecond, w.interval)
		assert.Equal(t, 500*time.Millisecond, w.debounce)
	})

	t.Run("detects content change", func(t *testing.T) {
		w := NewPollingWatcher(50*time.Millisecond, 100*time.Millisecond)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		defer func() { _ = w.Stop() }()

		tmpFile := createTempFile(t, "graph TD; A-->B")

		events, err := w.Watch(ctx, tmpFile)
		require.NoError(t, err)

		time.Sleep(100 * time.Millisecond)
		updateFile(t, tmpFile, "graph TD; A-->C")

		event := waitForEvent(t, events)
		assert.Equal(t, tmpFile, event.Path)
		assert.Equal(t, ports.Modified, event.Type)
		assert.WithinDuration(t, time.Now(), event.Timestamp, 2*time.Second)
	})

	t.Run("detects deletion and recreation", func(t *testing.T) {
		w := NewPollingWatcher(50*time.Millisecond, 100*time.Millisecond)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		defer func() { _ = w.Stop() }()

		tmpFile := createTempFile(t, "graph TD; A-->B")

		events, err := w.Watch(ctx, tmpFile)
		require.NoError(t, err)

		time.Sleep(100 * time.Millisecond)
		require.NoError(t, os.Remove(tmpFile))

		event := waitForEvent(t, events)
		assert.Equal(t, ports.Deleted, event.Type)

		time.Sleep(150 * time.Millisecond)
		updateFile(t, tmpFile, "graph TD; A-->B")

		event = waitForEvent(t, events)
		assert.Equal(t, ports.Created, event.Type)
	})

	t.Run("tolerates missing file at start", func(t *testing.T) {
		w := NewPollingWatcher(50*time.Millisecond, 100*time.Millisecond)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		defer func() { _ = w.Stop() }()

		path := filepath.Join(t.TempDir(), "not-yet.mmd")

		events, err := w.Watch(ctx, path)
		require.NoError(t, err)

		time.Sleep(100 * time.Millisecond)
		updateFile(t, path, "graph TD; A-->B")

		event := waitForEvent(t, events)
		assert.Equal(t, ports.Created, event.Type)
	})

	t.Run("timestamp-only touch emits no event", func(t *testing.T) {
		w := NewPollingWatcher(50*time.Millisecond, 50*time.Millisecond)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		defer func() { _ = w.Stop() }()

		tmpFile := createTempFile(t, "graph TD; A-->B")

		events, err := w.Watch(ctx, tmpFile)
		require.NoError(t, err)

		time.Sleep(100 * time.Millisecond)
		future := time.Now().Add(time.Second)
		require.NoError(t, os.Chtimes(tmpFile, future, future))

		select {
		case event := <-events:
			t.Fatalf("got unexpected event: %v", event.Type)
		case <-time.After(300 * time.Millisecond):
			// Good - content did not change
		}
	})

	t.Run("debouncing coalesces rapid changes", func(t *testing.T) {
		w := NewPollingWatcher(50*time.Millisecond, 200*time.Millisecond)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		defer func() { _ = w.Stop() }()

		tmpFile := createTempFile(t, "initial")

		events, err := w.Watch(ctx, tmpFile)
		require.NoError(t, err)

		time.Sleep(100 * time.Millisecond)

		updateFile(t, tmpFile, "change 0")
		time.Sleep(30 * time.Millisecond)
		updateFile(t, tmpFile, "change 1")
		time.Sleep(30 * time.Millisecond)
		updateFile(t, tmpFile, "change 2")

		event := waitForEvent(t, events)
		assert.Equal(t, ports.Modified, event.Type)

		select {
		case <-events:
			t.Fatal("got unexpected second event")
		case <-time.After(150 * time.Millisecond):
			// Good - no extra events inside the debounce window
		}
	})

	t.Run("stop closes the event channel", func(t *testing.T) {
		w := NewPollingWatcher(50*time.Millisecond, 100*time.Millisecond)

		tmpFile := createTempFile(t, "content")

		events, err := w.Watch(context.Background(), tmpFile)
		require.NoError(t, err)

		require.NoError(t, w.Stop())

		_, ok := <-events
		assert.False(t, ok)

		// Stop again should not error
		assert.NoError(t, w.Stop())
	})

	t.Run("context cancellation stops polling", func(t *testing.T) {
		w := NewPollingWatcher(50*time.Millisecond, 100*time.Millisecond)
		ctx, cancel := context.WithCancel(context.Background())
		defer func() { _ = w.Stop() }()

		tmpFile := createTempFile(t, "content")

		events, err := w.Watch(ctx, tmpFile)
		require.NoError(t, err)

		cancel()
		time.Sleep(200 * time.Millisecond)
		updateFile(t, tmpFile, "updated")

		select {
		case <-events:
			// May receive one event if it was already in flight
		case <-time.After(200 * time.Millisecond):
			// Good - no event
		}
	})
}
