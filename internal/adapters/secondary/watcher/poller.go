package watcher

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fredcamaral/ariel/internal/domain/entities"
	"github.com/fredcamaral/ariel/internal/domain/ports"
)

// PollingWatcher watches a single file using periodic polling. It is used
// for server-side diagnostics only; the delivery endpoint never depends on
// it and re-reads the file on every request.
type PollingWatcher struct {
	interval time.Duration
	debounce time.Duration
	state    fileState
	events   chan ports.FileChangeEvent
	mu       sync.Mutex
	wg       sync.WaitGroup
	stopped  bool
	stopCh   chan struct{}
}

// fileState remembers the last observed shape of the watched file
type fileState struct {
	exists      bool
	size        int64
	modTime     time.Time
	fingerprint string
}

// NewPollingWatcher creates a new polling-based file watcher
func NewPollingWatcher(interval, debounce time.Duration) *PollingWatcher {
	return &PollingWatcher{
		interval: interval,
		debounce: debounce,
		events:   make(chan ports.FileChangeEvent, 10),
		stopCh:   make(chan struct{}),
	}
}

// Watch starts watching a file for changes. A missing file is a valid
// initial state: the watcher reports Created once it appears.
func (w *PollingWatcher) Watch(ctx context.Context, path string) (<-chan ports.FileChangeEvent, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	state, err := w.observe(absPath)
	if err != nil {
		return nil, fmt.Errorf("initial scan: %w", err)
	}

	w.mu.Lock()
	w.state = state
	w.mu.Unlock()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.pollLoop(ctx, absPath)
	}()

	return w.events, nil
}

// Stop stops the file watcher
func (w *PollingWatcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	close(w.stopCh)
	w.mu.Unlock()

	// Wait outside the lock; the poll loop takes it while scanning.
	w.wg.Wait()
	close(w.events)

	return nil
}

// pollLoop continuously polls for file changes
func (w *PollingWatcher) pollLoop(ctx context.Context, path string) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	lastEventTime := time.Time{}

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			changeType, changed, err := w.checkForChanges(path)
			if err != nil {
				log.Printf("watch error: %v", err)
				continue
			}

			if !changed || time.Since(lastEventTime) < w.debounce {
				continue
			}

			event := ports.FileChangeEvent{
				Path:      path,
				Type:      changeType,
				Timestamp: time.Now(),
			}

			select {
			case w.events <- event:
				lastEventTime = time.Now()
			case <-ctx.Done():
				return
			case <-w.stopCh:
				return
			}
		}
	}
}

// checkForChanges compares the file's current shape against the last
// observation and reports the transition type
func (w *PollingWatcher) checkForChanges(path string) (ports.ChangeType, bool, error) {
	current, err := w.observe(path)
	if err != nil {
		return ports.Modified, false, err
	}

	w.mu.Lock()
	previous := w.state
	w.mu.Unlock()

	changeType := ports.Modified
	changed := false

	switch {
	case previous.exists && !current.exists:
		changeType, changed = ports.Deleted, true
	case !previous.exists && current.exists:
		changeType, changed = ports.Created, true
	case previous.exists && current.exists:
		// Cheap pre-check: identical size and mtime means the content
		// cannot have changed; skip the hash.
		if previous.size == current.size && previous.modTime.Equal(current.modTime) {
			return ports.Modified, false, nil
		}
		changed = previous.fingerprint != current.fingerprint
	}

	if changed || previous.modTime != current.modTime {
		w.mu.Lock()
		w.state = current
		w.mu.Unlock()
	}

	return changeType, changed, nil
}

// observe stats and, when present, fingerprints the watched file
func (w *PollingWatcher) observe(path string) (fileState, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fileState{exists: false}, nil
		}
		return fileState{}, fmt.Errorf("stat file: %w", err)
	}

	content, err := os.ReadFile(path) // #nosec G304 - path is validated by caller
	if err != nil {
		if os.IsNotExist(err) {
			return fileState{exists: false}, nil
		}
		return fileState{}, fmt.Errorf("read file: %w", err)
	}

	return fileState{
		exists:      true,
		size:        info.Size(),
		modTime:     info.ModTime(),
		fingerprint: entities.Fingerprint(content),
	}, nil
}

// Ensure PollingWatcher implements ports.FileWatcher
var _ ports.FileWatcher = (*PollingWatcher)(nil)
