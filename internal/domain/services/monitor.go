package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/fredcamaral/ariel/internal/domain/ports"
)

// ChangeMonitor observes the watched file in the background and keeps the
// server's diagnostic last-known snapshot fresh. It exists for logging and
// observability only: the delivery endpoint re-reads the file on every
// request and never consults the monitor's state.
type ChangeMonitor struct {
	watcher     ports.FileWatcher
	reader      ports.SnapshotReader
	sink        ports.SnapshotSink
	logger      *slog.Logger
	mu          sync.Mutex
	watching    bool
	watchCancel context.CancelFunc
	watchedPath string
}

// NewChangeMonitor creates a new change monitor
func NewChangeMonitor(
	watcher ports.FileWatcher,
	reader ports.SnapshotReader,
	sink ports.SnapshotSink,
	logger *slog.Logger,
) *ChangeMonitor {
	if logger == nil {
		logger = slog.Default()
	}

	return &ChangeMonitor{
		watcher: watcher,
		reader:  reader,
		sink:    sink,
		logger:  logger.With("service", "change_monitor"),
	}
}

// Start starts watching the given file
func (m *ChangeMonitor) Start(ctx context.Context, path string) error {
	m.mu.Lock()
	if m.watching {
		m.mu.Unlock()
		return errors.New("already watching")
	}
	m.watching = true
	m.watchedPath = path
	m.mu.Unlock()

	watchCtx, cancel := context.WithCancel(ctx)
	m.mu.Lock()
	m.watchCancel = cancel
	m.mu.Unlock()

	events, err := m.watcher.Watch(watchCtx, path)
	if err != nil {
		m.mu.Lock()
		m.watching = false
		m.watchCancel = nil
		m.mu.Unlock()
		cancel()
		return fmt.Errorf("starting watcher: %w", err)
	}

	go m.handleEvents(watchCtx, events)

	return nil
}

// Stop stops the change monitor
func (m *ChangeMonitor) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.watching {
		return nil
	}

	if m.watchCancel != nil {
		m.watchCancel()
		m.watchCancel = nil
	}

	m.watching = false
	return nil
}

// IsWatching returns whether the monitor is currently watching
func (m *ChangeMonitor) IsWatching() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.watching
}

// handleEvents handles file change events
func (m *ChangeMonitor) handleEvents(ctx context.Context, events <-chan ports.FileChangeEvent) {
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-events:
			if !ok {
				return
			}

			m.logger.Info("watched file changed",
				slog.String("path", event.Path),
				slog.String("type", event.Type.String()),
				slog.Time("timestamp", event.Timestamp),
			)

			if event.Type == ports.Deleted {
				m.logger.Warn("watched file removed; clients will see 404 until it is recreated",
					slog.String("path", event.Path),
				)
				continue
			}

			m.refreshSnapshot(event.Path)
		}
	}
}

// refreshSnapshot reads the file and records the result as diagnostic state
func (m *ChangeMonitor) refreshSnapshot(path string) {
	snapshot, err := m.reader.Snapshot(path)
	if err != nil {
		// The file can be mid-write when the event fires; the next poll
		// or request will pick it up.
		m.logger.Warn("could not snapshot changed file",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return
	}

	m.sink.RecordSnapshot(snapshot)

	m.logger.Debug("diagnostic snapshot refreshed",
		slog.String("fingerprint", snapshot.Fingerprint),
		slog.Int64("size_bytes", snapshot.Size),
		slog.Time("modified_at", snapshot.ModifiedAt),
	)
}
