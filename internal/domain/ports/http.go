package ports

import (
	"context"

	"github.com/fredcamaral/ariel/internal/domain/entities"
)

// HTTPServer defines the interface for the HTTP server
type HTTPServer interface {
	Start(ctx context.Context, port int, host string) error
	Stop(ctx context.Context) error
	IsRunning() bool
}

// SnapshotSink receives snapshots for diagnostic bookkeeping. The recorded
// snapshot is observability state only; it must never be used to answer a
// diagram request without re-reading the file.
type SnapshotSink interface {
	RecordSnapshot(snapshot entities.FileSnapshot)
}
