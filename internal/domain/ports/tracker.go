package ports

import "github.com/fredcamaral/ariel/internal/domain/entities"

// SnapshotReader reads the watched file and produces a content snapshot.
// Implementations must re-read the file on every call; a previous snapshot
// is never a valid answer.
type SnapshotReader interface {
	// Snapshot reads the file at path and returns its current state.
	// Returns *entities.NotFoundError when the path does not exist and
	// *entities.ReadError when it exists but cannot be read.
	Snapshot(path string) (entities.FileSnapshot, error)
}
