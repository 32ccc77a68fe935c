// Package tracker reads the watched diagram file and fingerprints its
// content so the HTTP layer can answer conditional requests.
package tracker

import (
	"os"

	"github.com/fredcamaral/ariel/internal/domain/entities"
	"github.com/fredcamaral/ariel/internal/domain/ports"
)

// Reader implements the SnapshotReader interface against the local
// filesystem. It holds no state: every Snapshot call is an independent
// stat-and-read, which makes it safe for concurrent in-flight requests.
type Reader struct{}

// NewReader creates a new filesystem snapshot reader
func NewReader() *Reader {
	return &Reader{}
}

// Snapshot reads the file at path and returns its current content,
// fingerprint and modification time. The file is re-read in full on every
// call; the watched file is mutated by external processes at arbitrary
// times, so no previous result can be trusted.
func (r *Reader) Snapshot(path string) (entities.FileSnapshot, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return entities.FileSnapshot{}, &entities.NotFoundError{Path: path}
		}
		return entities.FileSnapshot{}, &entities.ReadError{Path: path, Err: err}
	}

	content, err := os.ReadFile(path) // #nosec G304 - path is fixed at startup by the operator
	if err != nil {
		// The file can disappear between the stat and the read; report
		// that as missing rather than as an I/O failure.
		if os.IsNotExist(err) {
			return entities.FileSnapshot{}, &entities.NotFoundError{Path: path}
		}
		return entities.FileSnapshot{}, &entities.ReadError{Path: path, Err: err}
	}

	return entities.NewFileSnapshot(content, info.ModTime()), nil
}

// Ensure Reader implements ports.SnapshotReader
var _ ports.SnapshotReader = (*Reader)(nil)
