package ports

import (
	"context"
	"time"
)

// FileWatcher defines the interface for watching the diagram file for changes
type FileWatcher interface {
	// Watch starts watching a file for changes
	Watch(ctx context.Context, path string) (<-chan FileChangeEvent, error)
	// Stop stops the file watcher
	Stop() error
}

// FileChangeEvent represents a file change event
type FileChangeEvent struct {
	Path      string
	Type      ChangeType
	Timestamp time.Time
}

// ChangeType represents the type of file change
type ChangeType int

const (
	// Modified indicates the file content changed
	Modified ChangeType = iota
	// Created indicates the file appeared
	Created
	// Deleted indicates the file was removed
	Deleted
)

// String returns the string representation of ChangeType
func (c ChangeType) String() string {
	switch c {
	case Modified:
		return "modified"
	case Created:
		return "created"
	case Deleted:
		return "deleted"
	default:
		return "unknown"
	}
}
