package entities

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// FileSnapshot is the result of reading the watched file exactly once.
// It is created fresh for every request that needs to inspect the file
// and is never reused as authoritative state.
type FileSnapshot struct {
	Content     []byte
	Fingerprint string
	ModifiedAt  time.Time
	Size        int64
}

// Fingerprint computes the content fingerprint for a byte slice. Two
// snapshots with equal fingerprints are content-equal regardless of
// their modification timestamps.
func Fingerprint(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// NewFileSnapshot builds a snapshot from content and file metadata.
func NewFileSnapshot(content []byte, modifiedAt time.Time) FileSnapshot {
	return FileSnapshot{
		Content:     content,
		Fingerprint: Fingerprint(content),
		ModifiedAt:  modifiedAt,
		Size:        int64(len(content)),
	}
}

// Matches reports whether the client-supplied validation token refers to
// the same content as this snapshot.
func (s FileSnapshot) Matches(token string) bool {
	return token != "" && token == s.Fingerprint
}
