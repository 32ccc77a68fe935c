package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewFileSnapshot(t *testing.T) {
	content := []byte("graph TD;\n  A-->B;")
	modTime := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	snap := NewFileSnapshot(content, modTime)

	assert.Equal(t, content, snap.Content)
	assert.Equal(t, Fingerprint(content), snap.Fingerprint)
	assert.Equal(t, modTime, snap.ModifiedAt)
	assert.Equal(t, int64(len(content)), snap.Size)
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint([]byte("graph TD; A-->B"))
	b := Fingerprint([]byte("graph TD; A-->C"))

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, Fingerprint([]byte("graph TD; A-->B")))
	assert.Len(t, Fingerprint(nil), 64)
	assert.Equal(t, Fingerprint(nil), Fingerprint([]byte{}))
}

func TestFileSnapshotMatches(t *testing.T) {
	snap := NewFileSnapshot([]byte("sequenceDiagram"), time.Now())

	assert.True(t, snap.Matches(snap.Fingerprint))
	assert.False(t, snap.Matches(""))
	assert.False(t, snap.Matches("deadbeef"))
	assert.False(t, snap.Matches(snap.Fingerprint+"0"))
}
