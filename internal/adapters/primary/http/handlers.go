package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/fredcamaral/ariel/internal/domain/entities"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string    `json:"error"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// StatusResponse represents the diagnostic status API response
type StatusResponse struct {
	InstanceID    string     `json:"instance_id"`
	WatchedFile   string     `json:"watched_file"`
	Title         string     `json:"title"`
	UptimeSeconds float64    `json:"uptime_seconds"`
	Fingerprint   string     `json:"fingerprint,omitempty"`
	ModifiedAt    *time.Time `json:"modified_at,omitempty"`
	SizeBytes     int64      `json:"size_bytes,omitempty"`
	ObservedAt    *time.Time `json:"observed_at,omitempty"`
}

// handleDiagram serves the watched file's current content with conditional
// delivery. Every request re-reads the file; the client's If-None-Match
// token is compared against a fingerprint of the bytes just read, so a
// read failure always wins over cache validation.
func (s *Server) handleDiagram(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.tracker.Snapshot(s.watchedPath)
	if err != nil {
		var notFound *entities.NotFoundError
		if errors.As(err, &notFound) {
			s.writeError(w, err, http.StatusNotFound)
			return
		}
		s.writeError(w, err, http.StatusInternalServerError)
		return
	}

	// Diagnostic bookkeeping only; the response below is built solely
	// from the snapshot read above.
	s.RecordSnapshot(snapshot)

	setValidationHeaders(w, snapshot)

	if clientTokenMatches(r.Header.Get("If-None-Match"), snapshot.Fingerprint) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(snapshot.Content); err != nil {
		s.logger.Error("Failed to write diagram response: %v", err)
	}
}

// setValidationHeaders attaches the validation token, timestamp and cache
// directive to both 200 and 304 responses so the client can refresh its
// bookkeeping even on a no-op poll.
func setValidationHeaders(w http.ResponseWriter, snapshot entities.FileSnapshot) {
	w.Header().Set("ETag", `"`+snapshot.Fingerprint+`"`)
	w.Header().Set("Last-Modified", snapshot.ModifiedAt.UTC().Format(http.TimeFormat))
	w.Header().Set("Cache-Control", "no-cache")
}

// clientTokenMatches reports whether any token in an If-None-Match header
// value refers to the given fingerprint. A malformed or empty header is
// treated as "no token supplied", never as an error.
func clientTokenMatches(header, fingerprint string) bool {
	if header == "" {
		return false
	}

	for _, candidate := range strings.Split(header, ",") {
		token := strings.TrimSpace(candidate)
		if token == "*" {
			// Wildcard matches any current representation.
			return true
		}
		token = strings.TrimPrefix(token, "W/")
		token = strings.Trim(token, `"`)
		if token != "" && token == fingerprint {
			return true
		}
	}

	return false
}

// handleViewer serves the viewer page
func (s *Server) handleViewer(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	html, err := s.renderViewer()
	if err != nil {
		s.writeError(w, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(html); err != nil {
		s.logger.Error("Failed to write viewer response: %v", err)
	}
}

// handleStatus returns diagnostic server state. The snapshot fields reflect
// the last observation, not a guaranteed-current read.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	startedAt := s.startedAt
	s.mu.RUnlock()

	response := StatusResponse{
		InstanceID:    s.instanceID,
		WatchedFile:   s.watchedPath,
		Title:         s.displayTitle(),
		UptimeSeconds: time.Since(startedAt).Seconds(),
	}

	if snapshot, observedAt := s.lastKnownSnapshot(); snapshot != nil {
		response.Fingerprint = snapshot.Fingerprint
		modifiedAt := snapshot.ModifiedAt
		response.ModifiedAt = &modifiedAt
		response.SizeBytes = snapshot.Size
		response.ObservedAt = &observedAt
	}

	s.writeJSON(w, response)
}

// writeError writes an error response with a descriptive body. Errors here
// describe a local file the operator pointed the server at, so the message
// is passed through rather than sanitized.
func (s *Server) writeError(w http.ResponseWriter, err error, status int) {
	s.logger.Error("HTTP error (status %d): %v", status, err)

	response := ErrorResponse{
		Error:   http.StatusText(status),
		Message: err.Error(),
		Time:    time.Now(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encodeErr := json.NewEncoder(w).Encode(response); encodeErr != nil {
		s.logger.Error("Failed to encode error response: %v", encodeErr)
	}
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("Failed to encode JSON response: %v", err)
	}
}
