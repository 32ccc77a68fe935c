package entities

import "fmt"

// NotFoundError indicates the watched file does not exist. The endpoint
// surfaces it as a 404 without terminating the server.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("watched file not found: %s", e.Path)
}

// ReadError indicates the watched file exists but could not be read
// (permissions, I/O failure, mid-write). Surfaced as a 500.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("reading watched file %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}
