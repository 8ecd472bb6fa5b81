package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// FetchError is returned when the repository listing could not be retrieved:
// a network failure, a non-2xx status or a body that is not the expected JSON.
type FetchError struct {
	Username   string
	StatusCode int // 0 when no response was received
	Reason     string
	Err        error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("fetch repositories for %q", e.Username)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": status %d", e.StatusCode)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// WriteError is returned when a report or export could not be written to disk.
type WriteError struct {
	Path string
	Op   string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a FetchError caused by a 404 response.
func IsNotFound(err error) bool {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.StatusCode == http.StatusNotFound
	}
	return false
}
