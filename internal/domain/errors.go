package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrParse     = errors.New("parse failed")
	ErrTransport = errors.New("transport failed")
)

// TransportError is returned when the profile request could not be
// completed or the server answered with a non-success status.
type TransportError struct {
	Method     string
	URL        string
	StatusCode int
	Status     string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
	}

	return fmt.Sprintf("%s %s: %s", e.Method, e.URL, e.Status)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrTransport) match every TransportError.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}
