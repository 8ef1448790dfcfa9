package api

import (
	"errors"
	"fmt"
)

// ErrUnauthorized maps a 401 from any endpoint. Callers must drop the stored
// session and send the user back to login.
var ErrUnauthorized = errors.New("unauthorized")

// StatusError is a non-401 rejection from the backend, e.g. starting a match
// without six starters per team. Prior local state stays intact; the message
// is surfaced to the user as-is.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend rejected request (%d): %s", e.Code, e.Message)
	}
	return fmt.Sprintf("backend rejected request (%d)", e.Code)
}

// NetworkError wraps a transport-level failure (request never completed).
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }
