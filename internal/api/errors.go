package api

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNoToken      = errors.New("authentication required")
	ErrNotFound     = errors.New("not found")
)

// Error carries the backend's structured error payload. The LearnLoop API
// reports failures as `{"detail": ..., "code": ...}`; Status holds the HTTP
// status code of the response.
type Error struct {
	Status int
	Code   string
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error %d: %s (%s)", e.Status, e.Detail, e.Code)
}
