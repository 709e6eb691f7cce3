package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// Success codes used by the backend envelope. Most endpoints answer 1;
// a few older ones mirror the HTTP status.
const (
	codeOK     = 1
	codeOKHTTP = 200
)

var (
	// ErrUnauthorized is returned when the backend rejects the bearer token.
	ErrUnauthorized = errors.New("unauthorized: backend session expired")

	// ErrInvalidCredentials is returned by Login for a wrong email or password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnavailable wraps transport failures.
	ErrUnavailable = errors.New("backend unavailable")
)

// Result is the {code, message, data} envelope every backend endpoint returns.
// It is decoded once here; callers only ever see Data or an error.
type Result[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// OK reports whether the envelope signals success.
func (r Result[T]) OK() bool {
	return r.Code == codeOK || r.Code == codeOKHTTP
}

// APIError is a request the backend answered but refused.
type APIError struct {
	Op      string // e.g. "create candidate"
	Status  int    // HTTP status
	Code    int    // Envelope code, 0 if the body was not an envelope
	Message string // Backend message, or the HTTP status text
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("backend rejected %s: %s", e.Op, msg)
}
