package web

// errors.go provides unified error response handling for the web layer.
//
// It ensures all errors are:
//   - Logged with full technical details for debugging (server-side)
//   - Returned to clients as user-friendly messages with action suggestions
//   - Formatted appropriately based on request type (HTMX, JSON, or plain text)
//
// The error flow:
//  1. Handler encounters an error
//  2. Calls respondError(w, r, err, statusFor(err))
//  3. Error is mapped via core.MapError to get user-friendly message
//  4. Technical error + context is logged with request ID for correlation
//  5. User message is rendered in appropriate format for the client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/hireboard/internal/backend"
	"github.com/JonMunkholm/hireboard/internal/core"
	"github.com/JonMunkholm/hireboard/internal/logging"
	"github.com/JonMunkholm/hireboard/internal/session"
	"github.com/JonMunkholm/hireboard/internal/web/templates"
)

var (
	errRateLimited  = errors.New("rate limit exceeded")
	errNoFile       = errors.New("no file provided")
	errNotCSV       = errors.New("not a csv file")
	errUnknownList  = errors.New("unknown list")
	errBadRequest   = errors.New("invalid request body")
	errMissingLogin = errors.New("invalid request: email and password are required")
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
// Detail, Missing and Fields carry the specifics of the failure when known.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Action  string            `json:"action,omitempty"`
	Code    string            `json:"code"`
	Detail  string            `json:"detail,omitempty"`
	Missing []core.Field      `json:"missing,omitempty"`
	Fields  []core.FieldError `json:"fields,omitempty"`
}

// respondError handles error responses with user-friendly messages.
// It logs the technical error server-side and returns an appropriate response
// based on the request type (HTMX, JSON, or plain text).
func respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := core.MapError(err)
	specifics := specificsOf(err)

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	}
	// Errors without a known user message are unexpected whatever their status
	if statusCode >= http.StatusInternalServerError || !core.IsUserFacing(err) {
		logger.Error("request error", attrs...)
	} else {
		logger.Warn("request error", attrs...)
	}

	switch {
	case isHTMX(r):
		renderErrorPartial(w, r, userMsg, specifics, statusCode)
	case wantsJSON(r):
		respondErrorJSON(w, userMsg, specifics, statusCode)
	default:
		text := core.FormatUserError(err)
		for _, line := range specifics.lines() {
			text += "\n" + line
		}
		http.Error(w, text, statusCode)
	}
}

// errorSpecifics is what a user needs to fix the request beyond the
// generic message: the backend's own reason, the columns a file lacks or
// the fields a form got wrong.
type errorSpecifics struct {
	detail  string
	missing []core.Field
	fields  []core.FieldError
}

func specificsOf(err error) errorSpecifics {
	var (
		out       errorSpecifics
		apiErr    *backend.APIError
		schemaErr *core.SchemaError
		formErr   *validationError
	)
	switch {
	case errors.As(err, &schemaErr):
		out.missing = schemaErr.Missing
		labels := make([]string, len(schemaErr.Missing))
		for i, f := range schemaErr.Missing {
			labels[i] = f.Label()
		}
		out.detail = "Missing columns: " + strings.Join(labels, ", ")
	case errors.As(err, &formErr):
		out.fields = formErr.fields
	case errors.As(err, &apiErr):
		out.detail = apiErr.Message
	}
	return out
}

// lines flattens the specifics for the alert list and plain text bodies.
func (e errorSpecifics) lines() []string {
	var out []string
	if e.detail != "" {
		out = append(out, e.detail)
	}
	for _, f := range e.fields {
		out = append(out, f.Error())
	}
	return out
}

// statusFor picks the HTTP status for an error returned by the service,
// the session manager or the backend client.
func statusFor(err error) int {
	var apiErr *backend.APIError
	var schemaErr *core.SchemaError
	var validationErr *validationError

	switch {
	case errors.Is(err, backend.ErrInvalidCredentials),
		errors.Is(err, backend.ErrUnauthorized),
		errors.Is(err, session.ErrNotFound),
		errors.Is(err, session.ErrExpired):
		return http.StatusUnauthorized
	case errors.Is(err, core.ErrImportNotFound), errors.Is(err, errUnknownList):
		return http.StatusNotFound
	case errors.Is(err, core.ErrImportRunning):
		return http.StatusConflict
	case errors.Is(err, core.ErrTooManyImports), errors.Is(err, core.ErrShuttingDown):
		return http.StatusServiceUnavailable
	case errors.Is(err, core.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &schemaErr), errors.As(err, &validationErr),
		errors.Is(err, core.ErrEmptyFile), errors.Is(err, core.ErrNoDataRows):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errNoFile), errors.Is(err, errNotCSV), errors.Is(err, errBadRequest),
		errors.Is(err, errMissingLogin):
		return http.StatusBadRequest
	case errors.As(err, &apiErr):
		if apiErr.Status >= http.StatusInternalServerError {
			return http.StatusBadGateway
		}
		return http.StatusUnprocessableEntity
	case errors.Is(err, backend.ErrUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// validationError carries the field errors of a rejected form.
type validationError struct {
	fields []core.FieldError
}

func (e *validationError) Error() string {
	parts := make([]string, len(e.fields))
	for i, f := range e.fields {
		parts[i] = f.Error()
	}
	return strings.Join(parts, "; ")
}

// respondErrorJSON writes a JSON error response.
func respondErrorJSON(w http.ResponseWriter, msg core.UserMessage, sp errorSpecifics, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
		Detail:  sp.detail,
		Missing: sp.missing,
		Fields:  sp.fields,
	})
}

// renderErrorPartial renders an HTMX-compatible error fragment.
func renderErrorPartial(w http.ResponseWriter, r *http.Request, msg core.UserMessage, sp errorSpecifics, statusCode int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_ = templates.ErrorAlert(msg.Message, msg.Action, msg.Code, sp.lines()).Render(r.Context(), w)
}

// isHTMX checks if the request is an HTMX request.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// wantsJSON checks if the client prefers JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}

	// API routes default to JSON
	return strings.HasPrefix(r.URL.Path, "/api/")
}
