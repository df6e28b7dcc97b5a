package web

// errors.go provides unified error response handling for the web layer.
//
// It ensures all errors are:
//   - Logged with full technical details and the request ID (server-side)
//   - Returned to clients as user-friendly messages with action suggestions
//   - Formatted for the caller: JSON for the API, an HTML alert otherwise
//
// The error flow:
//  1. Handler encounters an error
//  2. Calls respondError(w, r, err), optionally with an explicit status
//  3. Error is mapped via core.MapError to get the user-friendly message
//  4. Technical error + context is logged with request ID for correlation
//  5. User message is rendered in the appropriate format for the client

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/JonMunkholm/datasweep/internal/core"
	"github.com/JonMunkholm/datasweep/internal/logging"
	"github.com/JonMunkholm/datasweep/internal/web/templates"
)

// Request-level errors that are not produced by core.
var (
	errNoFile        = errors.New("no file provided")
	errTooManyFiles  = errors.New("too many files")
	errFileTooLarge  = errors.New("file too large")
	errRateLimited   = errors.New("rate limit exceeded")
	errInvalidOption = errors.New("invalid option")
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// ErrorView is the per-file error inside an upload response.
type ErrorView struct {
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

func newErrorView(err error) *ErrorView {
	msg := core.MapError(err)
	return &ErrorView{Message: msg.Message, Action: msg.Action, Code: msg.Code}
}

// statusFor chooses the HTTP status for an error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrWorkspaceNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, errFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrParse):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrTooManyUploads):
		return http.StatusServiceUnavailable
	case errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, errNoFile),
		errors.Is(err, errTooManyFiles),
		errors.Is(err, errInvalidOption),
		errors.Is(err, core.ErrInvalidFormat),
		errors.Is(err, core.ErrColumnNotFound),
		errors.Is(err, core.ErrNotNumeric):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs the technical error and writes a user-friendly one.
// With no status given, statusFor picks it.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, status ...int) {
	code := statusFor(err)
	if len(status) > 0 {
		code = status[0]
	}
	userMsg := core.MapError(err)

	logger := logging.FromContext(r.Context())
	args := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", code,
		"error", err.Error(),
		"code", userMsg.Code,
	}
	if code >= 500 {
		logger.Error("request error", args...)
	} else {
		logger.Warn("request error", args...)
	}

	if wantsJSON(r) {
		respondErrorJSON(w, r, userMsg, code)
		return
	}
	renderErrorHTML(w, r, userMsg, code)
}

// respondErrorJSON writes a JSON error response.
func respondErrorJSON(w http.ResponseWriter, r *http.Request, msg core.UserMessage, status int) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// renderErrorHTML renders the alert component. HTMX requests get the bare
// fragment; full page loads get it inside the layout.
func renderErrorHTML(w http.ResponseWriter, r *http.Request, msg core.UserMessage, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	alert := templates.ErrorAlert(msg.Message, msg.Action, msg.Code)
	if isHTMX(r) {
		_ = alert.Render(r.Context(), w)
		return
	}
	_ = templates.Layout("Error", alert).Render(r.Context(), w)
}

// rejectRateLimited is the rate limiter's response.
func (s *Server) rejectRateLimited(w http.ResponseWriter, r *http.Request) {
	s.respondError(w, r, errRateLimited)
}

// isHTMX checks if the request is an HTMX request.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// wantsJSON checks if the client prefers a JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	return strings.Contains(r.Header.Get("Content-Type"), "application/json")
}
