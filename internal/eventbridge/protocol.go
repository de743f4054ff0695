// Package eventbridge serves the skill over HTTP the way the voice platform
// calls it, and offers a matching client for local tooling.
package eventbridge

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/kingrea/spells-for-muggle/internal/skill"
	"github.com/kingrea/spells-for-muggle/internal/speech"
)

// ProtocolVersion identifies the bridge's HTTP contract.
const ProtocolVersion = "1.0.0"

// Error codes carried in non-200 response bodies.
const (
	CodeInvalidEvent       = "invalid_event"
	CodeInvalidApplication = "invalid_application"
	CodeUnknownIntent      = "unknown_intent"
	CodeUnknownRequest     = "unknown_request"
	CodePayloadTooLarge    = "payload_too_large"
	CodeMethodNotAllowed   = "method_not_allowed"
	CodeInternal           = "internal"
)

// Handler answers one platform event. *skill.Skill satisfies it.
type Handler interface {
	Handle(ctx context.Context, evt skill.Event) (speech.Envelope, error)
}

// Authorizer is implemented by handlers that can reject an event without
// answering it. The server calls it before replaying a cached response.
type Authorizer interface {
	Authorize(evt skill.Event) error
}

// HandlerFunc adapts a function into a Handler.
type HandlerFunc func(ctx context.Context, evt skill.Event) (speech.Envelope, error)

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx context.Context, evt skill.Event) (speech.Envelope, error) {
	if f == nil {
		return speech.Envelope{}, errors.New("eventbridge: nil handler")
	}
	return f(ctx, evt)
}

// Logger is satisfied by logging.Logger.
type Logger interface {
	Printf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

// Health is the body of GET /health.
type Health struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	CatalogSize   int    `json:"catalog_size"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// RemoteError is a non-200 answer from a bridge server.
type RemoteError struct {
	Status  int
	Code    string
	Message string
}

func (e *RemoteError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("eventbridge: remote status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("eventbridge: remote status %d (%s): %s", e.Status, e.Code, e.Message)
}

// Unwrap maps the error code back onto the skill's sentinel errors.
func (e *RemoteError) Unwrap() error {
	switch e.Code {
	case CodeInvalidEvent:
		return skill.ErrInvalidEvent
	case CodeInvalidApplication:
		return skill.ErrInvalidApplication
	case CodeUnknownIntent:
		return skill.ErrUnknownIntent
	case CodeUnknownRequest:
		return skill.ErrUnknownRequest
	default:
		return nil
	}
}

// classify picks the HTTP status and code for a handler error.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, skill.ErrInvalidEvent):
		return http.StatusBadRequest, CodeInvalidEvent
	case errors.Is(err, skill.ErrInvalidApplication):
		return http.StatusForbidden, CodeInvalidApplication
	case errors.Is(err, skill.ErrUnknownIntent):
		return http.StatusInternalServerError, CodeUnknownIntent
	case errors.Is(err, skill.ErrUnknownRequest):
		return http.StatusInternalServerError, CodeUnknownRequest
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}
