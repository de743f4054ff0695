package skill

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEvent marks events missing fields needed for routing.
	ErrInvalidEvent = errors.New("skill: invalid event")
	// ErrInvalidApplication is returned when the event targets another skill.
	ErrInvalidApplication = errors.New("skill: application id not allowed")
	// ErrUnknownIntent is matched by every UnknownIntentError.
	ErrUnknownIntent = errors.New("skill: unknown intent")
	// ErrUnknownRequest is matched by every UnknownRequestError.
	ErrUnknownRequest = errors.New("skill: unknown request type")
)

// UnknownIntentError reports an intent name with no handler. No response is
// produced for the invocation.
type UnknownIntentError struct {
	Name      IntentName
	RequestID string
}

func (e *UnknownIntentError) Error() string {
	return fmt.Sprintf("skill: unknown intent %q (request %s)", e.Name, e.RequestID)
}

func (e *UnknownIntentError) Unwrap() error { return ErrUnknownIntent }

// UnknownRequestError reports a request type with no handler.
type UnknownRequestError struct {
	Type      RequestType
	RequestID string
}

func (e *UnknownRequestError) Error() string {
	return fmt.Sprintf("skill: unknown request type %q (request %s)", e.Type, e.RequestID)
}

func (e *UnknownRequestError) Unwrap() error { return ErrUnknownRequest }
