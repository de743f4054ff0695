package skill

import (
	"fmt"
	"strings"
)

// RequestType names the three request kinds the platform sends.
type RequestType string

const (
	RequestLaunch       RequestType = "LaunchRequest"
	RequestIntent       RequestType = "IntentRequest"
	RequestSessionEnded RequestType = "SessionEndedRequest"
)

// Event is the inbound envelope posted by the voice platform.
type Event struct {
	Version string  `json:"version,omitempty"`
	Session Session `json:"session"`
	Request Request `json:"request"`
}

// Session describes the conversation the request belongs to.
type Session struct {
	New         bool           `json:"new"`
	SessionID   string         `json:"sessionId"`
	Application Application    `json:"application"`
	Attributes  map[string]any `json:"attributes,omitempty"`
}

// Application identifies the skill the platform is calling.
type Application struct {
	ApplicationID string `json:"applicationId"`
}

// Request is the per-turn payload.
type Request struct {
	Type      RequestType `json:"type"`
	RequestID string      `json:"requestId"`
	Timestamp string      `json:"timestamp,omitempty"`
	Reason    string      `json:"reason,omitempty"`
	Intent    *Intent     `json:"intent,omitempty"`
}

// Intent is the platform's classification of the utterance.
type Intent struct {
	Name  IntentName      `json:"name"`
	Slots map[string]Slot `json:"slots,omitempty"`
}

// Slot is one optional value extracted from the utterance.
type Slot struct {
	Name  string `json:"name,omitempty"`
	Value string `json:"value,omitempty"`
}

// SlotValue returns the trimmed value of slot name. Missing, unset and blank
// slots all report false.
func (i *Intent) SlotValue(name string) (string, bool) {
	if i == nil || i.Slots == nil {
		return "", false
	}
	slot, ok := i.Slots[name]
	if !ok {
		return "", false
	}
	value := strings.TrimSpace(slot.Value)
	return value, value != ""
}

// Normalize trims identifiers before validation.
func (e *Event) Normalize() {
	if e == nil {
		return
	}
	e.Session.SessionID = strings.TrimSpace(e.Session.SessionID)
	e.Session.Application.ApplicationID = strings.TrimSpace(e.Session.Application.ApplicationID)
	e.Request.Type = RequestType(strings.TrimSpace(string(e.Request.Type)))
	e.Request.RequestID = strings.TrimSpace(e.Request.RequestID)
	if e.Request.Intent != nil {
		e.Request.Intent.Name = IntentName(strings.TrimSpace(string(e.Request.Intent.Name)))
	}
}

// Validate enforces the fields routing depends on. Unknown request types and
// intent names pass validation; routing reports them.
func (e Event) Validate() error {
	if e.Request.Type == "" {
		return fmt.Errorf("%w: request.type is required", ErrInvalidEvent)
	}
	if e.Request.RequestID == "" {
		return fmt.Errorf("%w: request.requestId is required", ErrInvalidEvent)
	}
	if e.Request.Type == RequestIntent {
		if e.Request.Intent == nil || e.Request.Intent.Name == "" {
			return fmt.Errorf("%w: request.intent.name is required for %s", ErrInvalidEvent, RequestIntent)
		}
	}
	return nil
}
