// Package skill implements the Spells for Muggle conversation: it routes
// platform events to handlers that teach spells by name or action and run the
// two-turn spell quiz.
package skill

import (
	"context"
	"fmt"
	"strings"

	"github.com/kingrea/spells-for-muggle/internal/speech"
	"github.com/kingrea/spells-for-muggle/internal/spell"
)

// Logger records lifecycle lines. It matches logging.Logger's Printf.
type Logger interface {
	Printf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

// turn is the decoded input handed to an intent handler.
type turn struct {
	requestID string
	session   Session
	intent    *Intent
	quiz      QuizState
}

type requestHandler func(ctx context.Context, evt Event) (speech.Envelope, error)

type intentHandler func(t turn) (speech.Envelope, error)

// Option customizes Skill construction.
type Option func(*Skill)

// WithLogger overrides the default no-op logger.
func WithLogger(l Logger) Option {
	return func(s *Skill) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithApplicationIDs restricts the skill to events from the listed
// applications. An empty list accepts every application.
func WithApplicationIDs(ids ...string) Option {
	return func(s *Skill) {
		for _, id := range ids {
			if trimmed := strings.TrimSpace(id); trimmed != "" {
				s.applicationIDs[trimmed] = struct{}{}
			}
		}
	}
}

// Skill answers platform events. It holds no per-conversation state; all of
// that travels in session attributes.
type Skill struct {
	catalog        *spell.Catalog
	logger         Logger
	applicationIDs map[string]struct{}
	requests       map[RequestType]requestHandler
	intents        map[IntentName]intentHandler
}

// New builds a skill around catalog. A nil catalog means the built-in roster.
func New(catalog *spell.Catalog, opts ...Option) *Skill {
	if catalog == nil {
		catalog = spell.Default()
	}
	s := &Skill{
		catalog:        catalog,
		logger:         nopLogger{},
		applicationIDs: map[string]struct{}{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.requests = map[RequestType]requestHandler{
		RequestLaunch:       s.onLaunch,
		RequestIntent:       s.onIntent,
		RequestSessionEnded: s.onSessionEnded,
	}
	s.intents = map[IntentName]intentHandler{
		IntentTeachSpell: s.teachByName,
		IntentCastSpell:  s.castSpell,
		IntentWhichSpell: s.teachByAction,
		IntentSpellQuiz:  s.startQuiz,
		IntentHelp:       func(turn) (speech.Envelope, error) { return welcome(), nil },
		IntentCancel:     func(turn) (speech.Envelope, error) { return farewell(), nil },
		IntentStop:       func(turn) (speech.Envelope, error) { return farewell(), nil },
	}
	return s
}

// Catalog exposes the spell catalog the skill answers from.
func (s *Skill) Catalog() *spell.Catalog {
	return s.catalog
}

// Handle runs one request/response transaction.
func (s *Skill) Handle(ctx context.Context, evt Event) (speech.Envelope, error) {
	if err := ctx.Err(); err != nil {
		return speech.Envelope{}, err
	}
	evt.Normalize()
	if err := evt.Validate(); err != nil {
		return speech.Envelope{}, err
	}
	s.logger.Printf("skill: event applicationId=%s", evt.Session.Application.ApplicationID)
	if err := s.verifyApplication(evt.Session.Application.ApplicationID); err != nil {
		return speech.Envelope{}, err
	}
	if evt.Session.New {
		s.onSessionStarted(evt.Request.RequestID, evt.Session)
	}
	handler, ok := s.requests[evt.Request.Type]
	if !ok {
		return speech.Envelope{}, &UnknownRequestError{Type: evt.Request.Type, RequestID: evt.Request.RequestID}
	}
	return handler(ctx, evt)
}

// Authorize reports whether evt comes from an allowed application. Handle
// runs the same check; hosts that answer from a cache call it first.
func (s *Skill) Authorize(evt Event) error {
	return s.verifyApplication(strings.TrimSpace(evt.Session.Application.ApplicationID))
}

func (s *Skill) verifyApplication(id string) error {
	if len(s.applicationIDs) == 0 {
		return nil
	}
	if _, ok := s.applicationIDs[id]; ok {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidApplication, id)
}

func (s *Skill) onIntent(_ context.Context, evt Event) (speech.Envelope, error) {
	s.logger.Printf("skill: intent requestId=%s sessionId=%s", evt.Request.RequestID, evt.Session.SessionID)
	intent := evt.Request.Intent
	handler, ok := s.intents[intent.Name]
	if !ok {
		return speech.Envelope{}, &UnknownIntentError{Name: intent.Name, RequestID: evt.Request.RequestID}
	}
	return handler(turn{
		requestID: evt.Request.RequestID,
		session:   evt.Session,
		intent:    intent,
		quiz:      DecodeQuizState(evt.Session.Attributes),
	})
}
