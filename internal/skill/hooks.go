package skill

import (
	"context"

	"github.com/kingrea/spells-for-muggle/internal/speech"
)

func (s *Skill) onSessionStarted(requestID string, session Session) {
	s.logger.Printf("skill: session started requestId=%s sessionId=%s", requestID, session.SessionID)
}

func (s *Skill) onLaunch(_ context.Context, evt Event) (speech.Envelope, error) {
	s.logger.Printf("skill: launch requestId=%s sessionId=%s", evt.Request.RequestID, evt.Session.SessionID)
	return welcome(), nil
}

// onSessionEnded is not called when a response already ended the session.
func (s *Skill) onSessionEnded(_ context.Context, evt Event) (speech.Envelope, error) {
	reason := evt.Request.Reason
	if reason == "" {
		reason = "unspecified"
	}
	s.logger.Printf("skill: session ended requestId=%s sessionId=%s reason=%s", evt.Request.RequestID, evt.Session.SessionID, reason)
	return speech.Empty(), nil
}
