package skill

import (
	"fmt"
	"strings"
)

// QuizState is decoded once per request from session attributes. It is either
// NoPendingQuiz or PendingQuiz.
type QuizState interface {
	quizState()
}

// NoPendingQuiz means no question is waiting for an answer.
type NoPendingQuiz struct{}

// PendingQuiz holds the expected answer and the exact prompt to repeat on a
// wrong answer.
type PendingQuiz struct {
	Target string
	Prompt string
}

func (NoPendingQuiz) quizState() {}
func (PendingQuiz) quizState()   {}

// Attributes encodes the pending quiz as session attributes.
func (p PendingQuiz) Attributes() map[string]any {
	return map[string]any{
		AttrSpellToCast: p.Target,
		AttrQuizSpeech:  p.Prompt,
	}
}

// DecodeQuizState inspects session attributes. The presence of spellToCast is
// the only signal of a pending quiz.
func DecodeQuizState(attributes map[string]any) QuizState {
	raw, ok := attributes[AttrSpellToCast]
	if !ok || raw == nil {
		return NoPendingQuiz{}
	}
	return PendingQuiz{
		Target: strings.TrimSpace(attributeString(raw)),
		Prompt: attributeString(attributes[AttrQuizSpeech]),
	}
}

func attributeString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
