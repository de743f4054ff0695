package skill

import (
	"fmt"
	"strings"

	"github.com/kingrea/spells-for-muggle/internal/speech"
	"github.com/kingrea/spells-for-muggle/internal/spell"
)

const (
	quizTitle      = "Let's start a quiz"
	correctTitle   = "Correct Answer!"
	wrongTitle     = "Wrong Answer"
	unnamedAnswer  = "that"
	quizSpeechLead = "let's start a quiz. "
)

// startQuiz describes a random spell and waits for the user to name it.
func (s *Skill) startQuiz(t turn) (speech.Envelope, error) {
	target, err := s.catalog.PickRandom()
	if err != nil {
		return speech.Envelope{}, fmt.Errorf("skill: start quiz (request %s): %w", t.requestID, err)
	}
	prompt := fmt.Sprintf("Answer the following description with a spell. %s %s. %s Which spell will you use?",
		speech.Pause, speech.Escape(target.Description), speech.Pause)
	card := fmt.Sprintf("Answer the following description with a spell. %s. Which spell will you use?", target.Description)
	pending := PendingQuiz{Target: target.Name, Prompt: prompt}
	return speech.Build(pending.Attributes(), speech.BuildSpeechlet(quizTitle, card, quizSpeechLead+prompt, prompt, false)), nil
}

// castSpell answers a pending quiz, or teaches the named spell when no quiz is
// waiting.
func (s *Skill) castSpell(t turn) (speech.Envelope, error) {
	pending, ok := t.quiz.(PendingQuiz)
	if !ok {
		return s.teachByName(t)
	}
	return s.answerQuiz(t, pending), nil
}

func (s *Skill) answerQuiz(t turn, pending PendingQuiz) speech.Envelope {
	candidate, hasAnswer := t.intent.SlotValue(SlotSpell)
	known, isKnown := s.catalog.LookupByName(candidate)
	rendered := unnamedAnswer
	switch {
	case hasAnswer && isKnown:
		rendered = phonemeFor(known)
	case hasAnswer:
		rendered = speech.Escape(candidate)
	}

	if hasAnswer && strings.EqualFold(candidate, pending.Target) {
		display := known.DisplayName()
		if !isKnown {
			display = spell.Spell{Name: strings.ToLower(pending.Target)}.DisplayName()
		}
		output := fmt.Sprintf("You are right. The spell to cast is %s. Good job!", rendered)
		content := fmt.Sprintf("%s is the right answer.", display)
		return speech.Build(nil, speech.BuildSpeechlet(correctTitle, content, output, "", true))
	}

	output := strings.TrimRight(fmt.Sprintf("Sorry, %s is not the right answer. Please try another answer. %s", rendered, pending.Prompt), " ")
	return speech.Build(t.session.Attributes, speech.BuildSpeechlet(wrongTitle, tryAgainCard, output, output, false))
}
