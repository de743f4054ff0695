package skill

import (
	"fmt"

	"github.com/kingrea/spells-for-muggle/internal/speech"
	"github.com/kingrea/spells-for-muggle/internal/spell"
)

const (
	welcomeTitle   = "Welcome to Spells for Muggle"
	welcomeCard    = "Try ask me, teach me a spell."
	welcomeSpeech  = "Welcome to Spells for Muggle. Try ask me, teach me a spell or something like, how to light up a room."
	farewellTitle  = "See you next time"
	farewellSpeech = "Thank you for trying Spells for Muggle. Have a nice day! "
	notFoundTitle  = "Spell Not Found"
	tryAgainCard   = "Please try again."
	actionHint     = "Try ask me how to perform an action on something or just ask, Teach me a spell."
)

func welcome() speech.Envelope {
	return speech.Build(nil, speech.BuildSpeechlet(welcomeTitle, welcomeCard, welcomeSpeech, welcomeSpeech, false))
}

func farewell() speech.Envelope {
	return speech.Build(nil, speech.BuildSpeechlet(farewellTitle, farewellSpeech, farewellSpeech, "", true))
}

func phonemeFor(s spell.Spell) string {
	return speech.Phoneme(s.Pronunciation, s.DisplayName())
}

// teachByName teaches the named spell, or a random one when the slot is empty
// or names no known spell.
func (s *Skill) teachByName(t turn) (speech.Envelope, error) {
	requested, hasSlot := t.intent.SlotValue(SlotSpell)
	var (
		chosen  spell.Spell
		missing bool
	)
	if hasSlot {
		found, ok := s.catalog.LookupByName(requested)
		chosen, missing = found, !ok
	}
	if !hasSlot || missing {
		picked, err := s.catalog.PickRandom()
		if err != nil {
			return speech.Envelope{}, fmt.Errorf("skill: teach spell (request %s): %w", t.requestID, err)
		}
		chosen = picked
	}
	phoneme := phonemeFor(chosen)
	desc := speech.Escape(chosen.Description)
	output := fmt.Sprintf("%s,%s %s. Repeat after me. %s %s", phoneme, speech.Pause, desc, speech.Pause, phoneme)
	if missing {
		output = fmt.Sprintf("We can't find the spell, %s, you inquired. Here is a spell we pick for you. %s", speech.Escape(requested), output)
	}
	attrs := map[string]any{AttrSpell: chosen.Name}
	return speech.Build(attrs, speech.BuildSpeechlet(chosen.DisplayName(), chosen.Description, output, "", true)), nil
}

// teachByAction maps a described action to the spell that performs it.
func (s *Skill) teachByAction(t turn) (speech.Envelope, error) {
	action, hasSlot := t.intent.SlotValue(SlotAction)
	if !hasSlot {
		return speech.Build(nil, speech.BuildSpeechlet(notFoundTitle, tryAgainCard, actionHint, actionHint, false)), nil
	}
	found, ok := s.catalog.LookupByAction(action)
	if !ok {
		output := fmt.Sprintf("I can't find the spell for %s. Please try something else.", speech.Escape(action))
		return speech.Build(nil, speech.BuildSpeechlet(notFoundTitle, tryAgainCard, output, output, false)), nil
	}
	phoneme := phonemeFor(found)
	output := fmt.Sprintf("The spell you should use is, %s %s. %s %s. Repeat after me. %s %s",
		speech.Pause, phoneme, speech.Pause, speech.Escape(found.Description), speech.Pause, phoneme)
	attrs := map[string]any{AttrSpell: found.Name}
	return speech.Build(attrs, speech.BuildSpeechlet(found.DisplayName(), found.Description, output, "", true)), nil
}
