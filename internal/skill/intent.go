package skill

// IntentName enumerates the intents the skill understands.
type IntentName string

const (
	IntentTeachSpell IntentName = "TeachSpell"
	IntentCastSpell  IntentName = "CastSpell"
	IntentWhichSpell IntentName = "WhichSpell"
	IntentSpellQuiz  IntentName = "SpellQuiz"
	IntentHelp       IntentName = "AMAZON.HelpIntent"
	IntentCancel     IntentName = "AMAZON.CancelIntent"
	IntentStop       IntentName = "AMAZON.StopIntent"
)

// Slot names used by the interaction model.
const (
	SlotSpell  = "Spell"
	SlotAction = "Action"
)

// Session attribute keys.
const (
	AttrSpell       = "spell"
	AttrSpellToCast = "spellToCast"
	AttrQuizSpeech  = "spellQuizSpeech"
)

// KnownIntents lists every intent the router dispatches, in display order.
func KnownIntents() []IntentName {
	return []IntentName{
		IntentTeachSpell,
		IntentWhichSpell,
		IntentSpellQuiz,
		IntentCastSpell,
		IntentHelp,
		IntentCancel,
		IntentStop,
	}
}

// SlotFor reports the slot an intent reads, or "" when it takes none.
func (n IntentName) SlotFor() string {
	switch n {
	case IntentTeachSpell, IntentCastSpell:
		return SlotSpell
	case IntentWhichSpell:
		return SlotAction
	default:
		return ""
	}
}
