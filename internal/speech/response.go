// Package speech assembles the response envelope returned to the voice
// platform: SSML output speech, a simple card, an optional reprompt and the
// session attributes to replay on the next turn.
package speech

// Version is the envelope version understood by the platform.
const Version = "1.0"

const (
	// SpeechTypeSSML marks output speech carrying SSML markup.
	SpeechTypeSSML = "SSML"
	// CardTypeSimple is a plain title + content card.
	CardTypeSimple = "Simple"
)

// OutputSpeech carries SSML markup. SSML is omitted when there is nothing to say.
type OutputSpeech struct {
	Type string `json:"type"`
	SSML string `json:"ssml,omitempty"`
}

// Card is rendered in the companion app.
type Card struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Reprompt is spoken when the user stays silent after a continuing response.
type Reprompt struct {
	OutputSpeech OutputSpeech `json:"outputSpeech"`
}

// Speechlet is the response body: speech, card, reprompt and the continuation flag.
type Speechlet struct {
	OutputSpeech     OutputSpeech `json:"outputSpeech"`
	Card             *Card        `json:"card,omitempty"`
	Reprompt         *Reprompt    `json:"reprompt,omitempty"`
	ShouldEndSession bool         `json:"shouldEndSession"`
}

// Envelope is the full payload returned for one request.
type Envelope struct {
	Version           string         `json:"version"`
	SessionAttributes map[string]any `json:"sessionAttributes"`
	Response          Speechlet      `json:"response"`
}

// BuildSpeechlet wraps output and reprompt text in speak tags and attaches a
// simple card. An empty reprompt leaves the reprompt out entirely.
func BuildSpeechlet(cardTitle, cardContent, output, reprompt string, shouldEndSession bool) Speechlet {
	s := Speechlet{
		OutputSpeech: newSpeech(output),
		Card: &Card{
			Type:    CardTypeSimple,
			Title:   cardTitle,
			Content: cardContent,
		},
		ShouldEndSession: shouldEndSession,
	}
	if reprompt != "" {
		s.Reprompt = &Reprompt{OutputSpeech: newSpeech(reprompt)}
	}
	return s
}

// Build pairs session attributes with a speechlet. Nil attributes become an
// empty map so the platform always receives an object.
func Build(attributes map[string]any, speechlet Speechlet) Envelope {
	if attributes == nil {
		attributes = map[string]any{}
	}
	return Envelope{
		Version:           Version,
		SessionAttributes: attributes,
		Response:          speechlet,
	}
}

// Empty is the envelope returned when the platform expects no speech, such
// as after a session-ended notification.
func Empty() Envelope {
	return Build(nil, Speechlet{
		OutputSpeech:     newSpeech(""),
		ShouldEndSession: true,
	})
}

// SpeechText returns the markup inside the speak tags of the output speech.
func (s Speechlet) SpeechText() string {
	return Unwrap(s.OutputSpeech.SSML)
}

// RepromptText returns the markup inside the reprompt speak tags, or "".
func (s Speechlet) RepromptText() string {
	if s.Reprompt == nil {
		return ""
	}
	return Unwrap(s.Reprompt.OutputSpeech.SSML)
}

func newSpeech(text string) OutputSpeech {
	return OutputSpeech{Type: SpeechTypeSSML, SSML: Wrap(text)}
}
