package speech

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

// Pause is the short break inserted between spoken segments.
const Pause = `<break time="300ms"/>`

const (
	speakOpen  = "<speak>"
	speakClose = "</speak>"
)

var (
	escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	tagRE   = regexp.MustCompile(`<[^>]*>`)
	spaceRE = regexp.MustCompile(`\s+`)
)

// Wrap places text inside a speak root element. Empty text yields "".
func Wrap(text string) string {
	if text == "" {
		return ""
	}
	return speakOpen + text + speakClose
}

// Unwrap strips the speak root element added by Wrap.
func Unwrap(ssml string) string {
	trimmed := strings.TrimPrefix(ssml, speakOpen)
	return strings.TrimSuffix(trimmed, speakClose)
}

// Phoneme renders display text with an IPA pronunciation hint.
func Phoneme(ipa, display string) string {
	return fmt.Sprintf(`<phoneme alphabet="ipa" ph="%s">%s</phoneme>`, html.EscapeString(ipa), Escape(display))
}

// Escape makes caller-supplied text safe to embed in SSML.
func Escape(text string) string {
	return escaper.Replace(text)
}

// PlainText drops all markup and collapses whitespace, leaving what a reader
// would see in a transcript.
func PlainText(ssml string) string {
	text := tagRE.ReplaceAllString(ssml, " ")
	text = html.UnescapeString(text)
	text = spaceRE.ReplaceAllString(text, " ")
	text = strings.ReplaceAll(text, " ,", ",")
	text = strings.ReplaceAll(text, " .", ".")
	return strings.TrimSpace(text)
}
