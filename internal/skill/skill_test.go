package skill

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kingrea/spells-for-muggle/internal/speech"
	"github.com/kingrea/spells-for-muggle/internal/spell"
)

// lumosIndex is lumos's position in the built-in roster.
const lumosIndex = 4

func newTestSkill(t *testing.T, opts ...Option) *Skill {
	t.Helper()
	catalog := spell.Default(spell.WithPicker(func(int) int { return lumosIndex }))
	return New(catalog, opts...)
}

func intentEvent(name IntentName, slots map[string]string, attrs map[string]any) Event {
	intent := &Intent{Name: name, Slots: map[string]Slot{}}
	for slot, value := range slots {
		intent.Slots[slot] = Slot{Name: slot, Value: value}
	}
	return Event{
		Session: Session{
			SessionID:   "session-1",
			Application: Application{ApplicationID: "app-1"},
			Attributes:  attrs,
		},
		Request: Request{Type: RequestIntent, RequestID: "req-1", Intent: intent},
	}
}

func handle(t *testing.T, s *Skill, evt Event) speech.Envelope {
	t.Helper()
	env, err := s.Handle(context.Background(), evt)
	if err != nil {
		t.Fatalf("handle %s: %v", evt.Request.Type, err)
	}
	return env
}

type recordingLogger struct {
	lines []string
}

func (r *recordingLogger) Printf(format string, args ...any) {
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

func TestLaunchAndHelpRenderWelcome(t *testing.T) {
	s := newTestSkill(t)
	launch := handle(t, s, Event{Request: Request{Type: RequestLaunch, RequestID: "r"}})
	help := handle(t, s, intentEvent(IntentHelp, nil, nil))
	if diff := cmp.Diff(launch, help); diff != "" {
		t.Fatalf("help should match launch (-launch +help):\n%s", diff)
	}
	if launch.Response.ShouldEndSession {
		t.Fatalf("expected welcome to keep the session open")
	}
	if launch.Response.SpeechText() != launch.Response.RepromptText() {
		t.Fatalf("expected welcome reprompt to repeat the speech")
	}
	if launch.Response.Card.Title != "Welcome to Spells for Muggle" {
		t.Fatalf("unexpected card title %q", launch.Response.Card.Title)
	}
}

func TestStopAndCancelEndSession(t *testing.T) {
	s := newTestSkill(t)
	for _, name := range []IntentName{IntentStop, IntentCancel} {
		env := handle(t, s, intentEvent(name, nil, map[string]any{AttrSpell: "lumos"}))
		if !env.Response.ShouldEndSession {
			t.Fatalf("%s: expected session to end", name)
		}
		if env.Response.Reprompt != nil {
			t.Fatalf("%s: expected no reprompt", name)
		}
		if len(env.SessionAttributes) != 0 {
			t.Fatalf("%s: expected attributes cleared, got %v", name, env.SessionAttributes)
		}
		if !strings.HasPrefix(env.Response.SpeechText(), "Thank you for trying Spells for Muggle.") {
			t.Fatalf("%s: unexpected farewell %q", name, env.Response.SpeechText())
		}
	}
}

func TestTeachByNameKnownSpell(t *testing.T) {
	s := newTestSkill(t)
	env := handle(t, s, intentEvent(IntentTeachSpell, map[string]string{SlotSpell: "ALOHOMORA"}, nil))
	text := env.Response.SpeechText()
	phoneme := `<phoneme alphabet="ipa" ph="əˌloʊhəˈmɔərə">Alohomora</phoneme>`
	want := phoneme + "," + speech.Pause + " A spell to open locks. Repeat after me. " + speech.Pause + " " + phoneme
	if text != want {
		t.Fatalf("unexpected speech\nwant %s\ngot  %s", want, text)
	}
	if !env.Response.ShouldEndSession || env.Response.Reprompt != nil {
		t.Fatalf("expected teach to end the turn without reprompt")
	}
	if env.SessionAttributes[AttrSpell] != "alohomora" {
		t.Fatalf("expected remembered spell alohomora, got %v", env.SessionAttributes)
	}
	if env.Response.Card.Title != "Alohomora" || env.Response.Card.Content != "A spell to open locks" {
		t.Fatalf("unexpected card %+v", env.Response.Card)
	}
}

func TestTeachByNameUnknownSpellSubstitutes(t *testing.T) {
	s := newTestSkill(t)
	env := handle(t, s, intentEvent(IntentTeachSpell, map[string]string{SlotSpell: "nonexistentspell"}, nil))
	text := env.Response.SpeechText()
	notice := "We can't find the spell, nonexistentspell, you inquired. Here is a spell we pick for you. "
	if !strings.HasPrefix(text, notice) {
		t.Fatalf("expected not-found notice, got %q", text)
	}
	if !strings.Contains(text, "A spell that lights up dark places at the flick of a wand") {
		t.Fatalf("expected substitute teaching content, got %q", text)
	}
	if !env.Response.ShouldEndSession {
		t.Fatalf("expected session to end")
	}
	if env.SessionAttributes[AttrSpell] != "lumos" {
		t.Fatalf("expected substitute spell remembered, got %v", env.SessionAttributes)
	}
}

func TestTeachByNameWithoutSlotPicksRandom(t *testing.T) {
	s := New(spell.Default())
	for _, slots := range []map[string]string{nil, {SlotSpell: "   "}} {
		env := handle(t, s, intentEvent(IntentTeachSpell, slots, nil))
		name, _ := env.SessionAttributes[AttrSpell].(string)
		if _, ok := s.Catalog().LookupByName(name); !ok {
			t.Fatalf("expected a catalog spell, got %q", name)
		}
		if strings.Contains(env.Response.SpeechText(), "can't find") {
			t.Fatalf("unexpected not-found notice without a slot")
		}
	}
}

func TestTeachByAction(t *testing.T) {
	s := newTestSkill(t)
	env := handle(t, s, intentEvent(IntentWhichSpell, map[string]string{SlotAction: "Open"}, nil))
	if env.SessionAttributes[AttrSpell] != "alohomora" {
		t.Fatalf("expected alohomora for open, got %v", env.SessionAttributes)
	}
	if !strings.HasPrefix(env.Response.SpeechText(), "The spell you should use is, "+speech.Pause) {
		t.Fatalf("unexpected speech %q", env.Response.SpeechText())
	}
	if !env.Response.ShouldEndSession {
		t.Fatalf("expected turn to end")
	}

	env = handle(t, s, intentEvent(IntentWhichSpell, map[string]string{SlotAction: "brighten"}, nil))
	if env.SessionAttributes[AttrSpell] != "lumos" {
		t.Fatalf("expected lumos for brighten, got %v", env.SessionAttributes)
	}
}

func TestTeachByActionWithoutSlotPrompts(t *testing.T) {
	s := newTestSkill(t)
	env := handle(t, s, intentEvent(IntentWhichSpell, nil, nil))
	if env.Response.ShouldEndSession {
		t.Fatalf("expected session to continue")
	}
	if env.Response.SpeechText() != env.Response.RepromptText() {
		t.Fatalf("expected identical prompt and reprompt, got %q vs %q", env.Response.SpeechText(), env.Response.RepromptText())
	}
	if len(env.SessionAttributes) != 0 {
		t.Fatalf("expected no attributes, got %v", env.SessionAttributes)
	}
}

func TestTeachByActionUnknownAction(t *testing.T) {
	s := newTestSkill(t)
	env := handle(t, s, intentEvent(IntentWhichSpell, map[string]string{SlotAction: "juggle"}, nil))
	want := "I can't find the spell for juggle. Please try something else."
	if env.Response.SpeechText() != want || env.Response.RepromptText() != want {
		t.Fatalf("unexpected not-found speech %q / %q", env.Response.SpeechText(), env.Response.RepromptText())
	}
	if env.Response.ShouldEndSession {
		t.Fatalf("expected session to continue")
	}
	if len(env.SessionAttributes) != 0 {
		t.Fatalf("expected no attributes, got %v", env.SessionAttributes)
	}
	if env.Response.Card.Title != "Spell Not Found" {
		t.Fatalf("expected generic not-found card, got %+v", env.Response.Card)
	}
}

func TestStartQuizStoresPendingAnswer(t *testing.T) {
	s := New(spell.Default())
	env := handle(t, s, intentEvent(IntentSpellQuiz, nil, nil))
	target, _ := env.SessionAttributes[AttrSpellToCast].(string)
	if _, ok := s.Catalog().LookupByName(target); !ok {
		t.Fatalf("expected spellToCast to be a catalog spell, got %q", target)
	}
	reprompt := env.Response.RepromptText()
	if reprompt == "" || env.SessionAttributes[AttrQuizSpeech] != reprompt {
		t.Fatalf("expected stored prompt to equal reprompt")
	}
	if env.Response.SpeechText() != "let's start a quiz. "+reprompt {
		t.Fatalf("expected reprompt embedded in speech, got %q", env.Response.SpeechText())
	}
	if env.Response.ShouldEndSession {
		t.Fatalf("expected quiz to keep the session open")
	}
}

func TestQuizCorrectAnswerAnyCase(t *testing.T) {
	s := newTestSkill(t)
	quiz := handle(t, s, intentEvent(IntentSpellQuiz, nil, nil))
	for _, answer := range []string{"lumos", "LUMOS", "Lumos"} {
		env := handle(t, s, intentEvent(IntentCastSpell, map[string]string{SlotSpell: answer}, quiz.SessionAttributes))
		if !env.Response.ShouldEndSession {
			t.Fatalf("%s: expected session to end on a correct answer", answer)
		}
		if !strings.HasPrefix(env.Response.SpeechText(), "You are right.") {
			t.Fatalf("%s: expected success message, got %q", answer, env.Response.SpeechText())
		}
		if env.Response.Card.Content != "Lumos is the right answer." {
			t.Fatalf("%s: unexpected card %+v", answer, env.Response.Card)
		}
		if _, ok := env.SessionAttributes[AttrSpellToCast]; ok {
			t.Fatalf("%s: expected pending quiz cleared", answer)
		}
	}
}

func TestQuizWrongAnswerRepeatsPrompt(t *testing.T) {
	s := newTestSkill(t)
	quiz := handle(t, s, intentEvent(IntentSpellQuiz, nil, nil))
	prompt := quiz.Response.RepromptText()
	for _, answer := range []string{"nox", "banana"} {
		env := handle(t, s, intentEvent(IntentCastSpell, map[string]string{SlotSpell: answer}, quiz.SessionAttributes))
		if env.Response.ShouldEndSession {
			t.Fatalf("%s: expected session to continue", answer)
		}
		if diff := cmp.Diff(quiz.SessionAttributes, env.SessionAttributes); diff != "" {
			t.Fatalf("%s: attributes changed (-before +after):\n%s", answer, diff)
		}
		text := env.Response.SpeechText()
		if !strings.HasPrefix(text, "Sorry, ") || !strings.HasSuffix(text, prompt) {
			t.Fatalf("%s: expected rejection then prompt, got %q", answer, text)
		}
		if env.Response.RepromptText() != text {
			t.Fatalf("%s: expected reprompt to repeat the rejection", answer)
		}
	}
	banana := handle(t, s, intentEvent(IntentCastSpell, map[string]string{SlotSpell: "banana"}, quiz.SessionAttributes))
	if !strings.HasPrefix(banana.Response.SpeechText(), "Sorry, banana is not the right answer.") {
		t.Fatalf("expected raw candidate text, got %q", banana.Response.SpeechText())
	}
	nox := handle(t, s, intentEvent(IntentCastSpell, map[string]string{SlotSpell: "nox"}, quiz.SessionAttributes))
	if !strings.Contains(nox.Response.SpeechText(), `<phoneme alphabet="ipa" ph="ˈnɒks">Nox</phoneme>`) {
		t.Fatalf("expected phoneme for a known candidate, got %q", nox.Response.SpeechText())
	}
}

func TestQuizAnswerWithoutSlotRetries(t *testing.T) {
	s := newTestSkill(t)
	quiz := handle(t, s, intentEvent(IntentSpellQuiz, nil, nil))
	env := handle(t, s, intentEvent(IntentCastSpell, nil, quiz.SessionAttributes))
	if env.Response.ShouldEndSession {
		t.Fatalf("expected retry")
	}
	if !strings.HasPrefix(env.Response.SpeechText(), "Sorry, that is not the right answer.") {
		t.Fatalf("unexpected speech %q", env.Response.SpeechText())
	}
}

func TestCastWithoutPendingQuizTeaches(t *testing.T) {
	s := newTestSkill(t)
	cast := handle(t, s, intentEvent(IntentCastSpell, map[string]string{SlotSpell: "reparo"}, map[string]any{AttrSpell: "lumos"}))
	teach := handle(t, s, intentEvent(IntentTeachSpell, map[string]string{SlotSpell: "reparo"}, nil))
	if diff := cmp.Diff(teach, cast); diff != "" {
		t.Fatalf("cast without quiz should teach (-teach +cast):\n%s", diff)
	}
}

func TestUnknownIntentFails(t *testing.T) {
	s := newTestSkill(t)
	_, err := s.Handle(context.Background(), intentEvent("AMAZON.FallbackIntent", nil, nil))
	if !errors.Is(err, ErrUnknownIntent) {
		t.Fatalf("expected ErrUnknownIntent, got %v", err)
	}
	var typed *UnknownIntentError
	if !errors.As(err, &typed) || typed.Name != "AMAZON.FallbackIntent" {
		t.Fatalf("expected UnknownIntentError naming the intent, got %v", err)
	}
}

func TestUnknownRequestTypeFails(t *testing.T) {
	s := newTestSkill(t)
	_, err := s.Handle(context.Background(), Event{Request: Request{Type: "Display.ElementSelected", RequestID: "r"}})
	if !errors.Is(err, ErrUnknownRequest) {
		t.Fatalf("expected ErrUnknownRequest, got %v", err)
	}
}

func TestEveryKnownIntentIsRouted(t *testing.T) {
	s := newTestSkill(t)
	for _, name := range KnownIntents() {
		if _, ok := s.intents[name]; !ok {
			t.Fatalf("intent %s has no handler", name)
		}
	}
	if len(s.intents) != len(KnownIntents()) {
		t.Fatalf("handler table and KnownIntents disagree: %d vs %d", len(s.intents), len(KnownIntents()))
	}
}

func TestEmptyCatalogIsFatal(t *testing.T) {
	s := New(spell.NewCatalog())
	_, err := s.Handle(context.Background(), intentEvent(IntentSpellQuiz, nil, nil))
	if !errors.Is(err, spell.ErrEmptyCatalog) {
		t.Fatalf("expected ErrEmptyCatalog, got %v", err)
	}
}

func TestApplicationIDAllowlist(t *testing.T) {
	s := newTestSkill(t, WithApplicationIDs("app-1"))
	if _, err := s.Handle(context.Background(), intentEvent(IntentHelp, nil, nil)); err != nil {
		t.Fatalf("expected allowed application, got %v", err)
	}
	evt := intentEvent(IntentHelp, nil, nil)
	evt.Session.Application.ApplicationID = "someone-else"
	if _, err := s.Handle(context.Background(), evt); !errors.Is(err, ErrInvalidApplication) {
		t.Fatalf("expected ErrInvalidApplication, got %v", err)
	}
	if err := s.Authorize(evt); !errors.Is(err, ErrInvalidApplication) {
		t.Fatalf("expected Authorize to reject, got %v", err)
	}
	if err := s.Authorize(intentEvent(IntentHelp, nil, nil)); err != nil {
		t.Fatalf("expected Authorize to allow app-1, got %v", err)
	}
	if err := newTestSkill(t).Authorize(evt); err != nil {
		t.Fatalf("expected empty allowlist to allow all, got %v", err)
	}
}

func TestLifecycleHooksLog(t *testing.T) {
	logger := &recordingLogger{}
	s := newTestSkill(t, WithLogger(logger))
	evt := intentEvent(IntentHelp, nil, nil)
	evt.Session.New = true
	handle(t, s, evt)
	ended := handle(t, s, Event{
		Session: Session{SessionID: "session-1"},
		Request: Request{Type: RequestSessionEnded, RequestID: "req-2", Reason: "USER_INITIATED"},
	})
	if ended.Response.OutputSpeech.SSML != "" || !ended.Response.ShouldEndSession {
		t.Fatalf("expected empty end-session envelope, got %+v", ended.Response)
	}
	joined := strings.Join(logger.lines, "\n")
	for _, want := range []string{"session started requestId=req-1", "intent requestId=req-1", "session ended requestId=req-2", "reason=USER_INITIATED"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected log line containing %q, got:\n%s", want, joined)
		}
	}
}

func TestHandleRejectsInvalidEvents(t *testing.T) {
	s := newTestSkill(t)
	cases := []Event{
		{},
		{Request: Request{Type: RequestLaunch}},
		{Request: Request{Type: RequestIntent, RequestID: "r"}},
	}
	for i, evt := range cases {
		if _, err := s.Handle(context.Background(), evt); !errors.Is(err, ErrInvalidEvent) {
			t.Fatalf("case %d: expected ErrInvalidEvent, got %v", i, err)
		}
	}
}

func TestHandleHonorsCanceledContext(t *testing.T) {
	s := newTestSkill(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Handle(ctx, intentEvent(IntentHelp, nil, nil)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
