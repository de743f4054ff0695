// internal/tui/app.go
//
// Console is a terminal stand-in for the voice platform. The developer picks
// an intent, types the slot value the platform would have heard, and the
// console threads session attributes from one turn to the next.

package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/kingrea/spells-for-muggle/internal/skill"
	"github.com/kingrea/spells-for-muggle/internal/speech"
)

// appState represents which input the console is waiting for.
type appState int

const (
	stateIntentMenu appState = iota // picking the next request
	stateSlotInput                  // typing the slot value for the chosen intent
)

const (
	sessionIDPrefix = "amzn1.echo-api.session."
	requestIDPrefix = "amzn1.echo-api.request."
	endReason       = "USER_INITIATED"
)

// Invoker answers one event. Both *skill.Skill and *eventbridge.Client fit.
type Invoker interface {
	Handle(ctx context.Context, evt skill.Event) (speech.Envelope, error)
}

// Logger is satisfied by logging.Logger.
type Logger interface {
	Printf(format string, args ...any)
}

// Recorder keeps a transcript of what was said. *logbook.Logbook fits.
type Recorder interface {
	Record(sessionID, speaker, text string) error
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithLogger records each turn. The console owns the terminal, so this should
// point at a file.
func WithLogger(l Logger) AppOption {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithRecorder writes every user, skill, card and error line to r.
func WithRecorder(r Recorder) AppOption {
	return func(a *App) {
		if r != nil {
			a.recorder = r
		}
	}
}

// WithIDGenerator replaces uuid-based session and request ids.
func WithIDGenerator(next func() string) AppOption {
	return func(a *App) {
		if next != nil {
			a.newID = next
		}
	}
}

// WithApplicationID sets the application id stamped on every event.
func WithApplicationID(id string) AppOption {
	return func(a *App) {
		a.applicationID = strings.TrimSpace(id)
	}
}

// WithContext bounds every invocation.
func WithContext(ctx context.Context) AppOption {
	return func(a *App) {
		if ctx != nil {
			a.ctx = ctx
		}
	}
}

// WithTarget labels where turns are sent, e.g. "local" or a bridge URL.
func WithTarget(target string) AppOption {
	return func(a *App) {
		if target != "" {
			a.target = target
		}
	}
}

// conversation is the platform-side state carried between turns.
type conversation struct {
	id    string
	fresh bool
	attrs map[string]any
	turns int
}

type turnResultMsg struct {
	request  skill.RequestType
	envelope speech.Envelope
	err      error
}

// App is the console model.
type App struct {
	state         appState
	invoker       Invoker
	logger        Logger
	recorder      Recorder
	newID         func() string
	ctx           context.Context
	applicationID string
	target        string

	intentMenu list.Model
	slotInput  textinput.Model
	transcript viewport.Model
	entries    []entry
	pending    intentChoice
	busy       bool

	session conversation

	width  int
	height int
}

// intentChoice implements list.Item for the request menu.
type intentChoice struct {
	request skill.RequestType
	intent  skill.IntentName
	title   string
	desc    string
}

func (c intentChoice) Title() string       { return c.title }
func (c intentChoice) Description() string { return c.desc }
func (c intentChoice) FilterValue() string { return c.title }

func (c intentChoice) slot() string {
	if c.request != skill.RequestIntent {
		return ""
	}
	return c.intent.SlotFor()
}

var intentDescriptions = map[skill.IntentName]string{
	skill.IntentTeachSpell: "Teach me a spell (Spell slot)",
	skill.IntentWhichSpell: "Which spell does this? (Action slot)",
	skill.IntentSpellQuiz:  "Start a spell quiz",
	skill.IntentCastSpell:  "Answer the quiz (Spell slot)",
	skill.IntentHelp:       "Ask for help",
	skill.IntentCancel:     "Cancel",
	skill.IntentStop:       "Stop",
}

func buildIntentMenu() []list.Item {
	items := []list.Item{
		intentChoice{request: skill.RequestLaunch, title: "Launch", desc: "Open the skill"},
	}
	for _, name := range skill.KnownIntents() {
		items = append(items, intentChoice{
			request: skill.RequestIntent,
			intent:  name,
			title:   string(name),
			desc:    intentDescriptions[name],
		})
	}
	items = append(items, intentChoice{request: skill.RequestSessionEnded, title: "End session", desc: "Platform closes the session"})
	return items
}

// NewApp creates a console that sends turns to invoker.
func NewApp(invoker Invoker, opts ...AppOption) *App {
	menu := list.New(buildIntentMenu(), list.NewDefaultDelegate(), 0, 0)
	menu.Title = "✦ SPELLS FOR MUGGLE"
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(false)
	menu.KeyMap.Quit.SetEnabled(false)

	input := textinput.New()
	input.Placeholder = "slot value (leave blank to omit the slot)"
	input.CharLimit = 120
	input.Width = 48

	a := &App{
		state:      stateIntentMenu,
		invoker:    invoker,
		logger:     nopLogger{},
		newID:      uuid.NewString,
		ctx:        context.Background(),
		target:     "local",
		intentMenu: menu,
		slotInput:  input,
		transcript: viewport.New(60, 12),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	a.resetSession()
	a.appendEntry(speakerSystem, "Pick a request and press enter. Sending to "+a.target+".")
	return a
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.layout()
		return a, nil

	case turnResultMsg:
		a.handleTurnResult(msg)
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "q":
			if a.state == stateIntentMenu {
				return a, tea.Quit
			}
		case "esc":
			if a.state == stateSlotInput {
				a.slotInput.Blur()
				a.slotInput.SetValue("")
				a.state = stateIntentMenu
				return a, nil
			}
		case "pgup", "pgdown":
			var cmd tea.Cmd
			a.transcript, cmd = a.transcript.Update(msg)
			return a, cmd
		case "enter":
			if a.busy {
				return a, nil
			}
			switch a.state {
			case stateIntentMenu:
				return a.handleMenuSelection()
			case stateSlotInput:
				value := a.slotInput.Value()
				a.slotInput.Blur()
				a.slotInput.SetValue("")
				a.state = stateIntentMenu
				return a, a.send(a.pending, value)
			}
		}
	}

	var cmd tea.Cmd
	switch a.state {
	case stateIntentMenu:
		a.intentMenu, cmd = a.intentMenu.Update(msg)
	case stateSlotInput:
		a.slotInput, cmd = a.slotInput.Update(msg)
	}
	return a, cmd
}

// handleMenuSelection sends the chosen request, asking for a slot first when
// the intent reads one.
func (a *App) handleMenuSelection() (tea.Model, tea.Cmd) {
	choice, ok := a.intentMenu.SelectedItem().(intentChoice)
	if !ok {
		return a, nil
	}
	if choice.slot() == "" {
		return a, a.send(choice, "")
	}
	a.pending = choice
	a.state = stateSlotInput
	a.slotInput.Prompt = choice.slot() + "> "
	return a, a.slotInput.Focus()
}

// send builds the platform event for choice and invokes the skill off the
// update loop.
func (a *App) send(choice intentChoice, slotValue string) tea.Cmd {
	evt := a.buildEvent(choice, slotValue)
	said := choice.title
	if trimmed := strings.TrimSpace(slotValue); trimmed != "" {
		said += " · " + choice.slot() + "=" + trimmed
	}
	a.appendEntry(speakerUser, said)
	a.logger.Printf("console: sending %s requestId=%s sessionId=%s", choice.title, evt.Request.RequestID, evt.Session.SessionID)
	a.session.fresh = false
	a.session.turns++
	a.busy = true

	invoker, ctx := a.invoker, a.ctx
	return func() tea.Msg {
		if invoker == nil {
			return turnResultMsg{request: evt.Request.Type, err: errNoInvoker}
		}
		envelope, err := invoker.Handle(ctx, evt)
		return turnResultMsg{request: evt.Request.Type, envelope: envelope, err: err}
	}
}

func (a *App) buildEvent(choice intentChoice, slotValue string) skill.Event {
	evt := skill.Event{
		Version: speech.Version,
		Session: skill.Session{
			New:         a.session.fresh,
			SessionID:   a.session.id,
			Application: skill.Application{ApplicationID: a.applicationID},
			Attributes:  cloneAttributes(a.session.attrs),
		},
		Request: skill.Request{
			Type:      choice.request,
			RequestID: requestIDPrefix + a.newID(),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}
	switch choice.request {
	case skill.RequestIntent:
		intent := &skill.Intent{Name: choice.intent}
		if slot := choice.slot(); slot != "" && strings.TrimSpace(slotValue) != "" {
			intent.Slots = map[string]skill.Slot{slot: {Name: slot, Value: strings.TrimSpace(slotValue)}}
		}
		evt.Request.Intent = intent
	case skill.RequestSessionEnded:
		evt.Request.Reason = endReason
	}
	return evt
}

func (a *App) handleTurnResult(msg turnResultMsg) {
	a.busy = false
	if msg.err != nil {
		a.logger.Printf("console: turn failed: %v", msg.err)
		a.appendEntry(speakerError, msg.err.Error())
		return
	}
	resp := msg.envelope.Response
	if text := speech.PlainText(resp.SpeechText()); text != "" {
		a.appendEntry(speakerSkill, text)
	}
	if resp.Card != nil {
		a.appendEntry(speakerCard, resp.Card.Title+": "+resp.Card.Content)
	}
	if text := speech.PlainText(resp.RepromptText()); text != "" {
		a.appendEntry(speakerReprompt, text)
	}
	if resp.ShouldEndSession || msg.request == skill.RequestSessionEnded {
		a.logger.Printf("console: session %s ended after %d turns", a.session.id, a.session.turns)
		a.resetSession()
		a.appendEntry(speakerSystem, "Session ended. The next request opens a new session.")
		return
	}
	a.session.attrs = cloneAttributes(msg.envelope.SessionAttributes)
}

func (a *App) resetSession() {
	a.session = conversation{
		id:    sessionIDPrefix + a.newID(),
		fresh: true,
		attrs: map[string]any{},
	}
}

// SessionAttributes returns the attributes the next turn will carry.
func (a *App) SessionAttributes() map[string]any {
	return cloneAttributes(a.session.attrs)
}

// SessionID returns the current platform session id.
func (a *App) SessionID() string {
	return a.session.id
}

func cloneAttributes(attrs map[string]any) map[string]any {
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}

func (a *App) layout() {
	width := a.width
	if width <= 0 {
		width = 100
	}
	height := a.height
	if height <= 0 {
		height = 30
	}
	menuWidth := max(28, width/3)
	a.intentMenu.SetSize(menuWidth, max(10, height-8))
	a.transcript.Width = max(20, width-menuWidth-8)
	a.transcript.Height = max(6, height-12)
	a.refreshTranscript()
}
