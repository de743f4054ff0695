package tui

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var errNoInvoker = errors.New("console: no skill to send to")

type speaker int

const (
	speakerSystem speaker = iota
	speakerUser
	speakerSkill
	speakerCard
	speakerReprompt
	speakerError
)

type entry struct {
	who  speaker
	text string
}

var speakerStyles = map[speaker]lipgloss.Style{
	speakerSystem:   lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Italic(true),
	speakerUser:     lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true),
	speakerSkill:    lipgloss.NewStyle().Foreground(lipgloss.Color("#E0E0E0")),
	speakerCard:     lipgloss.NewStyle().Foreground(lipgloss.Color("#C9A227")),
	speakerReprompt: lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA")),
	speakerError:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
}

var speakerLabels = map[speaker]string{
	speakerSystem:   "··",
	speakerUser:     "you",
	speakerSkill:    "skill",
	speakerCard:     "card",
	speakerReprompt: "reprompt",
	speakerError:    "error",
}

func (a *App) appendEntry(who speaker, text string) {
	a.entries = append(a.entries, entry{who: who, text: text})
	if a.recorder != nil && who != speakerSystem {
		if err := a.recorder.Record(a.session.id, speakerLabels[who], text); err != nil {
			a.logger.Printf("console: transcript write failed: %v", err)
		}
	}
	a.refreshTranscript()
}

func (a *App) refreshTranscript() {
	width := max(20, a.transcript.Width)
	lines := make([]string, 0, len(a.entries))
	for _, e := range a.entries {
		label := fmt.Sprintf("%-8s", speakerLabels[e.who])
		line := speakerStyles[e.who].Width(width).Render(label + " " + e.text)
		lines = append(lines, line)
	}
	a.transcript.SetContent(strings.Join(lines, "\n"))
	a.transcript.GotoBottom()
}

// View renders the current state to a string.
func (a *App) View() string {
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF6B6B")).
		MarginBottom(1).
		Render("✦ SPELLS CONSOLE · " + a.target)

	menuBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Render(a.intentMenu.View())

	right := lipgloss.JoinVertical(lipgloss.Left,
		a.renderTranscriptPanel(),
		a.renderInputPanel(),
	)
	body := lipgloss.JoinHorizontal(lipgloss.Top, menuBox, right)

	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		MarginTop(1).
		Render(a.footerHint())
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (a *App) renderTranscriptPanel() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render(fmt.Sprintf("SESSION · %s", shortID(a.session.id)))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, a.transcript.View()))
}

func (a *App) renderInputPanel() string {
	var content string
	switch {
	case a.busy:
		content = "Waiting for the skill..."
	case a.state == stateSlotInput:
		content = lipgloss.JoinVertical(lipgloss.Left,
			fmt.Sprintf("%s needs a %s value:", a.pending.title, a.pending.slot()),
			a.slotInput.View(),
		)
	default:
		content = a.renderAttributes()
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Width(max(20, a.transcript.Width)).
		Render(content)
}

func (a *App) renderAttributes() string {
	if len(a.session.attrs) == 0 {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Render("No session attributes.")
	}
	keys := make([]string, 0, len(a.session.attrs))
	for k := range a.session.attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s = %v", k, a.session.attrs[k]))
	}
	return strings.Join(lines, "\n")
}

func (a *App) footerHint() string {
	if a.state == stateSlotInput {
		return "enter send · esc back · ctrl+c quit"
	}
	return "↑/↓ choose · enter send · pgup/pgdown scroll · q quit"
}

func shortID(id string) string {
	trimmed := strings.TrimPrefix(id, sessionIDPrefix)
	if len(trimmed) > 8 {
		return trimmed[:8]
	}
	return trimmed
}
