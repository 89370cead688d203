package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dsmmcken/devport/internal/discovery"
)

// Confirm asks a yes/no question. Yes is highlighted first.
type Confirm struct {
	keys    confirmKeys
	help    help.Model
	message string
	yes     bool
	answer  discovery.Answer
	done    bool
}

func NewConfirm(message string) Confirm {
	return Confirm{
		keys:    confirmKeys{DefaultKeyMap()},
		help:    help.New(),
		message: message,
		yes:     true,
	}
}

// Answer is the reply, AnswerNone until the prompt finishes.
func (m Confirm) Answer() discovery.Answer { return m.answer }

// Done reports whether the prompt has finished.
func (m Confirm) Done() bool { return m.done }

func (m Confirm) Init() tea.Cmd { return nil }

func (m Confirm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Yes):
			return m.finish(discovery.AnswerYes)
		case key.Matches(msg, m.keys.No):
			return m.finish(discovery.AnswerNo)
		case key.Matches(msg, m.keys.Toggle):
			m.yes = !m.yes
		case key.Matches(msg, m.keys.Enter):
			if m.yes {
				return m.finish(discovery.AnswerYes)
			}
			return m.finish(discovery.AnswerNo)
		case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Quit):
			return m.finish(discovery.AnswerNone)
		}
	}
	return m, nil
}

func (m Confirm) finish(a discovery.Answer) (tea.Model, tea.Cmd) {
	m.answer = a
	m.done = true
	return m, tea.Quit
}

func (m Confirm) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString("  " + m.message + "\n\n")

	yes, no := "  Yes  ", "  No  "
	if m.yes {
		b.WriteString("  " + styleCursor.Render("> Yes") + "   " + styleDetail.Render(no))
	} else {
		b.WriteString("  " + styleDetail.Render(yes) + "  " + styleCursor.Render("> No"))
	}
	b.WriteString("\n\n")
	b.WriteString(styleKeysHelp.Render(m.help.View(m.keys)))
	return b.String()
}
