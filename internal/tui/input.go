package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Input reads a single line. Enter is refused while validate rejects the
// value, and the validation message is shown under the field.
type Input struct {
	keys     KeyMap
	prompt   string
	input    textinput.Model
	validate func(string) error
	err      error
	ok       bool
	done     bool
}

func NewInput(prompt, placeholder string, validate func(string) error) Input {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "> "
	ti.CharLimit = 16
	ti.Focus()

	keys := DefaultKeyMap()
	// q must stay typeable.
	keys.Back = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel"))

	return Input{keys: keys, prompt: prompt, input: ti, validate: validate}
}

// Value returns the entered text and whether it was submitted.
func (m Input) Value() (string, bool) {
	return m.input.Value(), m.ok
}

// Err returns the message from the last rejected submission.
func (m Input) Err() error { return m.err }

func (m Input) Done() bool { return m.done }

func (m Input) Init() tea.Cmd { return textinput.Blink }

func (m Input) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Enter):
			if m.validate != nil {
				if err := m.validate(m.input.Value()); err != nil {
					m.err = err
					return m, nil
				}
			}
			m.ok = true
			m.done = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Quit):
			m.done = true
			return m, tea.Quit
		}
		m.err = nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Input) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString("  " + m.prompt + "\n\n")
	b.WriteString("  " + m.input.View() + "\n")
	if m.err != nil {
		b.WriteString("  " + styleProblem.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(styleKeysHelp.Render("  enter submit • esc cancel"))
	return b.String()
}
