package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dsmmcken/devport/internal/discovery"
	"github.com/dsmmcken/devport/internal/output"
	"github.com/mattn/go-runewidth"
)

const maxLabelWidth = 32

// Select lets the user pick one item from a list.
type Select struct {
	keys   selectKeys
	help   help.Model
	title  string
	items  []discovery.Item
	cursor int
	chosen int
	done   bool
	width  int
}

func NewSelect(title string, items []discovery.Item) Select {
	return Select{
		keys:   selectKeys{DefaultKeyMap()},
		help:   help.New(),
		title:  title,
		items:  items,
		chosen: -1,
	}
}

// Cursor returns the highlighted row.
func (m Select) Cursor() int { return m.cursor }

// Chosen returns the picked item, or false when the list was dismissed.
func (m Select) Chosen() (discovery.Item, bool) {
	if m.chosen < 0 || m.chosen >= len(m.items) {
		return discovery.Item{}, false
	}
	return m.items[m.chosen], true
}

func (m Select) Done() bool { return m.done }

func (m Select) Init() tea.Cmd { return nil }

func (m Select) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Up):
			if len(m.items) > 0 {
				m.cursor = (m.cursor - 1 + len(m.items)) % len(m.items)
			}
		case key.Matches(msg, m.keys.Down):
			if len(m.items) > 0 {
				m.cursor = (m.cursor + 1) % len(m.items)
			}
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Enter):
			if len(m.items) == 0 {
				return m, nil
			}
			m.chosen = m.cursor
			m.done = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Quit):
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Select) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(styleHeading.Render("  "+m.title) + "\n")

	labels := make([]string, len(m.items))
	labelWidth := 0
	for i, it := range m.items {
		labels[i] = output.Truncate(it.Label, maxLabelWidth)
		labelWidth = max(labelWidth, runewidth.StringWidth(labels[i]))
	}

	for i, it := range m.items {
		label := runewidth.FillRight(labels[i], labelWidth)
		if i == m.cursor {
			b.WriteString(styleCursor.Render("  > " + label))
		} else {
			b.WriteString("    " + label)
		}
		b.WriteString("  " + styleDetail.Render(it.Description) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(styleKeysHelp.Render(m.help.View(m.keys)))
	return b.String()
}
