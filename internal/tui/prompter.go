package tui

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dsmmcken/devport/internal/discovery"
)

// Prompter shows discovery prompts as bubbletea programs.
type Prompter struct {
	in  io.Reader
	out io.Writer
}

var _ discovery.Prompter = (*Prompter)(nil)

// NewPrompter returns a Prompter reading keys from in and drawing to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: in, out: out}
}

func (p *Prompter) Confirm(ctx context.Context, message string) (discovery.Answer, error) {
	final, err := p.run(ctx, NewConfirm(message))
	if err != nil {
		return discovery.AnswerNone, err
	}
	return final.(Confirm).Answer(), nil
}

func (p *Prompter) Select(ctx context.Context, title string, items []discovery.Item) (string, bool, error) {
	final, err := p.run(ctx, NewSelect(title, items))
	if err != nil {
		return "", false, err
	}
	it, ok := final.(Select).Chosen()
	return it.Payload, ok, nil
}

func (p *Prompter) Input(ctx context.Context, prompt, placeholder string, validate func(string) error) (string, bool, error) {
	final, err := p.run(ctx, NewInput(prompt, placeholder, validate))
	if err != nil {
		return "", false, err
	}
	value, ok := final.(Input).Value()
	return value, ok, nil
}

func (p *Prompter) run(ctx context.Context, m tea.Model) (tea.Model, error) {
	prog := tea.NewProgram(m,
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
		tea.WithContext(ctx),
	)
	final, err := prog.Run()
	if err != nil {
		return nil, fmt.Errorf("running prompt: %w", err)
	}
	return final, nil
}
