package tui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dsmmcken/devport/internal/discovery"
)

// LinePrompter asks questions one line at a time. It is used when stdin is
// not a terminal. End of input dismisses the prompt.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

var _ discovery.Prompter = (*LinePrompter)(nil)

func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

func (p *LinePrompter) Confirm(ctx context.Context, message string) (discovery.Answer, error) {
	for {
		fmt.Fprintf(p.out, "%s [Y/n] ", message)
		line, ok, err := p.readLine(ctx)
		if err != nil || !ok {
			return discovery.AnswerNone, err
		}
		switch strings.ToLower(line) {
		case "", "y", "yes":
			return discovery.AnswerYes, nil
		case "n", "no":
			return discovery.AnswerNo, nil
		}
		fmt.Fprintln(p.out, "Please answer y or n.")
	}
}

func (p *LinePrompter) Select(ctx context.Context, title string, items []discovery.Item) (string, bool, error) {
	fmt.Fprintln(p.out, title)
	for i, it := range items {
		fmt.Fprintf(p.out, "  %d) %s  %s\n", i+1, it.Label, it.Description)
	}
	for {
		fmt.Fprintf(p.out, "Choice [1-%d]: ", len(items))
		line, ok, err := p.readLine(ctx)
		if err != nil || !ok || line == "" {
			return "", false, err
		}
		n, convErr := strconv.Atoi(line)
		if convErr == nil && n >= 1 && n <= len(items) {
			return items[n-1].Payload, true, nil
		}
		fmt.Fprintf(p.out, "Please enter a number between 1 and %d.\n", len(items))
	}
}

func (p *LinePrompter) Input(ctx context.Context, prompt, placeholder string, validate func(string) error) (string, bool, error) {
	for {
		fmt.Fprintf(p.out, "%s (%s): ", prompt, placeholder)
		line, ok, err := p.readLine(ctx)
		if err != nil || !ok {
			return "", false, err
		}
		if validate != nil {
			if verr := validate(line); verr != nil {
				fmt.Fprintln(p.out, verr)
				continue
			}
		}
		return line, true, nil
	}
}

// readLine returns the next trimmed line. ok is false at end of input.
func (p *LinePrompter) readLine(ctx context.Context) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	line, err := p.in.ReadString('\n')
	if errors.Is(err, io.EOF) {
		if line == "" {
			fmt.Fprintln(p.out)
			return "", false, nil
		}
		err = nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading answer: %w", err)
	}
	return strings.TrimSpace(line), true, nil
}
