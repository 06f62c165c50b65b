package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vytor/ninebynine/internal/prompt"
)

// Prompter asks its questions with Bubble Tea programs.
type Prompter struct {
	in  io.Reader
	out io.Writer
}

// PrompterOption configures a Prompter.
type PrompterOption func(*Prompter)

// WithInput reads keys from r instead of stdin.
func WithInput(r io.Reader) PrompterOption {
	return func(p *Prompter) {
		p.in = r
	}
}

// WithOutput renders to w instead of stdout.
func WithOutput(w io.Writer) PrompterOption {
	return func(p *Prompter) {
		p.out = w
	}
}

// NewPrompter creates a terminal Prompter.
func NewPrompter(opts ...PrompterOption) *Prompter {
	p := &Prompter{in: os.Stdin, out: os.Stdout}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SelectOne shows a single choice list.
func (p *Prompter) SelectOne(ctx context.Context, title string, labels []string) (string, error) {
	if len(labels) == 0 {
		return "", fmt.Errorf("%s: nothing to choose from", title)
	}
	m, err := p.run(ctx, NewSelectModel(title, labels))
	if err != nil {
		return "", err
	}
	return m.Chosen()[0], nil
}

// SelectMany shows a checklist. Confirming with nothing checked returns an
// empty slice.
func (p *Prompter) SelectMany(ctx context.Context, title string, labels []string) ([]string, error) {
	if len(labels) == 0 {
		return []string{}, nil
	}
	m, err := p.run(ctx, NewMultiSelectModel(title, labels))
	if err != nil {
		return nil, err
	}
	return m.Chosen(), nil
}

func (p *Prompter) run(ctx context.Context, model SelectModel) (SelectModel, error) {
	program := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
	)

	final, err := program.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return SelectModel{}, ctx.Err()
		}
		return SelectModel{}, fmt.Errorf("prompt failed: %w", err)
	}

	m, ok := final.(SelectModel)
	if !ok || m.Cancelled() || !m.Done() {
		return SelectModel{}, prompt.ErrCancelled
	}
	return m, nil
}

var _ prompt.Prompter = (*Prompter)(nil)
