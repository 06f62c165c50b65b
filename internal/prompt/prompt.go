// Package prompt defines the interactive choices the exporter asks for.
package prompt

import (
	"context"
	"errors"
)

// ErrCancelled is returned when the user aborts a prompt.
var ErrCancelled = errors.New("prompt cancelled")

// Prompter asks the user to pick from a list of labels.
type Prompter interface {
	// SelectOne returns exactly one of labels or an error.
	SelectOne(ctx context.Context, title string, labels []string) (string, error)
	// SelectMany returns zero or more of labels.
	SelectMany(ctx context.Context, title string, labels []string) ([]string, error)
}
