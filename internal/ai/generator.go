// Package ai talks to the external generative text model used for diary
// summaries and emotion analysis.
package ai

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned when the model produced no text.
var ErrEmptyResponse = errors.New("model returned no text")

// TextGenerator turns a prompt into free-form text.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
