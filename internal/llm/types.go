// Package llm wraps the generative text service behind a small interface.
package llm

import (
	"context"
	"strings"
)

// Generation is the outcome of one prompt.
// Blocked is set when the service returned no usable text, typically because
// of safety filtering.
type Generation struct {
	Text        string
	Blocked     bool
	BlockReason string
}

// Usable reports whether the generation carries text worth parsing.
func (g Generation) Usable() bool {
	return !g.Blocked && strings.TrimSpace(g.Text) != ""
}

// Generator defines a pluggable text generation backend.
type Generator interface {
	Generate(ctx context.Context, prompt string) (Generation, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, prompt string) (Generation, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (Generation, error) {
	return f(ctx, prompt)
}
