// Package motion suggests debate motions for a topic.
package motion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ashureev/debate-coach/internal/evaluation"
	"github.com/ashureev/debate-coach/internal/llm"
)

// DefaultTopic is used when the caller supplies none.
const DefaultTopic = "General"

// ErrNoMotion is returned when the generator produced no usable text.
var ErrNoMotion = errors.New("no motion generated")

// Prompt builds the motion request for topic.
func Prompt(topic string) string {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		topic = DefaultTopic
	}
	return fmt.Sprintf("Suggest a debate motion related to %s.", topic)
}

// Suggester asks a generator for a single debate motion.
type Suggester struct {
	gen     llm.Generator
	timeout time.Duration
	log     *slog.Logger
}

// NewSuggester creates a Suggester. A non-positive timeout uses evaluation.DefaultTimeout.
func NewSuggester(gen llm.Generator, timeout time.Duration, log *slog.Logger) *Suggester {
	if timeout <= 0 {
		timeout = evaluation.DefaultTimeout
	}
	if log == nil {
		log = slog.Default()
	}
	return &Suggester{gen: gen, timeout: timeout, log: log}
}

// Suggest returns a trimmed motion for topic. Generator failures are returned
// as *evaluation.ServiceError.
func (s *Suggester) Suggest(ctx context.Context, topic string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	gen, err := s.gen.Generate(ctx, Prompt(topic))
	if err != nil {
		return "", &evaluation.ServiceError{
			Timeout: errors.Is(err, context.DeadlineExceeded),
			Err:     err,
		}
	}
	if !gen.Usable() {
		s.log.Warn("Motion generation blocked", "topic", topic, "reason", gen.BlockReason)
		return "", ErrNoMotion
	}
	return strings.TrimSpace(gen.Text), nil
}
