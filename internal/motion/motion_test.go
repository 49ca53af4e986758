package motion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ashureev/debate-coach/internal/evaluation"
	"github.com/ashureev/debate-coach/internal/llm"
)

func TestPrompt(t *testing.T) {
	tests := []struct {
		topic string
		want  string
	}{
		{"Climate", "Suggest a debate motion related to Climate."},
		{"  AI ethics ", "Suggest a debate motion related to AI ethics."},
		{"", "Suggest a debate motion related to General."},
	}
	for _, tt := range tests {
		if got := Prompt(tt.topic); got != tt.want {
			t.Errorf("Prompt(%q) = %q, want %q", tt.topic, got, tt.want)
		}
	}
}

func TestSuggest(t *testing.T) {
	var gotPrompt string
	gen := llm.GeneratorFunc(func(_ context.Context, prompt string) (llm.Generation, error) {
		gotPrompt = prompt
		return llm.Generation{Text: "  This House would ban homework.\n"}, nil
	})

	m, err := NewSuggester(gen, time.Second, nil).Suggest(context.Background(), "Education")
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if m != "This House would ban homework." {
		t.Fatalf("unexpected motion %q", m)
	}
	if gotPrompt != "Suggest a debate motion related to Education." {
		t.Fatalf("unexpected prompt %q", gotPrompt)
	}
}

func TestSuggestBlocked(t *testing.T) {
	gen := llm.GeneratorFunc(func(context.Context, string) (llm.Generation, error) {
		return llm.Generation{Blocked: true, BlockReason: "SAFETY"}, nil
	})
	if _, err := NewSuggester(gen, time.Second, nil).Suggest(context.Background(), "x"); !errors.Is(err, ErrNoMotion) {
		t.Fatalf("expected ErrNoMotion, got %v", err)
	}
}

func TestSuggestServiceError(t *testing.T) {
	gen := llm.GeneratorFunc(func(ctx context.Context, _ string) (llm.Generation, error) {
		<-ctx.Done()
		return llm.Generation{}, ctx.Err()
	})

	_, err := NewSuggester(gen, 10*time.Millisecond, nil).Suggest(context.Background(), "x")
	var svcErr *evaluation.ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected ServiceError, got %v", err)
	}
	if !svcErr.Timeout {
		t.Fatal("expected timeout flag")
	}
}

func TestSuggestWithMockGenerator(t *testing.T) {
	gen := llm.NewMockGenerator()
	gen.Delay = 0
	m, err := NewSuggester(gen, time.Second, nil).Suggest(context.Background(), "")
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if m == "" {
		t.Fatal("expected a motion from the mock generator")
	}
}
