package evaluation

import (
	"strings"
	"testing"
)

func TestComposeIsDeterministic(t *testing.T) {
	a := Compose("AI ethics", "Machines should not decide sentencing.")
	b := Compose("AI ethics", "Machines should not decide sentencing.")
	if a != b {
		t.Fatal("expected identical prompts for identical input")
	}
}

func TestComposeEmbedsInputs(t *testing.T) {
	p := Compose("School uniforms", "Uniforms reduce bullying.")
	if !strings.Contains(p, `"School uniforms"`) {
		t.Errorf("prompt missing quoted topic")
	}
	if !strings.Contains(p, "Uniforms reduce bullying.") {
		t.Errorf("prompt missing argument text")
	}
}

func TestComposeAnchorOrder(t *testing.T) {
	p := Compose("t", "a")

	// Anchors are checked in the format section, after the argument.
	format := p[strings.Index(p, "**Format your response"):]
	score := strings.Index(format, ScoreAnchor)
	reasoning := strings.Index(format, ReasoningAnchor)
	feedback := strings.Index(format, FeedbackAnchor)
	improved := strings.Index(format, ImprovedAnchor)

	if score < 0 || reasoning < 0 || feedback < 0 || improved < 0 {
		t.Fatalf("missing anchor: score=%d reasoning=%d feedback=%d improved=%d", score, reasoning, feedback, improved)
	}
	if !(score < reasoning && reasoning < feedback && feedback < improved) {
		t.Fatalf("anchors out of order: score=%d reasoning=%d feedback=%d improved=%d", score, reasoning, feedback, improved)
	}
}

func TestComposeRoundTripsThroughParser(t *testing.T) {
	// The format template itself parses with only the score falling back,
	// since "X.X" is not a numeral.
	p := Compose("t", "a")
	format := p[strings.Index(p, "---"):]
	res := Parse(format, false)
	if res.RationalityScore != DefaultScore {
		t.Errorf("expected default score, got %v", res.RationalityScore)
	}
	if res.Reasoning != "(explanation)" {
		t.Errorf("unexpected reasoning %q", res.Reasoning)
	}
	if !strings.HasPrefix(res.Feedback, FeedbackAnchor) {
		t.Errorf("feedback should start with anchor, got %q", res.Feedback)
	}
}
