package llm

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// MockGenerator returns a canned, well-formed critique, or a canned motion
// for motion prompts. It is used in
// development when no API key is configured.
type MockGenerator struct {
	Delay time.Duration
}

// NewMockGenerator creates a mock generator with a small simulated latency.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{Delay: 20 * time.Millisecond}
}

// Generate echoes a fixed critique after Delay.
func (m *MockGenerator) Generate(ctx context.Context, prompt string) (Generation, error) {
	if m.Delay > 0 {
		select {
		case <-ctx.Done():
			return Generation{}, ctx.Err()
		case <-time.After(m.Delay):
		}
	}

	if strings.HasPrefix(prompt, "Suggest a debate motion") {
		return Generation{Text: "This House would make civic education compulsory."}, nil
	}

	words := len(strings.Fields(prompt))
	text := fmt.Sprintf(`**Rationality Score:** 0.5
**Reasoning for Score:** Mock evaluation of a %d-word prompt.

**Feedback:**
- **Logical Structure:** Not assessed by the mock backend.
- **Clarity & Coherence:** Not assessed by the mock backend.
- **Supporting Evidence:** Not assessed by the mock backend.
- **Potential Counterarguments:** Not assessed by the mock backend.

**Improved Argument:**
Configure a real generator to receive an improved argument.`, words)

	return Generation{Text: text}, nil
}
