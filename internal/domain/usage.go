package domain

import "fmt"

// UsageCategory names a timer counter.
type UsageCategory string

const (
	// UsagePractice counts seconds spent in practice mode.
	UsagePractice UsageCategory = "practice"
	// UsageRealDebate counts seconds spent in timed real debates.
	UsageRealDebate UsageCategory = "real_debate"
)

// ParseUsageCategory accepts the canonical names plus the camelCase form
// older clients send.
func ParseUsageCategory(s string) (UsageCategory, error) {
	switch s {
	case "practice":
		return UsagePractice, nil
	case "real_debate", "realDebate":
		return UsageRealDebate, nil
	default:
		return "", fmt.Errorf("unknown usage category %q", s)
	}
}

// UsageRecord holds cumulative timer counters for one owner.
type UsageRecord struct {
	Owner             string `json:"email"`
	PracticeSeconds   int64  `json:"practice_seconds"`
	RealDebateSeconds int64  `json:"real_debate_seconds"`
}

// TotalSeconds returns the combined time across both timers.
func (u UsageRecord) TotalSeconds() int64 {
	return u.PracticeSeconds + u.RealDebateSeconds
}

// Valid reports whether c names a known counter.
func (c UsageCategory) Valid() bool {
	return c == UsagePractice || c == UsageRealDebate
}
