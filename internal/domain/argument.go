// Package domain contains core domain types for the debate coach.
package domain

import (
	"time"
)

// ArgumentRecord is an evaluated argument saved to a user's history.
type ArgumentRecord struct {
	ID        int64     `json:"id"`
	Owner     string    `json:"email"`
	Topic     string    `json:"topic"`
	Argument  string    `json:"argument"`
	Score     float64   `json:"score"`
	Feedback  string    `json:"feedback"`
	CreatedAt time.Time `json:"created_at"`
}

// LeaderboardEntry is a ranking row derived from stored arguments.
// It is never persisted.
type LeaderboardEntry struct {
	Owner          string  `json:"email"`
	TotalArguments int     `json:"total_arguments"`
	AverageScore   float64 `json:"average_score"`
}
