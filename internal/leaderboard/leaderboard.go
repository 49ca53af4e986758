// Package leaderboard ranks users by the mean score of their saved arguments.
package leaderboard

import (
	"cmp"
	"context"
	"math"
	"slices"

	"github.com/ashureev/debate-coach/internal/domain"
	"github.com/ashureev/debate-coach/internal/store"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// StatsSource supplies per-owner aggregates.
type StatsSource interface {
	ArgumentStats(ctx context.Context) ([]store.OwnerStats, error)
}

// Aggregator computes leaderboard views. It holds no state between calls.
type Aggregator struct {
	src StatsSource
}

// NewAggregator creates an Aggregator over src.
func NewAggregator(src StatsSource) *Aggregator {
	return &Aggregator{src: src}
}

// Top returns up to limit entries ordered by average score descending, then
// argument count descending, then owner ascending. A limit outside
// [1, MaxLimit] is replaced by DefaultLimit or clamped to MaxLimit.
func (a *Aggregator) Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	limit = normalizeLimit(limit)

	stats, err := a.src.ArgumentStats(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.LeaderboardEntry, 0, len(stats))
	for _, st := range stats {
		if st.TotalArguments == 0 {
			continue
		}
		entries = append(entries, domain.LeaderboardEntry{
			Owner:          st.Owner,
			TotalArguments: st.TotalArguments,
			AverageScore:   round2(st.AverageScore),
		})
	}

	slices.SortFunc(entries, compareEntries)

	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func compareEntries(a, b domain.LeaderboardEntry) int {
	if c := cmp.Compare(b.AverageScore, a.AverageScore); c != 0 {
		return c
	}
	if c := cmp.Compare(b.TotalArguments, a.TotalArguments); c != 0 {
		return c
	}
	return cmp.Compare(a.Owner, b.Owner)
}

func normalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	}
	return limit
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
