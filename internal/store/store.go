// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"github.com/ashureev/debate-coach/internal/domain"
)

// OwnerStats is the raw per-owner aggregate over stored arguments.
type OwnerStats struct {
	Owner          string
	TotalArguments int
	AverageScore   float64
}

// ArgumentRepository persists evaluated arguments.
type ArgumentRepository interface {
	// InsertArgument appends a record and returns its new, never reused ID.
	InsertArgument(ctx context.Context, rec *domain.ArgumentRecord) (int64, error)

	// ListArguments returns all records for owner ordered by ID.
	// An owner with no records yields an empty slice.
	ListArguments(ctx context.Context, owner string) ([]domain.ArgumentRecord, error)

	// DeleteArgument removes the record with id. It reports whether a row existed.
	DeleteArgument(ctx context.Context, id int64) (bool, error)

	// ArgumentStats groups all records by owner.
	ArgumentStats(ctx context.Context) ([]OwnerStats, error)
}

// UsageRepository persists per-owner timer counters.
type UsageRepository interface {
	// IncrementUsage atomically adds seconds to one counter, creating the
	// record on first use, and returns the updated record.
	IncrementUsage(ctx context.Context, owner string, category domain.UsageCategory, seconds int64) (domain.UsageRecord, error)

	// GetUsage returns the owner's counters, or nil when none exist.
	GetUsage(ctx context.Context, owner string) (*domain.UsageRecord, error)
}

// ProfileRepository persists user profile details.
type ProfileRepository interface {
	// GetProfile retrieves a profile by owner, or nil when none exists.
	GetProfile(ctx context.Context, owner string) (*domain.Profile, error)

	// UpsertProfile creates or replaces a profile.
	UpsertProfile(ctx context.Context, profile *domain.Profile) error
}

// Repository is the full persistence surface used by the server.
type Repository interface {
	ArgumentRepository
	UsageRepository
	ProfileRepository

	// Ping verifies database connectivity and returns an error if the database is unreachable.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}

var (
	_ Repository      = (*SQLiteStore)(nil)
	_ UsageRepository = (*RedisUsageStore)(nil)
)
