// Package usage keeps per-user cumulative timer counters.
package usage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ashureev/debate-coach/internal/domain"
	"github.com/ashureev/debate-coach/internal/events"
	"github.com/ashureev/debate-coach/internal/store"
)

// Accountant records elapsed practice and debate time.
type Accountant struct {
	repo store.UsageRepository
	pub  events.Publisher
	log  *slog.Logger
}

// NewAccountant creates an Accountant. A nil publisher disables events.
func NewAccountant(repo store.UsageRepository, pub events.Publisher, log *slog.Logger) *Accountant {
	if pub == nil {
		pub = events.Noop{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Accountant{repo: repo, pub: pub, log: log}
}

// Increment adds seconds to the owner's counter for category and returns the
// updated record.
func (a *Accountant) Increment(ctx context.Context, owner string, category domain.UsageCategory, seconds int64) (domain.UsageRecord, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return domain.UsageRecord{}, domain.NewInputError("email", "must not be empty")
	}
	if !category.Valid() {
		return domain.UsageRecord{}, domain.NewInputError("category", fmt.Sprintf("unknown category %q", category))
	}
	if seconds < 0 {
		return domain.UsageRecord{}, domain.NewInputError("seconds", "must not be negative")
	}

	rec, err := a.repo.IncrementUsage(ctx, owner, category, seconds)
	if err != nil {
		return domain.UsageRecord{}, err
	}

	a.log.Debug("Usage incremented", "owner", owner, "category", category, "seconds", seconds)
	if err := a.pub.Publish(ctx, events.Event{
		Subject:  events.SubjectUsageUpdated,
		Owner:    owner,
		Category: string(category),
		Seconds:  seconds,
	}); err != nil {
		a.log.Warn("Failed to publish event", "subject", events.SubjectUsageUpdated, "error", err)
	}
	return rec, nil
}

// Read returns the owner's counters, or a zero record when none exist.
func (a *Accountant) Read(ctx context.Context, owner string) (domain.UsageRecord, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return domain.UsageRecord{}, domain.NewInputError("email", "must not be empty")
	}

	rec, err := a.repo.GetUsage(ctx, owner)
	if err != nil {
		return domain.UsageRecord{}, err
	}
	if rec == nil {
		return domain.UsageRecord{Owner: owner}, nil
	}
	return *rec, nil
}
