// Package history records evaluated arguments per user.
package history

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"github.com/ashureev/debate-coach/internal/domain"
	"github.com/ashureev/debate-coach/internal/events"
	"github.com/ashureev/debate-coach/internal/store"
)

// Service validates and persists argument records.
type Service struct {
	repo store.ArgumentRepository
	pub  events.Publisher
	log  *slog.Logger
}

// NewService creates a history service. A nil publisher disables events.
func NewService(repo store.ArgumentRepository, pub events.Publisher, log *slog.Logger) *Service {
	if pub == nil {
		pub = events.Noop{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{repo: repo, pub: pub, log: log}
}

// Save appends a record and returns its ID. Only the owner key is trimmed;
// topic, argument and feedback are stored exactly as submitted.
func (s *Service) Save(ctx context.Context, owner, topic, argument string, score float64, feedback string) (int64, error) {
	rec := domain.ArgumentRecord{
		Owner:    strings.TrimSpace(owner),
		Topic:    topic,
		Argument: argument,
		Score:    score,
		Feedback: feedback,
	}
	if err := validate(rec); err != nil {
		return 0, err
	}

	id, err := s.repo.InsertArgument(ctx, &rec)
	if err != nil {
		return 0, err
	}

	s.log.Info("Argument saved", "id", id, "owner", rec.Owner, "score", rec.Score)
	s.publish(ctx, events.Event{
		Subject:    events.SubjectArgumentSaved,
		Owner:      rec.Owner,
		ArgumentID: id,
		Score:      rec.Score,
	})
	return id, nil
}

// SaveEvaluation saves res for owner. Blocked results are rejected.
func (s *Service) SaveEvaluation(ctx context.Context, owner, topic, argument string, res domain.EvaluationResult) (int64, error) {
	if res.Blocked {
		return 0, domain.NewInputError("result", "blocked evaluations cannot be saved")
	}
	return s.Save(ctx, owner, topic, argument, res.RationalityScore, res.Feedback)
}

// ListByOwner returns every record owned by owner, oldest first.
func (s *Service) ListByOwner(ctx context.Context, owner string) ([]domain.ArgumentRecord, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return nil, domain.NewInputError("email", "must not be empty")
	}
	return s.repo.ListArguments(ctx, owner)
}

// Delete removes the record with id. Deleting an unknown id succeeds.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.NewInputError("id", "must be a positive integer")
	}

	removed, err := s.repo.DeleteArgument(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		s.log.Debug("Delete of unknown argument ignored", "id", id)
		return nil
	}

	s.log.Info("Argument deleted", "id", id)
	s.publish(ctx, events.Event{Subject: events.SubjectArgumentDeleted, ArgumentID: id})
	return nil
}

func (s *Service) publish(ctx context.Context, ev events.Event) {
	if err := s.pub.Publish(ctx, ev); err != nil {
		s.log.Warn("Failed to publish event", "subject", ev.Subject, "error", err)
	}
}

func validate(rec domain.ArgumentRecord) error {
	switch {
	case rec.Owner == "":
		return domain.NewInputError("email", "must not be empty")
	case blank(rec.Topic):
		return domain.NewInputError("topic", "must not be empty")
	case blank(rec.Argument):
		return domain.NewInputError("argument", "must not be empty")
	case blank(rec.Feedback):
		return domain.NewInputError("feedback", "must not be empty")
	case math.IsNaN(rec.Score) || rec.Score < 0 || rec.Score > 1:
		return domain.NewInputError("score", "must be between 0 and 1")
	}
	return nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
