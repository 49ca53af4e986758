// Package api provides HTTP handlers for the debate coach API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/ashureev/debate-coach/internal/domain"
	"github.com/ashureev/debate-coach/internal/evaluation"
	"github.com/ashureev/debate-coach/internal/journal"
	"github.com/ashureev/debate-coach/internal/speech"
	"github.com/ashureev/debate-coach/internal/store"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

var errEmptyBody = domain.NewInputError("body", "request body is empty")

// Evaluator critiques an argument.
type Evaluator interface {
	Evaluate(ctx context.Context, topic, argument string) (domain.EvaluationResult, error)
}

// ArgumentService manages a user's saved arguments.
type ArgumentService interface {
	Save(ctx context.Context, owner, topic, argument string, score float64, feedback string) (int64, error)
	ListByOwner(ctx context.Context, owner string) ([]domain.ArgumentRecord, error)
	Delete(ctx context.Context, id int64) error
}

// Leaderboard ranks users.
type Leaderboard interface {
	Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
}

// UsageService tracks timer counters.
type UsageService interface {
	Increment(ctx context.Context, owner string, category domain.UsageCategory, seconds int64) (domain.UsageRecord, error)
	Read(ctx context.Context, owner string) (domain.UsageRecord, error)
}

// MotionSuggester proposes debate motions.
type MotionSuggester interface {
	Suggest(ctx context.Context, topic string) (string, error)
}

// Recorder receives business counters.
type Recorder interface {
	RecordArgumentSaved()
	RecordArgumentDeleted()
	RecordUsage(category domain.UsageCategory, seconds int64)
}

type noopRecorder struct{}

func (noopRecorder) RecordArgumentSaved() {}
func (noopRecorder) RecordArgumentDeleted() {}
func (noopRecorder) RecordUsage(domain.UsageCategory, int64) {}

// Deps wires the handler's collaborators. Transcriber may be nil to disable
// speech-to-text.
type Deps struct {
	Evaluator   Evaluator
	Arguments   ArgumentService
	Leaderboard Leaderboard
	Usage       UsageService
	Profiles    store.ProfileRepository
	Motions     MotionSuggester
	Transcriber speech.Transcriber
	Journal     journal.Logger
	Recorder    Recorder
	Logger      *slog.Logger
}

// Handler serves the debate coach endpoints.
type Handler struct {
	eval        Evaluator
	arguments   ArgumentService
	leaderboard Leaderboard
	usage       UsageService
	profiles    store.ProfileRepository
	motions     MotionSuggester
	transcriber speech.Transcriber
	journal     journal.Logger
	recorder    Recorder
	log         *slog.Logger
}

// NewHandler creates a Handler from deps.
func NewHandler(deps Deps) *Handler {
	h := &Handler{
		eval:        deps.Evaluator,
		arguments:   deps.Arguments,
		leaderboard: deps.Leaderboard,
		usage:       deps.Usage,
		profiles:    deps.Profiles,
		motions:     deps.Motions,
		transcriber: deps.Transcriber,
		journal:     deps.Journal,
		recorder:    deps.Recorder,
		log:         deps.Logger,
	}
	if h.journal == nil {
		h.journal = journal.Noop{}
	}
	if h.recorder == nil {
		h.recorder = noopRecorder{}
	}
	if h.log == nil {
		h.log = slog.Default()
	}
	return h
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("Failed to encode response", "error", err)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// decodeJSON reads a single JSON object from the request body.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return domain.NewInputError("body", fmt.Sprintf("invalid JSON: %v", err))
	}
	return nil
}

// writeError maps err to an HTTP status.
func (h *Handler) writeError(w http.ResponseWriter, op string, err error) {
	var inputErr *domain.InputError
	var svcErr *evaluation.ServiceError

	switch {
	case errors.As(err, &inputErr):
		Error(w, http.StatusBadRequest, inputErr.Error())
	case errors.As(err, &svcErr):
		h.log.Error("Generation service failed", "op", op, "timeout", svcErr.Timeout, "error", err)
		if svcErr.Timeout {
			Error(w, http.StatusGatewayTimeout, "the evaluation service timed out, please try again")
			return
		}
		Error(w, http.StatusBadGateway, "the evaluation service is unavailable, please try again")
	case errors.Is(err, domain.ErrStorage):
		h.log.Error("Storage failure", "op", op, "error", err)
		Error(w, http.StatusInternalServerError, "storage unavailable")
	case errors.Is(err, context.Canceled):
		h.log.Debug("Request canceled", "op", op)
	default:
		h.log.Error("Request failed", "op", op, "error", err)
		Error(w, http.StatusInternalServerError, "internal error")
	}
}
