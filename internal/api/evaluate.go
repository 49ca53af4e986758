package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/ashureev/debate-coach/internal/evaluation"
	"github.com/ashureev/debate-coach/internal/identity"
	"github.com/ashureev/debate-coach/internal/journal"
	"github.com/go-chi/chi/v5/middleware"
)

const blockedMessage = "The response was blocked by the content filter. Please rephrase your argument and try again."

type evaluateRequest struct {
	Topic string `json:"topic"`
	Text  string `json:"text"`
	Email string `json:"email,omitempty"`
}

type evaluateResponse struct {
	RationalityScore float64 `json:"rationality_score"`
	Reasoning        string  `json:"reason_for_score"`
	Feedback         string  `json:"feedback"`
	ImprovedArgument string  `json:"improved_argument,omitempty"`
	Fallbacks        string  `json:"fallbacks,omitempty"`
}

// EvaluateArgument critiques {topic, text}.
func (h *Handler) EvaluateArgument(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, "evaluate", err)
		return
	}

	started := time.Now()
	res, err := h.eval.Evaluate(r.Context(), req.Topic, req.Text)

	entry := journal.Entry{
		RequestID:  middleware.GetReqID(r.Context()),
		Owner:      identity.Resolve(r.Context(), req.Email),
		Topic:      req.Topic,
		Argument:   req.Text,
		DurationMS: time.Since(started).Milliseconds(),
	}

	if err != nil {
		entry.Outcome = evaluation.OutcomeServiceError
		if errors.Is(err, evaluation.ErrInput) {
			entry.Outcome = evaluation.OutcomeInvalid
		}
		entry.Error = err.Error()
		h.journal.Log(entry)
		h.writeError(w, "evaluate", err)
		return
	}

	if res.Blocked {
		entry.Outcome = evaluation.OutcomeBlocked
		h.journal.Log(entry)
		JSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":   blockedMessage,
			"blocked": true,
		})
		return
	}

	entry.Outcome = evaluation.OutcomeOK
	if res.Fallbacks != 0 {
		entry.Outcome = evaluation.OutcomeFallback
		entry.Fallbacks = res.Fallbacks.String()
	}
	entry.RationalityScore = res.RationalityScore
	h.journal.Log(entry)

	resp := evaluateResponse{
		RationalityScore: res.RationalityScore,
		Reasoning:        res.Reasoning,
		Feedback:         res.Feedback,
		ImprovedArgument: res.ImprovedArgument,
	}
	if res.Fallbacks != 0 {
		resp.Fallbacks = res.Fallbacks.String()
	}
	JSON(w, http.StatusOK, resp)
}
