package api

import (
	"net/http"

	"github.com/ashureev/debate-coach/internal/domain"
	"github.com/ashureev/debate-coach/internal/identity"
)

type usageRequest struct {
	Email    string `json:"email"`
	Category string `json:"category"`
	Seconds  int64  `json:"seconds"`
}

type usageView struct {
	domain.UsageRecord
	TotalSeconds int64 `json:"total_seconds"`
}

func newUsageView(rec domain.UsageRecord) usageView {
	return usageView{UsageRecord: rec, TotalSeconds: rec.TotalSeconds()}
}

// AddUsage adds elapsed timer seconds for the owner.
func (h *Handler) AddUsage(w http.ResponseWriter, r *http.Request) {
	var req usageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, "add usage", err)
		return
	}

	category, err := domain.ParseUsageCategory(req.Category)
	if err != nil {
		h.writeError(w, "add usage", domain.NewInputError("category", err.Error()))
		return
	}

	rec, err := h.usage.Increment(r.Context(), identity.Resolve(r.Context(), req.Email), category, req.Seconds)
	if err != nil {
		h.writeError(w, "add usage", err)
		return
	}

	h.recorder.RecordUsage(category, req.Seconds)
	JSON(w, http.StatusOK, newUsageView(rec))
}

// GetUsage returns the owner's counters, zero when none were recorded.
func (h *Handler) GetUsage(w http.ResponseWriter, r *http.Request) {
	rec, err := h.usage.Read(r.Context(), identity.Resolve(r.Context(), r.URL.Query().Get("email")))
	if err != nil {
		h.writeError(w, "get usage", err)
		return
	}
	JSON(w, http.StatusOK, newUsageView(rec))
}
