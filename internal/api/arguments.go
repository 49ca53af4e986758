package api

import (
	"net/http"

	"github.com/ashureev/debate-coach/internal/domain"
	"github.com/ashureev/debate-coach/internal/identity"
)

type saveArgumentRequest struct {
	Email    string   `json:"email"`
	Topic    string   `json:"topic"`
	Argument string   `json:"argument"`
	Score    *float64 `json:"score"`
	Feedback string   `json:"feedback"`
}

type argumentView struct {
	ID       int64   `json:"id"`
	Topic    string  `json:"topic"`
	Argument string  `json:"argument"`
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
	SavedAt  int64   `json:"saved_at"`
}

// SaveArgument stores an evaluated argument.
func (h *Handler) SaveArgument(w http.ResponseWriter, r *http.Request) {
	var req saveArgumentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, "save argument", err)
		return
	}
	if req.Score == nil {
		h.writeError(w, "save argument", domain.NewInputError("score", "is required"))
		return
	}

	owner := identity.Resolve(r.Context(), req.Email)
	id, err := h.arguments.Save(r.Context(), owner, req.Topic, req.Argument, *req.Score, req.Feedback)
	if err != nil {
		h.writeError(w, "save argument", err)
		return
	}

	h.recorder.RecordArgumentSaved()
	JSON(w, http.StatusCreated, map[string]any{
		"id":      id,
		"message": "Argument saved successfully",
	})
}

// GetArguments lists the owner's saved arguments, oldest first.
func (h *Handler) GetArguments(w http.ResponseWriter, r *http.Request) {
	owner := identity.Resolve(r.Context(), r.URL.Query().Get("email"))
	records, err := h.arguments.ListByOwner(r.Context(), owner)
	if err != nil {
		h.writeError(w, "list arguments", err)
		return
	}

	views := make([]argumentView, 0, len(records))
	for _, rec := range records {
		views = append(views, argumentView{
			ID:       rec.ID,
			Topic:    rec.Topic,
			Argument: rec.Argument,
			Score:    rec.Score,
			Feedback: rec.Feedback,
			SavedAt:  rec.CreatedAt.Unix(),
		})
	}
	JSON(w, http.StatusOK, map[string]any{"arguments": views})
}

// DeleteArgument removes a saved argument. Unknown IDs succeed.
func (h *Handler) DeleteArgument(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID int64 `json:"id"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, "delete argument", err)
		return
	}

	if err := h.arguments.Delete(r.Context(), req.ID); err != nil {
		h.writeError(w, "delete argument", err)
		return
	}

	h.recorder.RecordArgumentDeleted()
	JSON(w, http.StatusOK, map[string]string{"message": "Argument deleted successfully"})
}
