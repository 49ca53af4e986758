package api

import (
	"net/http"
	"strconv"

	"github.com/ashureev/debate-coach/internal/domain"
)

// GetLeaderboard returns the top users by average score.
func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			h.writeError(w, "leaderboard", domain.NewInputError("limit", "must be a positive integer"))
			return
		}
		limit = n
	}

	entries, err := h.leaderboard.Top(r.Context(), limit)
	if err != nil {
		h.writeError(w, "leaderboard", err)
		return
	}
	JSON(w, http.StatusOK, map[string]any{"leaderboard": entries})
}
