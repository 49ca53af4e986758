package api

import (
	"errors"
	"net/http"

	"github.com/ashureev/debate-coach/internal/motion"
)

// GenerateMotion suggests a motion for the requested topic.
func (h *Handler) GenerateMotion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Topic string `json:"topic"`
	}
	// An empty body means the default topic.
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		h.writeError(w, "generate motion", err)
		return
	}

	m, err := h.motions.Suggest(r.Context(), req.Topic)
	if errors.Is(err, motion.ErrNoMotion) {
		Error(w, http.StatusUnprocessableEntity, "No motion could be generated for this topic, please try another one.")
		return
	}
	if err != nil {
		h.writeError(w, "generate motion", err)
		return
	}
	JSON(w, http.StatusOK, map[string]string{"motion": m})
}
