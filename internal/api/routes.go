package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers every endpoint. limit wraps the endpoints that call
// the generation service; it may be nil.
func (h *Handler) RegisterRoutes(r chi.Router, limit func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		if limit != nil {
			r.Use(limit)
		}
		r.Post("/evaluate-argument", h.EvaluateArgument)
		r.Post("/generate-motion", h.GenerateMotion)
		if h.transcriber != nil {
			r.Post("/speech-to-text", h.SpeechToText)
		}
	})

	r.Post("/save-argument", h.SaveArgument)
	r.Get("/get-arguments", h.GetArguments)
	r.Post("/delete-argument", h.DeleteArgument)
	r.Get("/get-leaderboard", h.GetLeaderboard)

	r.Route("/usage", func(r chi.Router) {
		r.Get("/", h.GetUsage)
		r.Post("/", h.AddUsage)
	})

	r.Route("/profile", func(r chi.Router) {
		r.Get("/", h.GetProfile)
		r.Put("/", h.PutProfile)
	})
}
