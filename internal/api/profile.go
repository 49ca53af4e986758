package api

import (
	"net/http"
	"strings"

	"github.com/ashureev/debate-coach/internal/domain"
	"github.com/ashureev/debate-coach/internal/identity"
)

const maxProfileField = 200

type profileView struct {
	domain.Profile
	DisplayName string `json:"display_name"`
}

// GetProfile returns the owner's profile, or an empty one.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	owner := strings.TrimSpace(identity.Resolve(r.Context(), r.URL.Query().Get("email")))
	if owner == "" {
		h.writeError(w, "get profile", domain.NewInputError("email", "must not be empty"))
		return
	}

	p, err := h.profiles.GetProfile(r.Context(), owner)
	if err != nil {
		h.writeError(w, "get profile", err)
		return
	}
	if p == nil {
		p = &domain.Profile{Owner: owner}
	}
	JSON(w, http.StatusOK, profileView{Profile: *p, DisplayName: p.DisplayName()})
}

// PutProfile creates or replaces the owner's profile.
func (h *Handler) PutProfile(w http.ResponseWriter, r *http.Request) {
	var req domain.Profile
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, "put profile", err)
		return
	}

	p := domain.Profile{
		Owner:       strings.TrimSpace(identity.Resolve(r.Context(), req.Owner)),
		Name:        strings.TrimSpace(req.Name),
		Contact:     strings.TrimSpace(req.Contact),
		Institution: strings.TrimSpace(req.Institution),
	}
	if p.Owner == "" {
		h.writeError(w, "put profile", domain.NewInputError("email", "must not be empty"))
		return
	}
	for field, v := range map[string]string{"name": p.Name, "contact": p.Contact, "institution": p.Institution} {
		if len(v) > maxProfileField {
			h.writeError(w, "put profile", domain.NewInputError(field, "is too long"))
			return
		}
	}

	if err := h.profiles.UpsertProfile(r.Context(), &p); err != nil {
		h.writeError(w, "put profile", err)
		return
	}
	JSON(w, http.StatusOK, profileView{Profile: p, DisplayName: p.DisplayName()})
}
