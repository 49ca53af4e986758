package domain

import (
	"time"
)

// Profile holds the optional display details a user edits on their dashboard.
type Profile struct {
	Owner       string    `json:"email"`
	Name        string    `json:"name"`
	Contact     string    `json:"contact"`
	Institution string    `json:"institution"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DisplayName returns the profile name or a generic placeholder.
func (p *Profile) DisplayName() string {
	if p == nil || p.Name == "" {
		return "User"
	}
	return p.Name
}
