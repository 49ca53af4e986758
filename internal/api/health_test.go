package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealth(t *testing.T) {
	ok := func(context.Context) error { return nil }
	fail := func(context.Context) error { return errors.New("down") }

	tests := []struct {
		name       string
		checks     map[string]HealthCheck
		wantStatus int
		wantState  string
	}{
		{"all ok", map[string]HealthCheck{"database": ok, "redis": ok}, http.StatusOK, "healthy"},
		{"optional dependency down", map[string]HealthCheck{"database": ok, "nats": fail}, http.StatusOK, "degraded"},
		{"database down", map[string]HealthCheck{"database": fail}, http.StatusServiceUnavailable, "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewHealthHandler(tt.checks, 0).Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body struct {
				Status string            `json:"status"`
				Checks map[string]string `json:"checks"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Status != tt.wantState {
				t.Errorf("status = %q, want %q", body.Status, tt.wantState)
			}
			if body.Checks["api"] != "ok" {
				t.Errorf("api check missing: %v", body.Checks)
			}
		})
	}
}
