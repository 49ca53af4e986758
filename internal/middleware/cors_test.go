package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name            string
		allowed         []string
		origin          string
		method          string
		wantOrigin      string
		wantCredentials string
		wantStatus      int
	}{
		{"wildcard echoes origin without credentials", []string{"*"}, "http://localhost:3000", http.MethodGet, "http://localhost:3000", "", http.StatusOK},
		{"explicit origin allows credentials", []string{"https://coach.example.com"}, "https://coach.example.com", http.MethodPost, "https://coach.example.com", "true", http.StatusOK},
		{"unknown origin gets no headers", []string{"https://coach.example.com"}, "https://evil.example.com", http.MethodGet, "", "", http.StatusOK},
		{"preflight short-circuits", []string{"*"}, "http://localhost:3000", http.MethodOptions, "http://localhost:3000", "", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/evaluate-argument", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()

			CORS(tt.allowed)(next).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
			if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != tt.wantCredentials {
				t.Errorf("Allow-Credentials = %q, want %q", got, tt.wantCredentials)
			}
			if tt.wantOrigin != "" && !strings.Contains(rec.Header().Get("Access-Control-Allow-Headers"), "X-User-Email") {
				t.Errorf("expected X-User-Email in allowed headers")
			}
		})
	}
}
