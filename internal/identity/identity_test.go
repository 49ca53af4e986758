package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNormalizeOwner(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a@x.com", "a@x.com"},
		{"  b@x.com ", "b@x.com"},
		{"", ""},
		{"not-an-email", ""},
		{"two words@x.com", ""},
	}
	for _, tt := range tests {
		if got := NormalizeOwner(tt.in); got != tt.want {
			t.Errorf("NormalizeOwner(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMiddlewareStoresOwner(t *testing.T) {
	var got string
	h := Middleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = OwnerFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(OwnerHeaderName, " a@x.com ")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got != "a@x.com" {
		t.Fatalf("owner = %q, want a@x.com", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(OwnerHeaderName, "garbage")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got != "" {
		t.Fatalf("owner = %q, want empty for invalid header", got)
	}
}

func TestResolve(t *testing.T) {
	ctx := WithOwner(context.Background(), "ctx@x.com")
	if got := Resolve(ctx, "body@x.com"); got != "body@x.com" {
		t.Errorf("explicit owner should win, got %q", got)
	}
	if got := Resolve(ctx, "  "); got != "ctx@x.com" {
		t.Errorf("context owner should be used, got %q", got)
	}
	if got := Resolve(context.Background(), ""); got != "" {
		t.Errorf("expected empty owner, got %q", got)
	}
}

func TestRequestKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:4321"
	if got := RequestKey(req); got != "ip:10.0.0.1" {
		t.Errorf("RequestKey = %q", got)
	}
	// Rotating or borrowing an owner must not change the bucket.
	for _, owner := range []string{"a@x.com", "b@x.com"} {
		withOwner := req.WithContext(WithOwner(req.Context(), owner))
		if got := RequestKey(withOwner); got != "ip:10.0.0.1" {
			t.Errorf("RequestKey(%s) = %q", owner, got)
		}
	}
}
