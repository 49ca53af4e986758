// Package identity resolves which user a request acts for.
//
// Authentication is handled upstream; this package only carries the owner
// email the frontend sends so handlers can default to it.
package identity

import (
	"context"
	"net"
	"net/http"
	"regexp"
	"strings"
)

const (
	OwnerHeaderName = "X-User-Email"
	maxOwnerLength  = 254
)

type contextKey int

const (
	ownerKey contextKey = iota
)

var ownerPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+$`)

// OwnerFromContext extracts the owner email from the request context.
func OwnerFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ownerKey).(string); ok {
		return v
	}
	return ""
}

// WithOwner returns a copy of ctx carrying owner.
func WithOwner(ctx context.Context, owner string) context.Context {
	return context.WithValue(ctx, ownerKey, owner)
}

// NormalizeOwner trims owner and returns "" when it is not a plausible email.
func NormalizeOwner(owner string) string {
	owner = strings.TrimSpace(owner)
	if owner == "" || len(owner) > maxOwnerLength || !ownerPattern.MatchString(owner) {
		return ""
	}
	return owner
}

// Resolve picks the explicit owner when given, otherwise the one in ctx.
func Resolve(ctx context.Context, explicit string) string {
	if owner := strings.TrimSpace(explicit); owner != "" {
		return owner
	}
	return OwnerFromContext(ctx)
}

// Middleware stores the owner named by the X-User-Email header, if valid.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if owner := NormalizeOwner(r.Header.Get(OwnerHeaderName)); owner != "" {
			r = r.WithContext(WithOwner(r.Context(), owner))
		}
		next.ServeHTTP(w, r)
	})
}

// IPFromRequest returns a normalized remote IP for rate limiting.
func IPFromRequest(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RequestKey identifies the caller for rate limiting. The owner header is
// unauthenticated, so the key is always the remote IP.
func RequestKey(r *http.Request) string {
	return "ip:" + IPFromRequest(r)
}
