package testutil

import (
	"net/http"
	"time"

	"escrow/pkg/requestcontext"
)

// WithCaller marks the request as coming from an authenticated service,
// as RequireAuth would after validating a bearer token.
func WithCaller(req *http.Request, caller string) *http.Request {
	return req.WithContext(requestcontext.WithCaller(req.Context(), caller))
}

// WithRequestTime pins the request-scoped clock used by caches and audit.
func WithRequestTime(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}
