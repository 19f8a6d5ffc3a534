package web

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/policycheck/internal/core"
	"github.com/JonMunkholm/policycheck/internal/logging"
)

// withClient adds the client IP and User-Agent to the request context so
// service log entries can name who triggered them.
func withClient(r *http.Request) context.Context {
	return core.ContextWithClient(r.Context(), core.Client{
		IPAddress: clientIP(r), // already rewritten by TrustedRealIP
		UserAgent: r.UserAgent(),
	})
}

// sessionContext tags the request context with the session ID from the URL,
// so every log line for the request carries session_id.
func (s *Server) sessionContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		ctx := logging.ContextWithSessionID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
