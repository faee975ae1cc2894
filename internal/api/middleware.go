package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/adventapp/advent-server/internal/domain"
	"github.com/adventapp/advent-server/internal/http/response"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const contextKeyIdentity contextKey = "identity"

// requireAuth is middleware that validates access tokens and attaches the
// caller's identity. Requests without a valid bearer token are rejected.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			response.Unauthorized(w, "Missing or malformed authorization header", s.logger)
			return
		}

		claims, err := s.tokenService.VerifyAccessToken(token)
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token", s.logger)
			return
		}

		ctx := withIdentity(r.Context(), domain.IdentifiedUser(claims.UserID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// optionalAuth attaches an identity when a valid bearer token is present and
// continues anonymously otherwise. Used on the public share endpoints, where
// an identified caller gets idempotent door opens but anonymous access works.
func (s *Server) optionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := s.tokenService.VerifyAccessToken(token)
		if err != nil {
			// Invalid token on a public endpoint degrades to anonymous.
			next.ServeHTTP(w, r)
			return
		}

		ctx := withIdentity(r.Context(), domain.IdentifiedUser(claims.UserID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// withIdentity stores the caller's identity in context.
func withIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, contextKeyIdentity, identity)
}

// getIdentity extracts the caller's identity from request context.
// Returns the anonymous identity when no middleware attached one.
func getIdentity(ctx context.Context) domain.Identity {
	if identity, ok := ctx.Value(contextKeyIdentity).(domain.Identity); ok {
		return identity
	}
	return domain.Anonymous()
}
