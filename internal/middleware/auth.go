package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/vjhub/vjhub-backend/internal/models"
	"github.com/vjhub/vjhub-backend/internal/services"
)

type contextKey string

const userContextKey contextKey = "user"

// extractBearerToken pulls the token out of an "Authorization: Bearer <token>" header.
func extractBearerToken(header string) string {
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// resolveUser validates the bearer session and loads the account. The user is
// resolved once per request and is immutable for the request's duration.
func resolveUser(r *http.Request) *models.User {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return nil
	}
	userID, ok, err := services.ValidateSession(token)
	if err != nil || !ok {
		return nil
	}
	user, err := services.GetUserByID(userID.String())
	if err != nil {
		return nil
	}
	return user
}

// Authenticate requires a valid bearer session; 401 otherwise.
func Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := resolveUser(r)
		if user == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"success":false,"message":"Authentication required"}`))
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userContextKey, user)))
	})
}

// OptionalAuth attaches the user when a valid session is presented, and lets
// anonymous requests through. Used on public read routes that annotate
// responses with the requester's vote membership.
func OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user := resolveUser(r); user != nil {
			r = r.WithContext(context.WithValue(r.Context(), userContextKey, user))
		}
		next.ServeHTTP(w, r)
	})
}

// UserFrom returns the authenticated user stored on the context, or nil.
func UserFrom(ctx context.Context) *models.User {
	user, _ := ctx.Value(userContextKey).(*models.User)
	return user
}
