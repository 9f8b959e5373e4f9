package httpapi

import (
	"context"
	"net/http"

	"github.com/saalikmubeen/serverless-marketplace-app/internal/domain"
)

type contextKey string

const userContextKey contextKey = "user"

// CORSMiddleware allows all origins and methods, matching the relay's
// original deployment behind a public API gateway.
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "*")
		w.Header().Set("Access-Control-Allow-Headers", "*")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AuthMiddleware trusts the X-User-ID header set by the identity provider
// in front of this service and loads the full user record into the request
// context. Requests without the header pass through unauthenticated;
// handlers that need a user reject those themselves.
func AuthMiddleware(users UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := r.Header.Get("X-User-ID")
			if userID == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.GetUser(r.Context(), userID)
			if err != nil {
				respondError(w, http.StatusUnauthorized, "unknown_user", "user not found")
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func userFromContext(ctx context.Context) *domain.User {
	user, _ := ctx.Value(userContextKey).(*domain.User)
	return user
}

// ContextWithUser is used by handler tests to inject an authenticated user.
func ContextWithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}
