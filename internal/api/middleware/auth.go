package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dom/diary-service/internal/domain"
	"github.com/dom/diary-service/internal/logger"
	"github.com/dom/diary-service/internal/service"
	"github.com/google/uuid"
)

type contextKey string

const (
	UserKey contextKey = "user"
)

// Auth resolves the bearer access token to a user and stores it in the
// request context. Revoked tokens are rejected.
func Auth(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				unauthorized(w, "Could not validate credentials")
				return
			}

			user, err := authService.ResolveCurrentUser(r.Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthorized) {
					logger.Debug("[middleware.Auth] rejected token", logger.Fields{"error": err})
					unauthorized(w, "Could not validate credentials")
					return
				}
				logger.Error("[middleware.Auth] failed to resolve user", logger.Fields{"error": err})
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"detail":"Internal server error"}`))
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

func GetUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(UserKey).(*domain.User)
	return user, ok && user != nil
}

func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	user, ok := GetUser(ctx)
	if !ok {
		return uuid.Nil, false
	}
	return user.ID, true
}

func unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"detail":"` + detail + `"}`))
}
