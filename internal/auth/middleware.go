package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/isdelr/salesdash-be/internal/api/httpx"
	"github.com/isdelr/salesdash-be/internal/apperr"
	"github.com/isdelr/salesdash-be/internal/models"
	"github.com/rs/zerolog/log"
)

type contextKey string

// PrincipalKey is the context key for the authenticated principal.
const PrincipalKey = contextKey("principal")

// UserLookup resolves an active user by id.
type UserLookup interface {
	GetUserByID(ctx context.Context, id int64) (models.User, error)
}

// PrincipalFromContext returns the principal attached by Authenticate.
func PrincipalFromContext(ctx context.Context) (models.Principal, bool) {
	p, ok := ctx.Value(PrincipalKey).(models.Principal)
	return p, ok
}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p models.Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}

// Authenticate attaches a principal when the request carries a valid bearer
// token for a user that is still active. It never rejects: requests with a
// missing or bad token continue unauthenticated.
func Authenticate(tokens *TokenManager, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokens.Verify(tokenStr)
			if err != nil {
				log.Debug().Err(err).Msg("Ignoring invalid bearer token")
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.GetUserByID(r.Context(), claims.UserID)
			if err != nil || user.Username != claims.Username {
				log.Debug().Err(err).Int64("user_id", claims.UserID).Msg("Token subject is not an active user")
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithPrincipal(r.Context(), models.Principal{UserID: user.ID, Username: user.Username})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests without a principal.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := PrincipalFromContext(r.Context()); !ok {
			httpx.WriteError(w, apperr.Auth("authentication required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
