package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"unimarket/errors"
	"unimarket/observability"
	"unimarket/repositories"
	"unimarket/services"
)

type contextKey string

const userContextKey contextKey = "user"

// Authenticate resolves the "Authorization: Token <jwt>" header into an
// account record and stores it on the request context. Requests without a
// resolvable credential never reach the handler.
func Authenticate(directory services.IUserDirectory, metrics *observability.Metrics, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Token ")
			if !ok || token == "" {
				metrics.AuthFailures.Inc()
				respondError(w, errors.ErrInvalidCredentials)
				return
			}

			user, err := directory.ResolveCredential(token)
			if err != nil {
				metrics.AuthFailures.Inc()
				log.Warn("rejected api credential", "remote", r.RemoteAddr)
				respondError(w, errors.ErrInvalidCredentials)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// userFrom returns the account placed on the context by Authenticate.
func userFrom(r *http.Request) repositories.User {
	user, _ := r.Context().Value(userContextKey).(repositories.User)
	return user
}
