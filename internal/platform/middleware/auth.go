package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"libnet/pkg/domain"
	dErrors "libnet/pkg/domain-errors"
	"libnet/pkg/platform/httputil"
	"libnet/pkg/requestcontext"
)

// TokenValidator verifies an actor token and rebuilds the actor it names.
type TokenValidator interface {
	ValidateToken(tokenString string) (domain.Actor, error)
}

// RequireActor extracts and verifies the bearer token, placing the resulting
// actor in the request context. Handlers below this middleware can assume an
// authenticated actor is present.
func RequireActor(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing or invalid Authorization header"))
				return
			}

			actor, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err.Error(),
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithActor(ctx, actor)))
		})
	}
}
