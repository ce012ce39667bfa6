package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/calebreyes/storefront-backend/api/responses"
	"github.com/calebreyes/storefront-backend/pkg/config"
	pkgerrors "github.com/calebreyes/storefront-backend/pkg/errors"
	"github.com/calebreyes/storefront-backend/pkg/identity"
	"github.com/calebreyes/storefront-backend/pkg/logger"
)

const guestTokenHeader = "X-Guest-Token"

type contextKey string

const actorContextKey contextKey = "actor"

// ActorFromContext returns the actor resolved by the Identity middleware.
// Handlers running outside the middleware see an empty guest.
func ActorFromContext(ctx context.Context) identity.Actor {
	if actor, ok := ctx.Value(actorContextKey).(identity.Actor); ok {
		return actor
	}
	return identity.Actor{Role: identity.RoleGuest}
}

// Identity resolves the caller into an identity.Actor. A bearer token
// takes precedence; otherwise the guest token header keys an anonymous
// shopper. Requests with neither still pass, carrying a tokenless guest
// that only public reads will accept.
func Identity(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			actor := identity.Guest(strings.TrimSpace(r.Header.Get(guestTokenHeader)))

			if header := r.Header.Get("Authorization"); header != "" {
				token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
				if token == "" || token == header {
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "malformed authorization header"))
					return
				}
				parsed, err := identity.ParseAccessToken(cfg, token)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid access token"))
					return
				}
				actor = parsed
			}

			if logg != nil {
				fields := map[string]any{"actor_role": string(actor.Role)}
				if actor.UserID != nil {
					fields["user_id"] = actor.UserID.String()
				}
				ctx = logg.WithFields(ctx, fields)
			}

			ctx = context.WithValue(ctx, actorContextKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects non-operator callers before the handler runs.
func RequireAdmin(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := ActorFromContext(r.Context())
			if !actor.IsAdmin() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "admin access required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
