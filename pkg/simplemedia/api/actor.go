package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/jwtauth"
	"github.com/tendant/simple-media/pkg/simplemedia"
)

// Claims read from the bearer token.
const (
	ClaimSubject     = "sub"
	ClaimPermissions = "permissions"
)

type contextKey string

const actorKey contextKey = "actor"

// WithActor stores the actor in the context.
func WithActor(ctx context.Context, actor simplemedia.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext returns the request's actor, or the anonymous actor.
func ActorFromContext(ctx context.Context) simplemedia.Actor {
	if actor, ok := ctx.Value(actorKey).(simplemedia.Actor); ok {
		return actor
	}
	return simplemedia.AnonymousActor
}

// ActorMiddleware turns the token verified by jwtauth.Verifier into an actor.
// Requests without a token proceed as the anonymous actor; invalid tokens are
// rejected.
func ActorMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil && !errors.Is(err, jwtauth.ErrNoTokenFound) {
			slog.Warn("Rejected bearer token", "err", err)
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		actor := simplemedia.AnonymousActor
		if token != nil {
			actor = actorFromClaims(claims)
		}
		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

func actorFromClaims(claims map[string]interface{}) simplemedia.Actor {
	actor := simplemedia.Actor{}
	if sub, ok := claims[ClaimSubject].(string); ok {
		actor.ID = sub
	}
	switch perms := claims[ClaimPermissions].(type) {
	case []interface{}:
		for _, p := range perms {
			if s, ok := p.(string); ok {
				actor.Permissions = append(actor.Permissions, s)
			}
		}
	case []string:
		actor.Permissions = append(actor.Permissions, perms...)
	}
	return actor
}
