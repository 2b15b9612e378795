package auth

import (
	"context"
	"net/http"
	"strings"

	"restaurant-pos/internal/domain"
)

type contextKey string

const actorKey contextKey = "actor"

// ActorFromContext returns the authenticated actor, if the request carried one.
func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	a, ok := ctx.Value(actorKey).(domain.Actor)
	return a, ok
}

func ContextWithActor(ctx context.Context, a domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey, a)
}

// BearerToken extracts the credential from the Authorization header, falling
// back to the token query parameter for WebSocket handshakes.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return r.URL.Query().Get("token")
}

// Middleware rejects requests without a valid token and stores the actor in
// the request context. onError writes the error response so the HTTP layer
// keeps a single error shape.
func Middleware(jwt *JWTManager, onError func(w http.ResponseWriter, r *http.Request, err error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				onError(w, r, domain.E(domain.KindAuthentication, "missing credentials"))
				return
			}
			actor, err := jwt.ValidateToken(token)
			if err != nil {
				onError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithActor(r.Context(), actor)))
		})
	}
}
