package middleware

import (
	"context"
	"net/http"

	"github.com/parishworks/chms-backend-go/internal/handler/http/response"
)

type contextKey string

const actorContextKey contextKey = "actor"

// ActorHeader identifies the finance officer performing the request. The
// upstream gateway authenticates the user and forwards the identifier here.
const ActorHeader = "X-Actor-ID"

// ActorRequired rejects requests that do not carry an actor identifier.
// Every mutating payroll route needs one for the audit trail.
func ActorRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := r.Header.Get(ActorHeader)
		if actor == "" {
			response.Unauthorized(w, "Missing "+ActorHeader+" header")
			return
		}

		ctx := context.WithValue(r.Context(), actorContextKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ActorFromContext returns the actor set by ActorRequired.
func ActorFromContext(ctx context.Context) string {
	actor, _ := ctx.Value(actorContextKey).(string)
	return actor
}
