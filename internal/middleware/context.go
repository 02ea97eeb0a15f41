// AngelaMos | 2026
// context.go

package middleware

import (
	"context"

	"github.com/carterperez-dev/templates/job-board/internal/core"
)

type contextKey string

const (
	identityKey contextKey = "identity"
	scopeKey    contextKey = "request_scope"
)

// requestScope is installed by Logger before routing so identities resolved
// deeper in the chain still reach the access log.
type requestScope struct {
	actor core.Actor
}

func withScope(ctx context.Context) (context.Context, *requestScope) {
	scope := &requestScope{}
	return context.WithValue(ctx, scopeKey, scope), scope
}

func withIdentity(
	ctx context.Context,
	claims *AccessTokenClaims,
) context.Context {
	if scope, ok := ctx.Value(scopeKey).(*requestScope); ok {
		scope.actor = claims.Actor()
	}
	return context.WithValue(ctx, identityKey, claims)
}

func GetRequestID(ctx context.Context) string {
	return core.RequestIDFromContext(ctx)
}

func GetClaims(ctx context.Context) *AccessTokenClaims {
	if claims, ok := ctx.Value(identityKey).(*AccessTokenClaims); ok {
		return claims
	}
	return nil
}

// GetActor returns the authenticated identity, or a zero Actor.
func GetActor(ctx context.Context) core.Actor {
	if claims := GetClaims(ctx); claims != nil {
		return claims.Actor()
	}
	return core.Actor{}
}

func GetUserID(ctx context.Context) int64 {
	return GetActor(ctx).ID
}
