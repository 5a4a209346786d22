package auth

import (
	"context"

	"github.com/goliatone/go-router"
)

var actorCtxKey = &contextKey{"actor"}

type contextKey struct {
	name string
}

// WithActor sets the Actor in the given context
func WithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorCtxKey, actor)
}

// ActorFromContext finds the actor from the context.
func ActorFromContext(ctx context.Context) (*Actor, bool) {
	raw, ok := ctx.Value(actorCtxKey).(*Actor)
	if !ok || raw == nil {
		return nil, false
	}
	return raw, true
}

// ActorFromRouterContext extracts the Actor the gate middleware stored in
// router locals. key defaults to "actor".
func ActorFromRouterContext(ctx router.Context, key ...string) (*Actor, bool) {
	k := "actor"
	if len(key) > 0 && key[0] != "" {
		k = key[0]
	}

	raw := ctx.Locals(k)
	if raw == nil {
		return nil, false
	}

	actor, ok := raw.(*Actor)
	if !ok || actor == nil {
		return nil, false
	}
	return actor, true
}
