// Package principal carries the authenticated username through a request context.
package principal

import (
	"context"
	"strings"
)

// System is the actor recorded when no user is attached to the context.
const System = "system"

type ctxKey struct{}

func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, ctxKey{}, username)
}

func UsernameFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	u, ok := ctx.Value(ctxKey{}).(string)
	if !ok || strings.TrimSpace(u) == "" {
		return "", false
	}
	return u, true
}

// Actor returns the username in ctx, or System.
func Actor(ctx context.Context) string {
	if u, ok := UsernameFromContext(ctx); ok {
		return u
	}
	return System
}
