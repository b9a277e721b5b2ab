package domain

import "context"

// Caller is the already-authenticated identity a call executes as.
// Authentication itself happens outside the ledger; by the time a
// caller reaches the engine it is a plain identity string.
type Caller struct {
	ID    string
	Owner bool
}

type callerContextKey struct{}

// ContextWithCaller attaches the caller to the context.
func ContextWithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerContextKey{}, c)
}

// CallerFromContext extracts the caller from the context.
func CallerFromContext(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(callerContextKey{}).(Caller)
	return c, ok
}
