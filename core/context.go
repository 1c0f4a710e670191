package core

import "context"

type contextKey string

// noHeaderKey marks contexts whose executors should skip the progress
// header, so multi-scenario drivers do not repeat it per scenario.
const noHeaderKey contextKey = "noHeader"

// withHeadersSuppressed derives a context that silences progress headers.
func withHeadersSuppressed(ctx context.Context) context.Context {
	return context.WithValue(ctx, noHeaderKey, true)
}

// headersSuppressed reports whether progress headers are silenced.
func headersSuppressed(ctx context.Context) bool {
	v, ok := ctx.Value(noHeaderKey).(bool)
	return ok && v
}
