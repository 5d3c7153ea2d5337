package tool

import "context"

// UpdateFunc receives progress messages emitted by the knowledge-base
// tools while they resolve a query. The chat pipeline installs one per
// turn to surface what a tool is doing.
type UpdateFunc func(ctx context.Context, message string)

type contextKey struct{}

// WithUpdate attaches fn to the context so tools running under it can
// report progress.
func WithUpdate(ctx context.Context, fn UpdateFunc) context.Context {
	return context.WithValue(ctx, contextKey{}, fn)
}

// Update forwards message to the context's UpdateFunc. Without one the
// call is a no-op, so tools report unconditionally.
func Update(ctx context.Context, message string) {
	if fn, ok := ctx.Value(contextKey{}).(UpdateFunc); ok {
		fn(ctx, message)
	}
}
