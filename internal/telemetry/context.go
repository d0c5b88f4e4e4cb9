package telemetry

import "context"

type invocationKey struct{}

// WithInvocation tags ctx with the pipeline invocation ID so that boundary
// components can correlate their events.
func WithInvocation(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, invocationKey{}, id)
}

func InvocationFrom(ctx context.Context) string {
	id, _ := ctx.Value(invocationKey{}).(string)
	return id
}
