package events

import "context"

type requestKey struct{}

// ContextWithRequest stores caller metadata in ctx.
func ContextWithRequest(ctx context.Context, req Request) context.Context {
	return context.WithValue(ctx, requestKey{}, req)
}

// RequestFromContext returns the caller metadata stored in ctx, or the zero
// value when there is none.
func RequestFromContext(ctx context.Context) Request {
	if v, ok := ctx.Value(requestKey{}).(Request); ok {
		return v
	}

	return Request{}
}
