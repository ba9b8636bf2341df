package genclient

import "context"

type ctxKeyCapability struct{}

// WithCapability tags ctx with the adapter capability issuing the call, so
// that offline clients can answer with the right payload shape.
func WithCapability(ctx context.Context, capability string) context.Context {
	return context.WithValue(ctx, ctxKeyCapability{}, capability)
}

// CapabilityFrom returns the capability recorded in ctx, or "".
func CapabilityFrom(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyCapability{}).(string); ok {
		return v
	}
	return ""
}
