package ctxutil

import "context"

type correlationKey struct{}

// Correlation ties log lines and responses of one request together.
type Correlation struct {
	TraceID   string
	RequestID string
}

func WithCorrelation(ctx context.Context, c Correlation) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, correlationKey{}, c)
}

// CorrelationOf returns the zero value when nothing was attached.
func CorrelationOf(ctx context.Context) Correlation {
	if ctx == nil {
		return Correlation{}
	}
	c, _ := ctx.Value(correlationKey{}).(Correlation)
	return c
}
