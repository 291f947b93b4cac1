package logger

import (
	"context"

	"go.uber.org/zap"

	"rockettalk/pkg/trace"
)

// New builds the production logger used by every process.
func New() *zap.Logger {
	l, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	return l
}

// WithTrace returns a child logger carrying the trace_id from ctx, if any.
func WithTrace(ctx context.Context, l *zap.Logger) *zap.Logger {
	if id := trace.FromContext(ctx); id != "" {
		return l.With(zap.String("trace_id", id))
	}
	return l
}
