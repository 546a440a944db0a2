package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey int

const (
	ctxKeyLogger ctxKey = iota
	ctxKeyRequestID
)

// WithContext attaches the logger to the context
func WithContext(ctx context.Context, log *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKeyLogger, log)
}

// FromContext returns the logger attached to the context. Callers always get
// a usable logger; a context without one yields a no-op.
func FromContext(ctx context.Context) *zap.Logger {
	if log, ok := ctx.Value(ctxKeyLogger).(*zap.Logger); ok {
		return log
	}
	return zap.NewNop()
}

// WithRequestID stores the request ID on the context and returns the logger
// enriched with it, so every line logged downstream carries the ID.
func WithRequestID(ctx context.Context, log *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	enriched := log.With(zap.String("request_id", requestID))
	ctx = context.WithValue(ctx, ctxKeyRequestID, requestID)
	return WithContext(ctx, enriched), enriched
}

// GetRequestID returns the request ID stored on the context, if any
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID).(string)
	return id
}
