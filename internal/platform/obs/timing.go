package obs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"vessel-match-service/internal/platform/metrics"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// Start timing an operation. The returned func logs the duration and error and
// records the operation histogram; call it with a pointer to the named error.
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	reqID, _ := ctx.Value(RequestIDKey).(string)

	return func(errp *error) {
		dur := time.Since(start)
		fields := []zap.Field{
			zap.String("req_id", reqID),
			zap.String("op", name),
			zap.Duration("dur", dur),
		}

		if errp != nil && *errp != nil {
			metrics.OperationDuration.WithLabelValues(name, "error").Observe(dur.Seconds())
			zap.L().Warn("operation failed", append(fields, zap.Error(*errp))...)
			return
		}
		metrics.OperationDuration.WithLabelValues(name, "ok").Observe(dur.Seconds())
		zap.L().Debug("operation finished", fields...)
	}
}

// WithRequestID returns a context carrying the request id used in timing logs.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}
