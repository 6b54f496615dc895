package middleware

import (
	"context"
	"time"

	"github.com/embedpay/intentconfirm/interceptor"
	"github.com/embedpay/intentconfirm/internal/infrastructure/observability"
)

// WithLogging returns a middleware that logs decision service calls
func WithLogging(logger *observability.Logger) InterceptorMiddleware {
	return func(next InterceptFunc) InterceptFunc {
		return func(ctx context.Context, req interceptor.Request) (interceptor.NextStep, error) {
			start := time.Now()

			callLogger := logger
			if req.Intent != nil {
				callLogger = logger.WithIntentID(req.Intent.ID)
			}

			callLogger.Debug().Str("mode", string(req.Mode)).Msg("intercept started")

			step, err := next(ctx, req)

			duration := time.Since(start)

			if err != nil {
				callLogger.WithError(err).Error().
					Dur("duration_ms", duration).
					Msg("intercept failed")
				return nil, err
			}

			callLogger.Info().
				Dur("duration_ms", duration).
				Str("step", StepName(step)).
				Msg("intercept completed")

			return step, nil
		}
	}
}

// StepName returns a stable name for a decision step variant.
func StepName(step interceptor.NextStep) string {
	switch step.(type) {
	case interceptor.HandleNextAction:
		return "handle_next_action"
	case interceptor.Confirm:
		return "confirm"
	case interceptor.Fail:
		return "fail"
	case interceptor.Complete:
		return "complete"
	default:
		return "unknown"
	}
}
