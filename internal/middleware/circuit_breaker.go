package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/embedpay/intentconfirm/confirm"
	"github.com/embedpay/intentconfirm/interceptor"
)

// WithCircuitBreaker returns a middleware that protects the decision service
// with a circuit breaker. A remote decision backend that keeps failing trips
// the breaker; subsequent confirmations fail fast as next-step errors.
func WithCircuitBreaker(name string, threshold float64, timeout time.Duration) InterceptorMiddleware {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    timeout,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= threshold
		},
	})

	return func(next InterceptFunc) InterceptFunc {
		return func(ctx context.Context, req interceptor.Request) (interceptor.NextStep, error) {
			result, err := cb.Execute(func() (interface{}, error) {
				return next(ctx, req)
			})

			if err != nil {
				if err == gobreaker.ErrOpenState {
					return nil, confirm.NewNextStepError(
						"CIRCUIT_BREAKER_OPEN",
						fmt.Sprintf("circuit breaker open for decision service: %s", name),
						err,
					)
				}
				return nil, err
			}

			return result.(interceptor.NextStep), nil
		}
	}
}
