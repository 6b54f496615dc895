package middleware

import (
	"context"
	"time"

	"github.com/embedpay/intentconfirm/confirm"
	"github.com/embedpay/intentconfirm/interceptor"
)

// WithTimeout returns a middleware that enforces a timeout on the decision
// service call
func WithTimeout(timeout time.Duration) InterceptorMiddleware {
	return func(next InterceptFunc) InterceptFunc {
		return func(ctx context.Context, req interceptor.Request) (interceptor.NextStep, error) {
			timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			type result struct {
				step interceptor.NextStep
				err  error
			}
			resultChan := make(chan result, 1)

			go func() {
				step, err := next(timeoutCtx, req)
				resultChan <- result{step, err}
			}()

			select {
			case res := <-resultChan:
				return res.step, res.err
			case <-timeoutCtx.Done():
				return nil, confirm.NewNextStepError("INTERCEPTOR_TIMEOUT", "decision service call exceeded timeout", timeoutCtx.Err())
			}
		}
	}
}
