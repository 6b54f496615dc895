package middleware

import (
	"context"

	"github.com/embedpay/intentconfirm/interceptor"
)

// InterceptFunc is the signature of a decision service call
type InterceptFunc func(ctx context.Context, req interceptor.Request) (interceptor.NextStep, error)

// InterceptorMiddleware is a function that wraps an InterceptFunc
type InterceptorMiddleware func(InterceptFunc) InterceptFunc

// Apply applies a chain of middleware to a decision service call
func Apply(fn InterceptFunc, middlewares ...InterceptorMiddleware) InterceptFunc {
	// Apply middleware in reverse order so they wrap correctly
	for i := len(middlewares) - 1; i >= 0; i-- {
		fn = middlewares[i](fn)
	}
	return fn
}

// Wrap applies a middleware chain to an Interceptor and returns the wrapped
// Interceptor.
func Wrap(i interceptor.Interceptor, middlewares ...InterceptorMiddleware) interceptor.Interceptor {
	wrapped := Apply(i.Intercept, middlewares...)
	return interceptor.Func(wrapped)
}
