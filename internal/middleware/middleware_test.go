package middleware

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/embedpay/intentconfirm/confirm"
	"github.com/embedpay/intentconfirm/intent"
	"github.com/embedpay/intentconfirm/interceptor"
	"github.com/embedpay/intentconfirm/internal/infrastructure/observability"
)

func testRequest() interceptor.Request {
	return interceptor.Request{
		Mode:      intent.ModePaymentIntent,
		Selection: intent.SavedSelection("pm_1"),
	}
}

func completeStep() interceptor.NextStep {
	return interceptor.Complete{}
}

func TestApplyOrder(t *testing.T) {
	var order []string

	tag := func(name string) InterceptorMiddleware {
		return func(next InterceptFunc) InterceptFunc {
			return func(ctx context.Context, req interceptor.Request) (interceptor.NextStep, error) {
				order = append(order, name)
				return next(ctx, req)
			}
		}
	}

	fn := Apply(func(ctx context.Context, req interceptor.Request) (interceptor.NextStep, error) {
		order = append(order, "base")
		return completeStep(), nil
	}, tag("outer"), tag("inner"))

	_, err := fn(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{"outer", "inner", "base"}, order)
}

func TestWrapReturnsInterceptor(t *testing.T) {
	calls := 0
	base := interceptor.Func(func(ctx context.Context, req interceptor.Request) (interceptor.NextStep, error) {
		calls++
		return completeStep(), nil
	})

	wrapped := Wrap(base, WithLogging(observability.NewNopLogger()))

	step, err := wrapped.Intercept(context.Background(), testRequest())
	require.NoError(t, err)
	assert.NotNil(t, step)
	assert.Equal(t, 1, calls)
}

func TestWithTimeout(t *testing.T) {
	mw := WithTimeout(20 * time.Millisecond)

	slow := func(ctx context.Context, req interceptor.Request) (interceptor.NextStep, error) {
		select {
		case <-time.After(time.Second):
			return completeStep(), nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	_, err := mw(slow)(context.Background(), testRequest())
	require.Error(t, err)

	var confErr *confirm.ConfirmationError
	require.ErrorAs(t, err, &confErr)
	assert.True(t, confErr.IsNextStep())
	assert.Equal(t, "INTERCEPTOR_TIMEOUT", confErr.Code)
}

func TestWithTimeoutPassesFastCalls(t *testing.T) {
	mw := WithTimeout(time.Second)

	fast := func(ctx context.Context, req interceptor.Request) (interceptor.NextStep, error) {
		return completeStep(), nil
	}

	step, err := mw(fast)(context.Background(), testRequest())
	require.NoError(t, err)
	assert.NotNil(t, step)
}

func TestWithCircuitBreakerOpensAfterFailures(t *testing.T) {
	mw := WithCircuitBreaker("test", 0.5, time.Minute)

	failing := func(ctx context.Context, req interceptor.Request) (interceptor.NextStep, error) {
		return nil, errors.New("backend down")
	}
	wrapped := mw(failing)

	// Trip the breaker
	for i := 0; i < 5; i++ {
		wrapped(context.Background(), testRequest())
	}

	_, err := wrapped(context.Background(), testRequest())
	require.Error(t, err)

	var confErr *confirm.ConfirmationError
	require.ErrorAs(t, err, &confErr)
	assert.Equal(t, "CIRCUIT_BREAKER_OPEN", confErr.Code)
	assert.True(t, confErr.IsNextStep())
}

func TestWithCircuitBreakerPassesSuccess(t *testing.T) {
	mw := WithCircuitBreaker("test", 0.5, time.Minute)

	ok := func(ctx context.Context, req interceptor.Request) (interceptor.NextStep, error) {
		return completeStep(), nil
	}

	step, err := mw(ok)(context.Background(), testRequest())
	require.NoError(t, err)
	assert.NotNil(t, step)
}

func TestWithGRPCErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		code      codes.Code
		wantFatal bool
	}{
		{"InvalidArgument is fatal", codes.InvalidArgument, true},
		{"Unauthenticated is fatal", codes.Unauthenticated, true},
		{"PermissionDenied is fatal", codes.PermissionDenied, true},
		{"Unimplemented is fatal", codes.Unimplemented, true},
		{"Unavailable is next-step", codes.Unavailable, false},
		{"DeadlineExceeded is next-step", codes.DeadlineExceeded, false},
		{"Internal is next-step", codes.Internal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := WithGRPCErrorClassification()

			failing := func(ctx context.Context, req interceptor.Request) (interceptor.NextStep, error) {
				return nil, status.Error(tt.code, "grpc backend says no")
			}

			_, err := mw(failing)(context.Background(), testRequest())
			require.Error(t, err)

			var confErr *confirm.ConfirmationError
			require.ErrorAs(t, err, &confErr)
			if tt.wantFatal {
				assert.True(t, confErr.IsFatal())
			} else {
				assert.True(t, confErr.IsNextStep())
			}
		})
	}
}

func TestWithGRPCErrorClassificationIgnoresPlainErrors(t *testing.T) {
	mw := WithGRPCErrorClassification()

	plain := errors.New("not a grpc error")
	failing := func(ctx context.Context, req interceptor.Request) (interceptor.NextStep, error) {
		return nil, plain
	}

	_, err := mw(failing)(context.Background(), testRequest())
	assert.Equal(t, plain, err)
}

func TestStepName(t *testing.T) {
	assert.Equal(t, "handle_next_action", StepName(interceptor.HandleNextAction{}))
	assert.Equal(t, "confirm", StepName(interceptor.Confirm{}))
	assert.Equal(t, "fail", StepName(interceptor.Fail{}))
	assert.Equal(t, "complete", StepName(interceptor.Complete{}))
}
