package middleware

import (
	"context"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/embedpay/intentconfirm/confirm"
	"github.com/embedpay/intentconfirm/interceptor"
)

// gRPC status codes that indicate a caller-side contract violation rather
// than a decision-service verdict
var fatalGRPCCodes = map[codes.Code]bool{
	codes.InvalidArgument:  true, // 3 - Malformed request built by this SDK
	codes.Unauthenticated:  true, // 16 - Missing or bad credentials
	codes.PermissionDenied: true, // 7 - Key not allowed to confirm this intent
	codes.Unimplemented:    true, // 12 - Backend does not speak this contract
}

// WithGRPCErrorClassification returns middleware that classifies errors from
// gRPC-backed decision service implementations into the confirmation error
// taxonomy, so transport problems and contract violations surface with the
// right failure class.
func WithGRPCErrorClassification() InterceptorMiddleware {
	return func(next InterceptFunc) InterceptFunc {
		return func(ctx context.Context, req interceptor.Request) (interceptor.NextStep, error) {
			step, err := next(ctx, req)

			if err != nil {
				// Check if this is a gRPC error
				st, ok := status.FromError(err)
				if ok && st.Code() != codes.OK {
					code := st.Code()

					if fatalGRPCCodes[code] {
						return nil, confirm.NewFatalError(
							fmt.Sprintf("GRPC_%s", code.String()),
							fmt.Sprintf("decision service rejected the request: %s", st.Message()),
							err,
						)
					}

					// Everything else means the decision could not be made
					return nil, confirm.NewNextStepError(
						fmt.Sprintf("GRPC_%s", code.String()),
						fmt.Sprintf("decision service unavailable: %s", st.Message()),
						err,
					)
				}
			}

			return step, err
		}
	}
}
