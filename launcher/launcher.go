// Package launcher abstracts the host-provided mechanism that performs
// user-facing confirmation steps. The host owns the UI lifecycle; this
// package only defines the registration step, the two launch operations and
// the single asynchronous callback channel their results arrive on.
package launcher

import (
	"context"

	"github.com/embedpay/intentconfirm/intent"
)

// Result is the host launch outcome. Implementations are Completed, Failed
// and Canceled.
type Result interface {
	isLaunchResult()
}

// Completed carries the updated intent snapshot after a successful launch.
type Completed struct {
	Intent *intent.Intent
}

// Failed carries the error surfaced by the host launch.
type Failed struct {
	Err error
}

// Canceled indicates the user dismissed the launched step.
type Canceled struct{}

func (Completed) isLaunchResult() {}
func (Failed) isLaunchResult()    {}
func (Canceled) isLaunchResult()  {}

// Callback receives exactly one Result per launch.
type Callback func(Result)

// Launcher performs host launches. Launch calls are fire-and-forget: a nil
// return only means the launch was handed to the host; the outcome arrives
// later on the registered Callback.
type Launcher interface {
	// LaunchNextAction asks the host to resolve the next action for the
	// intent identified by clientSecret. kind selects the payment or setup
	// sub-case of the same call shape.
	LaunchNextAction(ctx context.Context, clientSecret string, kind intent.Kind) error

	// LaunchConfirm asks the host to confirm with the given parameters.
	LaunchConfirm(ctx context.Context, params intent.ConfirmParams) error
}

// Registrar is the host registration step. Register installs the callback
// and yields a Launcher bound to the host's UI lifecycle.
type Registrar interface {
	Register(cb Callback) Launcher
}
