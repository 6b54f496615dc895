// Package interceptor defines the confirmation decision service consumed by
// the coordinator. Given the chosen payment method selection and the current
// intent snapshot, an Interceptor decides the next step of the confirmation:
// hand off a next action to the host, confirm with concrete parameters, fail,
// or complete immediately.
package interceptor

import (
	"context"

	"github.com/embedpay/intentconfirm/intent"
)

// Request carries everything the decision service needs for one call.
type Request struct {
	Mode      intent.InitializationMode
	Intent    *intent.Intent
	Selection intent.MethodSelection
	Shipping  *intent.ShippingDetails
}

// NextStep is the decision outcome. Implementations are HandleNextAction,
// Confirm, Fail and Complete; dispatch sites must switch exhaustively.
// Every variant carries the deferred confirmation type tag describing how
// completion was deferred, empty when it was not.
type NextStep interface {
	isNextStep()

	// DeferredType returns the deferred confirmation type tag of this step.
	DeferredType() intent.DeferredConfirmationType
}

// HandleNextAction instructs the coordinator to hand the given client secret
// to the host launcher so the user can complete a required action.
type HandleNextAction struct {
	ClientSecret string
	Deferred     intent.DeferredConfirmationType
}

// Confirm instructs the coordinator to confirm through the host launcher
// with the given parameters.
type Confirm struct {
	Params   intent.ConfirmParams
	Deferred intent.DeferredConfirmationType
}

// Fail indicates the confirmation cannot proceed.
type Fail struct {
	Cause    error
	Message  string
	Deferred intent.DeferredConfirmationType
}

// Complete indicates the confirmation already finished server-side; no host
// launch is needed.
type Complete struct {
	Intent   *intent.Intent
	Deferred intent.DeferredConfirmationType
}

func (HandleNextAction) isNextStep() {}
func (Confirm) isNextStep()          {}
func (Fail) isNextStep()             {}
func (Complete) isNextStep()         {}

func (s HandleNextAction) DeferredType() intent.DeferredConfirmationType { return s.Deferred }
func (s Confirm) DeferredType() intent.DeferredConfirmationType          { return s.Deferred }
func (s Fail) DeferredType() intent.DeferredConfirmationType             { return s.Deferred }
func (s Complete) DeferredType() intent.DeferredConfirmationType         { return s.Deferred }

// Interceptor is the pluggable confirmation decision service.
type Interceptor interface {
	// Intercept returns exactly one NextStep for the request. A returned
	// error means the decision itself could not be made, e.g. a transport
	// failure of a remote implementation.
	Intercept(ctx context.Context, req Request) (NextStep, error)
}

// Func adapts a plain function to the Interceptor interface.
type Func func(ctx context.Context, req Request) (NextStep, error)

// Intercept implements Interceptor.
func (f Func) Intercept(ctx context.Context, req Request) (NextStep, error) {
	return f(ctx, req)
}
