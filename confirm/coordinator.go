// Package confirm drives the multi-step process of confirming a payment or
// setup intent. The Coordinator asks the decision service what should happen
// next, hands user-facing steps to the host launcher, persists minimal state
// so an interrupted attempt survives process death, and exposes a single-shot
// awaitable result.
package confirm

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/embedpay/intentconfirm/intent"
	"github.com/embedpay/intentconfirm/interceptor"
	"github.com/embedpay/intentconfirm/internal/infrastructure/observability"
	"github.com/embedpay/intentconfirm/launcher"
	"github.com/embedpay/intentconfirm/statestore"
)

// Options configures a Coordinator.
type Options struct {
	// Interceptor is the confirmation decision service. Required.
	Interceptor interceptor.Interceptor

	// Flags is the durable slot store shared with the reconstruction path.
	// Required.
	Flags *statestore.Flags

	// Shipping is an optional shipping snapshot forwarded on every decision
	// service call.
	Shipping *intent.ShippingDetails

	Logger  *observability.Logger
	Metrics *observability.Metrics
	Events  *observability.EventLog
}

// StartRequest carries the inputs of one confirmation attempt.
type StartRequest struct {
	Mode      intent.InitializationMode
	Intent    *intent.Intent
	Selection intent.MethodSelection
}

// Coordinator coordinates exactly one confirmation attempt at a time.
// Construct one per logical confirmation session. All failures resolve the
// awaited result; nothing is thrown past the coordinator boundary.
type Coordinator struct {
	interceptor interceptor.Interceptor
	flags       *statestore.Flags
	shipping    *intent.ShippingDetails
	logger      *observability.Logger
	metrics     *observability.Metrics
	events      *observability.EventLog
	tracer      trace.Tracer
	sessionID   string

	mu         sync.Mutex
	launcher   launcher.Launcher
	registered bool
	pending    *completion
	startedAt  time.Time
	reloaded   bool
}

// New creates a Coordinator. The durable flags are read once here: if a host
// launch was outstanding when the process died, the new instance starts with
// a pending completion so AwaitResult resumes waiting without a new Start.
func New(opts Options) (*Coordinator, error) {
	if opts.Interceptor == nil {
		return nil, fmt.Errorf("interceptor cannot be nil")
	}
	if opts.Flags == nil {
		return nil, fmt.Errorf("flag store cannot be nil")
	}

	logger := opts.Logger
	if logger == nil {
		logger = observability.NewNopLogger()
	}

	sessionID, err := observability.GenerateSessionID()
	if err != nil {
		return nil, err
	}

	c := &Coordinator{
		interceptor: opts.Interceptor,
		flags:       opts.Flags,
		shipping:    opts.Shipping,
		logger:      logger.WithSessionID(sessionID),
		metrics:     opts.Metrics,
		events:      opts.Events,
		tracer:      observability.GetTracer("confirm"),
		sessionID:   sessionID,
	}

	awaiting, err := opts.Flags.Awaiting()
	if err != nil {
		return nil, fmt.Errorf("failed to read durable state: %w", err)
	}
	if awaiting {
		c.reloaded = true
		c.pending = newCompletion()
		c.logger.Info().Msg("resuming confirmation after process death")
	}

	return c, nil
}

// SessionID returns the identifier of this confirmation session.
func (c *Coordinator) SessionID() string {
	return c.sessionID
}

// HasReloadedFromProcessDeath reports whether this instance was constructed
// while a host launch result was still outstanding.
func (c *Coordinator) HasReloadedFromProcessDeath() bool {
	return c.reloaded
}

// Register binds the host launcher. It must be called before Start. When
// scope ends the launcher reference is released; a pending completion is not
// canceled, it resolves once the host calls back after re-entry.
func (c *Coordinator) Register(reg launcher.Registrar, scope context.Context) {
	c.mu.Lock()
	c.launcher = reg.Register(c.onHostResult)
	c.registered = true
	c.mu.Unlock()

	c.logger.Debug().Msg("launcher registered")

	if scope == nil {
		return
	}
	go func() {
		<-scope.Done()
		c.mu.Lock()
		c.launcher = nil
		c.mu.Unlock()
		c.logger.Debug().Msg("launcher unbound")
	}()
}

// Start begins one confirmation attempt. It is fire-and-forget: the outcome
// is read through AwaitResult. While a completion is pending, Start is a
// no-op; whether callers should instead be told their call was dropped is an
// open question, so the drop is at least logged.
func (c *Coordinator) Start(ctx context.Context, req StartRequest) {
	c.mu.Lock()
	if c.pending != nil && !c.pending.isResolved() {
		c.mu.Unlock()
		c.logger.Debug().Msg("confirmation already in flight, ignoring start")
		return
	}
	comp := newCompletion()
	c.pending = comp
	c.startedAt = time.Now()
	registered := c.registered
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.RecordConfirmationStart()
	}
	c.writeEvent(observability.NewConfirmationEvent(c.sessionID, observability.EventConfirmationStarted).
		WithIntentID(req.Intent.ID).
		WithDetail(string(req.Mode)))

	if !registered {
		c.resolve(comp, Failed{
			Cause:   NewFatalError("NO_LAUNCHER", "no launcher registered", nil),
			Message: "no launcher registered",
			Type:    ErrorTypeFatal,
		})
		return
	}

	go c.run(ctx, comp, req)
}

// AwaitResult blocks until the pending completion resolves. It returns a nil
// Result if no confirmation has ever been started on this instance. The
// context only bounds the wait; cancellation does not consume the result.
func (c *Coordinator) AwaitResult(ctx context.Context) (Result, error) {
	c.mu.Lock()
	comp := c.pending
	c.mu.Unlock()

	if comp == nil {
		return nil, nil
	}
	return comp.await(ctx)
}

func (c *Coordinator) run(ctx context.Context, comp *completion, req StartRequest) {
	ctx, span := c.tracer.Start(ctx, "Coordinator.Start")
	defer span.End()

	callStart := time.Now()
	step, err := c.interceptor.Intercept(ctx, interceptor.Request{
		Mode:      req.Mode,
		Intent:    req.Intent,
		Selection: req.Selection,
		Shipping:  c.shipping,
	})
	if c.metrics != nil {
		c.metrics.RecordInterceptorCall(time.Since(callStart), err)
	}
	if err != nil {
		c.clearFlags()
		c.resolve(comp, failedFromError(err))
		return
	}

	c.writeEvent(observability.NewConfirmationEvent(c.sessionID, observability.EventStepIntercepted).
		WithIntentID(req.Intent.ID).
		WithStep(stepName(step)))

	// The tag must be durable before any branch so an interruption mid-branch
	// still classifies the eventual host result correctly.
	if err := c.flags.SetDeferredType(step.DeferredType()); err != nil {
		c.resolve(comp, Failed{
			Cause:   NewFatalError("DURABLE_WRITE_FAILED", "failed to persist deferred confirmation type", err),
			Message: "failed to persist confirmation state",
			Type:    ErrorTypeFatal,
		})
		return
	}

	switch s := step.(type) {
	case interceptor.HandleNextAction:
		c.launch(ctx, comp, "next_action", req.Intent.ID, func(l launcher.Launcher) error {
			return l.LaunchNextAction(ctx, s.ClientSecret, req.Intent.Kind)
		})
	case interceptor.Confirm:
		c.launch(ctx, comp, "confirm", req.Intent.ID, func(l launcher.Launcher) error {
			return l.LaunchConfirm(ctx, s.Params)
		})
	case interceptor.Fail:
		c.clearFlags()
		c.resolve(comp, Failed{Cause: s.Cause, Message: s.Message, Type: ErrorTypeNextStep})
	case interceptor.Complete:
		// Synthetic host result: routed through the same normalization path
		// as a real launch callback so deferred-type tagging stays consistent.
		c.onHostResult(launcher.Completed{Intent: s.Intent})
	default:
		c.clearFlags()
		c.resolve(comp, Failed{
			Cause:   NewFatalError("UNKNOWN_STEP", fmt.Sprintf("unknown decision step %T", step), nil),
			Message: "unknown decision step",
			Type:    ErrorTypeFatal,
		})
	}
}

// launch performs one host launch with the durable ordering guarantee: the
// awaiting flag is written before the launch is handed to the host.
func (c *Coordinator) launch(ctx context.Context, comp *completion, kind, intentID string, do func(launcher.Launcher) error) {
	c.mu.Lock()
	l := c.launcher
	c.mu.Unlock()

	if l == nil {
		c.clearFlags()
		c.resolve(comp, Failed{
			Cause:   NewFatalError("NO_LAUNCHER", "no launcher registered", nil),
			Message: "no launcher registered",
			Type:    ErrorTypeFatal,
		})
		return
	}

	if err := c.flags.SetAwaiting(true); err != nil {
		c.resolve(comp, Failed{
			Cause:   NewFatalError("DURABLE_WRITE_FAILED", "failed to persist awaiting flag", err),
			Message: "failed to persist confirmation state",
			Type:    ErrorTypeFatal,
		})
		return
	}

	if c.metrics != nil {
		c.metrics.RecordHostLaunch(kind)
	}
	c.writeEvent(observability.NewConfirmationEvent(c.sessionID, observability.EventHostLaunched).
		WithIntentID(intentID).
		WithDetail(kind))
	c.logger.WithStep(kind).Debug().Msg("host launch started")

	if err := do(l); err != nil {
		// The host rejected the launch; treat it like a failed callback.
		c.onHostResult(launcher.Failed{Err: err})
	}
}

// onHostResult is the single callback channel for host launch outcomes, real
// or synthetic. Durable slots are cleared before the completion resolves.
func (c *Coordinator) onHostResult(res launcher.Result) {
	c.mu.Lock()
	comp := c.pending
	c.mu.Unlock()

	if comp == nil || comp.isResolved() {
		c.logger.Warn().Msg("host result with no confirmation in progress")
		return
	}

	deferredType, err := c.flags.DeferredType()
	if err != nil {
		c.logger.WithError(err).Error().Msg("failed to read deferred confirmation type")
		deferredType = intent.DeferredNone
	}

	c.clearFlags()

	var result Result
	switch r := res.(type) {
	case launcher.Completed:
		result = Succeeded{Intent: r.Intent, DeferredType: deferredType}
	case launcher.Failed:
		result = Failed{Cause: r.Err, Message: displayMessage(r.Err), Type: ErrorTypePayment}
	case launcher.Canceled:
		result = Canceled{}
	default:
		result = Failed{
			Cause:   NewFatalError("UNKNOWN_RESULT", fmt.Sprintf("unknown host result %T", res), nil),
			Message: "unknown host result",
			Type:    ErrorTypeFatal,
		}
	}

	c.resolve(comp, result)
}

func (c *Coordinator) resolve(comp *completion, result Result) {
	if !comp.resolve(result) {
		return
	}

	c.mu.Lock()
	started := c.startedAt
	c.mu.Unlock()

	var duration time.Duration
	if !started.IsZero() {
		duration = time.Since(started)
	}

	event := observability.NewConfirmationEvent(c.sessionID, observability.EventResultResolved)
	switch r := result.(type) {
	case Succeeded:
		if c.metrics != nil {
			c.metrics.RecordConfirmationSucceeded(duration)
		}
		event.WithIntentID(r.Intent.ID).WithDetail("succeeded")
		c.logger.Info().Dur("duration_ms", duration).Msg("confirmation succeeded")
	case Failed:
		if c.metrics != nil {
			c.metrics.RecordConfirmationFailed(errorTypeLabel(r.Type), duration)
		}
		event.WithDetail("failed: " + r.Message)
		c.logger.WithError(r.Cause).Error().
			Dur("duration_ms", duration).
			Str("error_type", errorTypeLabel(r.Type)).
			Msg("confirmation failed")
	case Canceled:
		if c.metrics != nil {
			c.metrics.RecordConfirmationCanceled(duration)
		}
		event.WithDetail("canceled")
		c.logger.Info().Dur("duration_ms", duration).Msg("confirmation canceled")
	}
	c.writeEvent(event)
}

func (c *Coordinator) clearFlags() {
	if err := c.flags.Clear(); err != nil {
		c.logger.WithError(err).Error().Msg("failed to clear durable state")
	}
}

func (c *Coordinator) writeEvent(event *observability.ConfirmationEvent) {
	if c.events == nil {
		return
	}
	if err := c.events.WriteEvent(event); err != nil {
		c.logger.WithError(err).Error().Msg("failed to write confirmation event")
	}
}

// failedFromError classifies a decision service error into a Failed result.
func failedFromError(err error) Failed {
	var confErr *ConfirmationError
	if errors.As(err, &confErr) {
		return Failed{Cause: err, Message: confErr.Message, Type: confErr.Type}
	}
	return Failed{Cause: err, Message: err.Error(), Type: ErrorTypeNextStep}
}

// displayMessage prefers the displayable message of a classified error.
func displayMessage(err error) string {
	if err == nil {
		return ""
	}
	var confErr *ConfirmationError
	if errors.As(err, &confErr) {
		return confErr.Message
	}
	return err.Error()
}

func errorTypeLabel(t ErrorType) string {
	switch t {
	case ErrorTypeFatal:
		return "fatal"
	case ErrorTypePayment:
		return "payment"
	case ErrorTypeNextStep:
		return "next_step"
	default:
		return "unknown"
	}
}

func stepName(step interceptor.NextStep) string {
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
