package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embedpay/intentconfirm/confirm"
	"github.com/embedpay/intentconfirm/intent"
	"github.com/embedpay/intentconfirm/interceptor"
	"github.com/embedpay/intentconfirm/launcher"
	"github.com/embedpay/intentconfirm/test/fixtures"
)

func TestConfirmationFlowNextAction(t *testing.T) {
	harness, err := NewTestHarness(t.TempDir())
	require.NoError(t, err)
	defer harness.Stop()

	pi := fixtures.CreatePaymentIntent()
	harness.Interceptor.Enqueue(interceptor.HandleNextAction{ClientSecret: pi.ClientSecret})
	harness.RegisterLauncher()

	harness.StartConfirmation(context.Background(), pi, intent.ModePaymentIntent)
	require.NoError(t, harness.WaitForLaunch(1, 2*time.Second))

	calls := harness.Launcher.NextActionCalls()
	require.Equal(t, 1, len(calls))
	assert.Equal(t, pi.ClientSecret, calls[0].ClientSecret)
	assert.Equal(t, intent.KindPayment, calls[0].Kind)

	harness.Launcher.DeliverResult(launcher.Completed{Intent: pi})

	result, err := harness.AwaitResult(2 * time.Second)
	require.NoError(t, err)

	succeeded, ok := result.(confirm.Succeeded)
	require.True(t, ok, "expected Succeeded, got %T", result)
	assert.Equal(t, pi.ID, succeeded.Intent.ID)
	assert.Equal(t, intent.DeferredNone, succeeded.DeferredType)
}

func TestConfirmationFlowServerSideConfirm(t *testing.T) {
	harness, err := NewTestHarness(t.TempDir())
	require.NoError(t, err)
	defer harness.Stop()

	pi := fixtures.CreatePaymentIntent()
	params := fixtures.CreateConfirmParams(pi)
	harness.Interceptor.Enqueue(interceptor.Confirm{Params: params, Deferred: intent.DeferredClient})
	harness.RegisterLauncher()

	harness.StartConfirmation(context.Background(), pi, intent.ModeDeferredIntent)
	require.NoError(t, harness.WaitForLaunch(1, 2*time.Second))

	confirms := harness.Launcher.ConfirmCalls()
	require.Equal(t, 1, len(confirms))
	assert.Equal(t, params, confirms[0])

	harness.Launcher.DeliverResult(launcher.Completed{Intent: pi})

	result, err := harness.AwaitResult(2 * time.Second)
	require.NoError(t, err)

	succeeded, ok := result.(confirm.Succeeded)
	require.True(t, ok, "expected Succeeded, got %T", result)
	assert.Equal(t, intent.DeferredClient, succeeded.DeferredType)
}

func TestConfirmationFlowDecisionFail(t *testing.T) {
	harness, err := NewTestHarness(t.TempDir())
	require.NoError(t, err)
	defer harness.Stop()

	pi := fixtures.CreatePaymentIntent()
	harness.Interceptor.Enqueue(interceptor.Fail{Message: "card declined"})
	harness.RegisterLauncher()

	harness.StartConfirmation(context.Background(), pi, intent.ModePaymentIntent)

	result, err := harness.AwaitResult(2 * time.Second)
	require.NoError(t, err)

	failed, ok := result.(confirm.Failed)
	require.True(t, ok, "expected Failed, got %T", result)
	assert.Equal(t, "card declined", failed.Message)
	assert.Equal(t, confirm.ErrorTypeNextStep, failed.Type)
	assert.Equal(t, 0, harness.Launcher.LaunchCount())
}

func TestConfirmationFlowCompletesWithoutLaunch(t *testing.T) {
	harness, err := NewTestHarness(t.TempDir())
	require.NoError(t, err)
	defer harness.Stop()

	si := fixtures.CreateSetupIntent()
	harness.RegisterLauncher()

	// Empty queue: the fake decision service completes immediately
	harness.StartConfirmation(context.Background(), si, intent.ModeSetupIntent)

	result, err := harness.AwaitResult(2 * time.Second)
	require.NoError(t, err)

	succeeded, ok := result.(confirm.Succeeded)
	require.True(t, ok, "expected Succeeded, got %T", result)
	assert.Equal(t, si.ID, succeeded.Intent.ID)
	assert.Equal(t, 0, harness.Launcher.LaunchCount())
}

func TestConfirmationFlowUserCancel(t *testing.T) {
	harness, err := NewTestHarness(t.TempDir())
	require.NoError(t, err)
	defer harness.Stop()

	pi := fixtures.CreatePaymentIntent()
	harness.Interceptor.Enqueue(interceptor.HandleNextAction{ClientSecret: pi.ClientSecret})
	harness.RegisterLauncher()

	harness.StartConfirmation(context.Background(), pi, intent.ModePaymentIntent)
	require.NoError(t, harness.WaitForLaunch(1, 2*time.Second))

	harness.Launcher.DeliverResult(launcher.Canceled{})

	result, err := harness.AwaitResult(2 * time.Second)
	require.NoError(t, err)
	assert.IsType(t, confirm.Canceled{}, result)
}

func TestProcessDeathResumption(t *testing.T) {
	dir := t.TempDir()

	// First process: launch the host step, then die before the result arrives
	first, err := NewTestHarness(dir)
	require.NoError(t, err)

	pi := fixtures.CreatePaymentIntent()
	first.Interceptor.Enqueue(interceptor.HandleNextAction{
		ClientSecret: pi.ClientSecret,
		Deferred:     intent.DeferredServer,
	})
	first.RegisterLauncher()

	first.StartConfirmation(context.Background(), pi, intent.ModeDeferredIntent)
	require.NoError(t, first.WaitForLaunch(1, 2*time.Second))
	require.False(t, first.Session.Coordinator.HasReloadedFromProcessDeath())
	require.NoError(t, first.Stop())

	// Second process over the same durable store: resumes waiting and keeps
	// the deferred tag written before the launch
	second, err := NewTestHarness(dir)
	require.NoError(t, err)

	assert.True(t, second.Session.Coordinator.HasReloadedFromProcessDeath())

	second.RegisterLauncher()
	second.Launcher.DeliverResult(launcher.Completed{Intent: pi})

	result, err := second.AwaitResult(2 * time.Second)
	require.NoError(t, err)

	succeeded, ok := result.(confirm.Succeeded)
	require.True(t, ok, "expected Succeeded, got %T", result)
	assert.Equal(t, pi.ID, succeeded.Intent.ID)
	assert.Equal(t, intent.DeferredServer, succeeded.DeferredType)
	require.NoError(t, second.Stop())

	// Third process after resolution: nothing outstanding, fresh start
	third, err := NewTestHarness(dir)
	require.NoError(t, err)
	defer third.Stop()

	assert.False(t, third.Session.Coordinator.HasReloadedFromProcessDeath())
}

func TestConfirmationFlowLaunchRejected(t *testing.T) {
	harness, err := NewTestHarness(t.TempDir())
	require.NoError(t, err)
	defer harness.Stop()

	pi := fixtures.CreatePaymentIntent()
	harness.Interceptor.Enqueue(interceptor.HandleNextAction{ClientSecret: pi.ClientSecret})
	harness.Launcher.FailLaunchesWith(assert.AnError)
	harness.RegisterLauncher()

	harness.StartConfirmation(context.Background(), pi, intent.ModePaymentIntent)

	result, err := harness.AwaitResult(2 * time.Second)
	require.NoError(t, err)

	failed, ok := result.(confirm.Failed)
	require.True(t, ok, "expected Failed, got %T", result)
	assert.Equal(t, confirm.ErrorTypePayment, failed.Type)
}
