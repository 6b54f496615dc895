package launcher

import (
	"context"
	"sync"

	"github.com/embedpay/intentconfirm/intent"
)

// NextActionCall records one LaunchNextAction invocation.
type NextActionCall struct {
	ClientSecret string
	Kind         intent.Kind
}

// FakeLauncher is a recording Launcher for testing. Results are delivered
// explicitly through DeliverResult, mimicking the host calling back.
type FakeLauncher struct {
	mu          sync.Mutex
	callback    Callback
	nextActions []NextActionCall
	confirms    []intent.ConfirmParams
	launchErr   error
}

// NewFakeLauncher creates a new fake launcher
func NewFakeLauncher() *FakeLauncher {
	return &FakeLauncher{}
}

// FailLaunchesWith makes subsequent launch calls return err immediately.
func (f *FakeLauncher) FailLaunchesWith(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.launchErr = err
}

// LaunchNextAction implements Launcher.
func (f *FakeLauncher) LaunchNextAction(ctx context.Context, clientSecret string, kind intent.Kind) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.launchErr != nil {
		return f.launchErr
	}
	f.nextActions = append(f.nextActions, NextActionCall{ClientSecret: clientSecret, Kind: kind})
	return nil
}

// LaunchConfirm implements Launcher.
func (f *FakeLauncher) LaunchConfirm(ctx context.Context, params intent.ConfirmParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.launchErr != nil {
		return f.launchErr
	}
	f.confirms = append(f.confirms, params)
	return nil
}

// DeliverResult invokes the registered callback as the host would.
func (f *FakeLauncher) DeliverResult(res Result) {
	f.mu.Lock()
	cb := f.callback
	f.mu.Unlock()

	if cb != nil {
		cb(res)
	}
}

// NextActionCalls returns the recorded LaunchNextAction invocations.
func (f *FakeLauncher) NextActionCalls() []NextActionCall {
	f.mu.Lock()
	defer f.mu.Unlock()

	calls := make([]NextActionCall, len(f.nextActions))
	copy(calls, f.nextActions)
	return calls
}

// ConfirmCalls returns the recorded LaunchConfirm invocations.
func (f *FakeLauncher) ConfirmCalls() []intent.ConfirmParams {
	f.mu.Lock()
	defer f.mu.Unlock()

	calls := make([]intent.ConfirmParams, len(f.confirms))
	copy(calls, f.confirms)
	return calls
}

// LaunchCount returns the total number of recorded launches.
func (f *FakeLauncher) LaunchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.nextActions) + len(f.confirms)
}

func (f *FakeLauncher) setCallback(cb Callback) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callback = cb
}

// FakeRegistrar hands out a FakeLauncher on Register.
type FakeRegistrar struct {
	launcher *FakeLauncher
}

// NewFakeRegistrar creates a registrar that binds the given fake launcher.
func NewFakeRegistrar(l *FakeLauncher) *FakeRegistrar {
	return &FakeRegistrar{launcher: l}
}

// Register implements Registrar.
func (r *FakeRegistrar) Register(cb Callback) Launcher {
	r.launcher.setCallback(cb)
	return r.launcher
}
