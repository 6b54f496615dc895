package integration

import (
	"context"
	"fmt"
	"time"

	"github.com/embedpay/intentconfirm"
	"github.com/embedpay/intentconfirm/confirm"
	"github.com/embedpay/intentconfirm/intent"
	"github.com/embedpay/intentconfirm/interceptor"
	"github.com/embedpay/intentconfirm/internal/infrastructure/config"
	"github.com/embedpay/intentconfirm/launcher"
)

// TestHarness provides utilities for integration testing
type TestHarness struct {
	Session     *intentconfirm.Session
	Interceptor *interceptor.Fake
	Launcher    *launcher.FakeLauncher

	cfg   *config.Config
	scope context.CancelFunc
}

// NewTestHarness creates a harness with a SQLite store under dir. Calling it
// twice with the same dir simulates a process restart over the same durable
// state.
func NewTestHarness(dir string) (*TestHarness, error) {
	cfg := config.DefaultConfig()
	cfg.Store.Type = "sqlite"
	cfg.Store.SQLiteFile = dir + "/confirmation.db"
	cfg.Observability.LogLevel = "debug"
	cfg.Observability.LogFormat = "text"
	cfg.Observability.MetricsEnabled = false
	cfg.Observability.EventLogFile = dir + "/events.db"
	cfg.Observability.EventLogBatchSize = 1

	fake := interceptor.NewFake()

	session, err := intentconfirm.NewSession(cfg, fake, nil)
	if err != nil {
		return nil, err
	}

	h := &TestHarness{
		Session:     session,
		Interceptor: fake,
		Launcher:    launcher.NewFakeLauncher(),
		cfg:         cfg,
	}
	return h, nil
}

// RegisterLauncher binds the fake launcher for the lifetime of the harness.
func (h *TestHarness) RegisterLauncher() {
	scope, cancel := context.WithCancel(context.Background())
	h.scope = cancel
	h.Session.Coordinator.Register(launcher.NewFakeRegistrar(h.Launcher), scope)
}

// StartConfirmation begins a confirmation attempt for the given intent.
func (h *TestHarness) StartConfirmation(ctx context.Context, in *intent.Intent, mode intent.InitializationMode) {
	h.Session.Coordinator.Start(ctx, confirm.StartRequest{
		Mode:      mode,
		Intent:    in,
		Selection: intent.SavedSelection("pm_card_visa"),
	})
}

// WaitForLaunch polls until the host launcher has recorded count launches.
func (h *TestHarness) WaitForLaunch(count int, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if h.Launcher.LaunchCount() >= count {
			return nil
		}
		time.Sleep(5 * time.Millisecond)
	}
	return fmt.Errorf("timed out waiting for %d host launches, got %d", count, h.Launcher.LaunchCount())
}

// AwaitResult waits for the pending confirmation to resolve.
func (h *TestHarness) AwaitResult(timeout time.Duration) (confirm.Result, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return h.Session.Coordinator.AwaitResult(ctx)
}

// Stop releases the harness. The durable store contents survive.
func (h *TestHarness) Stop() error {
	if h.scope != nil {
		h.scope()
	}
	return h.Session.Close()
}
