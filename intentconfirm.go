// Package intentconfirm wires a ready-to-use confirmation Coordinator from
// configuration: durable store, structured logging, metrics, event log, and
// the decision service middleware chain.
package intentconfirm

import (
	"fmt"
	"time"

	"github.com/embedpay/intentconfirm/confirm"
	"github.com/embedpay/intentconfirm/intent"
	"github.com/embedpay/intentconfirm/interceptor"
	"github.com/embedpay/intentconfirm/internal/infrastructure/config"
	"github.com/embedpay/intentconfirm/internal/infrastructure/observability"
	"github.com/embedpay/intentconfirm/internal/middleware"
	"github.com/embedpay/intentconfirm/statestore"
)

// Session bundles a coordinator with the infrastructure it owns.
type Session struct {
	Coordinator *confirm.Coordinator

	store  statestore.Store
	events *observability.EventLog
}

// NewStore creates the durable store selected by configuration.
func NewStore(cfg *config.StoreConfig) (statestore.Store, error) {
	switch cfg.Type {
	case "sqlite":
		return statestore.NewSQLiteStore(cfg.SQLiteFile)
	case "memory":
		return statestore.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store type %q", cfg.Type)
	}
}

// NewSession builds a confirmation session from configuration. The decision
// service is wrapped with logging, gRPC error classification, circuit breaker
// and timeout middleware before the coordinator sees it.
func NewSession(cfg *config.Config, decider interceptor.Interceptor, shipping *intent.ShippingDetails) (*Session, error) {
	if decider == nil {
		return nil, fmt.Errorf("interceptor cannot be nil")
	}

	logger := observability.NewLogger(&cfg.Observability)

	store, err := NewStore(&cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to create durable store: %w", err)
	}

	var metrics *observability.Metrics
	if cfg.Observability.MetricsEnabled {
		metrics = observability.NewMetrics()
	}

	var events *observability.EventLog
	if cfg.Observability.EventLogFile != "" {
		events, err = observability.NewEventLog(cfg.Observability.EventLogFile, cfg.Observability.EventLogBatchSize)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to create event log: %w", err)
		}
	}

	// Middleware order matters - innermost to outermost
	wrapped := middleware.Wrap(
		decider,
		middleware.WithLogging(logger),
		middleware.WithTimeout(time.Duration(cfg.Interceptor.TimeoutSeconds)*time.Second),
		// gRPC classification BEFORE the breaker so fatal caller errors are
		// not counted as decision service failures
		middleware.WithGRPCErrorClassification(),
		middleware.WithCircuitBreaker(cfg.App.Name, cfg.Interceptor.CircuitBreakerThreshold, cfg.Interceptor.CircuitBreakerTimeout),
	)

	coordinator, err := confirm.New(confirm.Options{
		Interceptor: wrapped,
		Flags:       statestore.NewFlags(store),
		Shipping:    shipping,
		Logger:      logger,
		Metrics:     metrics,
		Events:      events,
	})
	if err != nil {
		if events != nil {
			events.Close()
		}
		store.Close()
		return nil, err
	}

	return &Session{
		Coordinator: coordinator,
		store:       store,
		events:      events,
	}, nil
}

// Close releases the session's durable store and event log.
func (s *Session) Close() error {
	var firstErr error
	if s.events != nil {
		if err := s.events.Close(); err != nil {
			firstErr = err
		}
	}
	if err := s.store.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
