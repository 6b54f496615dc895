package observability

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Confirmation lifecycle event types.
const (
	EventConfirmationStarted = "confirmation_started"
	EventStepIntercepted     = "step_intercepted"
	EventHostLaunched        = "host_launched"
	EventResultResolved      = "result_resolved"
)

// ConfirmationEvent is one persisted lifecycle event of a confirmation session
type ConfirmationEvent struct {
	ID        int64     `json:"id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id"`
	IntentID  string    `json:"intent_id,omitempty"`
	EventType string    `json:"event_type"`
	Step      string    `json:"step,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

// NewConfirmationEvent creates a lifecycle event for a session
func NewConfirmationEvent(sessionID, eventType string) *ConfirmationEvent {
	return &ConfirmationEvent{
		Timestamp: time.Now(),
		SessionID: sessionID,
		EventType: eventType,
	}
}

// WithIntentID adds intent context
func (e *ConfirmationEvent) WithIntentID(id string) *ConfirmationEvent {
	e.IntentID = id
	return e
}

// WithStep adds the dispatched step name
func (e *ConfirmationEvent) WithStep(step string) *ConfirmationEvent {
	e.Step = step
	return e
}

// WithDetail adds a free-form detail string
func (e *ConfirmationEvent) WithDetail(detail string) *ConfirmationEvent {
	e.Detail = detail
	return e
}

// EventLog handles persistence of confirmation lifecycle events to SQLite
type EventLog struct {
	db        *sql.DB
	mu        sync.Mutex
	batch     []*ConfirmationEvent
	batchSize int
	flushTick *time.Ticker
	done      chan struct{}
}

// NewEventLog creates a new event log backed by the database at dbPath
func NewEventLog(dbPath string, batchSize int) (*EventLog, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log := &EventLog{
		db:        db,
		batch:     make([]*ConfirmationEvent, 0, batchSize),
		batchSize: batchSize,
		flushTick: time.NewTicker(5 * time.Second),
		done:      make(chan struct{}),
	}

	// Initialize schema
	if err := log.initSchema(); err != nil {
		return nil, err
	}

	// Start background flush worker
	go log.flushWorker()

	return log, nil
}

// initSchema creates the confirmation_events table and indexes
func (l *EventLog) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS confirmation_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		session_id TEXT NOT NULL,
		intent_id TEXT,
		event_type TEXT NOT NULL,
		step TEXT,
		detail TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_session_id ON confirmation_events(session_id);

	CREATE INDEX IF NOT EXISTS idx_session_timestamp
		ON confirmation_events(session_id, timestamp);

	CREATE INDEX IF NOT EXISTS idx_event_type ON confirmation_events(event_type);
	`

	_, err := l.db.Exec(schema)
	return err
}

// WriteEvent adds an event to the batch
func (l *EventLog) WriteEvent(event *ConfirmationEvent) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}

	l.mu.Lock()
	l.batch = append(l.batch, event)
	shouldFlush := len(l.batch) >= l.batchSize
	l.mu.Unlock()

	if shouldFlush {
		return l.FlushBatch()
	}

	return nil
}

// FlushBatch writes all batched events to the database in a single transaction
func (l *EventLog) FlushBatch() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.batch) == 0 {
		return nil
	}

	tx, err := l.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO confirmation_events (
			timestamp, session_id, intent_id, event_type, step, detail
		) VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, event := range l.batch {
		_, err := stmt.Exec(
			event.Timestamp,
			event.SessionID,
			event.IntentID,
			event.EventType,
			event.Step,
			event.Detail,
		)
		if err != nil {
			return fmt.Errorf("failed to insert event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	// Clear batch after successful flush
	l.batch = l.batch[:0]
	return nil
}

// flushWorker periodically flushes events to the database
func (l *EventLog) flushWorker() {
	for {
		select {
		case <-l.flushTick.C:
			l.FlushBatch()
		case <-l.done:
			l.FlushBatch() // Final flush on shutdown
			return
		}
	}
}

// QueryBySessionID retrieves all events for a confirmation session
func (l *EventLog) QueryBySessionID(sessionID string) ([]*ConfirmationEvent, error) {
	rows, err := l.db.Query(`
		SELECT id, timestamp, session_id, intent_id, event_type, step, detail
		FROM confirmation_events
		WHERE session_id = ?
		ORDER BY timestamp ASC, id ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// QueryByEventType retrieves the most recent events of a given type.
func (l *EventLog) QueryByEventType(eventType string, limit int) ([]*ConfirmationEvent, error) {
	rows, err := l.db.Query(`
		SELECT id, timestamp, session_id, intent_id, event_type, step, detail
		FROM confirmation_events
		WHERE event_type = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, eventType, limit)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]*ConfirmationEvent, error) {
	var events []*ConfirmationEvent
	for rows.Next() {
		var ev ConfirmationEvent
		var intentID, step, detail sql.NullString
		if err := rows.Scan(&ev.ID, &ev.Timestamp, &ev.SessionID, &intentID, &ev.EventType, &step, &detail); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		ev.IntentID = intentID.String
		ev.Step = step.String
		ev.Detail = detail.String
		events = append(events, &ev)
	}
	return events, rows.Err()
}

// Close flushes remaining events and closes the database
func (l *EventLog) Close() error {
	l.flushTick.Stop()
	close(l.done)
	<-time.After(100 * time.Millisecond) // Wait for worker to finish

	if err := l.FlushBatch(); err != nil {
		return err
	}

	return l.db.Close()
}
