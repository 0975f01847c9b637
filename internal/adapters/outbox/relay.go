package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/lib/pq"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/hostelmess/mess-service/internal/config"
	"github.com/hostelmess/mess-service/internal/core/ports"
)

const (
	// PostgreSQL NOTIFY/LISTEN configuration
	listenerMinReconnectInterval = 10 * time.Second
	listenerMaxReconnectInterval = time.Minute
	outboxChannelName            = "outbox_channel"

	eventProcessTimeout     = 30 * time.Second
	batchProcessTimeout     = 60 * time.Second
	periodicProcessInterval = 90 * time.Second

	healthCheckStaleThreshold = 5 * time.Minute

	maxEventsPerBatch = 100
)

var knownEvents = map[string]bool{
	ports.EventComplaintSubmitted:    true,
	ports.EventComplaintResponded:    true,
	ports.EventNotificationPublished: true,
}

// Relay listens for PostgreSQL NOTIFY signals on the outbox_channel
// and publishes events to RabbitMQ.
type Relay struct {
	db            *sql.DB
	publisher     ports.EventPublisher
	listener      *pq.Listener
	dbURL         string
	dbCB          *gobreaker.CircuitBreaker
	log           *zap.Logger
	lastProcessed atomic.Int64
	healthy       atomic.Bool
}

func NewRelay(db *sql.DB, dbURL string, publisher ports.EventPublisher, log *zap.Logger) *Relay {
	r := &Relay{
		db:        db,
		dbURL:     dbURL,
		publisher: publisher,
		dbCB:      config.NewCircuitBreaker(config.BreakerRelayDB, log),
		log:       log,
	}
	r.markProcessed()
	r.healthy.Store(true)
	return r
}

func (r *Relay) markProcessed() {
	r.lastProcessed.Store(time.Now().UnixNano())
}

// IsHealthy is the liveness signal: an open breaker is degraded, not dead.
func (r *Relay) IsHealthy() bool {
	return r.healthy.Load()
}

// IsReady reports whether the relay can currently process events.
func (r *Relay) IsReady() bool {
	if r.dbCB.State() == gobreaker.StateOpen {
		return false
	}
	if time.Since(time.Unix(0, r.lastProcessed.Load())) > healthCheckStaleThreshold {
		return false
	}
	return r.healthy.Load()
}

// Start blocks until ctx is cancelled.
func (r *Relay) Start(ctx context.Context) error {
	reportProblem := func(ev pq.ListenerEventType, err error) {
		if err != nil {
			r.log.Error("outbox listener error", zap.Error(err))
		}
	}

	r.listener = pq.NewListener(r.dbURL, listenerMinReconnectInterval, listenerMaxReconnectInterval, reportProblem)
	defer r.listener.Close()

	if err := r.listener.Listen(outboxChannelName); err != nil {
		return err
	}
	r.log.Info("outbox relay listening", zap.String("channel", outboxChannelName))

	// catch up on anything written while the relay was down
	if err := r.processUnprocessedEvents(ctx); err != nil {
		r.log.Error("outbox startup backlog failed", zap.Error(err))
	}

	ticker := time.NewTicker(periodicProcessInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info("outbox relay shutting down")
			return ctx.Err()

		case n := <-r.listener.Notify:
			if n == nil {
				r.log.Warn("outbox listener reconnecting")
				r.healthy.Store(false)
				continue
			}
			if err := r.processEventByID(ctx, n.Extra); err != nil {
				r.log.Error("outbox event failed", zap.String("event_id", n.Extra), zap.Error(err))
				continue
			}
			r.markProcessed()
			r.healthy.Store(true)

		case <-ticker.C:
			go r.listener.Ping()
			if err := r.processUnprocessedEvents(ctx); err != nil {
				r.log.Error("outbox periodic sweep failed", zap.Error(err))
				continue
			}
			r.markProcessed()
		}
	}
}

type outboxRecord struct {
	ID        string
	EventType string
	Payload   []byte
}

// handle publishes rec. It reports done=true when the row should be marked
// processed, which includes rows that can never be delivered.
func (r *Relay) handle(ctx context.Context, rec outboxRecord) (bool, error) {
	if !knownEvents[rec.EventType] {
		r.log.Warn("outbox event type unknown, skipping", zap.String("event_id", rec.ID), zap.String("event_type", rec.EventType))
		return true, nil
	}
	if !json.Valid(rec.Payload) {
		r.log.Warn("outbox payload invalid, skipping", zap.String("event_id", rec.ID))
		return true, nil
	}
	if err := r.publisher.Publish(ctx, ports.Event{ID: rec.ID, EventType: rec.EventType, Payload: rec.Payload}); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Relay) processEventByID(ctx context.Context, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, eventProcessTimeout)
	defer cancel()

	_, err := r.dbCB.Execute(func() (interface{}, error) {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		var rec outboxRecord
		err = tx.QueryRowContext(ctx, `
			SELECT id, event_type, payload
			FROM outbox_events
			WHERE id = $1 AND processed_at IS NULL
			FOR UPDATE SKIP LOCKED`, eventID).Scan(&rec.ID, &rec.EventType, &rec.Payload)
		if err == sql.ErrNoRows {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		done, err := r.handle(ctx, rec)
		if err != nil || !done {
			return nil, err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE outbox_events SET processed_at = NOW() WHERE id = $1`, rec.ID); err != nil {
			return nil, err
		}
		return nil, tx.Commit()
	})
	return err
}

func (r *Relay) processUnprocessedEvents(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, batchProcessTimeout)
	defer cancel()

	_, err := r.dbCB.Execute(func() (interface{}, error) {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		rows, err := tx.QueryContext(ctx, `
			SELECT id, event_type, payload
			FROM outbox_events
			WHERE processed_at IS NULL
			ORDER BY created_at
			LIMIT $1
			FOR UPDATE SKIP LOCKED`, maxEventsPerBatch)
		if err != nil {
			return nil, err
		}

		var records []outboxRecord
		for rows.Next() {
			var rec outboxRecord
			if err := rows.Scan(&rec.ID, &rec.EventType, &rec.Payload); err != nil {
				rows.Close()
				return nil, err
			}
			records = append(records, rec)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}

		for _, rec := range records {
			done, err := r.handle(ctx, rec)
			if err != nil {
				r.log.Error("outbox publish failed", zap.String("event_id", rec.ID), zap.Error(err))
				continue
			}
			if !done {
				continue
			}
			if _, err := tx.ExecContext(ctx, `UPDATE outbox_events SET processed_at = NOW() WHERE id = $1`, rec.ID); err != nil {
				return nil, err
			}
			r.log.Debug("outbox event relayed", zap.String("event_id", rec.ID), zap.String("event_type", rec.EventType))
		}
		return nil, tx.Commit()
	})
	return err
}
