// Package events publishes argument lifecycle notifications.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// Subjects published by the service.
const (
	SubjectArgumentSaved   = "debate.argument.saved"
	SubjectArgumentDeleted = "debate.argument.deleted"
	SubjectUsageUpdated    = "debate.usage.updated"
)

// Event is the JSON payload sent on every subject.
type Event struct {
	Subject    string    `json:"subject"`
	Owner      string    `json:"email,omitempty"`
	ArgumentID int64     `json:"argument_id,omitempty"`
	Score      float64   `json:"score,omitempty"`
	Category   string    `json:"category,omitempty"`
	Seconds    int64     `json:"seconds,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher delivers events. Implementations must not block callers for long.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close()
}

// Noop discards every event.
type Noop struct{}

// Publish does nothing.
func (Noop) Publish(context.Context, Event) error { return nil }

// Close does nothing.
func (Noop) Close() {}

// NATSPublisher publishes events as core NATS messages.
type NATSPublisher struct {
	conn *nats.Conn
	log  *slog.Logger
}

// ConnectNATS dials url and returns a publisher.
func ConnectNATS(url string, log *slog.Logger) (*NATSPublisher, error) {
	if url == "" {
		return nil, fmt.Errorf("no NATS url configured")
	}
	if log == nil {
		log = slog.Default()
	}

	conn, err := nats.Connect(url,
		nats.Name("debate-coach"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}

	log.Info("Connected to NATS", "url", url)
	return &NATSPublisher{conn: conn, log: log}, nil
}

// Publish marshals ev and publishes it on ev.Subject.
func (p *NATSPublisher) Publish(_ context.Context, ev Event) error {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.conn.Publish(ev.Subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", ev.Subject, err)
	}
	return nil
}

// Healthy reports whether the connection is up.
func (p *NATSPublisher) Healthy() bool {
	return p != nil && p.conn != nil && p.conn.Status() == nats.CONNECTED
}

// Close drains and closes the connection.
func (p *NATSPublisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	p.log.Info("Closing NATS connection")
	if err := p.conn.Drain(); err != nil {
		p.log.Warn("NATS drain failed", "error", err)
	}
	p.conn.Close()
}
