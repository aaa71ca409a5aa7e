// Package events publishes job lifecycle notifications for consumers outside
// the process. Delivery is best effort.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/minutes/pkg/models"
	"github.com/nats-io/nats.go"
)

// Kind names what happened to a job. Status changes use the status name.
type Kind string

const (
	KindConfirmed Kind = "confirmed"
	KindExported  Kind = "exported"
)

// Event is the JSON payload published for every lifecycle change.
type Event struct {
	Kind       Kind             `json:"kind"`
	JobID      uuid.UUID        `json:"job_id"`
	Status     models.Status    `json:"status"`
	Filename   string           `json:"filename"`
	Confirmed  bool             `json:"confirmed"`
	Error      string           `json:"error,omitempty"`
	ErrorKind  models.ErrorKind `json:"error_kind,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// NewEvent snapshots job into an Event of the given kind.
func NewEvent(kind Kind, job *models.Job) Event {
	ev := Event{
		Kind:       kind,
		JobID:      job.ID,
		Status:     job.Status,
		Filename:   job.SourceName,
		Confirmed:  job.Confirmed,
		ErrorKind:  job.ErrorKind,
		OccurredAt: time.Now().UTC(),
	}
	if job.Error != nil {
		ev.Error = *job.Error
	}
	return ev
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// NATSPublisher publishes each event on "<prefix>.<kind>".
type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
}

// NewNATSPublisher connects to the NATS server at url.
func NewNATSPublisher(url, prefix string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url, nats.Name("minutes"), nats.MaxReconnects(-1))
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return &NATSPublisher{conn: nc, prefix: prefix}, nil
}

// Subject returns the subject an event of kind is published on.
func (p *NATSPublisher) Subject(kind Kind) string {
	return p.prefix + "." + string(kind)
}

func (p *NATSPublisher) Publish(_ context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}
	if err := p.conn.Publish(p.Subject(ev.Kind), data); err != nil {
		return fmt.Errorf("publishing %s: %w", ev.Kind, err)
	}
	return nil
}

// Ping reports whether the connection is usable.
func (p *NATSPublisher) Ping(_ context.Context) error {
	if !p.conn.IsConnected() {
		return fmt.Errorf("nats connection %s", p.conn.Status())
	}
	return nil
}

// Close flushes pending messages and closes the connection.
func (p *NATSPublisher) Close() {
	_ = p.conn.Drain()
}

// NopPublisher discards events.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

var (
	_ Publisher = (*NATSPublisher)(nil)
	_ Publisher = NopPublisher{}
)
