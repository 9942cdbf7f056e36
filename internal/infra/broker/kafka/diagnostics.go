package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"siteavail/internal/app/policies"
	"siteavail/internal/domain/shared/events"
)

type publisher interface {
	Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error
}

// DiagnosticsPublisher forwards diagnostic events to a Kafka topic keyed by site id.
type DiagnosticsPublisher struct {
	Producer publisher
	Topic    string
}

type envelope struct {
	Event      string          `json:"event"`
	SiteID     string          `json:"site_id"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

func (d DiagnosticsPublisher) Report(ctx context.Context, ev events.DomainEvent) error {
	if d.Producer == nil || d.Topic == "" {
		return errors.New("kafka: diagnostics publisher not configured")
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("kafka: encode %s: %w", ev.EventName(), err)
	}
	body, err := json.Marshal(envelope{
		Event:      ev.EventName(),
		SiteID:     ev.AggregateID(),
		OccurredAt: ev.OccurredAt().UTC(),
		Payload:    payload,
	})
	if err != nil {
		return fmt.Errorf("kafka: encode envelope: %w", err)
	}
	headers := map[string]string{
		"event_name":   ev.EventName(),
		"content_type": "application/json",
	}
	if err := d.Producer.Publish(ctx, d.Topic, ev.AggregateID(), body, headers); err != nil {
		return fmt.Errorf("kafka: publish %s: %w", ev.EventName(), err)
	}
	return nil
}

var _ policies.DiagnosticsPort = DiagnosticsPublisher{}
