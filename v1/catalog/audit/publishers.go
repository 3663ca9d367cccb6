package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Aleph-Alpha/catalog-ingest/v1/kafka"
	"github.com/Aleph-Alpha/catalog-ingest/v1/rabbit"
)

// RabbitPublisher routes each event by its action name.
type RabbitPublisher struct {
	client *rabbit.RabbitClient
}

func NewRabbitPublisher(client *rabbit.RabbitClient) *RabbitPublisher {
	return &RabbitPublisher{client: client}
}

func (p *RabbitPublisher) Publish(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode audit event: %w", err)
	}
	headers := make(map[string]interface{}, len(ev.Trace))
	for k, v := range ev.Trace {
		headers[k] = v
	}
	return p.client.Publish(ctx, string(ev.Action), body, headers)
}

// KafkaPublisher keys each event by provider so one provider's events stay ordered.
type KafkaPublisher struct {
	client *kafka.KafkaClient
}

func NewKafkaPublisher(client *kafka.KafkaClient) *KafkaPublisher {
	return &KafkaPublisher{client: client}
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode audit event: %w", err)
	}
	headers := map[string]string{"action": string(ev.Action)}
	for k, v := range ev.Trace {
		headers[k] = v
	}
	return p.client.Publish(ctx, []byte(ev.Metadata[KeyProviderID]), body, headers)
}
