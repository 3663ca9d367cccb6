// Package kafka produces messages to a Kafka topic with segmentio/kafka-go.
//
// It is used as an alternative transport for catalog audit events:
//
//	client, err := kafka.NewClient(cfg)
//	err = client.Publish(ctx, []byte(providerID), body, map[string]string{"action": "catalog.version.failed"})
//
// Messages are keyed so all events of one provider land in the same
// partition and keep their order.
//
// # Configuration
//
//	KAFKA_BROKERS=localhost:9092
//	KAFKA_TOPIC=catalog-audit
//	KAFKA_REQUIRED_ACKS=-1
//	KAFKA_SASL_ENABLED=false
//	KAFKA_SASL_MECHANISM=PLAIN
package kafka
