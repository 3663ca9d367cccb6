// Package rabbit publishes messages to a RabbitMQ exchange with publisher
// confirms.
//
// The client declares one durable exchange on connect and re-dials when
// the broker closes the connection. Publish blocks until the broker acks
// the message or the confirm timeout elapses:
//
//	err := client.Publish(ctx, "catalog.version.activated", body, traceHeaders)
//
// # Configuration
//
//	RABBITMQ_HOST=localhost
//	RABBITMQ_PORT=5672
//	RABBITMQ_USER=guest
//	RABBITMQ_PASSWORD=guest
//	RABBITMQ_EXCHANGE=catalog.audit
//	RABBITMQ_EXCHANGE_TYPE=topic
package rabbit
