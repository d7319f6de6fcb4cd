package pubsub

import "context"

// Client publishes msgpack-encoded messages to Pub/Sub topics.
type Client interface {
	SendMessage(ctx context.Context, topic string, data any) error
	ProcessMessage(data []byte, returnValue any) error
	Close() error
}
