package messaging

import "context"

// Broker is the fanout side of the notification pipeline. The registry
// never talks to it directly; the outbox processor does.
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// Message is the on-wire envelope for published notifications.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
