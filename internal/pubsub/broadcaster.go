package pubsub

import "context"

type Broadcaster interface {
	// Subject returns the full subject for a chain/symbol pair,
	// including the configured prefix.
	Subject(chainID, symbol string) string
	Publish(ctx context.Context, subject string, data interface{}) error
	Health(ctx context.Context) error
}
