package queue

import "context"

// Publisher emits domain events to the broker. The exchange is fixed at
// construction; key is the routing key. Implementations must tolerate
// being absent — callers treat publishing as fire-and-forget.
type Publisher interface {
	Publish(ctx context.Context, key string, event any, reqID string) error
	Close() error
}

type NoopPub struct{}

func NewNoop() Publisher { return NoopPub{} }

func (NoopPub) Publish(ctx context.Context, key string, event any, reqID string) error {
	return nil
}
func (NoopPub) Close() error { return nil }
