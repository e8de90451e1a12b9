package interfaces

import "context"

// -----------------------------------------------------------------------------
// IEventPublisher fans state changes out to other systems.
// -----------------------------------------------------------------------------

type IEventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{}) error
	Close() error
}
