package publisher

import (
	"context"

	"github.com/fjod/sandwich_shop/internal/repository"
)

// Sink delivers one outbox event to a broker. The aggregate id is the
// partition or routing key so events of one order stay ordered.
type Sink interface {
	Publish(ctx context.Context, event *repository.OutboxEvent) error
	Close() error
}
