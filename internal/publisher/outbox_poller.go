package publisher

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fjod/sandwich_shop/internal/repository"
	"github.com/fjod/sandwich_shop/pkg/circuitbreaker"
)

const (
	defaultEventTick = time.Second
	defaultBatchSize = 100
)

// OutboxPoller relays committed outbox events to a Sink. Delivery is at least
// once: an event is marked processed only after the sink accepted it.
type OutboxPoller struct {
	eventTick time.Duration
	batchSize int
	repo      repository.OutboxRepository
	sink      Sink
	breaker   *circuitbreaker.Breaker
	log       *slog.Logger
}

func NewOutboxPoller(repo repository.OutboxRepository, sink Sink, tick time.Duration, batchSize int, log *slog.Logger) *OutboxPoller {
	if tick <= 0 {
		tick = defaultEventTick
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &OutboxPoller{
		eventTick: tick,
		batchSize: batchSize,
		repo:      repo,
		sink:      sink,
		breaker:   circuitbreaker.New(circuitbreaker.DefaultSettings("outbox-publisher"), log),
		log:       log,
	}
}

// Run polls until ctx is cancelled. It always returns nil so an errgroup
// shutdown is not reported as a failure.
func (p *OutboxPoller) Run(ctx context.Context) error {
	eventTicker := time.NewTicker(p.eventTick)
	defer eventTicker.Stop()

	p.log.Info("outbox poller started", "tick", p.eventTick, "batch_size", p.batchSize)
	for {
		select {
		case <-eventTicker.C:
			p.processUnpublishedEvents(ctx)
		case <-ctx.Done():
			p.log.Info("outbox poller stopped")
			return nil
		}
	}
}

// processUnpublishedEvents stops at the first failed publish so later events
// of the same order are not delivered ahead of it.
func (p *OutboxPoller) processUnpublishedEvents(ctx context.Context) int {
	events, err := p.repo.GetUnprocessedEvents(ctx, p.batchSize)
	if err != nil {
		p.log.ErrorContext(ctx, "failed to fetch outbox events", "error", err)
		return 0
	}

	published := 0
	for _, event := range events {
		err := p.breaker.Execute(func() error {
			return p.sink.Publish(ctx, event)
		})
		if errors.Is(err, circuitbreaker.ErrOpen) {
			p.log.WarnContext(ctx, "publisher circuit open, postponing batch", "pending", len(events)-published)
			return published
		}
		if err != nil {
			p.log.ErrorContext(ctx, "failed to publish outbox event",
				"event_id", event.ID, "event_type", event.EventType, "error", err)
			return published
		}

		if err := p.repo.MarkEventAsProcessed(ctx, event.ID); err != nil {
			p.log.ErrorContext(ctx, "failed to mark outbox event processed", "event_id", event.ID, "error", err)
			return published
		}
		published++
	}
	return published
}

func (p *OutboxPoller) Close() error {
	return p.sink.Close()
}
