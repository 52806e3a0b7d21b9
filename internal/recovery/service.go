package recovery

import (
	"context"
	"errors"
	"sync/atomic"

	"sepagateway/kit/broker"
	"sepagateway/kit/observability"
)

// Service collects lifecycle events that at least one consumer failed to handle.
// The payment flow never waits on consumers, so these are only reported.
type Service struct {
	logger  *observability.Logger
	dropped atomic.Int64
}

func NewService(logger *observability.Logger) *Service {
	return &Service{logger: logger}
}

func (s *Service) SendToDLQ(ctx context.Context, topic string, reason string, payload any) {
	s.dropped.Add(1)
	if s.logger == nil {
		return
	}
	s.logger.Error("dead letter", "event", topic, "reason", reason, "payload", payload)
}

// Dropped is the number of deliveries sent to the dead letter log.
func (s *Service) Dropped() int64 { return s.dropped.Load() }

// Publisher forwards events to next and dead-letters every failed delivery.
type Publisher struct {
	next broker.Publisher
	dlq  *Service
}

func NewPublisher(next broker.Publisher, dlq *Service) *Publisher {
	return &Publisher{next: next, dlq: dlq}
}

func (p *Publisher) Publish(ctx context.Context, evt broker.Event) []error {
	errs := p.next.Publish(ctx, evt)
	if len(errs) > 0 && p.dlq != nil {
		p.dlq.SendToDLQ(ctx, evt.Name(), errors.Join(errs...).Error(), evt)
	}
	return errs
}
