package handlers

import (
	"context"

	"sepagateway/internal/events"
	"sepagateway/kit/broker"
)

// MetricsContract covers the counters fed by order-side events; payment
// counters are bumped by the payment service itself.
type MetricsContract interface {
	CartsClearedAdd(n int64)
	SubscriptionsActivatedAdd(n int64)
}

type MetricsEvent struct {
	m MetricsContract
}

func NewMetricsEvent(m MetricsContract) *MetricsEvent {
	return &MetricsEvent{m: m}
}

func (h *MetricsEvent) HandleAny(ctx context.Context, evt broker.Event) error {
	if h.m == nil {
		return nil
	}

	switch evt.(type) {
	case events.CartCleared:
		h.m.CartsClearedAdd(1)
	case events.SubscriptionsActivated:
		h.m.SubscriptionsActivatedAdd(1)
	}
	return nil
}
