package handlers

import (
	"context"
	"fmt"

	"sepagateway/internal/events"
	"sepagateway/internal/notification"
	"sepagateway/kit/broker"
)

type NotifierContract interface {
	Notify(ctx context.Context, recipient, subject, body string)
}

type NotificationEvent struct {
	n NotifierContract
}

func NewNotificationEvent(n NotifierContract) *NotificationEvent {
	return &NotificationEvent{n: n}
}

// HandleRecurringChargeFailed tells the subscriber a scheduled payment was not
// collected, asking for a new mandate when the old one is no longer active.
func (h *NotificationEvent) HandleRecurringChargeFailed(ctx context.Context, evt broker.Event) error {
	if h.n == nil {
		return nil
	}
	e, ok := evt.(events.RecurringChargeFailed)
	if !ok {
		return fmt.Errorf("%w event type: %T", ErrUnexpectedEventType, evt)
	}
	if e.MandateInactive {
		h.n.Notify(ctx, e.SubscriberReference, "Direct-debit mandate no longer active", notification.MandateReauthorizationBody(e.Reason))
		return nil
	}
	h.n.Notify(ctx, e.SubscriberReference, "Scheduled payment failed", notification.RecurringFailureBody(e.Reason))
	return nil
}

func (h *NotificationEvent) HandleSignatureFailed(ctx context.Context, evt broker.Event) error {
	if h.n == nil {
		return nil
	}
	e, ok := evt.(events.SignatureFailed)
	if !ok {
		return fmt.Errorf("%w event type: %T", ErrUnexpectedEventType, evt)
	}
	h.n.Notify(ctx, e.SubscriberReference, "Mandate signature not completed", notification.SignatureFailedBody(e.OrderID))
	return nil
}
