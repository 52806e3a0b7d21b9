package handlers

import (
	"errors"

	"sepagateway/kit/broker"
)

var ErrUnexpectedEventType = errors.New("unexpected")

// SubscriberContract is the subscribe side of the bus.
type SubscriberContract interface {
	Subscribe(eventName string, h broker.Handler)
}
