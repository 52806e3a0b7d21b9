package payment

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"sepagateway/internal/order"
	"sepagateway/kit/db"
	"sepagateway/kit/hapi"
)

const GenericFailureMessage = "The payment could not be processed. Please try again later."

// Classify turns any failure into a message that can be shown to the customer or
// handed to the billing scheduler. It never panics.
func Classify(err error) (msg string) {
	defer func() {
		if r := recover(); r != nil {
			msg = GenericFailureMessage
		}
	}()

	if err == nil {
		return GenericFailureMessage
	}
	if he, ok := hapi.AsError(err); ok {
		if m, code, ok := he.APIMessage(); ok {
			if code != "" {
				return fmt.Sprintf("%s (%s)", m, code)
			}
			return m
		}
		if s := strings.TrimSpace(he.Status + " " + he.Body); s != "" {
			return s
		}
		return GenericFailureMessage
	}
	if s := strings.TrimSpace(err.Error()); s != "" {
		return s
	}
	return GenericFailureMessage
}

// Retryable reports whether the caller may try the same operation again later.
// The payment flow itself never retries.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	for _, fatal := range []error{
		ErrMandateInactive, ErrSignatureFailed, ErrUnknownState, ErrNoPendingOrder,
		ErrMalformedResponse, ErrAlreadyPaid, db.ErrInvalid, db.ErrNotFound,
		order.ErrInvalidAmount, hapi.ErrLinkNotFound, context.Canceled,
	} {
		if errors.Is(err, fatal) {
			return false
		}
	}
	for _, transient := range []error{hapi.ErrCircuitOpen, context.DeadlineExceeded, db.ErrUnavailable} {
		if errors.Is(err, transient) {
			return true
		}
	}
	if he, ok := hapi.AsError(err); ok {
		return he.Temporary()
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
