package payment

import (
	"errors"
	"fmt"

	"sepagateway/internal/mandate"
)

var (
	ErrNoPendingOrder    = errors.New("no pending order")
	ErrSignatureFailed   = errors.New("mandate signature failed")
	ErrUnknownState      = errors.New("unknown signature session state")
	ErrMandateInactive   = errors.New("mandate inactive")
	ErrMalformedResponse = errors.New("malformed processor response")
	ErrAlreadyPaid       = errors.New("order already paid")
)

// MandateInactiveError is returned to the billing scheduler when the subscriber has
// no usable mandate any more.
type MandateInactiveError struct {
	Identity      mandate.Identity
	ParentOrderID string
}

func (e *MandateInactiveError) Error() string {
	if e.Identity.IsGuest() {
		return fmt.Sprintf("The mandate of the order ID %q is no longer active.", e.ParentOrderID)
	}
	return fmt.Sprintf("The mandate of the user ID %q is no longer active.", e.Identity.ID())
}

func (e *MandateInactiveError) Is(target error) bool { return target == ErrMandateInactive }

// SignatureError reports a signature session that was closed without completing.
type SignatureError struct {
	OrderID string
	State   string
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("The mandate signature was not completed (state %s).", e.State)
}

func (e *SignatureError) Is(target error) bool { return target == ErrSignatureFailed }

// StateError reports a session state outside the known set.
type StateError struct {
	OrderID string
	State   string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("unknown signature session state %q", e.State)
}

func (e *StateError) Is(target error) bool { return target == ErrUnknownState }

func malformed(what string) error {
	return fmt.Errorf("%w: %s", ErrMalformedResponse, what)
}
