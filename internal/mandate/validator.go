package mandate

import (
	"errors"
	"strings"
)

var (
	ErrInvalidIdentity = errors.New("invalid subscriber identity")
	ErrInvalidRum      = errors.New("invalid mandate reference")
)

// ValidateIdentity rejects empty identities and registered ids that would read as a
// guest reference on the processor side.
func ValidateIdentity(i Identity) error {
	if i.kind != KindRegistered && i.kind != KindGuest {
		return ErrInvalidIdentity
	}
	if strings.TrimSpace(i.id) == "" {
		return ErrInvalidIdentity
	}
	if i.kind == KindRegistered && strings.HasPrefix(i.id, guestPrefix) {
		return ErrInvalidIdentity
	}
	return nil
}

func ValidateRum(rum string) error {
	if strings.TrimSpace(rum) == "" {
		return ErrInvalidRum
	}
	return nil
}
