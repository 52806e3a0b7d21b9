package mandate

import (
	"sepagateway/kit/db"
)

type Kind int

const (
	KindRegistered Kind = iota + 1
	KindGuest
)

const guestPrefix = "guest_"

// Identity is the subscriber a mandate belongs to: a registered customer, or a
// guest tied to the order that created it.
type Identity struct {
	kind Kind
	id   string
}

func Registered(customerID string) Identity {
	return Identity{kind: KindRegistered, id: customerID}
}

func Guest(orderID string) Identity {
	return Identity{kind: KindGuest, id: orderID}
}

func (i Identity) ID() string     { return i.id }
func (i Identity) IsGuest() bool  { return i.kind == KindGuest }
func (i Identity) String() string { return i.SubscriberReference() }

// SubscriberReference is the identifier sent to the processor.
func (i Identity) SubscriberReference() string {
	if i.kind == KindGuest {
		return guestPrefix + i.id
	}
	return i.id
}

// Namespace is where the identity's metadata lives: customer profile or guest order.
func (i Identity) Namespace() db.Namespace {
	if i.kind == KindGuest {
		return db.NamespaceOrder
	}
	return db.NamespaceUser
}

// Mandate is the live state of a mandate as reported by the processor.
type Mandate struct {
	Rum         string `json:"rum"`
	State       string `json:"state"`
	DateCreated string `json:"dateCreated,omitempty"`
}

const StateActive = "active"

func (m Mandate) Active() bool {
	return m.State == StateActive
}
