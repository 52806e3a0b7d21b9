package payment

import (
	"context"

	"sepagateway/internal/mandate"
	"sepagateway/internal/order"
	"sepagateway/kit/broker"
	"sepagateway/kit/hapi"
)

// ServiceContract define the mandate / direct-debit orchestration responsibility.
type ServiceContract interface {
	Checkout(ctx context.Context, orderID string) (CheckoutResult, error)
	DecidePaymentPath(ctx context.Context, o *order.Order) (Decision, error)
	InitiateSignature(ctx context.Context, id mandate.Identity, o *order.Order) (string, error)
	ResumeFromCallback(ctx context.Context, orderID string) (CallbackResult, error)
	CompleteSignature(ctx context.Context, id mandate.Identity, session *hapi.Resource) (string, error)
	ChargeDirect(ctx context.Context, rum string, o *order.Order, recurring bool) (string, error)
	ChargeRecurring(ctx context.Context, orderID string, amount order.Money) (string, error)
	ValidateActiveMandate(ctx context.Context, id mandate.Identity) (mandate.Mandate, bool, error)
	GetDirectDebit(ctx context.Context, id string) (DirectDebit, error)
	Confirmation(ctx context.Context, orderID string) (string, error)
	Description(ctx context.Context, customerID string) (string, error)
}

// OrderServiceContract is the part of the order collaborator the payment flow needs.
type OrderServiceContract interface {
	Get(ctx context.Context, orderID string) (*order.Order, error)
	MarkPaid(ctx context.Context, orderID, transactionID string) (*order.Order, error)
	ClearCart(ctx context.Context, o *order.Order) error
	ActivateSubscriptions(ctx context.Context, o *order.Order) error
}

// MandateRepositoryContract define active mandate cache responsibility.
type MandateRepositoryContract interface {
	Get(ctx context.Context, id mandate.Identity) (string, error)
	Put(ctx context.Context, id mandate.Identity, rum string) error
	Delete(ctx context.Context, id mandate.Identity) error
}

// CorrelationRepositoryContract define order -> session reference responsibility.
type CorrelationRepositoryContract interface {
	Put(ctx context.Context, orderID, sessionReference string) error
	Get(ctx context.Context, orderID string) (string, error)
	PutDebit(ctx context.Context, orderID, debitID string) error
	GetDebit(ctx context.Context, orderID string) (string, error)
}

// PublisherContract define publish responsibility (broker).
type PublisherContract interface {
	Publish(ctx context.Context, evt broker.Event) []error
}
