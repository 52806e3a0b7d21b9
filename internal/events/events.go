package events

import "time"

type SignatureStarted struct {
	OrderID             string    `json:"order_id"`
	SubscriberReference string    `json:"subscriber_reference"`
	SessionReference    string    `json:"session_reference"`
	At                  time.Time `json:"at"`
}

func (SignatureStarted) Name() string { return "payment.signature_started" }

func (e SignatureStarted) PartitionKey() string { return e.OrderID }

type SignatureFailed struct {
	OrderID             string    `json:"order_id"`
	SubscriberReference string    `json:"subscriber_reference"`
	SessionReference    string    `json:"session_reference"`
	State               string    `json:"state"`
	Reason              string    `json:"reason"`
	At                  time.Time `json:"at"`
}

func (SignatureFailed) Name() string { return "payment.signature_failed" }

func (e SignatureFailed) PartitionKey() string { return e.OrderID }

type MandateStored struct {
	SubscriberReference string    `json:"subscriber_reference"`
	Rum                 string    `json:"rum"`
	OrderID             string    `json:"order_id"`
	At                  time.Time `json:"at"`
}

func (MandateStored) Name() string { return "mandate.stored" }

func (e MandateStored) PartitionKey() string { return e.SubscriberReference }

type MandateInvalidated struct {
	SubscriberReference string    `json:"subscriber_reference"`
	Rum                 string    `json:"rum"`
	State               string    `json:"state"`
	At                  time.Time `json:"at"`
}

func (MandateInvalidated) Name() string { return "mandate.invalidated" }

func (e MandateInvalidated) PartitionKey() string { return e.SubscriberReference }

type DirectDebitCreated struct {
	OrderID          string    `json:"order_id"`
	DirectDebitID    string    `json:"direct_debit_id"`
	PaymentReference string    `json:"payment_reference"`
	Rum              string    `json:"rum"`
	Amount           int64     `json:"amount"`
	At               time.Time `json:"at"`
}

func (DirectDebitCreated) Name() string { return "payment.debit_created" }

func (e DirectDebitCreated) PartitionKey() string { return e.OrderID }

type OrderPaid struct {
	OrderID       string    `json:"order_id"`
	TransactionID string    `json:"transaction_id"`
	Amount        int64     `json:"amount"`
	At            time.Time `json:"at"`
}

func (OrderPaid) Name() string { return "order.paid" }

func (e OrderPaid) PartitionKey() string { return e.OrderID }

type CartCleared struct {
	OrderID    string    `json:"order_id"`
	CustomerID string    `json:"customer_id"`
	At         time.Time `json:"at"`
}

func (CartCleared) Name() string { return "order.cart_cleared" }

func (e CartCleared) PartitionKey() string { return e.OrderID }

type SubscriptionsActivated struct {
	OrderID    string    `json:"order_id"`
	CustomerID string    `json:"customer_id"`
	At         time.Time `json:"at"`
}

func (SubscriptionsActivated) Name() string { return "order.subscriptions_activated" }

func (e SubscriptionsActivated) PartitionKey() string { return e.OrderID }

type RecurringChargeFailed struct {
	OrderID             string    `json:"order_id"`
	ParentOrderID       string    `json:"parent_order_id"`
	SubscriberReference string    `json:"subscriber_reference"`
	Amount              int64     `json:"amount"`
	Reason              string    `json:"reason"`
	MandateInactive     bool      `json:"mandate_inactive"`
	At                  time.Time `json:"at"`
}

func (RecurringChargeFailed) Name() string { return "payment.recurring_failed" }

func (e RecurringChargeFailed) PartitionKey() string { return e.ParentOrderID }

// Names lists every lifecycle event published by the order and payment services.
func Names() []string {
	return []string{
		(SignatureStarted{}).Name(),
		(SignatureFailed{}).Name(),
		(MandateStored{}).Name(),
		(MandateInvalidated{}).Name(),
		(DirectDebitCreated{}).Name(),
		(OrderPaid{}).Name(),
		(CartCleared{}).Name(),
		(SubscriptionsActivated{}).Name(),
		(RecurringChargeFailed{}).Name(),
	}
}
