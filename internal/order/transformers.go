package order

import (
	"time"

	"sepagateway/internal/events"
)

func ToOrder(req CreateRequest) *Order {
	return &Order{
		ID:             req.ID,
		CustomerID:     req.CustomerID,
		Billing:        req.Billing,
		Currency:       req.Currency,
		Total:          req.Total,
		InitialPayment: req.InitialPayment,
		Recurring:      req.Recurring,
		ParentOrderID:  req.ParentOrderID,
		Status:         StatusPending,
	}
}

func ToOrderPaidEvent(o *Order, amount Money) events.OrderPaid {
	return events.OrderPaid{OrderID: o.ID, TransactionID: o.TransactionID, Amount: int64(amount), At: time.Now().UTC()}
}

func ToCartClearedEvent(o *Order) events.CartCleared {
	return events.CartCleared{OrderID: o.ID, CustomerID: o.CustomerID, At: time.Now().UTC()}
}

func ToSubscriptionsActivatedEvent(o *Order) events.SubscriptionsActivated {
	return events.SubscriptionsActivated{OrderID: o.ID, CustomerID: o.CustomerID, At: time.Now().UTC()}
}
