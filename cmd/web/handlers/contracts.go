package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"sepagateway/internal/health"
	"sepagateway/internal/order"
	"sepagateway/internal/payment"
	"sepagateway/internal/readmodels"
)

type CheckoutServiceContract interface {
	Checkout(ctx context.Context, orderID string) (payment.CheckoutResult, error)
	ResumeFromCallback(ctx context.Context, orderID string) (payment.CallbackResult, error)
	Confirmation(ctx context.Context, orderID string) (string, error)
	Description(ctx context.Context, customerID string) (string, error)
}

type RecurringServiceContract interface {
	ChargeRecurring(ctx context.Context, orderID string, amount order.Money) (string, error)
}

type OrderServiceContract interface {
	Create(ctx context.Context, req order.CreateRequest) (*order.Order, error)
	Get(ctx context.Context, orderID string) (*order.Order, error)
}

type SessionContract interface {
	SetPendingOrder(c *fiber.Ctx, orderID string) error
	PendingOrder(c *fiber.Ctx) (string, error)
}

type HealthContract interface {
	Check(ctx context.Context) health.Result
}

type PaymentViewContract interface {
	GetPayment(orderID string) (readmodels.PaymentView, bool)
	GetSubscriber(reference string) (readmodels.SubscriberView, bool)
}
