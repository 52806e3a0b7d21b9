package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"sepagateway/internal/health"
	"sepagateway/internal/order"
	"sepagateway/internal/payment"
)

type CheckoutServiceMock struct {
	mock.Mock
	CheckoutServiceContract
}

func (m *CheckoutServiceMock) Checkout(ctx context.Context, orderID string) (payment.CheckoutResult, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(payment.CheckoutResult), args.Error(1)
}

func (m *CheckoutServiceMock) ResumeFromCallback(ctx context.Context, orderID string) (payment.CallbackResult, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(payment.CallbackResult), args.Error(1)
}

func (m *CheckoutServiceMock) Confirmation(ctx context.Context, orderID string) (string, error) {
	args := m.Called(ctx, orderID)
	return args.String(0), args.Error(1)
}

func (m *CheckoutServiceMock) Description(ctx context.Context, customerID string) (string, error) {
	args := m.Called(ctx, customerID)
	return args.String(0), args.Error(1)
}

type RecurringServiceMock struct {
	mock.Mock
	RecurringServiceContract
}

func (m *RecurringServiceMock) ChargeRecurring(ctx context.Context, orderID string, amount order.Money) (string, error) {
	args := m.Called(ctx, orderID, amount)
	return args.String(0), args.Error(1)
}

type OrderServiceMock struct {
	mock.Mock
	OrderServiceContract
}

func (m *OrderServiceMock) Create(ctx context.Context, req order.CreateRequest) (*order.Order, error) {
	args := m.Called(ctx, req)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *OrderServiceMock) Get(ctx context.Context, orderID string) (*order.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type HealthMock struct {
	mock.Mock
	HealthContract
}

func (m *HealthMock) Check(ctx context.Context) health.Result {
	args := m.Called(ctx)
	return args.Get(0).(health.Result)
}
