package payment

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"sepagateway/internal/order"
	"sepagateway/kit/broker"
	"sepagateway/kit/db"
)

type OrderServiceMock struct {
	mock.Mock
	OrderServiceContract
}

func (m *OrderServiceMock) Get(ctx context.Context, orderID string) (*order.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *OrderServiceMock) MarkPaid(ctx context.Context, orderID, transactionID string) (*order.Order, error) {
	args := m.Called(ctx, orderID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *OrderServiceMock) ClearCart(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *OrderServiceMock) ActivateSubscriptions(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

type CorrelationRepositoryMock struct {
	mock.Mock
	CorrelationRepositoryContract
}

func (m *CorrelationRepositoryMock) GetDebit(ctx context.Context, orderID string) (string, error) {
	args := m.Called(ctx, orderID)
	return args.String(0), args.Error(1)
}

func (m *CorrelationRepositoryMock) PutDebit(ctx context.Context, orderID, debitID string) error {
	args := m.Called(ctx, orderID, debitID)
	return args.Error(0)
}

// flakyOrders is a real order service whose next MarkPaid calls fail.
type flakyOrders struct {
	*order.Service
	mu       sync.Mutex
	failures int
}

func (f *flakyOrders) MarkPaid(ctx context.Context, orderID, transactionID string) (*order.Order, error) {
	f.mu.Lock()
	if f.failures > 0 {
		f.failures--
		f.mu.Unlock()
		return nil, db.ErrInternal
	}
	f.mu.Unlock()
	return f.Service.MarkPaid(ctx, orderID, transactionID)
}

// recorder collects every published event.
type recorder struct {
	mu     sync.Mutex
	events []broker.Event
}

func (r *recorder) Publish(_ context.Context, evt broker.Event) []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	return nil
}

func (r *recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Name())
	}
	return out
}

func (r *recorder) Find(name string) (broker.Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.Name() == name {
			return e, true
		}
	}
	return nil, false
}
