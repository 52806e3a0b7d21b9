package order

import "context"

// RepositoryContract define order repository responsibility.
type RepositoryContract interface {
	Save(ctx context.Context, o *Order) error
	Get(ctx context.Context, orderID string) (*Order, error)
}

// ServiceContract define the order collaborator used by the payment flow.
type ServiceContract interface {
	Create(ctx context.Context, req CreateRequest) (*Order, error)
	Get(ctx context.Context, orderID string) (*Order, error)
	MarkPaid(ctx context.Context, orderID, transactionID string) (*Order, error)
	ClearCart(ctx context.Context, o *Order) error
	ActivateSubscriptions(ctx context.Context, o *Order) error
}
