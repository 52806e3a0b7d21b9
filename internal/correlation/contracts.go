package correlation

import "context"

// RepositoryContract define order -> signature session correlation responsibility.
type RepositoryContract interface {
	Put(ctx context.Context, orderID, sessionReference string) error
	Get(ctx context.Context, orderID string) (string, error)
	PutDebit(ctx context.Context, orderID, debitID string) error
	GetDebit(ctx context.Context, orderID string) (string, error)
}
