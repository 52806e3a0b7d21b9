package mandate

import "context"

// RepositoryContract define active mandate cache responsibility.
type RepositoryContract interface {
	Get(ctx context.Context, id Identity) (string, error)
	Put(ctx context.Context, id Identity, rum string) error
	Delete(ctx context.Context, id Identity) error
}
