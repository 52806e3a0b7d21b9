package mandate

import (
	"context"
	"errors"
	"log"

	"sepagateway/kit/db"
)

const KeyActiveMandate = "_slimpay_active_mandate"

// Repository caches the rum of each subscriber's active mandate in the metadata
// store of the subscriber's namespace.
type Repository struct {
	meta db.MetaStore
}

func NewRepository(meta db.MetaStore) *Repository {
	return &Repository{meta: meta}
}

// Get returns db.ErrNotFound when no mandate is cached.
func (r *Repository) Get(ctx context.Context, id Identity) (string, error) {
	if err := ValidateIdentity(id); err != nil {
		return "", errors.Join(db.ErrInvalid, err)
	}
	rum, err := r.meta.GetMeta(ctx, id.Namespace(), id.ID(), KeyActiveMandate)
	if err != nil {
		if !db.IsNotFound(err) {
			log.Printf("layer=repo component=mandate method=Get subscriber=%s err=%v", id, err)
		}
		return "", err
	}
	if rum == "" {
		return "", db.ErrNotFound
	}
	return rum, nil
}

func (r *Repository) Put(ctx context.Context, id Identity, rum string) error {
	if err := ValidateIdentity(id); err != nil {
		return errors.Join(db.ErrInvalid, err)
	}
	if err := ValidateRum(rum); err != nil {
		return errors.Join(db.ErrInvalid, err)
	}
	if err := r.meta.SetMeta(ctx, id.Namespace(), id.ID(), KeyActiveMandate, rum); err != nil {
		log.Printf("layer=repo component=mandate method=Put subscriber=%s rum=%s err=%v", id, rum, err)
		return err
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id Identity) error {
	if err := ValidateIdentity(id); err != nil {
		return errors.Join(db.ErrInvalid, err)
	}
	if err := r.meta.DeleteMeta(ctx, id.Namespace(), id.ID(), KeyActiveMandate); err != nil {
		log.Printf("layer=repo component=mandate method=Delete subscriber=%s err=%v", id, err)
		return err
	}
	return nil
}
