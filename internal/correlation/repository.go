package correlation

import (
	"context"
	"errors"
	"log"
	"strings"

	"sepagateway/kit/db"
)

const (
	KeyOrderReference = "_slimpay_order_reference"
	KeyDirectDebit    = "_slimpay_direct_debit"
)

var ErrInvalidCorrelation = errors.New("invalid correlation record")

// Repository remembers, per order, the reference of the last signature session
// started for it. Writes overwrite; there is no delete.
type Repository struct {
	meta db.MetaStore
}

func NewRepository(meta db.MetaStore) *Repository {
	return &Repository{meta: meta}
}

func (r *Repository) Put(ctx context.Context, orderID, sessionReference string) error {
	if strings.TrimSpace(orderID) == "" || strings.TrimSpace(sessionReference) == "" {
		return errors.Join(db.ErrInvalid, ErrInvalidCorrelation)
	}
	if err := r.meta.SetMeta(ctx, db.NamespaceOrder, orderID, KeyOrderReference, sessionReference); err != nil {
		log.Printf("layer=repo component=correlation method=Put order_id=%s reference=%s err=%v", orderID, sessionReference, err)
		return err
	}
	return nil
}

// Get returns db.ErrNotFound when no session was started for the order.
func (r *Repository) Get(ctx context.Context, orderID string) (string, error) {
	if strings.TrimSpace(orderID) == "" {
		return "", errors.Join(db.ErrInvalid, ErrInvalidCorrelation)
	}
	ref, err := r.meta.GetMeta(ctx, db.NamespaceOrder, orderID, KeyOrderReference)
	if err != nil {
		if !db.IsNotFound(err) {
			log.Printf("layer=repo component=correlation method=Get order_id=%s err=%v", orderID, err)
		}
		return "", err
	}
	if ref == "" {
		return "", db.ErrNotFound
	}
	return ref, nil
}

// PutDebit records the direct debit created for an order before the order is
// marked paid, so a retried completion reuses it instead of debiting again.
func (r *Repository) PutDebit(ctx context.Context, orderID, debitID string) error {
	if strings.TrimSpace(orderID) == "" || strings.TrimSpace(debitID) == "" {
		return errors.Join(db.ErrInvalid, ErrInvalidCorrelation)
	}
	if err := r.meta.SetMeta(ctx, db.NamespaceOrder, orderID, KeyDirectDebit, debitID); err != nil {
		log.Printf("layer=repo component=correlation method=PutDebit order_id=%s debit_id=%s err=%v", orderID, debitID, err)
		return err
	}
	return nil
}

// GetDebit returns db.ErrNotFound when no debit was created for the order.
func (r *Repository) GetDebit(ctx context.Context, orderID string) (string, error) {
	if strings.TrimSpace(orderID) == "" {
		return "", errors.Join(db.ErrInvalid, ErrInvalidCorrelation)
	}
	id, err := r.meta.GetMeta(ctx, db.NamespaceOrder, orderID, KeyDirectDebit)
	if err != nil {
		if !db.IsNotFound(err) {
			log.Printf("layer=repo component=correlation method=GetDebit order_id=%s err=%v", orderID, err)
		}
		return "", err
	}
	if id == "" {
		return "", db.ErrNotFound
	}
	return id, nil
}
