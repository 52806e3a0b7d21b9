package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Namespace separates metadata owned by a customer account from metadata
// owned by a single order. The same owner id in two namespaces never collides.
type Namespace string

const (
	NamespaceUser  Namespace = "user"
	NamespaceOrder Namespace = "order"
)

func (n Namespace) Valid() bool {
	return n == NamespaceUser || n == NamespaceOrder
}

// MetaStore is a key/value store scoped by (namespace, owner).
type MetaStore interface {
	// GetMeta returns ErrNotFound when nothing is stored for the key.
	GetMeta(ctx context.Context, ns Namespace, ownerID, key string) (string, error)
	SetMeta(ctx context.Context, ns Namespace, ownerID, key, value string) error
	// DeleteMeta is idempotent.
	DeleteMeta(ctx context.Context, ns Namespace, ownerID, key string) error
	Ping(ctx context.Context) error
}

func validateMetaKey(ns Namespace, ownerID, key string) error {
	if !ns.Valid() {
		return errors.Join(ErrInvalid, fmt.Errorf("unknown namespace %q", ns))
	}
	if strings.TrimSpace(ownerID) == "" {
		return errors.Join(ErrInvalid, errors.New("owner id is required"))
	}
	if strings.TrimSpace(key) == "" {
		return errors.Join(ErrInvalid, errors.New("meta key is required"))
	}
	return nil
}
