package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/boltdb/bolt"
)

// BoltMetaStore persists metadata in a single bolt file, one bucket per namespace.
type BoltMetaStore struct {
	db *bolt.DB
}

func bucketName(ns Namespace) []byte {
	return []byte("meta_" + string(ns))
}

func boltKey(ownerID, key string) []byte {
	return []byte(ownerID + "\x00" + key)
}

func NewBoltMetaStore(path string) (*BoltMetaStore, error) {
	bdb, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, errors.Join(ErrUnavailable, fmt.Errorf("open bolt %s: %w", path, err))
	}
	err = bdb.Update(func(tx *bolt.Tx) error {
		for _, ns := range []Namespace{NamespaceUser, NamespaceOrder} {
			if _, err := tx.CreateBucketIfNotExists(bucketName(ns)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = bdb.Close()
		return nil, errors.Join(ErrInternal, err)
	}
	return &BoltMetaStore{db: bdb}, nil
}

func (s *BoltMetaStore) GetMeta(_ context.Context, ns Namespace, ownerID, key string) (string, error) {
	if err := validateMetaKey(ns, ownerID, key); err != nil {
		return "", err
	}
	var (
		value string
		found bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName(ns))
		if b == nil {
			return nil
		}
		if v := b.Get(boltKey(ownerID, key)); v != nil {
			value, found = string(v), true
		}
		return nil
	})
	if err != nil {
		return "", errors.Join(ErrInternal, err)
	}
	if !found {
		return "", ErrNotFound
	}
	return value, nil
}

func (s *BoltMetaStore) SetMeta(_ context.Context, ns Namespace, ownerID, key, value string) error {
	if err := validateMetaKey(ns, ownerID, key); err != nil {
		return err
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketName(ns))
		if err != nil {
			return err
		}
		return b.Put(boltKey(ownerID, key), []byte(value))
	})
	if err != nil {
		return errors.Join(ErrInternal, err)
	}
	return nil
}

func (s *BoltMetaStore) DeleteMeta(_ context.Context, ns Namespace, ownerID, key string) error {
	if err := validateMetaKey(ns, ownerID, key); err != nil {
		return err
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName(ns))
		if b == nil {
			return nil
		}
		return b.Delete(boltKey(ownerID, key))
	})
	if err != nil {
		return errors.Join(ErrInternal, err)
	}
	return nil
}

func (s *BoltMetaStore) Ping(context.Context) error {
	return s.db.View(func(*bolt.Tx) error { return nil })
}

func (s *BoltMetaStore) Close() error {
	return s.db.Close()
}
