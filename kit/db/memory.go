package db

import (
	"context"
	"sync"
)

type metaKey struct {
	ns    Namespace
	owner string
	key   string
}

// InMemoryMetaStore keeps metadata in process memory. Used by tests and the
// "memory" store driver.
type InMemoryMetaStore struct {
	mu   sync.RWMutex
	data map[metaKey]string
}

func NewInMemoryMetaStore() *InMemoryMetaStore {
	return &InMemoryMetaStore{data: make(map[metaKey]string)}
}

func (s *InMemoryMetaStore) GetMeta(_ context.Context, ns Namespace, ownerID, key string) (string, error) {
	if err := validateMetaKey(ns, ownerID, key); err != nil {
		return "", err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[metaKey{ns, ownerID, key}]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *InMemoryMetaStore) SetMeta(_ context.Context, ns Namespace, ownerID, key, value string) error {
	if err := validateMetaKey(ns, ownerID, key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[metaKey{ns, ownerID, key}] = value
	return nil
}

func (s *InMemoryMetaStore) DeleteMeta(_ context.Context, ns Namespace, ownerID, key string) error {
	if err := validateMetaKey(ns, ownerID, key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, metaKey{ns, ownerID, key})
	return nil
}

func (s *InMemoryMetaStore) Ping(context.Context) error { return nil }
