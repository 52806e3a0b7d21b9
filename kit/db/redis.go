package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisMetaStore keeps one hash per (namespace, owner).
type RedisMetaStore struct {
	client *redis.Client
	prefix string
}

func NewRedisMetaStore(client *redis.Client) *RedisMetaStore {
	return &RedisMetaStore{client: client, prefix: "slimpay:meta"}
}

func NewRedisClient(host, port, password string, database int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: password,
		DB:       database,
	})
}

func (s *RedisMetaStore) hashKey(ns Namespace, ownerID string) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, ns, ownerID)
}

func (s *RedisMetaStore) GetMeta(ctx context.Context, ns Namespace, ownerID, key string) (string, error) {
	if err := validateMetaKey(ns, ownerID, key); err != nil {
		return "", err
	}
	v, err := s.client.HGet(ctx, s.hashKey(ns, ownerID), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", errors.Join(ErrUnavailable, err)
	}
	return v, nil
}

func (s *RedisMetaStore) SetMeta(ctx context.Context, ns Namespace, ownerID, key, value string) error {
	if err := validateMetaKey(ns, ownerID, key); err != nil {
		return err
	}
	if err := s.client.HSet(ctx, s.hashKey(ns, ownerID), key, value).Err(); err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	return nil
}

func (s *RedisMetaStore) DeleteMeta(ctx context.Context, ns Namespace, ownerID, key string) error {
	if err := validateMetaKey(ns, ownerID, key); err != nil {
		return err
	}
	if err := s.client.HDel(ctx, s.hashKey(ns, ownerID), key).Err(); err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	return nil
}

func (s *RedisMetaStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	return nil
}
