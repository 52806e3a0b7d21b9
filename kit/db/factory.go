package db

import (
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// MetaStoreOptions carries what each driver needs; unused fields are ignored.
type MetaStoreOptions struct {
	Driver   string
	BoltPath string
	Redis    *redis.Client
	Gorm     *gorm.DB
}

// OpenMetaStore builds the MetaStore selected by opts.Driver.
func OpenMetaStore(opts MetaStoreOptions) (MetaStore, error) {
	switch opts.Driver {
	case "", "memory":
		return NewInMemoryMetaStore(), nil
	case "bolt":
		return NewBoltMetaStore(opts.BoltPath)
	case "redis":
		if opts.Redis == nil {
			return nil, errors.Join(ErrInvalid, errors.New("redis client is required"))
		}
		return NewRedisMetaStore(opts.Redis), nil
	case "gorm":
		if opts.Gorm == nil {
			return nil, errors.Join(ErrInvalid, errors.New("gorm connection is required"))
		}
		return NewGormMetaStore(opts.Gorm)
	default:
		return nil, errors.Join(ErrInvalid, fmt.Errorf("unsupported store driver %q", opts.Driver))
	}
}
