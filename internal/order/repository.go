package order

import (
	"context"
	"errors"
	"log"
	"sync"

	"gorm.io/gorm"

	"sepagateway/kit/db"
)

type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(gdb *gorm.DB) (*GormRepository, error) {
	if err := gdb.AutoMigrate(&Order{}); err != nil {
		log.Printf("layer=repo component=order repo=GormRepository method=NewGormRepository err=%v", err)
		return nil, errors.Join(db.ErrInternal, err)
	}
	return &GormRepository{db: gdb}, nil
}

func (r *GormRepository) Save(ctx context.Context, o *Order) error {
	if err := r.db.WithContext(ctx).Save(o).Error; err != nil {
		log.Printf("layer=repo component=order repo=GormRepository method=Save order_id=%s err=%v", o.ID, err)
		return errors.Join(db.ErrInternal, err)
	}
	return nil
}

func (r *GormRepository) Get(ctx context.Context, orderID string) (*Order, error) {
	var o Order
	err := r.db.WithContext(ctx).First(&o, "id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		log.Printf("layer=repo component=order repo=GormRepository method=Get order_id=%s err=%v", orderID, err)
		return nil, errors.Join(db.ErrInternal, err)
	}
	return &o, nil
}

type InMemoryRepository struct {
	mu   sync.Mutex
	data map[string]*Order
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{data: make(map[string]*Order)}
}

func (r *InMemoryRepository) Save(ctx context.Context, o *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cpy := *o
	r.data[o.ID] = &cpy
	return nil
}

func (r *InMemoryRepository) Get(ctx context.Context, orderID string) (*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.data[orderID]
	if !ok {
		return nil, db.ErrNotFound
	}
	cpy := *o
	return &cpy, nil
}
