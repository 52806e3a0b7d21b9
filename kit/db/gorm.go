package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// MetaEntry is one row of the relational metadata table.
type MetaEntry struct {
	ID        uint      `gorm:"primaryKey"`
	Namespace string    `gorm:"size:16;not null;uniqueIndex:idx_meta_owner_key"`
	OwnerID   string    `gorm:"size:64;not null;uniqueIndex:idx_meta_owner_key"`
	MetaKey   string    `gorm:"size:64;not null;uniqueIndex:idx_meta_owner_key"`
	MetaValue string    `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (MetaEntry) TableName() string { return "slimpay_meta" }

// OpenGorm opens a gorm connection for the given driver ("mysql" or "sqlite").
func OpenGorm(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, errors.Join(ErrInvalid, fmt.Errorf("unsupported db driver %q", driver))
	}

	var (
		gdb *gorm.DB
		err error
	)
	for attempt := 1; attempt <= 3; attempt++ {
		gdb, err = gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
		if err == nil {
			return gdb, nil
		}
		log.Printf("layer=db component=gorm method=OpenGorm driver=%s attempt=%d err=%v", driver, attempt, err)
		time.Sleep(time.Duration(attempt) * 200 * time.Millisecond)
	}
	return nil, errors.Join(ErrUnavailable, err)
}

// MySQLDSN builds a DSN from discrete connection settings.
func MySQLDSN(user, password, host, name string) string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC", user, password, host, name)
}

type GormMetaStore struct {
	db *gorm.DB
}

func NewGormMetaStore(gdb *gorm.DB) (*GormMetaStore, error) {
	if err := gdb.AutoMigrate(&MetaEntry{}); err != nil {
		return nil, errors.Join(ErrInternal, err)
	}
	return &GormMetaStore{db: gdb}, nil
}

func (s *GormMetaStore) GetMeta(ctx context.Context, ns Namespace, ownerID, key string) (string, error) {
	if err := validateMetaKey(ns, ownerID, key); err != nil {
		return "", err
	}
	var entry MetaEntry
	err := s.db.WithContext(ctx).
		Where("namespace = ? AND owner_id = ? AND meta_key = ?", string(ns), ownerID, key).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", errors.Join(ErrInternal, err)
	}
	return entry.MetaValue, nil
}

func (s *GormMetaStore) SetMeta(ctx context.Context, ns Namespace, ownerID, key, value string) error {
	if err := validateMetaKey(ns, ownerID, key); err != nil {
		return err
	}
	entry := MetaEntry{Namespace: string(ns), OwnerID: ownerID, MetaKey: key, MetaValue: value}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}, {Name: "owner_id"}, {Name: "meta_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"meta_value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return errors.Join(ErrInternal, err)
	}
	return nil
}

func (s *GormMetaStore) DeleteMeta(ctx context.Context, ns Namespace, ownerID, key string) error {
	if err := validateMetaKey(ns, ownerID, key); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).
		Where("namespace = ? AND owner_id = ? AND meta_key = ?", string(ns), ownerID, key).
		Delete(&MetaEntry{}).Error
	if err != nil {
		return errors.Join(ErrInternal, err)
	}
	return nil
}

func (s *GormMetaStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	return nil
}
