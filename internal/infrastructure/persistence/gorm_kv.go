package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SnapshotRecord is one persisted key-value row.
type SnapshotRecord struct {
	Key   string `gorm:"primaryKey;column:key"`
	Value string `gorm:"column:value"`
}

// TableName returns the table name for snapshot records
func (SnapshotRecord) TableName() string {
	return "snapshots"
}

// GormKV stores snapshots in a relational database (sqlite file by
// default, postgres as an option).
type GormKV struct {
	db *gorm.DB
}

// NewGormKV creates the KV store and migrates its table.
func NewGormKV(db *gorm.DB) (*GormKV, error) {
	if err := db.AutoMigrate(&SnapshotRecord{}); err != nil {
		return nil, err
	}
	return &GormKV{db: db}, nil
}

func (kv *GormKV) Get(ctx context.Context, key string) (string, error) {
	var rec SnapshotRecord
	if err := kv.db.WithContext(ctx).Where("key = ?", key).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrKeyNotFound
		}
		return "", err
	}
	return rec.Value, nil
}

func (kv *GormKV) Set(ctx context.Context, key, value string) error {
	rec := SnapshotRecord{Key: key, Value: value}
	return kv.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(&rec).Error
}

func (kv *GormKV) Del(ctx context.Context, key string) error {
	return kv.db.WithContext(ctx).Where("key = ?", key).Delete(&SnapshotRecord{}).Error
}
