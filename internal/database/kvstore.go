package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/killallgit/songpeaks/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SlotStore reads and writes whole JSON documents under a string key
type SlotStore interface {
	GetSlot(ctx context.Context, key string) ([]byte, bool, error)
	UpdateSlot(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error
	DeleteSlot(ctx context.Context, key string) error
}

// GetSlot returns the stored value of key; found is false when never written
func (db *DB) GetSlot(ctx context.Context, key string) ([]byte, bool, error) {
	return getSlot(db.DB.WithContext(ctx), key)
}

// UpdateSlot runs a read-modify-write of key inside one transaction.
// fn receives nil when the slot is empty; returning an error aborts the write.
func (db *DB) UpdateSlot(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error {
	return db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, _, err := getSlot(tx, key)
		if err != nil {
			return err
		}
		next, err := fn(current)
		if err != nil {
			return err
		}
		return putSlot(tx, key, next)
	})
}

// DeleteSlot removes key
func (db *DB) DeleteSlot(ctx context.Context, key string) error {
	if err := db.DB.WithContext(ctx).Delete(&models.KVEntry{}, "slot_key = ?", key).Error; err != nil {
		return fmt.Errorf("delete slot %s: %w", key, err)
	}
	return nil
}

func getSlot(tx *gorm.DB, key string) ([]byte, bool, error) {
	var entry models.KVEntry
	err := tx.Where("slot_key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read slot %s: %w", key, err)
	}
	return []byte(entry.Value), true, nil
}

func putSlot(tx *gorm.DB, key string, value []byte) error {
	entry := models.KVEntry{Key: key, Value: string(value)}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("write slot %s: %w", key, err)
	}
	return nil
}

// ListSlots returns every stored slot ordered by key
func (db *DB) ListSlots(ctx context.Context) ([]models.KVEntry, error) {
	var entries []models.KVEntry
	if err := db.DB.WithContext(ctx).Order("slot_key").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return entries, nil
}
