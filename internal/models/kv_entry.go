package models

import "time"

// KVEntry is one durable key-value slot. Values are JSON documents written
// in full on every mutation.
type KVEntry struct {
	Key       string    `json:"key" gorm:"primaryKey;column:slot_key"`
	Value     string    `json:"value" gorm:"type:text;not null"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName returns the table name for the KVEntry model
func (KVEntry) TableName() string {
	return "kv_entries"
}
