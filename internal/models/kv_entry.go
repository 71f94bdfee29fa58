package models

import (
	"time"

	"gorm.io/datatypes"
)

// KVEntry is one named slot of a device's key-value namespace.
type KVEntry struct {
	Owner     string         `gorm:"size:64;primaryKey" json:"owner"`
	Slot      string         `gorm:"size:64;primaryKey" json:"slot"`
	Value     datatypes.JSON `gorm:"not null" json:"value"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (KVEntry) TableName() string { return "kv_entries" }
