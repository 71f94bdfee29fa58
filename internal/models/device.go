package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Device is an installed app instance. Its ID is also the owner of its
// key-value slots.
type Device struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	SecretHash string         `gorm:"not null" json:"-"`
	Platform   string         `gorm:"size:20" json:"platform"`
	LastSeenAt time.Time      `json:"last_seen_at"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
