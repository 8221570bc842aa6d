package models

import (
	"time"

	"cafebudget/internal/uuid"

	"gorm.io/gorm"
)

// Base contains common columns for all tables. Budget rows are hard-deleted:
// a soft-deleted row would still hold its month in the unique indexes.
type Base struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}
