package db

import (
	"time"

	"gorm.io/datatypes"
)

// SessionSnapshot holds one full session aggregate per id, re-loadable
// verbatim. Phase is denormalized for operational queries only.
type SessionSnapshot struct {
	ID        string         `gorm:"primaryKey;size:64"`
	Phase     string         `gorm:"size:32;not null;index"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null"`
}
