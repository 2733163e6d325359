package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered trading participant. Immutable after creation
// except for the timestamps.
type User struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Username  string    `gorm:"column:username;type:text;not null;uniqueIndex"`
	Race      string    `gorm:"column:race;type:text;not null;index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
