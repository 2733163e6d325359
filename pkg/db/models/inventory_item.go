package models

import (
	"time"

	"github.com/google/uuid"
)

// InventoryItem is one ledger row: how many of a named item a user holds.
// Quantity never goes below zero; rows that reach zero are retained.
type InventoryItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:inventory_items_user_id_idx;uniqueIndex:inventory_items_user_item_key"`
	ItemName  string    `gorm:"column:item_name;type:text;not null;uniqueIndex:inventory_items_user_item_key"`
	Quantity  int       `gorm:"column:quantity;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
