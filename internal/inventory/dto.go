package inventory

import (
	"github.com/google/uuid"

	"github.com/osgiliath-dev/tradepost/pkg/db/models"
)

// ItemDTO is the transport shape of one ledger row.
type ItemDTO struct {
	UserID   uuid.UUID `json:"user_id"`
	ItemName string    `json:"item_name"`
	Quantity int       `json:"quantity"`
}

func FromModel(row *models.InventoryItem) *ItemDTO {
	if row == nil {
		return nil
	}
	return &ItemDTO{
		UserID:   row.UserID,
		ItemName: row.ItemName,
		Quantity: row.Quantity,
	}
}

func FromModels(rows []models.InventoryItem) []ItemDTO {
	items := make([]ItemDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}
	return items
}
