package offers

import (
	"time"

	"github.com/google/uuid"

	"github.com/osgiliath-dev/tradepost/pkg/db/models"
	dbtypes "github.com/osgiliath-dev/tradepost/pkg/db/types"
	"github.com/osgiliath-dev/tradepost/pkg/enums"
)

// OfferDTO is the transport shape of an offer.
type OfferDTO struct {
	ID            uuid.UUID         `json:"id"`
	SenderID      uuid.UUID         `json:"sender_id"`
	ReceiverID    uuid.UUID         `json:"receiver_id"`
	SenderItems   dbtypes.ItemMap   `json:"sender_items"`
	ReceiverItems dbtypes.ItemMap   `json:"receiver_items"`
	Status        enums.OfferStatus `json:"status"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

func FromModel(o *models.Offer) *OfferDTO {
	if o == nil {
		return nil
	}
	return &OfferDTO{
		ID:            o.ID,
		SenderID:      o.SenderID,
		ReceiverID:    o.ReceiverID,
		SenderItems:   o.SenderItems,
		ReceiverItems: o.ReceiverItems,
		Status:        o.Status,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

// ProposeParams carries a validated offer proposal into the engine.
type ProposeParams struct {
	SenderID      uuid.UUID
	ReceiverID    uuid.UUID
	SenderItems   dbtypes.ItemMap
	ReceiverItems dbtypes.ItemMap
}

// ListParams filters the offer listing. Nil fields are not applied.
type ListParams struct {
	SenderID   *uuid.UUID
	ReceiverID *uuid.UUID
	Status     *enums.OfferStatus
	Limit      int
	Cursor     string
}

// ListResult wraps returned offers and the cursor for the next page.
type ListResult struct {
	Items  []OfferDTO `json:"items"`
	Cursor string     `json:"cursor"`
}
