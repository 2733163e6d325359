package models

import (
	"time"

	"github.com/google/uuid"

	dbtypes "github.com/osgiliath-dev/tradepost/pkg/db/types"
	"github.com/osgiliath-dev/tradepost/pkg/enums"
)

// Offer is a proposed bilateral exchange: the sender gives sender_items and
// receives receiver_items from the receiver. Immutable once status leaves
// pending.
type Offer struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SenderID      uuid.UUID         `gorm:"column:sender_id;type:uuid;not null;index:offers_sender_id_idx"`
	ReceiverID    uuid.UUID         `gorm:"column:receiver_id;type:uuid;not null;index:offers_receiver_id_idx"`
	SenderItems   dbtypes.ItemMap   `gorm:"column:sender_items;type:jsonb;not null"`
	ReceiverItems dbtypes.ItemMap   `gorm:"column:receiver_items;type:jsonb;not null"`
	Status        enums.OfferStatus `gorm:"column:status;type:text;not null;default:'pending';index"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
