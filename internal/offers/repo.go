package offers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/osgiliath-dev/tradepost/pkg/db/models"
	"github.com/osgiliath-dev/tradepost/pkg/enums"
	"github.com/osgiliath-dev/tradepost/pkg/pagination"
)

// Repository encapsulates offer persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an offers repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new pending offer and returns the persisted model.
func (r *Repository) Create(ctx context.Context, offer *models.Offer) error {
	if offer.ID == uuid.Nil {
		offer.ID = uuid.New()
	}
	if offer.Status == "" {
		offer.Status = enums.OfferStatusPending
	}
	return r.db.WithContext(ctx).Create(offer).Error
}

// FindByID loads an offer by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	var offer models.Offer
	if err := r.db.WithContext(ctx).First(&offer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &offer, nil
}

// TransitionFromPending flips a pending offer to the target status. The
// conditional WHERE makes the transition one-shot: of any number of
// concurrent responders, exactly one observes pending and wins. The boolean
// reports whether this caller won.
func (r *Repository) TransitionFromPending(ctx context.Context, id uuid.UUID, target enums.OfferStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Offer{}).
		Where("id = ? AND status = ?", id, enums.OfferStatusPending).
		Updates(map[string]any{
			"status":     target,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// filterOffersParams is the decoded repo-side shape of a listing query.
type filterOffersParams struct {
	SenderID   *uuid.UUID
	ReceiverID *uuid.UUID
	Status     *enums.OfferStatus
	Limit      int
	Cursor     *pagination.Cursor
}

// Filter returns offers matching the provided criteria, newest first, with
// keyset pagination on (created_at, id).
func (r *Repository) Filter(ctx context.Context, params filterOffersParams) ([]models.Offer, *pagination.Cursor, error) {
	normalizedLimit := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)

	query := r.db.WithContext(ctx).Model(&models.Offer{})
	if params.SenderID != nil {
		query = query.Where("sender_id = ?", *params.SenderID)
	}
	if params.ReceiverID != nil {
		query = query.Where("receiver_id = ?", *params.ReceiverID)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
			params.Cursor.CreatedAt, params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var rows []models.Offer
	if err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limitWithBuffer).
		Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	if len(rows) <= normalizedLimit {
		return rows, nil, nil
	}

	rows = rows[:normalizedLimit]
	last := rows[len(rows)-1]
	return rows, &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, nil
}
