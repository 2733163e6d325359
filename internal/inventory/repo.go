package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/osgiliath-dev/tradepost/pkg/db/models"
)

// Repository is the inventory ledger: per-user item rows with guarded
// quantity adjustments. Rows that reach zero are retained; absent rows read
// as quantity zero.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an inventory repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Quantity returns how many of the named item the user holds. Absent rows
// read as zero, so callers never branch on row existence.
func (r *Repository) Quantity(ctx context.Context, userID uuid.UUID, item string) (int, error) {
	var row models.InventoryItem
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND item_name = ?", userID, item).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return row.Quantity, nil
}

// List returns the user's ledger rows ordered by item name.
func (r *Repository) List(ctx context.Context, userID uuid.UUID) ([]models.InventoryItem, error) {
	var rows []models.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("item_name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListAll returns every ledger row, ordered by owner then item name.
func (r *Repository) ListAll(ctx context.Context) ([]models.InventoryItem, error) {
	var rows []models.InventoryItem
	if err := r.db.WithContext(ctx).
		Order("user_id ASC").
		Order("item_name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Grant adds qty of the named item to the user's ledger, creating the row if
// it does not exist yet.
func (r *Repository) Grant(ctx context.Context, userID uuid.UUID, item string, qty int) error {
	now := time.Now().UTC()
	row := models.InventoryItem{
		ID:       uuid.New(),
		UserID:   userID,
		ItemName: item,
		Quantity: qty,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "item_name"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":   gorm.Expr("inventory_items.quantity + excluded.quantity"),
				"updated_at": now,
			}),
		}).
		Create(&row).Error
}

// TakeIfAvailable removes qty of the named item, but only when the current
// holding covers it. The conditional WHERE makes the read-modify-write atomic
// at the row; the boolean reports whether the decrement happened.
func (r *Repository) TakeIfAvailable(ctx context.Context, userID uuid.UUID, item string, qty int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("user_id = ? AND item_name = ? AND quantity >= ?", userID, item, qty).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity - ?", qty),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
