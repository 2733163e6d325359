package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/osgiliath-dev/tradepost/pkg/db/models"
	pkgerrors "github.com/osgiliath-dev/tradepost/pkg/errors"
)

// ErrUnderflow is returned by Adjust when a negative delta would take a
// holding below zero.
var ErrUnderflow = fmt.Errorf("inventory underflow")

// Service exposes the ledger operations: read, list, and delta adjustment.
type Service interface {
	Quantity(ctx context.Context, userID uuid.UUID, item string) (int, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.InventoryItem, error)
	ListAll(ctx context.Context) ([]models.InventoryItem, error)
	Adjust(ctx context.Context, userID uuid.UUID, item string, delta int) error
}

type service struct {
	repo *Repository
}

// NewService wires the inventory ledger.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "inventory repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Quantity(ctx context.Context, userID uuid.UUID, item string) (int, error) {
	if userID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	qty, err := s.repo.Quantity(ctx, userID, item)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read inventory quantity")
	}
	return qty, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]models.InventoryItem, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	rows, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory")
	}
	return rows, nil
}

func (s *service) ListAll(ctx context.Context) ([]models.InventoryItem, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list all inventory")
	}
	return rows, nil
}

// Adjust applies a delta to one ledger row. A positive delta creates the row
// when absent; a negative delta fails with ErrUnderflow when the holding
// cannot cover it.
func (s *service) Adjust(ctx context.Context, userID uuid.UUID, item string, delta int) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if item == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "item name required")
	}
	switch {
	case delta == 0:
		return nil
	case delta > 0:
		if err := s.repo.Grant(ctx, userID, item, delta); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "grant inventory")
		}
		return nil
	default:
		taken, err := s.repo.TakeIfAvailable(ctx, userID, item, -delta)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "take inventory")
		}
		if !taken {
			return ErrUnderflow
		}
		return nil
	}
}
