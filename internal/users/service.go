package users

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/osgiliath-dev/tradepost/pkg/db"
	pkgerrors "github.com/osgiliath-dev/tradepost/pkg/errors"
)

// Service manages the participant directory.
type Service interface {
	Create(ctx context.Context, dto CreateUserDTO) (*UserDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	List(ctx context.Context) ([]UserDTO, error)
}

type service struct {
	repo *Repository
}

// NewService wires the user directory.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "users repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, dto CreateUserDTO) (*UserDTO, error) {
	if dto.Username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username required")
	}
	if dto.Race == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "race required")
	}

	user, err := s.repo.Create(ctx, dto)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return FromModel(user), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return FromModel(user), nil
}

func (s *service) List(ctx context.Context) ([]UserDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	items := make([]UserDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}
	return items, nil
}
