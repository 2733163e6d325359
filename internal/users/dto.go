package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/osgiliath-dev/tradepost/pkg/db/models"
)

// UserDTO is the transport shape of a participant.
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Race      string    `json:"race"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Username string
	Race     string
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:        u.ID,
		Username:  u.Username,
		Race:      u.Race,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	return &models.User{
		ID:       uuid.New(),
		Username: c.Username,
		Race:     c.Race,
	}
}
