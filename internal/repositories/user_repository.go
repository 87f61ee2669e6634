package repositories

import (
	"context"
	"errors"

	"usersvc/internal/models"
)

var (
	// ErrNotFound is returned when no user has the requested ID.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when a write would break email uniqueness.
	ErrDuplicateEmail = errors.New("email already in use")
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	GetAll(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) ([]models.User, error)
	// Create assigns user.ID and stores the record.
	Create(ctx context.Context, user *models.User) error
	// Update writes only the given columns of the record with the given ID.
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}
