// Package users is the credential store: persistence of user accounts with
// soft-delete semantics. Every lookup and uniqueness check sees active
// users only.
package users

import (
	"context"
	"errors"
	"time"

	"github.com/isdelr/salesdash-be/internal/models"
)

var (
	ErrNotFound          = errors.New("user not found")
	ErrDuplicateUsername = errors.New("duplicate username")
	ErrDuplicateEmail    = errors.New("duplicate email")
)

// Repository persists user records. Mutations report the number of rows
// affected so callers can detect a silent no-op.
type Repository interface {
	Create(ctx context.Context, user *models.User) (int64, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ListActive(ctx context.Context) ([]models.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string, updatedAt time.Time) (int64, error)
	UpdateProfile(ctx context.Context, id int64, companyName, email string, updatedAt time.Time) (int64, error)
	Deactivate(ctx context.Context, id int64, updatedAt time.Time) (int64, error)
}
