// Package users is the credential store: persistence of user accounts,
// their password hashes and pending password resets.
package users

import (
	"context"
	"time"

	"github.com/rajat290/notekeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByResetTokenHash(ctx context.Context, tokenHash string, now time.Time) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	ConsumeResetToken(ctx context.Context, userID, tokenHash, passwordHash string, now time.Time) error
}
