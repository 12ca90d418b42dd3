// Package notes is the note store. Every operation is scoped to the owning
// user; a note owned by someone else behaves exactly like a missing one.
package notes

import (
	"context"

	"github.com/rajat290/notekeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, note *models.Note) (*models.Note, error)
	Get(ctx context.Context, userID, id string) (*models.Note, error)
	List(ctx context.Context, userID string, q models.NoteQuery) ([]*models.Note, int64, error)
	Update(ctx context.Context, note *models.Note) (*models.Note, error)
	Delete(ctx context.Context, userID, id string) error
}
