package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rajat290/notekeeper/internal/common"
	"github.com/rajat290/notekeeper/internal/server/models"
	"github.com/rajat290/notekeeper/internal/server/repositories/repomanager"
)

var errNoteNotFound = common.NewError(common.ErrorNotFound, "Note not found")

// NoteService implements note CRUD scoped to the authenticated owner.
type NoteService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewNoteService(db *sql.DB, m repomanager.RepositoryManager) *NoteService {
	return &NoteService{db: db, repomanager: m}
}

// Create stores a new note for userID. Category defaults to "General".
// Content is kept verbatim, markup included.
func (s *NoteService) Create(ctx context.Context, userID string, in models.NoteInput) (*models.Note, error) {
	note := &models.Note{
		UserID:   userID,
		Title:    strings.TrimSpace(in.Title),
		Content:  in.Content,
		Category: categoryOrDefault(in.Category),
		Tags:     cleanTags(in.Tags),
	}

	if note.Title == "" || strings.TrimSpace(note.Content) == "" {
		return nil, common.NewError(common.ErrorValidation, "Title and content are required")
	}

	repo := s.repomanager.Notes(s.db)
	created, err := repo.Create(ctx, note)
	if err != nil {
		return nil, fmt.Errorf("error creating note: %w", err)
	}

	return created, nil
}

// List returns one page of userID's notes.
func (s *NoteService) List(ctx context.Context, userID string, q models.NoteQuery) (*models.NotePage, error) {
	q = q.Normalize()

	repo := s.repomanager.Notes(s.db)
	notes, total, err := repo.List(ctx, userID, q)
	if err != nil {
		return nil, fmt.Errorf("error listing notes: %w", err)
	}

	return models.NewNotePage(q, notes, total), nil
}

func (s *NoteService) Get(ctx context.Context, userID, id string) (*models.Note, error) {
	if uuid.Validate(id) != nil {
		return nil, errNoteNotFound
	}

	repo := s.repomanager.Notes(s.db)
	note, err := repo.Get(ctx, userID, id)
	if err != nil {
		return nil, noteError(err)
	}

	return note, nil
}

// Update applies patch to the note. Absent fields keep their value, a blank
// category falls back to "General" and present tags replace the old list.
// Concurrent updates are last-writer-wins.
func (s *NoteService) Update(ctx context.Context, userID, id string, patch models.NotePatch) (*models.Note, error) {
	if uuid.Validate(id) != nil {
		return nil, errNoteNotFound
	}

	repo := s.repomanager.Notes(s.db)
	note, err := repo.Get(ctx, userID, id)
	if err != nil {
		return nil, noteError(err)
	}

	if patch.Title != nil {
		note.Title = strings.TrimSpace(*patch.Title)
		if note.Title == "" {
			return nil, common.NewError(common.ErrorValidation, "Title cannot be empty")
		}
	}
	if patch.Content != nil {
		if strings.TrimSpace(*patch.Content) == "" {
			return nil, common.NewError(common.ErrorValidation, "Content cannot be empty")
		}
		note.Content = *patch.Content
	}
	if patch.Category != nil {
		note.Category = categoryOrDefault(*patch.Category)
	}
	if patch.Tags != nil {
		note.Tags = cleanTags(*patch.Tags)
	}

	updated, err := repo.Update(ctx, note)
	if err != nil {
		return nil, noteError(err)
	}

	return updated, nil
}

func (s *NoteService) Delete(ctx context.Context, userID, id string) error {
	if uuid.Validate(id) != nil {
		return errNoteNotFound
	}

	repo := s.repomanager.Notes(s.db)
	if err := repo.Delete(ctx, userID, id); err != nil {
		return noteError(err)
	}

	return nil
}

func noteError(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return errNoteNotFound
	}
	return fmt.Errorf("%w: %v", common.ErrorInternal, err)
}

func categoryOrDefault(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return common.DefaultCategory
	}
	return category
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
