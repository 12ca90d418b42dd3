package notes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rajat290/notekeeper/internal/common"
	"github.com/rajat290/notekeeper/internal/dbx"
	"github.com/rajat290/notekeeper/internal/server/models"
)

const selectNote = `SELECT id, user_id, title, content, category, tags, created_at, updated_at
	 FROM notes`

// sortColumns maps the API sort keys onto columns.
var sortColumns = map[string]string{
	models.SortCreatedAt: "created_at",
	models.SortUpdatedAt: "updated_at",
	models.SortTitle:     "title",
	models.SortCategory:  "category",
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, note *models.Note) (*models.Note, error) {
	if note.ID == "" {
		note.ID = uuid.NewString()
	}

	tags, err := encodeTags(note.Tags)
	if err != nil {
		return nil, err
	}

	query :=
		`INSERT INTO notes (id, user_id, title, content, category, tags)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at, updated_at
		 `

	err = r.db.QueryRowContext(ctx, query,
		note.ID, note.UserID, note.Title, note.Content, note.Category, tags).Scan(&note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return note, nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, id string) (*models.Note, error) {
	row := r.db.QueryRowContext(ctx, selectNote+` WHERE id = $1 AND user_id = $2`, id, userID)

	note, err := scanNote(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return note, nil
}

// List returns one page of the owner's notes matching q together with the
// total number of matches. q must be normalized.
func (r *PostgresRepository) List(ctx context.Context, userID string, q models.NoteQuery) ([]*models.Note, int64, error) {
	where := ` WHERE user_id = $1`
	args := []any{userID}

	if q.Search != "" {
		args = append(args, "%"+escapeLike(q.Search)+"%")
		where += ` AND (title ILIKE $2 OR content ILIKE $2 OR category ILIKE $2
			OR EXISTS (SELECT 1 FROM jsonb_array_elements_text(tags) AS tag WHERE tag ILIKE $2))`
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notes`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	column, ok := sortColumns[q.SortBy]
	if !ok {
		column = sortColumns[models.SortCreatedAt]
	}
	direction := "DESC"
	if q.Order == models.OrderAsc {
		direction = "ASC"
	}

	n := len(args)
	query := fmt.Sprintf(`%s%s ORDER BY %s %s, id %s LIMIT $%d OFFSET $%d`,
		selectNote, where, column, direction, direction, n+1, n+2)
	args = append(args, q.Limit, q.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	notes := make([]*models.Note, 0, q.Limit)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("db error: %w", err)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	return notes, total, nil
}

// Update overwrites the editable fields of the note identified by note.ID and
// note.UserID and refreshes UpdatedAt.
func (r *PostgresRepository) Update(ctx context.Context, note *models.Note) (*models.Note, error) {
	tags, err := encodeTags(note.Tags)
	if err != nil {
		return nil, err
	}

	query :=
		`UPDATE notes
		 SET title = $3, content = $4, category = $5, tags = $6, updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING updated_at
		 `

	err = r.db.QueryRowContext(ctx, query,
		note.ID, note.UserID, note.Title, note.Content, note.Category, tags).Scan(&note.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return note, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(s scanner) (*models.Note, error) {
	var (
		note models.Note
		tags []byte
	)

	if err := s.Scan(&note.ID, &note.UserID, &note.Title, &note.Content, &note.Category,
		&tags, &note.CreatedAt, &note.UpdatedAt); err != nil {
		return nil, err
	}

	note.Tags = []string{}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &note.Tags); err != nil {
			return nil, fmt.Errorf("decode tags: %w", err)
		}
		if note.Tags == nil {
			note.Tags = []string{}
		}
	}

	return &note, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	return string(b), nil
}

// escapeLike makes s match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
