package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rajat290/notekeeper/internal/common"
	"github.com/rajat290/notekeeper/internal/dbx"
	"github.com/rajat290/notekeeper/internal/server/models"
)

// pgUniqueViolation is the SQLSTATE of a unique constraint violation.
const pgUniqueViolation = "23505"

const selectUser = `SELECT id, name, email, password_hash, reset_password_token_hash,
		reset_password_expires_at, created_at, updated_at
	 FROM users`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts user, assigning an ID when it has none. A duplicate email
// yields common.ErrorAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO users (id, name, email, password_hash)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash).Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, selectUser+` WHERE email = $1`, email)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, selectUser+` WHERE id = $1`, id)
}

// GetByResetTokenHash finds the user holding an unexpired reset token with
// the given hash. The row is locked when called inside a transaction.
func (r *PostgresRepository) GetByResetTokenHash(ctx context.Context, tokenHash string, now time.Time) (*models.User, error) {
	return r.getOne(ctx,
		selectUser+` WHERE reset_password_token_hash = $1 AND reset_password_expires_at > $2 FOR UPDATE`,
		tokenHash, now)
}

// Update saves every mutable column of user.
func (r *PostgresRepository) Update(ctx context.Context, user *models.User) error {
	query :=
		`UPDATE users
		 SET name = $2, email = $3, password_hash = $4,
		     reset_password_token_hash = $5, reset_password_expires_at = $6, updated_at = now()
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash,
		nullString(user.ResetPasswordTokenHash), nullTime(user.ResetPasswordExpiresAt))
	if err != nil {
		if isUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}

	return expectOneRow(res)
}

// ConsumeResetToken sets a new password hash and clears the reset token, but
// only while the token with tokenHash is still stored and unexpired. A token
// that was already used or has expired yields common.ErrorNotFound.
func (r *PostgresRepository) ConsumeResetToken(ctx context.Context, userID, tokenHash, passwordHash string, now time.Time) error {
	query :=
		`UPDATE users
		 SET password_hash = $3, reset_password_token_hash = NULL,
		     reset_password_expires_at = NULL, updated_at = now()
		 WHERE id = $1 AND reset_password_token_hash = $2 AND reset_password_expires_at > $4
		 `

	res, err := r.db.ExecContext(ctx, query, userID, tokenHash, passwordHash, now)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return expectOneRow(res)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, args ...any) (*models.User, error) {
	var (
		user      models.User
		tokenHash sql.NullString
		expiresAt sql.NullTime
	)

	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash,
		&tokenHash, &expiresAt, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if tokenHash.Valid {
		user.ResetPasswordTokenHash = &tokenHash.String
	}
	if expiresAt.Valid {
		user.ResetPasswordExpiresAt = &expiresAt.Time
	}

	return &user, nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
