// Package services contains server-side business logic. This file implements
// UserService: signup, login, session token checks and password recovery.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/rajat290/notekeeper/internal/common"
	"github.com/rajat290/notekeeper/internal/dbx"
	"github.com/rajat290/notekeeper/internal/logging"
	"github.com/rajat290/notekeeper/internal/server/auth"
	"github.com/rajat290/notekeeper/internal/server/config"
	"github.com/rajat290/notekeeper/internal/server/mailer"
	"github.com/rajat290/notekeeper/internal/server/models"
	"github.com/rajat290/notekeeper/internal/server/repositories/repomanager"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// dummyHash is verified against when the login email is unknown, so both
// paths cost one argon2 run.
const dummyHash = "$argon2id$v=19$m=65536,t=3,p=2$c29tZXNhbHRzb21lc2FsdA$bm90IGEgcmVhbCBwYXNzd29yZCBoYXNoISEhISEhISE"

var (
	errInvalidLogin      = common.NewError(common.ErrorInvalidCredentials, "Invalid email or password")
	errInvalidResetToken = common.NewError(common.ErrInvalidResetToken, "Invalid or expired token")
	errUserNotFound      = common.NewError(common.ErrorNotFound, "User not found")
	errPasswordTooShort  = common.NewError(common.ErrorValidation,
		fmt.Sprintf("Password must be at least %d characters", common.MinPasswordLength))
)

// PasswordHasher is satisfied by *auth.PasswordHasher.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) (bool, error)
}

// AuthResult is returned by signup and login.
type AuthResult struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

// UserService provides authentication-related operations.
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	mailer                      mailer.Mailer
	hasher                      PasswordHasher
	logger                      logging.Logger
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	resetTokenValidityDuration  time.Duration
	clientURL                   string
	now                         func() time.Time
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, mail mailer.Mailer, hasher PasswordHasher,
	cfg *config.Config, logger logging.Logger) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		mailer:                      mail,
		hasher:                      hasher,
		logger:                      logger.With("module", "user_service"),
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		resetTokenValidityDuration:  cfg.ResetTokenValidityDuration,
		clientURL:                   strings.TrimRight(cfg.ClientURL, "/"),
		now:                         time.Now,
	}
}

// Signup registers a user and logs them in.
func (s *UserService) Signup(ctx context.Context, name, email, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if name == "" || email == "" || password == "" {
		return nil, common.NewError(common.ErrorValidation, "All fields required")
	}
	if !emailRegex.MatchString(email) {
		return nil, common.NewError(common.ErrorValidation, "Please provide a valid email")
	}
	if len(password) < common.MinPasswordLength {
		return nil, errPasswordTooShort
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.Create(ctx, &models.User{Name: name, Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.NewError(common.ErrorAlreadyExists, "Email already in use")
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.authResult(user)
}

// Login verifies email and password. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, errInvalidLogin
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_, _ = s.hasher.Verify(password, dummyHash)
			return nil, errInvalidLogin
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	if !s.matchPassword(ctx, user, password) {
		return nil, errInvalidLogin
	}

	return s.authResult(user)
}

// Authenticate resolves a session token to the user it was issued for.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.PublicUser, error) {
	userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	pub := user.Public()
	return &pub, nil
}

// Me returns the public profile of userID.
func (s *UserService) Me(ctx context.Context, userID string) (*models.PublicUser, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, errUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	pub := user.Public()
	return &pub, nil
}

// ForgotPassword issues a reset token for email and mails the reset link.
// It succeeds for unknown and empty emails too, so callers cannot probe for
// accounts. When the email cannot be sent the token is withdrawn again.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		s.logger.Debug(ctx, "password reset requested without email")
		return nil
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Debug(ctx, "password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	token, err := auth.NewResetToken(s.resetTokenValidityDuration)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	user.ResetPasswordTokenHash = &token.Hash
	user.ResetPasswordExpiresAt = &token.ExpiresAt
	if err := repo.Update(ctx, user); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	if err := s.mailer.Send(ctx, s.resetMessage(user, token.Plain)); err != nil {
		s.logger.Error(ctx, "sending reset email failed", "user_id", user.ID, "error", err)

		user.ClearResetToken()
		if err := repo.Update(ctx, user); err != nil {
			s.logger.Error(ctx, "withdrawing reset token failed", "user_id", user.ID, "error", err)
		}
		return nil
	}

	s.logger.Info(ctx, "reset email sent", "user_id", user.ID)
	return nil
}

// ResetPassword sets a new password using a reset token. The token is
// single-use: lookup and consumption run in one transaction and the consuming
// UPDATE only matches while the token is still stored and unexpired.
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < common.MinPasswordLength {
		return errPasswordTooShort
	}
	if token == "" {
		return errInvalidResetToken
	}

	tokenHash := auth.HashResetToken(token)
	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		user, err := repo.GetByResetTokenHash(ctx, tokenHash, now)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return errInvalidResetToken
			}
			return fmt.Errorf("%w: %v", common.ErrorInternal, err)
		}

		if err := repo.ConsumeResetToken(ctx, user.ID, tokenHash, passwordHash, now); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return errInvalidResetToken
			}
			return fmt.Errorf("%w: %v", common.ErrorInternal, err)
		}

		s.logger.Info(ctx, "password reset", "user_id", user.ID)
		return nil
	})
}

// ChangePassword replaces the password of an authenticated user after
// checking the current one. Pending reset tokens are dropped.
func (s *UserService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return common.NewError(common.ErrorValidation, "Current and new password are required")
	}
	if len(newPassword) < common.MinPasswordLength {
		return errPasswordTooShort
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return errUserNotFound
		}
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	if !s.matchPassword(ctx, user, currentPassword) {
		return common.NewError(common.ErrorInvalidCredentials, "Current password is incorrect")
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = hash
	user.ClearResetToken()

	if err := repo.Update(ctx, user); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return errUserNotFound
		}
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	return nil
}

// --- helpers below ---

func (s *UserService) matchPassword(ctx context.Context, user *models.User, candidate string) bool {
	ok, err := s.hasher.Verify(candidate, user.PasswordHash)
	if err != nil {
		s.logger.Error(ctx, "stored password hash unreadable", "user_id", user.ID, "error", err)
		return false
	}
	return ok
}

func (s *UserService) authResult(user *models.User) (*AuthResult, error) {
	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return &AuthResult{Token: token, User: user.Public()}, nil
}

func (s *UserService) resetMessage(user *models.User, plainToken string) mailer.Message {
	link := s.clientURL + "/reset-password/" + plainToken
	return mailer.Message{
		To:      user.Email,
		Subject: "Password Reset",
		Text: fmt.Sprintf("Hi %s,\n\nYou requested a password reset. Open the link below within %s to choose a new password:\n\n%s\n\nIf you did not request this, ignore this email.\n",
			user.Name, s.resetTokenValidityDuration, link),
		HTML: fmt.Sprintf(`<p>Hi %s,</p><p>You requested a password reset. Open the link below within %s to choose a new password:</p><p><a href="%s">%s</a></p><p>If you did not request this, ignore this email.</p>`,
			html.EscapeString(user.Name), s.resetTokenValidityDuration, link, link),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
