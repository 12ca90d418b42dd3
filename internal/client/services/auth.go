// Package services contains application services for the NoteKeeper client.
// This file defines the authentication service: signup, login, session
// persistence between runs, and the password recovery calls.
package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rajat290/notekeeper/internal/client/client"
	"github.com/rajat290/notekeeper/internal/client/models"
	"github.com/rajat290/notekeeper/internal/common"
	"github.com/rajat290/notekeeper/internal/filex"
)

const sessionFileName = "session"

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Restore: reuse the session saved by an earlier run, if still valid.
//   - Signup/Login: authenticate and persist the session token.
//   - Logout: forget the session locally (tokens are stateless server-side).
//   - ChangePassword, ForgotPassword, ResetPassword: proxy to the API.
//
// Passwords are taken as byte slices and wiped before returning.
type AuthService interface {
	Restore(ctx context.Context) (*models.User, error)
	Signup(ctx context.Context, name, email string, password []byte) (*models.User, error)
	Login(ctx context.Context, email string, password []byte) (*models.User, error)
	Logout(ctx context.Context) error
	ChangePassword(ctx context.Context, currentPassword, newPassword []byte) (string, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token string, newPassword []byte) (string, error)
}

type authService struct {
	client     client.Client
	sessionDir string
}

// NewAuthService constructs an AuthService bound to the API client. The
// session token is kept in <sessionDir>/session.
func NewAuthService(c client.Client, sessionDir string) AuthService {
	return &authService{client: c, sessionDir: sessionDir}
}

func (a *authService) sessionPath() string {
	return filepath.Join(a.sessionDir, sessionFileName)
}

// Restore loads the saved token and asks the server who it belongs to. A
// token the server rejects is removed and (nil, nil) returned.
func (a *authService) Restore(ctx context.Context) (*models.User, error) {
	data, err := os.ReadFile(a.sessionPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session: %w", err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return nil, nil
	}

	a.client.SetToken(token)
	user, err := a.client.Me(ctx)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			return nil, a.Logout(ctx)
		}
		a.client.SetToken("")
		return nil, err
	}
	return user, nil
}

func (a *authService) Signup(ctx context.Context, name, email string, password []byte) (*models.User, error) {
	defer common.WipeByteArray(password)

	res, err := a.client.Signup(ctx, name, email, string(password))
	if err != nil {
		return nil, err
	}
	if err := a.saveSession(res.Token); err != nil {
		return nil, err
	}
	return &res.User, nil
}

func (a *authService) Login(ctx context.Context, email string, password []byte) (*models.User, error) {
	defer common.WipeByteArray(password)

	res, err := a.client.Login(ctx, email, string(password))
	if err != nil {
		return nil, err
	}
	if err := a.saveSession(res.Token); err != nil {
		return nil, err
	}
	return &res.User, nil
}

func (a *authService) Logout(ctx context.Context) error {
	a.client.SetToken("")
	if err := filex.RemoveIfExists(a.sessionPath()); err != nil {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

func (a *authService) ChangePassword(ctx context.Context, currentPassword, newPassword []byte) (string, error) {
	defer common.WipeByteArray(currentPassword)
	defer common.WipeByteArray(newPassword)

	return a.client.ChangePassword(ctx, string(currentPassword), string(newPassword))
}

func (a *authService) ForgotPassword(ctx context.Context, email string) (string, error) {
	return a.client.ForgotPassword(ctx, email)
}

func (a *authService) ResetPassword(ctx context.Context, token string, newPassword []byte) (string, error) {
	defer common.WipeByteArray(newPassword)

	return a.client.ResetPassword(ctx, token, string(newPassword))
}

func (a *authService) saveSession(token string) error {
	a.client.SetToken(token)

	if _, err := filex.EnsureDir(a.sessionDir); err != nil {
		return fmt.Errorf("session dir: %w", err)
	}
	if err := filex.WriteSecret(a.sessionPath(), []byte(token)); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
