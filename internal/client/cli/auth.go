package cli

import (
	"context"
	"fmt"

	"github.com/rajat290/notekeeper/internal/common"
)

func (a *App) Signup(ctx context.Context) error {
	name, err := a.prompt("Enter name")
	if err != nil {
		return err
	}
	email, err := a.prompt("Enter email")
	if err != nil {
		return err
	}
	password, err := a.password("Enter password")
	if err != nil {
		return err
	}

	user, err := a.authService.Signup(ctx, name, email, password)
	if err != nil {
		return err
	}

	a.user = user
	fmt.Fprintf(a.out, "Welcome, %s!\n", user.Name)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := a.prompt("Enter email")
	if err != nil {
		return err
	}
	password, err := a.password("Enter password")
	if err != nil {
		return err
	}

	user, err := a.authService.Login(ctx, email, password)
	if err != nil {
		return err
	}

	a.user = user
	a.search = ""
	fmt.Fprintf(a.out, "Logged in as %s\n", user.Email)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	a.user = nil
	a.search = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) Me(ctx context.Context) error {
	user, err := a.api.Me(ctx)
	if err != nil {
		return err
	}
	a.user = user
	fmt.Fprintf(a.out, "ID:    %s\nName:  %s\nEmail: %s\n", user.ID, user.Name, user.Email)
	return nil
}

func (a *App) Forgot(ctx context.Context) error {
	email, err := a.prompt("Enter email")
	if err != nil {
		return err
	}

	msg, err := a.authService.ForgotPassword(ctx, email)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

func (a *App) Reset(ctx context.Context, token string) error {
	password, err := a.password("Enter new password")
	if err != nil {
		return err
	}

	msg, err := a.authService.ResetPassword(ctx, token, password)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

func (a *App) ChangePassword(ctx context.Context) error {
	current, err := a.password("Enter current password")
	if err != nil {
		return err
	}
	next, err := a.password("Enter new password")
	if err != nil {
		common.WipeByteArray(current)
		return err
	}

	msg, err := a.authService.ChangePassword(ctx, current, next)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, msg)
	return nil
}
