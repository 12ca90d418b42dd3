package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rajat290/notekeeper/internal/client/client"
	"github.com/rajat290/notekeeper/internal/client/config"
	"github.com/rajat290/notekeeper/internal/client/models"
	"github.com/rajat290/notekeeper/internal/client/services"
)

type App struct {
	config      *config.Config
	authService services.AuthService
	api         client.Client
	reader      *bufio.Reader
	out         io.Writer

	user *models.User
	// last listing, reused by "page"
	search string
}

func NewApp(c *config.Config) (*App, error) {
	if c.ServerURL == "" {
		return nil, errors.New("server URL is empty")
	}

	api := client.NewRESTClient(c.ServerURL, c.RequestTimeout)
	as := services.NewAuthService(api, c.SessionDir)

	return newApp(c, api, as, os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, api client.Client, as services.AuthService, in io.Reader, out io.Writer) *App {
	return &App{config: c, api: api, authService: as, reader: bufio.NewReader(in), out: out}
}

// Run restores a saved session and serves the REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to NoteKeeper CLI (type 'help' for commands)")

	if err := a.api.Ping(ctx); err != nil {
		fmt.Fprintf(a.out, "Warning: %s is not reachable\n", a.config.ServerURL)
	}

	user, err := a.authService.Restore(ctx)
	if err != nil {
		a.handleError(ctx, err)
	}
	if user != nil {
		a.user = user
		fmt.Fprintf(a.out, "Logged in as %s\n", user.Email)
	}

	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}

func (a *App) isLoggedIn() bool {
	return a.user != nil
}

func (a *App) getStatus() string {
	if a.user == nil {
		return ""
	}
	return fmt.Sprintf(" (%s)", a.user.Email)
}

// handleError prints err for the user. A rejected session token ends the
// local session.
func (a *App) handleError(ctx context.Context, err error) {
	if errors.Is(err, client.ErrUnauthorized) && a.isLoggedIn() {
		_ = a.authService.Logout(ctx)
		a.user = nil
		fmt.Fprintln(a.out, "Session expired, please log in again")
		return
	}

	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr):
		fmt.Fprintln(a.out, "Error:", apiErr.Error())
	case errors.Is(err, client.ErrUnavailable):
		fmt.Fprintln(a.out, "Error: server unavailable, try again later")
	default:
		fmt.Fprintln(a.out, "Error:", err.Error())
	}
}

func (a *App) prompt(text string) (string, error) {
	return GetSimpleText(a.reader, text, a.out)
}

func (a *App) password(text string) ([]byte, error) {
	return GetPassword(a.reader, text, a.out)
}
