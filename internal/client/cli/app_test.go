package cli

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rajat290/notekeeper/internal/client/client"
	"github.com/rajat290/notekeeper/internal/client/config"
	"github.com/rajat290/notekeeper/internal/client/models"
	"github.com/rajat290/notekeeper/internal/client/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI is an in-memory client.Client with a single account
// a@x.io / secret1.
type fakeAPI struct {
	token     string
	revoked   bool
	pingErr   error
	notes     map[string]*models.Note
	seq       int
	lastList  models.ListParams
	lastPatch models.NotePatch
}

func newFakeAPI() *fakeAPI { return &fakeAPI{notes: map[string]*models.Note{}} }

var testUser = models.User{ID: "u-1", Name: "Alice", Email: "a@x.io"}

func unauthorized() error {
	return &client.APIError{Status: http.StatusUnauthorized, Message: "Not authorized, token failed"}
}

func notFound() error {
	return &client.APIError{Status: http.StatusNotFound, Message: "Note not found"}
}

func (f *fakeAPI) authed() error {
	if f.revoked || f.token != "tok" {
		return unauthorized()
	}
	return nil
}

func (f *fakeAPI) SetToken(token string)      { f.token = token }
func (f *fakeAPI) Ping(context.Context) error { return f.pingErr }

func (f *fakeAPI) Signup(_ context.Context, name, email, _ string) (*models.AuthResult, error) {
	return &models.AuthResult{Token: "tok", User: models.User{ID: "u-2", Name: name, Email: email}}, nil
}

func (f *fakeAPI) Login(_ context.Context, email, password string) (*models.AuthResult, error) {
	if email != testUser.Email || password != "secret1" {
		return nil, &client.APIError{Status: http.StatusUnauthorized, Message: "Invalid email or password"}
	}
	return &models.AuthResult{Token: "tok", User: testUser}, nil
}

func (f *fakeAPI) Me(context.Context) (*models.User, error) {
	if err := f.authed(); err != nil {
		return nil, err
	}
	u := testUser
	return &u, nil
}

func (f *fakeAPI) ForgotPassword(context.Context, string) (string, error) {
	return "If that email is registered, a reset link has been sent", nil
}

func (f *fakeAPI) ResetPassword(_ context.Context, token, _ string) (string, error) {
	if token != "good" {
		return "", &client.APIError{Status: http.StatusBadRequest, Message: "Invalid or expired token"}
	}
	return "Password reset successful", nil
}

func (f *fakeAPI) ChangePassword(context.Context, string, string) (string, error) {
	if err := f.authed(); err != nil {
		return "", err
	}
	return "Password updated successfully", nil
}

func (f *fakeAPI) CreateNote(_ context.Context, in models.NoteInput) (*models.Note, error) {
	if err := f.authed(); err != nil {
		return nil, err
	}
	f.seq++
	cat := in.Category
	if cat == "" {
		cat = "General"
	}
	n := &models.Note{ID: fmt.Sprintf("n%d", f.seq), Title: in.Title, Content: in.Content, Category: cat,
		Tags: in.Tags, UpdatedAt: time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC)}
	f.notes[n.ID] = n
	return n, nil
}

func (f *fakeAPI) ListNotes(_ context.Context, p models.ListParams) (*models.NotePage, error) {
	if err := f.authed(); err != nil {
		return nil, err
	}
	f.lastList = p
	page := &models.NotePage{Page: p.Page, Limit: 10}
	for _, n := range f.notes {
		if strings.Contains(strings.ToLower(n.Title), strings.ToLower(p.Search)) {
			page.Notes = append(page.Notes, *n)
		}
	}
	page.Total = int64(len(page.Notes))
	page.TotalPages = (page.Total + 9) / 10
	return page, nil
}

func (f *fakeAPI) GetNote(_ context.Context, id string) (*models.Note, error) {
	if err := f.authed(); err != nil {
		return nil, err
	}
	n, ok := f.notes[id]
	if !ok {
		return nil, notFound()
	}
	cp := *n
	return &cp, nil
}

func (f *fakeAPI) UpdateNote(ctx context.Context, id string, patch models.NotePatch) (*models.Note, error) {
	if _, err := f.GetNote(ctx, id); err != nil {
		return nil, err
	}
	f.lastPatch = patch
	n := f.notes[id]
	if patch.Title != nil {
		n.Title = *patch.Title
	}
	if patch.Tags != nil {
		n.Tags = *patch.Tags
	}
	return n, nil
}

func (f *fakeAPI) DeleteNote(ctx context.Context, id string) (string, error) {
	if _, err := f.GetNote(ctx, id); err != nil {
		return "", err
	}
	delete(f.notes, id)
	return "Note deleted", nil
}

func runApp(t *testing.T, api *fakeAPI, dir string, lines ...string) string {
	t.Helper()
	stubTerminal(t, false, nil)

	cfg := &config.Config{ServerURL: "http://nk.test", SessionDir: dir}
	var out bytes.Buffer
	app := newApp(cfg, api, services.NewAuthService(api, dir), strings.NewReader(strings.Join(lines, "\n")+"\n"), &out)
	app.Run(context.Background())
	return out.String()
}

func TestApp_LoginAddListShowDelete(t *testing.T) {
	api := newFakeAPI()
	dir := t.TempDir()

	out := runApp(t, api, dir,
		"login", "a@x.io", "secret1",
		"add", "T1", "first line", "second line", "", "", "go, api",
		"list t1",
		"show n1",
		"delete n1", "y",
		"show n1",
		"exit",
	)

	assert.Contains(t, out, "Logged in as a@x.io")
	assert.Contains(t, out, "Note created: n1")
	assert.Contains(t, out, "n1  T1     General   go,api")
	assert.Contains(t, out, "Page 1 of 1 (1 notes)")
	assert.Contains(t, out, "first line\nsecond line")
	assert.Contains(t, out, "Note deleted")
	assert.Contains(t, out, "Error: Note not found")
	assert.Equal(t, models.ListParams{Search: "t1", Page: 1}, api.lastList)

	token, err := os.ReadFile(filepath.Join(dir, "session"))
	require.NoError(t, err)
	assert.Equal(t, "tok", string(token))
}

func TestApp_RestoresSession(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "session"), []byte("tok"), 0o600))

	out := runApp(t, newFakeAPI(), dir, "me", "exit")

	assert.Contains(t, out, "Logged in as a@x.io")
	assert.Contains(t, out, "Name:  Alice")
	assert.Contains(t, out, "nk (a@x.io)> ")
}

func TestApp_ExpiredSessionLogsOut(t *testing.T) {
	api := newFakeAPI()
	dir := t.TempDir()

	out := runApp(t, api, dir,
		"login", "a@x.io", "secret1",
		"passwd", "secret1", "newpass",
	)
	assert.Contains(t, out, "Password updated successfully")
	require.FileExists(t, filepath.Join(dir, "session"))

	api.revoked = true
	out = runApp(t, api, dir, "list", "exit")

	// the saved token is rejected on start, so the session is dropped quietly
	assert.NotContains(t, out, "Logged in as")
	assert.Contains(t, out, "Please log in first")
	assert.NoFileExists(t, filepath.Join(dir, "session"))
}

func TestApp_SessionExpiresMidway(t *testing.T) {
	api := &revokingAPI{fakeAPI: newFakeAPI()}
	dir := t.TempDir()

	out := runApp(t, api.fakeAPI, dir, "login", "a@x.io", "secret1", "exit")
	require.Contains(t, out, "Logged in as a@x.io")

	stubTerminal(t, false, nil)
	var buf bytes.Buffer
	cfg := &config.Config{ServerURL: "http://nk.test", SessionDir: dir}
	app := newApp(cfg, api, services.NewAuthService(api, dir), strings.NewReader("list\nlist\nexit\n"), &buf)
	app.Run(context.Background())

	assert.Contains(t, buf.String(), "Logged in as a@x.io")
	assert.Contains(t, buf.String(), "Session expired, please log in again")
	assert.Contains(t, buf.String(), "Please log in first")
	assert.NoFileExists(t, filepath.Join(dir, "session"))
}

// revokingAPI rejects every listing as if the token had been revoked after login.
type revokingAPI struct {
	*fakeAPI
}

func (r *revokingAPI) ListNotes(context.Context, models.ListParams) (*models.NotePage, error) {
	return nil, unauthorized()
}

func TestApp_LoginFailureAndUnavailableServer(t *testing.T) {
	api := newFakeAPI()
	api.pingErr = client.ErrUnavailable

	out := runApp(t, api, t.TempDir(), "login", "a@x.io", "wrong", "help", "exit")

	assert.Contains(t, out, "Warning: http://nk.test is not reachable")
	assert.Contains(t, out, "Error: Invalid email or password")
	assert.Contains(t, out, helpGuest)
}

func TestApp_Edit(t *testing.T) {
	api := newFakeAPI()

	out := runApp(t, api, t.TempDir(),
		"login", "a@x.io", "secret1",
		"add", "T1", "body", "", "Work", "a,b",
		"edit n1", "T2", "", "", "-",
		"edit n1", "", "", "", "",
		"exit",
	)

	assert.Contains(t, out, "Note updated")
	assert.Contains(t, out, "Nothing to update")
	require.NotNil(t, api.lastPatch.Title)
	assert.Equal(t, "T2", *api.lastPatch.Title)
	assert.Nil(t, api.lastPatch.Content)
	assert.Nil(t, api.lastPatch.Category)
	require.NotNil(t, api.lastPatch.Tags)
	assert.Empty(t, *api.lastPatch.Tags)
}

func TestApp_RecoveryCommands(t *testing.T) {
	out := runApp(t, newFakeAPI(), t.TempDir(),
		"forgot", "a@x.io",
		"reset good", "newpass",
		"reset bad", "newpass",
		"exit",
	)

	assert.Contains(t, out, "If that email is registered, a reset link has been sent")
	assert.Contains(t, out, "Password reset successful")
	assert.Contains(t, out, "Error: Invalid or expired token")
}

func TestNewApp_RequiresServerURL(t *testing.T) {
	_, err := NewApp(&config.Config{})
	assert.Error(t, err)

	app, err := NewApp(&config.Config{ServerURL: "http://localhost:5000", SessionDir: t.TempDir(), RequestTimeout: time.Second})
	require.NoError(t, err)
	assert.False(t, app.isLoggedIn())
}
