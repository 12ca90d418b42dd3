package rest

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rajat290/notekeeper/internal/common"
	"github.com/rajat290/notekeeper/internal/logging"
	"github.com/rajat290/notekeeper/internal/server/metrics"
	"github.com/rajat290/notekeeper/internal/server/models"
	"github.com/rajat290/notekeeper/internal/server/ratelimit"
	"github.com/rajat290/notekeeper/internal/server/services"
)

var alice = &models.PublicUser{ID: "u-1", Name: "Alice", Email: "a@x.io"}

// fakeUsers accepts the token "good" as alice; other behavior is scripted
// per test through the func fields.
type fakeUsers struct {
	signup func(name, email, password string) (*services.AuthResult, error)
	login  func(email, password string) (*services.AuthResult, error)
	forgot func(email string) error
	reset  func(token, pw string) error
	change func(userID, cur, next string) error
}

func (f *fakeUsers) Authenticate(_ context.Context, token string) (*models.PublicUser, error) {
	if token != "good" {
		return nil, common.ErrInvalidToken
	}
	return alice, nil
}

func (f *fakeUsers) Signup(_ context.Context, name, email, password string) (*services.AuthResult, error) {
	return f.signup(name, email, password)
}

func (f *fakeUsers) Login(_ context.Context, email, password string) (*services.AuthResult, error) {
	return f.login(email, password)
}

func (f *fakeUsers) Me(_ context.Context, userID string) (*models.PublicUser, error) {
	if userID != alice.ID {
		return nil, common.NewError(common.ErrorNotFound, "User not found")
	}
	return alice, nil
}

func (f *fakeUsers) ForgotPassword(_ context.Context, email string) error {
	return f.forgot(email)
}

func (f *fakeUsers) ResetPassword(_ context.Context, token, pw string) error {
	return f.reset(token, pw)
}

func (f *fakeUsers) ChangePassword(_ context.Context, userID, cur, next string) error {
	return f.change(userID, cur, next)
}

// fakeNotes keeps notes in a map; listErr/panicOnGet force failures.
type fakeNotes struct {
	byID       map[string]*models.Note
	lastQ      models.NoteQuery
	listErr    error
	panicOnGet bool
}

func newFakeNotes() *fakeNotes {
	return &fakeNotes{byID: map[string]*models.Note{}}
}

func (f *fakeNotes) Create(_ context.Context, userID string, in models.NoteInput) (*models.Note, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Content) == "" {
		return nil, common.NewError(common.ErrorValidation, "Title and content are required")
	}
	cat := in.Category
	if cat == "" {
		cat = common.DefaultCategory
	}
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	n := &models.Note{ID: uuid.NewString(), UserID: userID, Title: in.Title, Content: in.Content,
		Category: cat, Tags: tags, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	f.byID[n.ID] = n
	return n, nil
}

func (f *fakeNotes) List(_ context.Context, userID string, q models.NoteQuery) (*models.NotePage, error) {
	f.lastQ = q
	if f.listErr != nil {
		return nil, f.listErr
	}
	q = q.Normalize()
	var out []*models.Note
	for _, n := range f.byID {
		if n.UserID == userID && strings.Contains(strings.ToLower(n.Title+" "+n.Content), strings.ToLower(q.Search)) {
			out = append(out, n)
		}
	}
	return models.NewNotePage(q, out, int64(len(out))), nil
}

func (f *fakeNotes) Get(_ context.Context, userID, id string) (*models.Note, error) {
	if f.panicOnGet {
		panic("kaboom")
	}
	n, ok := f.byID[id]
	if !ok || n.UserID != userID {
		return nil, common.NewError(common.ErrorNotFound, "Note not found")
	}
	return n, nil
}

func (f *fakeNotes) Update(ctx context.Context, userID, id string, patch models.NotePatch) (*models.Note, error) {
	n, err := f.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if patch.Title != nil {
		n.Title = *patch.Title
	}
	return n, nil
}

func (f *fakeNotes) Delete(_ context.Context, userID, id string) error {
	n, ok := f.byID[id]
	if !ok || n.UserID != userID {
		return common.NewError(common.ErrorNotFound, "Note not found")
	}
	delete(f.byID, id)
	return nil
}

type testEnv struct {
	users   *fakeUsers
	notes   *fakeNotes
	metrics *metrics.Metrics
	handler http.Handler
}

func newTestEnv(t *testing.T, showStack bool, requests int) *testEnv {
	t.Helper()
	env := &testEnv{users: &fakeUsers{}, notes: newFakeNotes(), metrics: metrics.New()}
	env.handler = NewRouter(&RouterConfig{
		Users:       env.users,
		Notes:       env.notes,
		Logger:      logging.Nop(),
		Metrics:     env.metrics,
		RateLimiter: ratelimit.NewRateLimiter(requests, 15*time.Minute),
		ShowStack:   showStack,
	})
	return env
}

func (e *testEnv) do(method, path, body, token string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}
