package services

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/rajat290/notekeeper/internal/common"
	"github.com/rajat290/notekeeper/internal/dbx"
	"github.com/rajat290/notekeeper/internal/server/mailer"
	"github.com/rajat290/notekeeper/internal/server/models"
	"github.com/rajat290/notekeeper/internal/server/repositories/notes"
	"github.com/rajat290/notekeeper/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

// fakeHasher stands in for argon2 so tests stay fast.
type fakeHasher struct {
	hashErr error
}

func (h fakeHasher) Hash(pw string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return "hashed:" + pw, nil
}

func (h fakeHasher) Verify(pw, encoded string) (bool, error) {
	if !strings.HasPrefix(encoded, "hashed:") {
		return false, errBoom{}
	}
	return encoded == "hashed:"+pw, nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.err
}

// fakeUsersRepo is a map-backed users.Repository with optional forced errors.
type fakeUsersRepo struct {
	mu      sync.Mutex
	byID    map[string]*models.User
	getErr  error
	updErr  error
	updates int
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: map[string]*models.User{}}
}

func (r *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	cp := *u
	r.byID[u.ID] = &cp
	return u, nil
}

func (r *fakeUsersRepo) find(match func(*models.User) bool) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	for _, u := range r.byID {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeUsersRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Email == email })
}

func (r *fakeUsersRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.ID == id })
}

func (r *fakeUsersRepo) GetByResetTokenHash(_ context.Context, hash string, now time.Time) (*models.User, error) {
	return r.find(func(u *models.User) bool {
		return u.ResetPasswordTokenHash != nil && *u.ResetPasswordTokenHash == hash &&
			u.ResetPasswordExpiresAt != nil && u.ResetPasswordExpiresAt.After(now)
	})
}

func (r *fakeUsersRepo) Update(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates++
	if r.updErr != nil {
		return r.updErr
	}
	if _, ok := r.byID[u.ID]; !ok {
		return common.ErrorNotFound
	}
	cp := *u
	r.byID[u.ID] = &cp
	return nil
}

func (r *fakeUsersRepo) ConsumeResetToken(_ context.Context, userID, hash, passwordHash string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok || u.ResetPasswordTokenHash == nil || *u.ResetPasswordTokenHash != hash ||
		u.ResetPasswordExpiresAt == nil || !u.ResetPasswordExpiresAt.After(now) {
		return common.ErrorNotFound
	}
	u.PasswordHash = passwordHash
	u.ClearResetToken()
	return nil
}

func (r *fakeUsersRepo) get(id string) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[id]
}

// fakeNotesRepo is a map-backed notes.Repository.
type fakeNotesRepo struct {
	mu      sync.Mutex
	byID    map[string]*models.Note
	seq     int
	listErr error
	lastQ   models.NoteQuery
}

func newFakeNotesRepo() *fakeNotesRepo {
	return &fakeNotesRepo{byID: map[string]*models.Note{}}
}

func (r *fakeNotesRepo) Create(_ context.Context, n *models.Note) (*models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	n.ID = uuid.NewString()
	n.CreatedAt = time.Unix(int64(r.seq), 0)
	n.UpdatedAt = n.CreatedAt
	cp := *n
	r.byID[n.ID] = &cp
	return n, nil
}

func (r *fakeNotesRepo) Get(_ context.Context, userID, id string) (*models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.byID[id]
	if !ok || n.UserID != userID {
		return nil, common.ErrorNotFound
	}
	cp := *n
	return &cp, nil
}

func (r *fakeNotesRepo) List(_ context.Context, userID string, q models.NoteQuery) ([]*models.Note, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastQ = q
	if r.listErr != nil {
		return nil, 0, r.listErr
	}
	var out []*models.Note
	for _, n := range r.byID {
		if n.UserID != userID {
			continue
		}
		if q.Search != "" && !strings.Contains(strings.ToLower(n.Title+" "+n.Content+" "+n.Category+" "+strings.Join(n.Tags, " ")), strings.ToLower(q.Search)) {
			continue
		}
		cp := *n
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	total := int64(len(out))
	start := q.Offset()
	if start > len(out) {
		start = len(out)
	}
	end := start + q.Limit
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

func (r *fakeNotesRepo) Update(_ context.Context, n *models.Note) (*models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[n.ID]
	if !ok || existing.UserID != n.UserID {
		return nil, common.ErrorNotFound
	}
	n.UpdatedAt = existing.UpdatedAt.Add(time.Second)
	cp := *n
	r.byID[n.ID] = &cp
	return n, nil
}

func (r *fakeNotesRepo) Delete(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.byID[id]
	if !ok || n.UserID != userID {
		return common.ErrorNotFound
	}
	delete(r.byID, id)
	return nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	n *fakeNotesRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository              { return m.u }
func (m *fakeRepoManager) Notes(dbx.DBTX) notes.Repository              { return m.n }
