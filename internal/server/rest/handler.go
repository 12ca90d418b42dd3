package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/rajat290/notekeeper/internal/common"
	"github.com/rajat290/notekeeper/internal/logging"
	"github.com/rajat290/notekeeper/internal/server/models"
	"github.com/rajat290/notekeeper/internal/server/services"
)

// UserService is the subset of *services.UserService the handlers call.
type UserService interface {
	Authenticator
	Signup(ctx context.Context, name, email, password string) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	Me(ctx context.Context, userID string) (*models.PublicUser, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
}

type NoteService interface {
	Create(ctx context.Context, userID string, in models.NoteInput) (*models.Note, error)
	List(ctx context.Context, userID string, q models.NoteQuery) (*models.NotePage, error)
	Get(ctx context.Context, userID, id string) (*models.Note, error)
	Update(ctx context.Context, userID, id string, patch models.NotePatch) (*models.Note, error)
	Delete(ctx context.Context, userID, id string) error
}

type Handler struct {
	users     UserService
	notes     NoteService
	logger    logging.Logger
	showStack bool
}

func NewHandler(us UserService, ns NoteService, l logging.Logger, showStack bool) *Handler {
	return &Handler{users: us, notes: ns, logger: l.With("module", "rest"), showStack: showStack}
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.users.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.logger.Info(r.Context(), "Registered", "user_id", res.User.ID)
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	current, _ := UserFromContext(r.Context())

	user, err := h.users.Me(r.Context(), current.ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.users.ForgotPassword(r.Context(), req.Email); err != nil {
		h.writeError(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, "If that email is registered, a reset link has been sent")
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.users.ResetPassword(r.Context(), r.PathValue("token"), req.Password); err != nil {
		h.writeError(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, "Password reset successful")
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	current, _ := UserFromContext(r.Context())
	err := h.users.ChangePassword(r.Context(), current.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		// a wrong current password is a bad request here, not a failed login
		if errors.Is(err, common.ErrorInvalidCredentials) {
			h.writeErrorStatus(w, r, http.StatusBadRequest, err)
			return
		}
		h.writeError(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, "Password updated successfully")
}

func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var in models.NoteInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}

	current, _ := UserFromContext(r.Context())
	note, err := h.notes.Create(r.Context(), current.ID, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, note)
}

func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	q := models.NoteQuery{
		Search: qs.Get("search"),
		Page:   atoiOrZero(qs.Get("page")),
		Limit:  atoiOrZero(qs.Get("limit")),
		SortBy: qs.Get("sortBy"),
		Order:  qs.Get("order"),
	}

	current, _ := UserFromContext(r.Context())
	page, err := h.notes.List(r.Context(), current.ID, q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	current, _ := UserFromContext(r.Context())
	note, err := h.notes.Get(r.Context(), current.ID, r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, note)
}

func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	var patch models.NotePatch
	if err := decodeJSON(w, r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}

	current, _ := UserFromContext(r.Context())
	note, err := h.notes.Update(r.Context(), current.ID, r.PathValue("id"), patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, note)
}

func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	current, _ := UserFromContext(r.Context())
	if err := h.notes.Delete(r.Context(), current.ID, r.PathValue("id")); err != nil {
		h.writeError(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, "Note deleted")
}

func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusNotFound, "Not found - "+r.URL.Path)
}

// atoiOrZero leaves malformed paging values to NoteQuery.Normalize.
func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
