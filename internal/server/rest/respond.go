package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/rajat290/notekeeper/internal/common"
)

const maxBodyBytes = 1 << 20

var errInvalidBody = common.NewError(common.ErrorValidation, "Invalid request body")

// errorResponse is the body of every failed request. Stack is filled only
// outside production.
type errorResponse struct {
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errInvalidBody
	}
	return nil
}

// statusFor maps the common error kinds to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrorValidation),
		errors.Is(err, common.ErrorAlreadyExists),
		errors.Is(err, common.ErrInvalidResetToken):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorInvalidCredentials),
		errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrRateLimitExceeded):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with the status for err. Errors that carry no
// user-facing message become a 500 and are logged.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	h.writeErrorStatus(w, r, statusFor(err), err)
}

func (h *Handler) writeErrorStatus(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status != http.StatusInternalServerError {
		writeMessage(w, status, common.Message(err, http.StatusText(status)))
		return
	}

	h.logger.Error(r.Context(), "request failed", "error", err.Error(),
		"path", r.URL.Path, "request_id", RequestIDFromContext(r.Context()))
	writeInternal(w, h.showStack, err.Error()+"\n"+string(debug.Stack()))
}

func writeInternal(w http.ResponseWriter, showStack bool, stack string) {
	resp := errorResponse{Message: "Internal Server Error"}
	if showStack {
		resp.Stack = stack
	}
	writeJSON(w, http.StatusInternalServerError, resp)
}
