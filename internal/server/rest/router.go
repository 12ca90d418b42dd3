package rest

import (
	"net/http"

	"github.com/rajat290/notekeeper/internal/logging"
	"github.com/rajat290/notekeeper/internal/server/metrics"
	"github.com/rajat290/notekeeper/internal/server/ratelimit"
)

// RouterConfig holds everything NewRouter wires together.
type RouterConfig struct {
	Users       UserService
	Notes       NoteService
	Logger      logging.Logger
	Metrics     *metrics.Metrics
	RateLimiter *ratelimit.RateLimiter

	// ShowStack adds stack traces to 500 responses; off in production.
	ShowStack bool
}

// NewRouter builds the API handler.
// Order: RequestID -> Logging -> Recover -> SecureHeaders -> CORS -> RateLimit -> Instrument -> mux
func NewRouter(cfg *RouterConfig) http.Handler {
	h := NewHandler(cfg.Users, cfg.Notes, cfg.Logger, cfg.ShowStack)
	protect := Auth(cfg.Users, cfg.Metrics)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/ping", h.Ping)
	mux.Handle("GET /metrics", cfg.Metrics.Handler())

	// auth
	mux.HandleFunc("POST /api/auth/signup", h.Signup)
	mux.HandleFunc("POST /api/auth/login", h.Login)
	mux.Handle("GET /api/auth/me", protect(http.HandlerFunc(h.Me)))
	mux.HandleFunc("POST /api/auth/forgot-password", h.ForgotPassword)
	mux.HandleFunc("POST /api/auth/reset-password/{token}", h.ResetPassword)
	mux.Handle("POST /api/auth/change-password", protect(http.HandlerFunc(h.ChangePassword)))

	// notes
	mux.Handle("POST /api/notes", protect(http.HandlerFunc(h.CreateNote)))
	mux.Handle("GET /api/notes", protect(http.HandlerFunc(h.ListNotes)))
	mux.Handle("GET /api/notes/{id}", protect(http.HandlerFunc(h.GetNote)))
	mux.Handle("PUT /api/notes/{id}", protect(http.HandlerFunc(h.UpdateNote)))
	mux.Handle("DELETE /api/notes/{id}", protect(http.HandlerFunc(h.DeleteNote)))

	mux.HandleFunc("/", h.NotFound)

	logger := cfg.Logger.With("module", "http")

	return Chain(mux,
		RequestID(),
		Logging(logger),
		Recover(logger, cfg.ShowStack),
		SecureHeaders(),
		CORS(),
		RateLimit(cfg.RateLimiter, cfg.Metrics),
		Instrument(cfg.Metrics),
	)
}
