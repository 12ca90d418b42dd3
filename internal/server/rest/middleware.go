package rest

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rajat290/notekeeper/internal/common"
	"github.com/rajat290/notekeeper/internal/logging"
	"github.com/rajat290/notekeeper/internal/server/metrics"
	"github.com/rajat290/notekeeper/internal/server/models"
	"github.com/rajat290/notekeeper/internal/server/ratelimit"
)

type ctxKey string

const (
	requestIDKey ctxKey = "requestID"
	userKey      ctxKey = "user"
)

// Middleware wraps an http.Handler with additional functionality.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares so that the first one runs first.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// RequestID keeps the caller's X-Request-ID or assigns a new one.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(common.RequestIDHeaderName)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(common.RequestIDHeaderName, id)

			ctx := context.WithValue(r.Context(), requestIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// Logging writes one record per request.
func Logging(logger logging.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := wrapWriter(w)

			next.ServeHTTP(rw, r)

			attrs := []any{
				"request_id", RequestIDFromContext(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", rw.status,
				"duration_ms", time.Since(start).Milliseconds(),
				"client_ip", clientIP(r),
			}

			switch {
			case rw.status >= 500:
				logger.Error(r.Context(), "request completed with error", attrs...)
			case rw.status >= 400:
				logger.Warn(r.Context(), "request completed with client error", attrs...)
			default:
				logger.Info(r.Context(), "request completed", attrs...)
			}
		})
	}
}

// Recover turns a panic into a 500. The stack goes into the body only when
// showStack is set.
func Recover(logger logging.Logger, showStack bool) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					stack := string(debug.Stack())
					logger.Error(r.Context(), "panic recovered",
						"request_id", RequestIDFromContext(r.Context()),
						"error", fmt.Sprint(rec),
						"path", r.URL.Path,
						"stack", stack,
					)
					writeInternal(w, showStack, fmt.Sprintf("%v\n%s", rec, stack))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// SecureHeaders sets the usual hardening headers on every response.
func SecureHeaders() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "SAMEORIGIN")
			h.Set("Referrer-Policy", "no-referrer")
			h.Set("Cross-Origin-Resource-Policy", "same-origin")
			h.Set("X-DNS-Prefetch-Control", "off")
			next.ServeHTTP(w, r)
		})
	}
}

// CORS allows any origin and answers preflight requests itself.
func CORS() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.Header().Set("Access-Control-Allow-Methods", "GET,HEAD,PUT,PATCH,POST,DELETE")
				if hdr := r.Header.Get("Access-Control-Request-Headers"); hdr != "" {
					w.Header().Set("Access-Control-Allow-Headers", hdr)
				} else {
					w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, "+common.RequestIDHeaderName)
				}
				w.Header().Set("Access-Control-Max-Age", "86400")
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit rejects clients that exhausted their budget with 429.
func RateLimit(rl *ratelimit.RateLimiter, m *metrics.Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := rl.CheckLimit(clientIP(r)); err != nil {
				m.RateLimited()
				writeMessage(w, http.StatusTooManyRequests,
					"Too many requests from this IP, please try again later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Instrument records request count and latency per route pattern. It must
// wrap the ServeMux directly so that r.Pattern is visible after routing.
func Instrument(m *metrics.Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := wrapWriter(w)

			next.ServeHTTP(rw, r)

			route := r.Pattern
			if route == "" || route == "/" {
				route = "unmatched"
			}
			m.ObserveRequest(r.Method, route, rw.status, time.Since(start))
		})
	}
}

// Authenticator resolves a session token into the public user it belongs to.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.PublicUser, error)
}

// Auth guards a handler with the bearer session token.
func Auth(a Authenticator, m *metrics.Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get(common.AuthorizationHeaderName)
			token, ok := strings.CutPrefix(header, common.BearerPrefix)
			token = strings.TrimSpace(token)
			if !ok || token == "" {
				m.AuthFailure("no_token")
				writeMessage(w, http.StatusUnauthorized, "Not authorized, no token")
				return
			}

			user, err := a.Authenticate(r.Context(), token)
			if err != nil {
				m.AuthFailure("token_failed")
				writeMessage(w, http.StatusUnauthorized, "Not authorized, token failed")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the user set by Auth.
func UserFromContext(ctx context.Context) (*models.PublicUser, bool) {
	u, ok := ctx.Value(userKey).(*models.PublicUser)
	return u, ok && u != nil
}

type statusWriter struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func wrapWriter(w http.ResponseWriter) *statusWriter {
	return &statusWriter{ResponseWriter: w, status: http.StatusOK}
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wrote {
		w.status = code
		w.wrote = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wrote = true
	return w.ResponseWriter.Write(b)
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// clientIP is the rate-limit key. Forwarding headers are not trusted.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
