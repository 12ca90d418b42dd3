// Package server wires the NoteKeeper API: it opens the database, applies
// migrations, builds the services and runs the HTTP server until a signal
// arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rajat290/notekeeper/internal/logging"
	"github.com/rajat290/notekeeper/internal/server/auth"
	"github.com/rajat290/notekeeper/internal/server/config"
	"github.com/rajat290/notekeeper/internal/server/mailer"
	"github.com/rajat290/notekeeper/internal/server/metrics"
	"github.com/rajat290/notekeeper/internal/server/ratelimit"
	"github.com/rajat290/notekeeper/internal/server/repositories/repomanager"
	"github.com/rajat290/notekeeper/internal/server/rest"
	"github.com/rajat290/notekeeper/internal/server/services"
)

const rateLimitCleanupInterval = time.Minute

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	limiter     *ratelimit.RateLimiter
	userService *services.UserService
	noteService *services.NoteService
	metrics     *metrics.Metrics
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	logger := logging.NewJSONLogger(os.Stdout, !c.IsProduction())

	db, err := repomanager.OpenDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	m := metrics.New()
	mail := mailer.WithObserver(mailer.New(c, logger), m.ResetEmail)

	us := services.NewUserService(db, rm, mail, auth.NewPasswordHasher(), c, logger)
	ns := services.NewNoteService(db, rm)

	return &App{
		config:      c,
		logger:      logger,
		db:          db,
		limiter:     ratelimit.NewRateLimiter(c.RateLimitRequests, c.RateLimitWindow),
		userService: us,
		noteService: ns,
		metrics:     m,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) routerConfig() *rest.RouterConfig {
	return &rest.RouterConfig{
		Users:       app.userService,
		Notes:       app.noteService,
		Logger:      app.logger,
		Metrics:     app.metrics,
		RateLimiter: app.limiter,
		ShowStack:   !app.config.IsProduction(),
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := rest.NewServer(app.config.EndpointAddrHTTP, rest.NewRouter(app.routerConfig()), app.logger, app.config.ShutdownTimeout)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until the server stops, then closes the database.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "env", app.config.Environment)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.limiter.StartCleanupWorker(ctx, rateLimitCleanupInterval)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
