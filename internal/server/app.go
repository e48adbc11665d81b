// Package server wires the study backend together: storage, credential
// cipher, session revocation, services, the HTTP API and the gRPC health
// endpoint. Run blocks until a signal or context cancellation stops both
// listeners.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/nihongo/internal/cryptox"
	"github.com/dmitrijs2005/nihongo/internal/logging"
	"github.com/dmitrijs2005/nihongo/internal/observability"
	"github.com/dmitrijs2005/nihongo/internal/server/archive"
	"github.com/dmitrijs2005/nihongo/internal/server/config"
	"github.com/dmitrijs2005/nihongo/internal/server/httpapi"
	"github.com/dmitrijs2005/nihongo/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/nihongo/internal/server/services"
	"github.com/dmitrijs2005/nihongo/internal/server/sessions"

	gs "github.com/dmitrijs2005/nihongo/internal/server/grpc"
)

const (
	serviceName     = "nihongo-api"
	shutdownTimeout = 10 * time.Second
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	repomanager    repomanager.RepositoryManager
	revoker        sessions.Revoker
	handler        *httpapi.Handler
	tracerShutdown observability.Shutdown
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger, err := logging.New(c.LogFormat)
	if err != nil {
		return nil, err
	}

	if err := c.Validate(ctx, logger); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	cipher, err := cryptox.NewCipher(c.EncryptionSecret)
	if err != nil {
		return nil, fmt.Errorf("cipher init error: %w", err)
	}

	rm, err := repomanager.New(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if c.DatabaseDSN == "" {
		logger.Warn(ctx, "DATABASE_URL not set, accounts and history are kept in memory")
	}

	if err := rm.RunMigrations(ctx); err != nil {
		_ = rm.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	revoker, err := newRevoker(ctx, c, logger)
	if err != nil {
		_ = rm.Close()
		return nil, err
	}

	authService := services.NewAuthService(rm, cipher, revoker, c, logger)
	historyService := services.NewHistoryService(rm, c.HistoryLimit, logger)

	var store services.Archive
	if c.ExportEnabled() {
		s3, err := archive.NewS3Store(ctx, archive.Config{
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			BaseEndpoint: c.S3BaseEndpoint,
		})
		if err != nil {
			_ = rm.Close()
			_ = revoker.Close()
			return nil, fmt.Errorf("archive init error: %w", err)
		}
		store = s3
	}

	tracerShutdown := observability.InitTracing(ctx, logger, observability.TracingConfig{
		Enabled:      c.TracingEnabled,
		ServiceName:  serviceName,
		Environment:  c.Environment,
		OTLPEndpoint: c.OTLPEndpoint,
	})

	handler := &httpapi.Handler{
		Auth:    authService,
		History: historyService,
		Export:  services.NewExportService(historyService, store, logger),
		Ready:   rm.Ping,
	}

	return &App{
		config:         c,
		logger:         logger,
		repomanager:    rm,
		revoker:        revoker,
		handler:        handler,
		tracerShutdown: tracerShutdown,
	}, nil
}

func newRevoker(ctx context.Context, c *config.Config, logger logging.Logger) (sessions.Revoker, error) {
	if c.RedisAddr == "" {
		return sessions.NewMemoryRevoker(), nil
	}

	r, err := sessions.NewRedisRevoker(ctx, c.RedisAddr)
	if err != nil {
		return nil, fmt.Errorf("redis init error: %w", err)
	}
	logger.Info(ctx, "session revocations stored in redis", "addr", c.RedisAddr)
	return r, nil
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

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.repomanager.Ping)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "gRPC server failed", "error", err)
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	router := httpapi.NewRouter(app.handler, app.logger, httpapi.RouterOptions{
		ServiceName:        serviceName,
		TracingEnabled:     app.config.TracingEnabled,
		CORSAllowedOrigins: app.config.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:              app.config.EndpointAddrHTTP,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(shutdownCtx, "HTTP shutdown failed", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, "HTTP server failed", "error", err)
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// releases storage, the revocation store and the tracer.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "environment", app.config.Environment)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.close(context.Background())
}

func (app *App) close(ctx context.Context) {
	if err := app.tracerShutdown(ctx); err != nil {
		app.logger.Warn(ctx, "tracer shutdown failed", "error", err)
	}
	if err := app.revoker.Close(); err != nil {
		app.logger.Warn(ctx, "revoker close failed", "error", err)
	}
	if err := app.repomanager.Close(); err != nil {
		app.logger.Warn(ctx, "db close failed", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
