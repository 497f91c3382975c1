// Package server wires the gophauth server together: credential store,
// password hasher, token issuer, auth service and the HTTP and gRPC
// transports. It also handles graceful shutdown on SIGINT/SIGTERM.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/httpapi"
	"github.com/dmitrijs2005/gophauth/internal/server/metrics"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	gs "github.com/dmitrijs2005/gophauth/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager repomanager.RepositoryManager
	registry    *prometheus.Registry
	metrics     *metrics.Metrics
	authService *services.AuthService
}

// NewApp opens the credential store and builds the services. The caller
// owns the returned App and must call Run, which releases the store.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	rm, err := repomanager.New(ctx, c.StorageBackend, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	hasher, err := auth.NewHasher(c.HashAlgorithm)
	if err != nil {
		_ = rm.Close()
		return nil, err
	}

	issuer, err := auth.NewTokenIssuer([]byte(c.SecretKey), auth.WithTTL(c.TokenTTL))
	if err != nil {
		_ = rm.Close()
		return nil, err
	}

	registry := metrics.NewRegistry()
	m := metrics.New(registry)

	svc := services.NewAuthService(rm.Users(), auth.NewPooledHasher(hasher, c.HashConcurrency), issuer, logger, m)

	return &App{
		config:      c,
		logger:      logger,
		repomanager: rm,
		registry:    registry,
		metrics:     m,
		authService: svc,
	}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case sig := <-sigs:
			app.logger.Info(ctx, "Received signal", "signal", sig.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	s := gs.NewGRPCServer(app.config.GRPCAddr, app.logger, app.authService, app.metrics)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "gRPC server failed", "error", err)
		cancelFunc()
		return err
	}
	return nil
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	gin.SetMode(app.config.GinMode)

	router := httpapi.NewRouter(httpapi.RouterConfig{
		AllowedOrigins: app.config.CORSAllowedOrigins,
		Gatherer:       app.registry,
		Metrics:        app.metrics,
	}, app.authService, logging.ForModule(app.logger, "http"))

	s := httpapi.NewHTTPServer(app.config.HTTPAddr, router, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "HTTP server failed", "error", err)
		cancelFunc()
		return err
	}
	return nil
}

// Run serves both transports until ctx is cancelled, a signal arrives or
// one of the servers fails. The first server error is returned.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...",
		"storage", app.config.StorageBackend,
		"hash_algorithm", app.config.HashAlgorithm,
	)

	app.initSignalHandler(ctx, cancelFunc)

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	record := func(err error) {
		if err != nil {
			once.Do(func() { firstErr = err })
		}
	}

	wg.Add(2)
	go func() {
		defer wg.Done()
		record(app.startGRPCServer(ctx, cancelFunc))
	}()
	go func() {
		defer wg.Done()
		record(app.startHTTPServer(ctx, cancelFunc))
	}()

	wg.Wait()

	if err := app.repomanager.Close(); err != nil {
		app.logger.Error(ctx, "closing storage", "error", err)
	}
	app.logger.Info(ctx, "App stopped")

	return firstErr
}
