package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jyotish-back/internal/api"
	"github.com/jyotish-back/internal/arcs"
	"github.com/jyotish-back/internal/astro"
	"github.com/jyotish-back/internal/cache"
	"github.com/jyotish-back/internal/chart"
	"github.com/jyotish-back/internal/messaging"
	"github.com/jyotish-back/internal/nodes"
	"github.com/jyotish-back/internal/solver"
	"github.com/jyotish-back/internal/tz"
	"github.com/jyotish-back/pkg/config"
)

// App represents the main application
type App struct {
	cfg    *config.Config
	logger *logrus.Logger
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Core components
	redisCache *cache.RedisClient
	natsClient *messaging.NATSClient
	arcTable   *arcs.Table
	nodeInterp *nodes.Interpolator
	calculator *chart.Calculator
	apiServer  *api.Server
}

// New creates a new application instance
func New(cfg *config.Config, logger *logrus.Logger) *App {
	ctx, cancel := context.WithCancel(context.Background())

	return &App{
		cfg:    cfg,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Initialize initializes all application components
func (a *App) Initialize() error {
	// Redis and NATS are optional; the chart pipeline runs without them
	if err := a.initializeCache(); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	if err := a.initializeMessaging(); err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}

	if err := a.initializeArcTable(); err != nil {
		return fmt.Errorf("failed to initialize arc table: %w", err)
	}

	if err := a.initializeCalculator(); err != nil {
		return fmt.Errorf("failed to initialize calculator: %w", err)
	}

	if err := a.initializeAPIServer(); err != nil {
		return fmt.Errorf("failed to initialize API server: %w", err)
	}

	return nil
}

// Start starts the application
func (a *App) Start() error {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.apiServer.Start(); err != nil {
			if err != http.ErrServerClosed {
				a.logger.WithError(err).Error("API server error")
			}
		}
	}()

	return nil
}

// Stop gracefully stops the application
func (a *App) Stop() error {
	a.logger.Info("Stopping application...")

	// Cancel context to signal shutdown
	a.cancel()

	// Stop API server with timeout
	if a.apiServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := a.apiServer.Stop(ctx); err != nil {
			a.logger.WithError(err).Error("Error stopping API server")
		}
		cancel()
	}

	// Create a channel to signal when goroutines are done
	done := make(chan struct{})

	go func() {
		a.wg.Wait()
		close(done)
	}()

	// Wait for goroutines with timeout
	select {
	case <-done:
		a.logger.Info("All goroutines stopped")
	case <-time.After(3 * time.Second):
		a.logger.Warn("Timeout waiting for goroutines to finish")
	}

	if err := a.closeConnections(); err != nil {
		a.logger.WithError(err).Error("Error closing connections")
	}

	a.logger.Info("Application stopped successfully")
	return nil
}

// GetContext returns the application context
func (a *App) GetContext() context.Context {
	return a.ctx
}

// GetConfig returns the application configuration
func (a *App) GetConfig() *config.Config {
	return a.cfg
}

// GetLogger returns the application logger
func (a *App) GetLogger() *logrus.Logger {
	return a.logger
}

// ArcTable returns the active constellation arc table
func (a *App) ArcTable() *arcs.Table {
	return a.arcTable
}

// Private initialization methods

func (a *App) initializeCache() error {
	if !a.cfg.Redis.Enabled {
		a.logger.Info("Redis disabled, running without cache")
		return nil
	}

	redisClient, err := cache.NewRedisClient(&a.cfg.Redis, a.logger)
	if err != nil {
		a.logger.WithError(err).Warn("Redis unavailable, running without cache")
		return nil
	}
	a.redisCache = redisClient
	a.redisCache.SetTTL(a.cfg.Redis.ChartTTL)

	return nil
}

func (a *App) initializeMessaging() error {
	if !a.cfg.Messaging.Enabled {
		return nil
	}

	natsClient, err := messaging.NewNATSClient(&a.cfg.NATS, a.logger)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}
	a.natsClient = natsClient

	return nil
}

// initializeArcTable loads the persisted constellation arc table when Redis
// holds a valid copy, and rebuilds it from the classifier otherwise.
func (a *App) initializeArcTable() error {
	classifier := astro.NewBandClassifier()
	epoch := a.cfg.Arcs.ReferenceEpoch

	if a.redisCache != nil {
		persisted, err := a.redisCache.GetArcTable(a.ctx, epoch)
		if err != nil {
			a.logger.WithError(err).Warn("Failed to load persisted arc table")
		} else if len(persisted) > 0 {
			a.arcTable = arcs.FromArcs(persisted, classifier, epoch, a.logger)
			if len(a.arcTable.Arcs()) > 0 {
				a.logger.WithFields(logrus.Fields{
					"epoch": epoch,
					"arcs":  len(a.arcTable.Arcs()),
				}).Info("Arc table loaded from cache")
				return nil
			}
		}
	}

	a.arcTable = arcs.Build(classifier, a.cfg.Arcs.SampleStepDeg, epoch, a.logger)

	if a.redisCache != nil && len(a.arcTable.Arcs()) > 0 {
		if err := a.redisCache.SetArcTable(a.ctx, epoch, a.arcTable.Arcs()); err != nil {
			a.logger.WithError(err).Warn("Failed to persist arc table")
		}
		// charts cached against an older table are stale now
		if err := a.redisCache.DeletePattern(a.ctx, cache.ChartKeyPattern); err != nil {
			a.logger.WithError(err).Warn("Failed to invalidate cached charts")
		}
	}
	if a.natsClient != nil && len(a.arcTable.Arcs()) > 0 {
		if err := a.natsClient.PublishArcsRebuilt(epoch, len(a.arcTable.Arcs())); err != nil {
			a.logger.WithError(err).Warn("Failed to announce arc table rebuild")
		}
	}

	return nil
}

func (a *App) initializeCalculator() error {
	interp, err := nodes.NewEmbedded(a.logger)
	if err != nil {
		return fmt.Errorf("failed to load eclipse dataset: %w", err)
	}
	a.nodeInterp = interp

	a.calculator = chart.NewCalculator(chart.Deps{
		Ephemeris: astro.NewAnalyticEphemeris(),
		Solver:    solver.New(astro.FrameProjector{}, &a.cfg.Solver, a.logger),
		Table:     a.arcTable,
		Nodes:     interp,
		Localizer: tz.New(nil, a.logger),
	}, a.cfg, a.logger)

	return nil
}

func (a *App) initializeAPIServer() error {
	a.apiServer = api.NewServer(
		a.cfg,
		a.logger,
		a.calculator,
		a.arcTable,
		a.redisCache,
		a.natsClient,
	)

	return nil
}

func (a *App) closeConnections() error {
	var errs []error

	if a.redisCache != nil {
		if err := a.redisCache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	if a.natsClient != nil {
		if err := a.natsClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close NATS: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing connections: %v", errs)
	}

	return nil
}
