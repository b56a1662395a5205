package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerfiles "github.com/swaggo/files"
	swagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	_ "github.com/Nazarious-ucu/newsletter-api/docs"
	"github.com/Nazarious-ucu/newsletter-api/internal/config"
	"github.com/Nazarious-ucu/newsletter-api/internal/handlers/middleware"
	"github.com/Nazarious-ucu/newsletter-api/internal/handlers/subscription"
	"github.com/Nazarious-ucu/newsletter-api/internal/metrics"
	"github.com/Nazarious-ucu/newsletter-api/internal/repository/postgres"
	"github.com/Nazarious-ucu/newsletter-api/internal/services/subscriptions"
	"github.com/Nazarious-ucu/newsletter-api/internal/storage"
	"github.com/Nazarious-ucu/newsletter-api/internal/tracing"
)

const (
	timeoutDuration = 5 * time.Second

	metricsNamespace = "newsletter"
)

type ServiceContainer struct {
	SubscriptionService *subscriptions.Service
	SubRepository       *postgres.SubscriberRepository

	Router *gin.Engine
	Srv    *http.Server
	Pool   *storage.Pool
	M      *metrics.Metrics
}

type App struct {
	cfg    config.Config
	l      zerolog.Logger
	access *zap.Logger
	tp     trace.TracerProvider
}

// New wires nothing yet; Init does. Every log line of the application carries
// correlation fields once a request span is active.
func New(cfg config.Config, logger zerolog.Logger, access *zap.Logger, tp trace.TracerProvider) *App {
	return &App{
		cfg:    cfg,
		l:      logger.Hook(tracing.Hook{}),
		access: access,
		tp:     tp,
	}
}

// Init connects to the configured database, applies migrations and builds the
// HTTP stack on top of it.
func (a *App) Init(ctx context.Context) (ServiceContainer, error) {
	a.l.Info().
		Str("db_host", a.cfg.DB.Host).
		Int("db_port", a.cfg.DB.Port).
		Str("db_name", a.cfg.DB.Name).
		Msg("Initializing application")

	pool, err := storage.Open(ctx, a.cfg.DB)
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("open database: %w", err)
	}

	applied, err := storage.Migrate(ctx, pool.DB)
	if err != nil {
		_ = pool.Close()
		return ServiceContainer{}, err
	}
	a.l.Info().Int("applied", len(applied)).Msg("Migrations applied")

	m := metrics.NewMetrics(metricsNamespace, pool.DB, a.cfg.DB.Name)

	repo := postgres.NewSubscriberRepository(pool.DB, a.l, m)
	subSvc := subscriptions.NewService(repo, a.l, m.SubscriptionsCreated)
	subHandler := subscription.NewHandler(subSvc, tracing.NewTracer(a.tp), a.l, m)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		m.HTTPMiddleware(),
		middleware.AccessLog(a.access, subscription.RequestIDHeader),
	)

	router.GET("/health_check", subHandler.HealthCheck)
	router.POST("/subscriptions", subHandler.Subscribe)
	router.GET("/metrics", gin.WrapH(m.Handler()))
	router.GET("/swagger/*any", swagger.WrapHandler(swaggerfiles.Handler))

	httpSrv := &http.Server{
		Addr:        a.cfg.ServerAddress(),
		Handler:     router,
		ReadTimeout: time.Duration(a.cfg.Server.ReadTimeout) * time.Second,
	}

	return ServiceContainer{
		SubscriptionService: subSvc,
		SubRepository:       repo,

		Router: router,
		Srv:    httpSrv,
		Pool:   pool,
		M:      m,
	}, nil
}

// Start serves HTTP until ctx is canceled and then stops the application.
// A nil lis means listening on the configured address.
func (a *App) Start(ctx context.Context, srvContainer ServiceContainer, lis net.Listener) error {
	if lis == nil {
		lc := net.ListenConfig{}
		var err error
		lis, err = lc.Listen(ctx, "tcp", srvContainer.Srv.Addr)
		if err != nil {
			_ = srvContainer.Pool.Close()
			return fmt.Errorf("listen on %s: %w", srvContainer.Srv.Addr, err)
		}
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.l.Info().Str("http_addr", lis.Addr().String()).Msg("HTTP server listening")
		if err := srvContainer.Srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.l.Error().Err(err).Msg("HTTP server error")
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		a.l.Info().Msg("Shutdown signal received")
		return a.Stop(srvContainer)
	})

	return g.Wait()
}

func (a *App) Stop(srvContainer ServiceContainer) error {
	a.l.Info().Msg("Stopping application")

	ctx, cancel := context.WithTimeout(context.Background(), timeoutDuration)
	defer cancel()

	var errs []error
	if err := srvContainer.Srv.Shutdown(ctx); err != nil {
		a.l.Error().Err(err).Msg("HTTP shutdown error")
		errs = append(errs, err)
	} else {
		a.l.Info().Msg("HTTP server stopped")
	}

	if f, ok := a.tp.(interface{ ForceFlush(context.Context) error }); ok {
		if err := f.ForceFlush(ctx); err != nil {
			a.l.Error().Err(err).Msg("Span flush error")
		}
	}

	if err := srvContainer.Pool.Close(); err != nil {
		a.l.Error().Err(err).Msg("Database close error")
		errs = append(errs, err)
	} else {
		a.l.Info().Msg("Database closed")
	}

	_ = a.access.Sync()

	a.l.Info().Msg("Application shutdown complete")
	return errors.Join(errs...)
}
