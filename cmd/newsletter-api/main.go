package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Nazarious-ucu/newsletter-api/internal/app"
	"github.com/Nazarious-ucu/newsletter-api/internal/config"
	"github.com/Nazarious-ucu/newsletter-api/internal/tracing"
	"github.com/Nazarious-ucu/newsletter-api/pkg/logger"
)

const initTimeout = 30 * time.Second

// @title Newsletter API
// @version 1.0
// @description Collects newsletter subscriptions.
// @host localhost:8000
// @BasePath /
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	cfg, err := config.NewConfig(config.DefaultPath)
	if err != nil {
		log.Panicf("failed to load configuration: %v", err)
	}

	l, err := logger.NewLogger(cfg.Log.FilePath, cfg.Tracing.ServiceName, cfg.Log.Level)
	if err != nil {
		log.Panicf("failed to create logger: %v", err)
	}

	accessLog, err := logger.NewFileLogger(cfg.Log.AccessLogPath)
	if err != nil {
		log.Panicf("failed to create access logger: %v", err)
	}

	tp := tracing.NewProvider(cfg.Tracing.ServiceName, tracing.NewLogExporter(l))
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to shutdown tracer provider")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application := app.New(*cfg, l, accessLog, tp)

	initCtx, cancel := context.WithTimeout(ctx, initTimeout)
	container, err := application.Init(initCtx)
	cancel()
	if err != nil {
		l.Error().Err(err).Msg("failed to initialize application")
		return
	}

	if err := application.Start(ctx, container, nil); err != nil {
		l.Error().Err(err).Msg("application stopped with error")
		return
	}
	l.Info().Msg("Application shutdown successfully")
}
