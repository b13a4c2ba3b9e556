package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/flexcargo/flexcargo/internal/api"
	v1 "github.com/flexcargo/flexcargo/internal/api/v1"
	"github.com/flexcargo/flexcargo/internal/auth"
	"github.com/flexcargo/flexcargo/internal/cache"
	"github.com/flexcargo/flexcargo/internal/config"
	"github.com/flexcargo/flexcargo/internal/logger"
	"github.com/flexcargo/flexcargo/internal/metrics"
	"github.com/flexcargo/flexcargo/internal/postgres"
	"github.com/flexcargo/flexcargo/internal/repository"
	"github.com/flexcargo/flexcargo/internal/sentry"
	"github.com/flexcargo/flexcargo/internal/service"
	"github.com/flexcargo/flexcargo/internal/types"
	"github.com/flexcargo/flexcargo/internal/validator"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

func init() {
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			validator.NewValidator,
			config.NewConfig,
			logger.NewLogger,
			cache.Initialize,
			auth.NewTokens,
		),
		sentry.Module(),
		postgres.Module(),
		metrics.Module(),
		repository.Module(),
	)

	// Service layer
	opts = append(opts, service.Module())

	// API
	opts = append(opts,
		fx.Provide(
			v1.NewHealthHandler,
			v1.NewTenantHandler,
			v1.NewBranchHandler,
			v1.NewConsignmentHandler,
			v1.NewInvoiceHandler,
			v1.NewDispatchHandler,
			v1.NewSequenceHandler,
			api.NewHandlers,
			api.NewRouter,
		),
		fx.Invoke(startServer),
	)

	app := fx.New(opts...)
	app.Run()
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	db *postgres.DB,
	log *logger.Logger,
) {
	if cfg.Deployment.Mode == types.ModeLocal {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				applied, err := db.Migrate(ctx)
				if err != nil {
					return err
				}
				log.Infow("local schema ready", "applied", applied)
				return nil
			},
		})
	}

	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting API server", "address", cfg.Server.Address, "mode", cfg.Deployment.Mode)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			if err := srv.Shutdown(ctx); err != nil {
				return err
			}
			db.Close()
			return nil
		},
	})
}
