package internal

import (
	"fmt"

	"github.com/flexcargo/flexcargo/internal/cache"
	"github.com/flexcargo/flexcargo/internal/config"
	"github.com/flexcargo/flexcargo/internal/logger"
	"github.com/flexcargo/flexcargo/internal/metrics"
	"github.com/flexcargo/flexcargo/internal/postgres"
	"github.com/flexcargo/flexcargo/internal/repository"
	"github.com/flexcargo/flexcargo/internal/sentry"
	"github.com/flexcargo/flexcargo/internal/service"
)

// app holds what the operator commands need, wired by hand in the same way
// the server graph wires it
type app struct {
	cfg       *config.Configuration
	logger    *logger.Logger
	db        *postgres.DB
	sentry    *sentry.Service
	params    service.ServiceParams
	allocator service.SequenceAllocator
}

func newApp() (*app, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := postgres.NewDB(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	sentrySvc := sentry.NewSentryService(cfg, log)
	if err := sentrySvc.Init(); err != nil {
		db.Close()
		return nil, err
	}
	client := postgres.NewClient(db, sentrySvc, log)
	params := service.NewServiceParams(
		log,
		cfg,
		client,
		cache.Initialize(cfg, log),
		metrics.NewMetrics(),
		sentrySvc,
		repository.NewSequenceRepository(client, log),
		repository.NewIssuedCodeRepository(client, log),
		repository.NewTenantRepository(client, log),
		repository.NewBranchRepository(client, log),
		repository.NewConsignmentRepository(client, log),
		repository.NewInvoiceRepository(client, log),
		repository.NewOGPLRepository(client, log),
		repository.NewDeliveryRunRepository(client, log),
		repository.NewReceiptRepository(client, log),
	)

	allocator, err := service.NewSequenceAllocator(params)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &app{
		cfg:       cfg,
		logger:    log,
		db:        db,
		sentry:    sentrySvc,
		params:    params,
		allocator: allocator,
	}, nil
}

func (a *app) close() {
	a.sentry.Flush()
	_ = a.logger.Sync()
	a.db.Close()
}
