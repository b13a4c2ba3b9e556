package service

import (
	"time"

	"github.com/flexcargo/flexcargo/internal/cache"
	"github.com/flexcargo/flexcargo/internal/config"
	"github.com/flexcargo/flexcargo/internal/domain/branch"
	"github.com/flexcargo/flexcargo/internal/domain/consignment"
	"github.com/flexcargo/flexcargo/internal/domain/deliveryrun"
	"github.com/flexcargo/flexcargo/internal/domain/invoice"
	"github.com/flexcargo/flexcargo/internal/domain/ogpl"
	"github.com/flexcargo/flexcargo/internal/domain/receipt"
	"github.com/flexcargo/flexcargo/internal/domain/sequence"
	"github.com/flexcargo/flexcargo/internal/domain/tenant"
	"github.com/flexcargo/flexcargo/internal/logger"
	"github.com/flexcargo/flexcargo/internal/metrics"
	"github.com/flexcargo/flexcargo/internal/postgres"
	"github.com/flexcargo/flexcargo/internal/sentry"
)

// Clock returns the current time. Services read time through it so tests can
// move across period boundaries.
type Clock func() time.Time

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger  *logger.Logger
	Config  *config.Configuration
	DB      postgres.IClient
	Cache   cache.Cache
	Metrics *metrics.Metrics
	Sentry  *sentry.Service
	Clock   Clock

	// Repositories
	SequenceRepo    sequence.Repository
	IssuedCodeRepo  sequence.IssuedCodeRepository
	TenantRepo      tenant.Repository
	BranchRepo      branch.Repository
	ConsignmentRepo consignment.Repository
	InvoiceRepo     invoice.Repository
	OGPLRepo        ogpl.Repository
	DeliveryRunRepo deliveryrun.Repository
	ReceiptRepo     receipt.Repository
}

// Common service params
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db postgres.IClient,
	cache cache.Cache,
	metrics *metrics.Metrics,
	sentry *sentry.Service,
	sequenceRepo sequence.Repository,
	issuedCodeRepo sequence.IssuedCodeRepository,
	tenantRepo tenant.Repository,
	branchRepo branch.Repository,
	consignmentRepo consignment.Repository,
	invoiceRepo invoice.Repository,
	ogplRepo ogpl.Repository,
	deliveryRunRepo deliveryrun.Repository,
	receiptRepo receipt.Repository,
) ServiceParams {
	return ServiceParams{
		Logger:          logger,
		Config:          config,
		DB:              db,
		Cache:           cache,
		Metrics:         metrics,
		Sentry:          sentry,
		Clock:           time.Now,
		SequenceRepo:    sequenceRepo,
		IssuedCodeRepo:  issuedCodeRepo,
		TenantRepo:      tenantRepo,
		BranchRepo:      branchRepo,
		ConsignmentRepo: consignmentRepo,
		InvoiceRepo:     invoiceRepo,
		OGPLRepo:        ogplRepo,
		DeliveryRunRepo: deliveryRunRepo,
		ReceiptRepo:     receiptRepo,
	}
}

func (p ServiceParams) now() time.Time {
	if p.Clock == nil {
		return time.Now()
	}
	return p.Clock()
}
