package api

import (
	v1 "github.com/flexcargo/flexcargo/internal/api/v1"
	"github.com/flexcargo/flexcargo/internal/auth"
	"github.com/flexcargo/flexcargo/internal/config"
	"github.com/flexcargo/flexcargo/internal/logger"
	"github.com/flexcargo/flexcargo/internal/metrics"
	"github.com/flexcargo/flexcargo/internal/rest/middleware"
	"github.com/flexcargo/flexcargo/internal/service"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Health      *v1.HealthHandler
	Tenant      *v1.TenantHandler
	Branch      *v1.BranchHandler
	Consignment *v1.ConsignmentHandler
	Invoice     *v1.InvoiceHandler
	Dispatch    *v1.DispatchHandler
	Sequence    *v1.SequenceHandler
}

func NewHandlers(
	health *v1.HealthHandler,
	tenant *v1.TenantHandler,
	branch *v1.BranchHandler,
	consignment *v1.ConsignmentHandler,
	invoice *v1.InvoiceHandler,
	dispatch *v1.DispatchHandler,
	sequence *v1.SequenceHandler,
) Handlers {
	return Handlers{
		Health:      health,
		Tenant:      tenant,
		Branch:      branch,
		Consignment: consignment,
		Invoice:     invoice,
		Dispatch:    dispatch,
		Sequence:    sequence,
	}
}

func NewRouter(
	handlers Handlers,
	cfg *config.Configuration,
	logger *logger.Logger,
	m *metrics.Metrics,
	tokens *auth.Tokens,
	tenantService service.TenantService,
) *gin.Engine {
	router := gin.New()

	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.SentryMiddleware(cfg),
		middleware.MetricsMiddleware(m),
		middleware.ErrorHandler(logger),
	)

	router.GET("/health", handlers.Health.Health)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	public := router.Group("/v1")
	public.POST("/tenants", handlers.Tenant.CreateTenant)

	private := router.Group("/v1")
	private.Use(middleware.TenantMiddleware(cfg, tokens, tenantService, logger))

	branches := private.Group("/branches")
	{
		branches.POST("", handlers.Branch.CreateBranch)
		branches.GET("", handlers.Branch.ListBranches)
	}

	consignments := private.Group("/consignments")
	{
		consignments.POST("", handlers.Consignment.CreateConsignment)
		consignments.GET("/:cn_number", handlers.Consignment.GetConsignment)
	}

	invoices := private.Group("/invoices")
	{
		invoices.POST("", handlers.Invoice.GenerateInvoice)
		invoices.GET("/:id", handlers.Invoice.GetInvoice)
	}

	ogpls := private.Group("/ogpls")
	{
		ogpls.POST("", handlers.Dispatch.CreateOGPL)
		ogpls.GET("/:id", handlers.Dispatch.GetOGPL)
	}

	deliveryRuns := private.Group("/delivery-runs")
	{
		deliveryRuns.POST("", handlers.Dispatch.CreateDeliveryRun)
		deliveryRuns.GET("/:id", handlers.Dispatch.GetDeliveryRun)
	}

	private.POST("/receipts", handlers.Dispatch.CreateReceipt)
	private.GET("/sequences", handlers.Sequence.ListSequences)

	return router
}
