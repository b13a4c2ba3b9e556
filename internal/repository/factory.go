package repository

import (
	"github.com/flexcargo/flexcargo/internal/domain/branch"
	"github.com/flexcargo/flexcargo/internal/domain/consignment"
	"github.com/flexcargo/flexcargo/internal/domain/deliveryrun"
	"github.com/flexcargo/flexcargo/internal/domain/invoice"
	"github.com/flexcargo/flexcargo/internal/domain/ogpl"
	"github.com/flexcargo/flexcargo/internal/domain/receipt"
	"github.com/flexcargo/flexcargo/internal/domain/sequence"
	"github.com/flexcargo/flexcargo/internal/domain/tenant"
	"github.com/flexcargo/flexcargo/internal/logger"
	"github.com/flexcargo/flexcargo/internal/postgres"
	postgresRepo "github.com/flexcargo/flexcargo/internal/repository/postgres"
	"go.uber.org/fx"
)

// Module provides every repository to the fx graph
func Module() fx.Option {
	return fx.Provide(
		NewSequenceRepository,
		NewIssuedCodeRepository,
		NewTenantRepository,
		NewBranchRepository,
		NewConsignmentRepository,
		NewInvoiceRepository,
		NewOGPLRepository,
		NewDeliveryRunRepository,
		NewReceiptRepository,
	)
}

func NewSequenceRepository(client postgres.IClient, logger *logger.Logger) sequence.Repository {
	return postgresRepo.NewSequenceRepository(client, logger)
}

func NewIssuedCodeRepository(client postgres.IClient, logger *logger.Logger) sequence.IssuedCodeRepository {
	return postgresRepo.NewIssuedCodeRepository(client, logger)
}

func NewTenantRepository(client postgres.IClient, logger *logger.Logger) tenant.Repository {
	return postgresRepo.NewTenantRepository(client, logger)
}

func NewBranchRepository(client postgres.IClient, logger *logger.Logger) branch.Repository {
	return postgresRepo.NewBranchRepository(client, logger)
}

func NewConsignmentRepository(client postgres.IClient, logger *logger.Logger) consignment.Repository {
	return postgresRepo.NewConsignmentRepository(client, logger)
}

func NewInvoiceRepository(client postgres.IClient, logger *logger.Logger) invoice.Repository {
	return postgresRepo.NewInvoiceRepository(client, logger)
}

func NewOGPLRepository(client postgres.IClient, logger *logger.Logger) ogpl.Repository {
	return postgresRepo.NewOGPLRepository(client, logger)
}

func NewDeliveryRunRepository(client postgres.IClient, logger *logger.Logger) deliveryrun.Repository {
	return postgresRepo.NewDeliveryRunRepository(client, logger)
}

func NewReceiptRepository(client postgres.IClient, logger *logger.Logger) receipt.Repository {
	return postgresRepo.NewReceiptRepository(client, logger)
}
