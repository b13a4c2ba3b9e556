package service

import (
	"go.uber.org/fx"
)

// Module provides the service layer to the fx graph
func Module() fx.Option {
	return fx.Provide(
		NewServiceParams,
		NewSequenceAllocator,
		NewSequenceBackfillService,
		NewTenantService,
		NewBranchService,
		NewConsignmentService,
		NewInvoiceService,
		NewOGPLService,
		NewDeliveryRunService,
		NewReceiptService,
	)
}
