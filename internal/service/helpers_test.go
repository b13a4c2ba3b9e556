package service

import (
	"github.com/flexcargo/flexcargo/internal/testutil"
)

// testServiceParams wires the suite's in-memory stores into ServiceParams
func testServiceParams(s *testutil.BaseServiceTestSuite) ServiceParams {
	stores := s.GetStores()
	return ServiceParams{
		Logger:          s.GetLogger(),
		Config:          s.GetConfig(),
		DB:              s.GetDB(),
		Cache:           s.GetCache(),
		Metrics:         s.GetMetrics(),
		Clock:           s.GetNow,
		SequenceRepo:    stores.SequenceRepo,
		IssuedCodeRepo:  stores.IssuedCodeRepo,
		TenantRepo:      stores.TenantRepo,
		BranchRepo:      stores.BranchRepo,
		ConsignmentRepo: stores.ConsignmentRepo,
		InvoiceRepo:     stores.InvoiceRepo,
		OGPLRepo:        stores.OGPLRepo,
		DeliveryRunRepo: stores.DeliveryRunRepo,
		ReceiptRepo:     stores.ReceiptRepo,
	}
}
