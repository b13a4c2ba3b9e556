package service

import (
	"context"
	"sync"
	"testing"

	"github.com/flexcargo/flexcargo/internal/api/dto"
	"github.com/flexcargo/flexcargo/internal/domain/branch"
	"github.com/flexcargo/flexcargo/internal/domain/consignment"
	"github.com/flexcargo/flexcargo/internal/domain/invoice"
	ierr "github.com/flexcargo/flexcargo/internal/errors"
	"github.com/flexcargo/flexcargo/internal/testutil"
	"github.com/flexcargo/flexcargo/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// barrierInvoiceStore holds every Get until all expected callers have read,
// so each request works from the same snapshot
type barrierInvoiceStore struct {
	*testutil.InMemoryInvoiceStore
	arrived *sync.WaitGroup
}

func (s *barrierInvoiceStore) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	inv, err := s.InMemoryInvoiceStore.Get(ctx, id)
	s.arrived.Done()
	s.arrived.Wait()
	return inv, err
}

type barrierConsignmentStore struct {
	*testutil.InMemoryConsignmentStore
	arrived *sync.WaitGroup
}

func (s *barrierConsignmentStore) ListByIDs(ctx context.Context, ids []string) ([]*consignment.Consignment, error) {
	found, err := s.InMemoryConsignmentStore.ListByIDs(ctx, ids)
	s.arrived.Done()
	s.arrived.Wait()
	return found, err
}

// ConcurrentWritesSuite runs requests whose pre-transaction reads all see the
// same state and checks that only the valid subset is committed
type ConcurrentWritesSuite struct {
	testutil.BaseServiceTestSuite
	params       ServiceParams
	allocator    SequenceAllocator
	consignments ConsignmentService
	invoices     InvoiceService
	mumbai       *branch.Branch
	delhi        *branch.Branch
}

func TestConcurrentWrites(t *testing.T) {
	suite.Run(t, new(ConcurrentWritesSuite))
}

func (s *ConcurrentWritesSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	s.params = testServiceParams(&s.BaseServiceTestSuite)
	allocator, err := NewSequenceAllocator(s.params)
	s.Require().NoError(err)
	_, err = allocator.ProvisionTenantSequences(s.GetContext(), types.DefaultTenantID)
	s.Require().NoError(err)

	s.allocator = allocator
	s.consignments = NewConsignmentService(s.params, allocator)
	s.invoices = NewInvoiceService(s.params, allocator)
	s.mumbai = s.CreateTestBranch(s.GetContext(), "BOM", "Mumbai")
	s.delhi = s.CreateTestBranch(s.GetContext(), "DEL", "Delhi")
}

func (s *ConcurrentWritesSuite) book(freight int64) *dto.ConsignmentResponse {
	resp, err := s.consignments.CreateConsignment(s.GetContext(), dto.CreateConsignmentRequest{
		OriginBranchID:      s.mumbai.ID,
		DestinationBranchID: s.delhi.ID,
		ConsignorName:       "Shree Textiles",
		ConsigneeName:       "Delhi Fabrics",
		Packages:            1,
		WeightKg:            decimal.NewFromInt(10),
		FreightAmount:       decimal.NewFromInt(freight),
		PaymentMode:         types.PaymentModeCredit,
	})
	s.Require().NoError(err)
	return resp
}

// race runs fn from n goroutines at once and returns their errors
func (s *ConcurrentWritesSuite) race(n int, fn func(i int) error) []error {
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = fn(i)
		}(i)
	}
	wg.Wait()
	return errs
}

func (s *ConcurrentWritesSuite) assertOneWinner(errs []error) {
	failed := lo.Filter(errs, func(err error, _ int) bool { return err != nil })
	s.Require().Len(failed, len(errs)-1)
	for _, err := range failed {
		s.True(ierr.IsInvalidOperation(err), "unexpected error: %v", err)
	}
}

func (s *ConcurrentWritesSuite) TestReceiptsCannotOverpayFromStaleReads() {
	a := s.book(1000)
	inv, err := s.invoices.GenerateInvoice(s.GetContext(), dto.GenerateInvoiceRequest{
		BranchID:       s.mumbai.ID,
		CustomerName:   "Delhi Fabrics",
		ConsignmentIDs: []string{a.ID},
	})
	s.Require().NoError(err)

	arrived := &sync.WaitGroup{}
	arrived.Add(2)
	params := s.params
	params.InvoiceRepo = &barrierInvoiceStore{InMemoryInvoiceStore: s.GetStores().InvoiceRepo, arrived: arrived}
	receipts := NewReceiptService(params, s.allocator)

	errs := s.race(2, func(int) error {
		_, err := receipts.CreateReceipt(s.GetContext(), dto.CreateReceiptRequest{
			InvoiceID:   inv.ID,
			Amount:      decimal.NewFromInt(700),
			ReceiptMode: types.ReceiptModeCash,
		})
		return err
	})
	s.assertOneWinner(errs)

	stored, err := s.GetStores().InvoiceRepo.Get(s.GetContext(), inv.ID)
	s.Require().NoError(err)
	s.True(stored.AmountPaid.Equal(decimal.NewFromInt(700)), "amount paid %s", stored.AmountPaid)
	s.Equal(types.InvoiceStatusPartiallyPaid, stored.InvoiceStatus)

	listed, err := s.GetStores().ReceiptRepo.ListByInvoice(s.GetContext(), inv.ID)
	s.Require().NoError(err)
	s.Len(listed, 1)
}

func (s *ConcurrentWritesSuite) TestReceiptsThatFitBothSettle() {
	a := s.book(1000)
	inv, err := s.invoices.GenerateInvoice(s.GetContext(), dto.GenerateInvoiceRequest{
		BranchID:       s.mumbai.ID,
		CustomerName:   "Delhi Fabrics",
		ConsignmentIDs: []string{a.ID},
	})
	s.Require().NoError(err)

	arrived := &sync.WaitGroup{}
	arrived.Add(2)
	params := s.params
	params.InvoiceRepo = &barrierInvoiceStore{InMemoryInvoiceStore: s.GetStores().InvoiceRepo, arrived: arrived}
	receipts := NewReceiptService(params, s.allocator)

	errs := s.race(2, func(int) error {
		_, err := receipts.CreateReceipt(s.GetContext(), dto.CreateReceiptRequest{
			InvoiceID:   inv.ID,
			Amount:      decimal.NewFromInt(500),
			ReceiptMode: types.ReceiptModeUPI,
		})
		return err
	})
	for _, err := range errs {
		s.NoError(err)
	}

	// both increments land, neither overwrites the other
	stored, err := s.GetStores().InvoiceRepo.Get(s.GetContext(), inv.ID)
	s.Require().NoError(err)
	s.True(stored.AmountPaid.Equal(decimal.NewFromInt(1000)), "amount paid %s", stored.AmountPaid)
	s.Equal(types.InvoiceStatusPaid, stored.InvoiceStatus)
}

func (s *ConcurrentWritesSuite) TestConsignmentLoadsOnOneOGPL() {
	a := s.book(500)

	arrived := &sync.WaitGroup{}
	arrived.Add(2)
	params := s.params
	params.ConsignmentRepo = &barrierConsignmentStore{InMemoryConsignmentStore: s.GetStores().ConsignmentRepo, arrived: arrived}
	ogpls := NewOGPLService(params, s.allocator)

	vehicles := []string{"MH01AB1234", "MH01AB5678"}
	errs := s.race(2, func(i int) error {
		_, err := ogpls.CreateOGPL(s.GetContext(), dto.CreateOGPLRequest{
			FromBranchID:   s.mumbai.ID,
			ToBranchID:     s.delhi.ID,
			VehicleNumber:  vehicles[i],
			ConsignmentIDs: []string{a.ID},
		})
		return err
	})
	s.assertOneWinner(errs)

	tracking, err := s.GetStores().ConsignmentRepo.ListTracking(s.GetContext(), a.ID)
	s.Require().NoError(err)
	s.Len(tracking, 2)

	moved, err := s.GetStores().ConsignmentRepo.Get(s.GetContext(), a.ID)
	s.Require().NoError(err)
	s.Equal(types.ConsignmentStatusInTransit, moved.ConsignmentStatus)
}

func (s *ConcurrentWritesSuite) TestConsignmentBilledOnce() {
	a := s.book(500)

	arrived := &sync.WaitGroup{}
	arrived.Add(2)
	params := s.params
	params.ConsignmentRepo = &barrierConsignmentStore{InMemoryConsignmentStore: s.GetStores().ConsignmentRepo, arrived: arrived}
	invoices := NewInvoiceService(params, s.allocator)

	errs := s.race(2, func(int) error {
		_, err := invoices.GenerateInvoice(s.GetContext(), dto.GenerateInvoiceRequest{
			BranchID:       s.mumbai.ID,
			CustomerName:   "Delhi Fabrics",
			ConsignmentIDs: []string{a.ID},
		})
		return err
	})
	s.assertOneWinner(errs)

	billed, err := s.GetStores().ConsignmentRepo.Get(s.GetContext(), a.ID)
	s.Require().NoError(err)
	s.Require().NotNil(billed.InvoiceID)

	_, err = s.GetStores().InvoiceRepo.Get(s.GetContext(), lo.FromPtr(billed.InvoiceID))
	s.NoError(err)
}
