package service

import (
	"testing"

	"github.com/flexcargo/flexcargo/internal/testutil"
	"github.com/flexcargo/flexcargo/internal/types"
	"github.com/stretchr/testify/suite"
)

type SequenceBackfillSuite struct {
	testutil.BaseServiceTestSuite
	allocator SequenceAllocator
	service   SequenceBackfillService
	tenantID  string
}

func TestSequenceBackfill(t *testing.T) {
	suite.Run(t, new(SequenceBackfillSuite))
}

func (s *SequenceBackfillSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	params := testServiceParams(&s.BaseServiceTestSuite)
	allocator, err := NewSequenceAllocator(params)
	s.Require().NoError(err)
	s.allocator = allocator
	s.service = NewSequenceBackfillService(params, allocator)

	s.tenantID = "tenant_acme"
	_, err = allocator.ProvisionTenantSequences(s.GetContext(), s.tenantID)
	s.Require().NoError(err)
}

func (s *SequenceBackfillSuite) next(st types.SequenceType, branchCode string) string {
	code, err := s.allocator.NextCode(s.GetContext(), NextCodeRequest{
		TenantID:     s.tenantID,
		SequenceType: st,
		BranchCode:   branchCode,
	})
	s.Require().NoError(err)
	return code.Value
}

func (s *SequenceBackfillSuite) TestRaisesFloorFromLegacyCodes() {
	s.GetStores().IssuedCodeRepo.Add(s.tenantID, types.SequenceTypeConsignment,
		"CN250041", "CN250007", "CN240999", "CN25LEGACY")

	counter, err := s.service.BackfillFromIssuedCodes(s.GetContext(), s.tenantID, types.SequenceTypeConsignment)
	s.Require().NoError(err)
	s.Equal(int64(41), counter.CurrentValue)
	s.Equal("2025", counter.PeriodKey)

	s.Equal("CN250042", s.next(types.SequenceTypeConsignment, ""))
}

func (s *SequenceBackfillSuite) TestNeverLowersCounter() {
	for i := 0; i < 50; i++ {
		s.next(types.SequenceTypeConsignment, "")
	}
	s.GetStores().IssuedCodeRepo.Add(s.tenantID, types.SequenceTypeConsignment, "CN250010")

	counter, err := s.service.BackfillFromIssuedCodes(s.GetContext(), s.tenantID, types.SequenceTypeConsignment)
	s.Require().NoError(err)
	s.Equal(int64(50), counter.CurrentValue)
}

func (s *SequenceBackfillSuite) TestBranchBearingFormatScansEveryBranch() {
	ctx := testutil.TenantContext(s.tenantID)
	s.CreateTestBranch(ctx, "BOM", "Mumbai")
	s.CreateTestBranch(ctx, "DEL", "Delhi")

	s.GetStores().IssuedCodeRepo.Add(s.tenantID, types.SequenceTypeOGPL,
		"OGPL-BOM-20250012", "OGPL-DEL-20250030", "OGPL-PNQ-20250099")

	counter, err := s.service.BackfillFromIssuedCodes(s.GetContext(), s.tenantID, types.SequenceTypeOGPL)
	s.Require().NoError(err)
	s.Equal(int64(30), counter.CurrentValue)

	s.Equal("OGPL-BOM-20250031", s.next(types.SequenceTypeOGPL, "BOM"))
}

func (s *SequenceBackfillSuite) TestNoLegacyCodes() {
	counter, err := s.service.BackfillFromIssuedCodes(s.GetContext(), s.tenantID, types.SequenceTypeReceipt)
	s.Require().NoError(err)
	s.Equal(int64(0), counter.CurrentValue)
}
