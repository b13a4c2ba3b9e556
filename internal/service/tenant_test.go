package service

import (
	"context"
	"errors"
	"testing"

	"github.com/flexcargo/flexcargo/internal/api/dto"
	"github.com/flexcargo/flexcargo/internal/domain/tenant"
	ierr "github.com/flexcargo/flexcargo/internal/errors"
	"github.com/flexcargo/flexcargo/internal/testutil"
	"github.com/flexcargo/flexcargo/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

type TenantServiceSuite struct {
	testutil.BaseServiceTestSuite
	service   TenantService
	allocator SequenceAllocator
}

func TestTenantService(t *testing.T) {
	suite.Run(t, new(TenantServiceSuite))
}

func (s *TenantServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	params := testServiceParams(&s.BaseServiceTestSuite)
	allocator, err := NewSequenceAllocator(params)
	s.Require().NoError(err)

	s.allocator = allocator
	s.service = NewTenantService(params, allocator)
}

func (s *TenantServiceSuite) TestCreateTenantProvisionsSequences() {
	resp, err := s.service.CreateTenant(s.GetContext(), dto.CreateTenantRequest{
		Name:      "Acme Logistics",
		Subdomain: "Acme",
	})
	s.Require().NoError(err)
	s.Equal("acme", resp.Subdomain)
	s.Len(resp.Sequences, len(types.KnownSequenceTypes))
	s.Equal(int64(1), s.GetDB().Committed())

	code, err := s.allocator.NextCode(s.GetContext(), NextCodeRequest{
		TenantID:     resp.ID,
		SequenceType: types.SequenceTypeConsignment,
	})
	s.Require().NoError(err)
	s.Equal("CN250001", code.Value)
}

func (s *TenantServiceSuite) TestCreateTenantValidation() {
	_, err := s.service.CreateTenant(s.GetContext(), dto.CreateTenantRequest{})
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))
	s.Equal(0, s.GetStores().SequenceRepo.Count())
}

func (s *TenantServiceSuite) TestCreateTenantFailsWhenProvisioningFails() {
	s.GetStores().SequenceRepo.FailWith = errors.New("connection reset")

	_, err := s.service.CreateTenant(s.GetContext(), dto.CreateTenantRequest{Name: "Acme"})
	s.Require().Error(err)
	s.True(ierr.IsStoreUnavailable(err))
	s.Equal(int64(1), s.GetDB().RolledBack())
}

func (s *TenantServiceSuite) TestGetTenantIsCached() {
	t := s.CreateTestTenant("tenant_acme", "Acme")

	got, err := s.service.GetTenantByID(s.GetContext(), t.ID)
	s.Require().NoError(err)
	s.Equal(t.ID, got.ID)

	s.GetStores().TenantRepo.Clear()

	cached, err := s.service.GetTenantByID(s.GetContext(), t.ID)
	s.Require().NoError(err)
	s.Equal(t.ID, cached.ID)
}

func (s *TenantServiceSuite) TestGetTenantBySubdomain() {
	t := &tenant.Tenant{
		ID:        "tenant_acme",
		Name:      "Acme",
		Subdomain: lo.ToPtr("acme"),
		Status:    types.StatusActive,
	}
	s.Require().NoError(s.GetStores().TenantRepo.Create(s.GetContext(), t))

	got, err := s.service.GetTenantBySubdomain(s.GetContext(), "acme")
	s.Require().NoError(err)
	s.Equal(t.ID, got.ID)

	_, err = s.service.GetTenantBySubdomain(s.GetContext(), "globex")
	s.Require().Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *TenantServiceSuite) TestProvisionTenantRejectsInactive() {
	t := s.CreateTestTenant("tenant_dormant", "Dormant")
	t.Status = types.StatusInactive

	_, err := s.service.ProvisionTenant(s.GetContext(), t.ID)
	s.Require().Error(err)
	s.True(ierr.IsPermissionDenied(err))
}

func (s *TenantServiceSuite) TestProvisionAllTenants() {
	ids := []string{"tenant_a", "tenant_b", "tenant_c", "tenant_d"}
	for _, id := range ids {
		s.CreateTestTenant(id, id)
	}

	// one tenant already has a counter in use
	_, err := s.allocator.ProvisionTenantSequences(s.GetContext(), "tenant_a")
	s.Require().NoError(err)
	_, err = s.allocator.NextCode(s.GetContext(), NextCodeRequest{
		TenantID:     "tenant_a",
		SequenceType: types.SequenceTypeConsignment,
	})
	s.Require().NoError(err)

	report, err := s.service.ProvisionAllTenants(context.Background(), 2)
	s.Require().NoError(err)
	s.Equal(len(ids), report.Tenants)
	s.Empty(report.Failed)
	s.Equal(len(ids)*len(types.KnownSequenceTypes), s.GetStores().SequenceRepo.Count())

	counter, err := s.GetStores().SequenceRepo.Get(s.GetContext(), "tenant_a", types.SequenceTypeConsignment)
	s.Require().NoError(err)
	s.Equal(int64(1), counter.CurrentValue)
}

func (s *TenantServiceSuite) TestProvisionAllTenantsReportsFailures() {
	s.CreateTestTenant("tenant_a", "A")
	s.CreateTestTenant("tenant_b", "B")
	s.GetStores().SequenceRepo.FailWith = errors.New("connection reset")

	report, err := s.service.ProvisionAllTenants(context.Background(), 4)
	s.Require().Error(err)
	s.Require().NotNil(report)
	s.ElementsMatch([]string{"tenant_a", "tenant_b"}, report.Failed)
}
