package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/flexcargo/flexcargo/internal/domain/sequence"
	ierr "github.com/flexcargo/flexcargo/internal/errors"
	"github.com/flexcargo/flexcargo/internal/logger"
	"github.com/flexcargo/flexcargo/internal/testutil"
	"github.com/flexcargo/flexcargo/internal/types"
	"github.com/stretchr/testify/suite"
)

// sqliteTestConns lets concurrent tests hold statements on separate connections
const sqliteTestConns = 8

type SequenceStoreSuite struct {
	suite.Suite
	ctx  context.Context
	repo sequence.Repository
	now  time.Time
}

func TestSequenceStore(t *testing.T) {
	suite.Run(t, new(SequenceStoreSuite))
}

func (s *SequenceStoreSuite) SetupTest() {
	s.ctx = context.Background()
	db := testutil.NewSQLiteDB(s.T(), sqliteTestConns)
	s.repo = NewSequenceRepository(db, logger.NewNopLogger())
	s.now = time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)

	for _, tenantID := range []string{"tenant_acme", "tenant_globex"} {
		for st, rule := range sequence.DefaultRules() {
			created, err := s.repo.EnsureInitialized(s.ctx, sequence.NewCounter(tenantID, st, rule, s.now))
			s.Require().NoError(err)
			s.Require().True(created)
		}
	}
}

func (s *SequenceStoreSuite) keysAt(t time.Time) sequence.PeriodKeys {
	return sequence.NewPeriodKeys(t, time.UTC, time.April)
}

func (s *SequenceStoreSuite) increment(tenantID string, st types.SequenceType, at time.Time) *sequence.Allocation {
	alloc, err := s.repo.IncrementAndFetch(s.ctx, tenantID, st, s.keysAt(at), at)
	s.Require().NoError(err)
	return alloc
}

func (s *SequenceStoreSuite) TestFirstAllocationStartsThePeriod() {
	alloc := s.increment("tenant_acme", types.SequenceTypeConsignment, s.now)
	s.Equal(int64(1), alloc.Value)
	s.Equal("2025", alloc.PeriodKey)
	s.Equal("CN", alloc.Prefix)

	counter, err := s.repo.Get(s.ctx, "tenant_acme", types.SequenceTypeConsignment)
	s.Require().NoError(err)
	s.Equal(int64(1), counter.CurrentValue)
	s.Require().NotNil(counter.LastResetAt)
}

func (s *SequenceStoreSuite) TestEnsureInitializedIsIdempotent() {
	s.increment("tenant_acme", types.SequenceTypeConsignment, s.now)

	rule := sequence.DefaultRules()[types.SequenceTypeConsignment]
	created, err := s.repo.EnsureInitialized(s.ctx, sequence.NewCounter("tenant_acme", types.SequenceTypeConsignment, rule, s.now))
	s.Require().NoError(err)
	s.False(created)

	counters, err := s.repo.List(s.ctx, "tenant_acme")
	s.Require().NoError(err)
	s.Len(counters, len(types.KnownSequenceTypes))

	counter, err := s.repo.Get(s.ctx, "tenant_acme", types.SequenceTypeConsignment)
	s.Require().NoError(err)
	s.Equal(int64(1), counter.CurrentValue)
}

func (s *SequenceStoreSuite) TestConcurrentIncrementsAreUnique() {
	const workers = 100

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		values = make(map[int64]struct{}, workers)
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			alloc, err := s.repo.IncrementAndFetch(s.ctx, "tenant_acme", types.SequenceTypeConsignment, s.keysAt(s.now), s.now)
			if err != nil {
				s.T().Errorf("increment failed: %v", err)
				return
			}
			mu.Lock()
			values[alloc.Value] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	s.Len(values, workers)
	for v := int64(1); v <= workers; v++ {
		s.Contains(values, v)
	}

	counter, err := s.repo.Get(s.ctx, "tenant_acme", types.SequenceTypeConsignment)
	s.Require().NoError(err)
	s.Equal(int64(workers), counter.CurrentValue)
}

func (s *SequenceStoreSuite) TestYearlyReset() {
	s.increment("tenant_acme", types.SequenceTypeConsignment, s.now)
	s.increment("tenant_acme", types.SequenceTypeConsignment, s.now)
	s.increment("tenant_acme", types.SequenceTypeReceipt, s.now)

	newYear := time.Date(2026, time.January, 1, 0, 0, 1, 0, time.UTC)
	alloc := s.increment("tenant_acme", types.SequenceTypeConsignment, newYear)
	s.Equal(int64(1), alloc.Value)
	s.Equal("2026", alloc.PeriodKey)

	// the receipt counter keeps its own period until it is used
	receipt, err := s.repo.Get(s.ctx, "tenant_acme", types.SequenceTypeReceipt)
	s.Require().NoError(err)
	s.Equal(int64(1), receipt.CurrentValue)
	s.Equal("2025", receipt.PeriodKey)

	// other tenants are untouched
	other, err := s.repo.Get(s.ctx, "tenant_globex", types.SequenceTypeConsignment)
	s.Require().NoError(err)
	s.Equal(int64(0), other.CurrentValue)
}

func (s *SequenceStoreSuite) TestDailyReset() {
	s.Equal(int64(1), s.increment("tenant_acme", types.SequenceTypeDeliveryRun, s.now).Value)
	s.Equal(int64(2), s.increment("tenant_acme", types.SequenceTypeDeliveryRun, s.now).Value)

	nextDay := s.now.Add(24 * time.Hour)
	alloc := s.increment("tenant_acme", types.SequenceTypeDeliveryRun, nextDay)
	s.Equal(int64(1), alloc.Value)
	s.Equal("2025-06-02", alloc.PeriodKey)

	// the yearly consignment counter does not reset on a new day
	s.increment("tenant_acme", types.SequenceTypeConsignment, s.now)
	s.Equal(int64(2), s.increment("tenant_acme", types.SequenceTypeConsignment, nextDay).Value)
}

func (s *SequenceStoreSuite) TestLaggingClockStaysInStoredPeriod() {
	s.increment("tenant_acme", types.SequenceTypeConsignment, time.Date(2026, time.January, 1, 0, 0, 2, 0, time.UTC))

	lagging := time.Date(2025, time.December, 31, 23, 59, 59, 0, time.UTC)
	alloc := s.increment("tenant_acme", types.SequenceTypeConsignment, lagging)
	s.Equal(int64(2), alloc.Value)
	s.Equal("2026", alloc.PeriodKey)
}

func (s *SequenceStoreSuite) TestTenantIsolation() {
	s.increment("tenant_acme", types.SequenceTypeInvoice, s.now)
	s.increment("tenant_acme", types.SequenceTypeInvoice, s.now)

	s.Equal(int64(1), s.increment("tenant_globex", types.SequenceTypeInvoice, s.now).Value)
	s.Equal(int64(3), s.increment("tenant_acme", types.SequenceTypeInvoice, s.now).Value)
}

func (s *SequenceStoreSuite) TestNotProvisioned() {
	_, err := s.repo.IncrementAndFetch(s.ctx, "tenant_unknown", types.SequenceTypeConsignment, s.keysAt(s.now), s.now)
	s.Require().Error(err)
	s.True(ierr.IsTenantNotProvisioned(err))

	_, err = s.repo.Get(s.ctx, "tenant_unknown", types.SequenceTypeConsignment)
	s.Require().Error(err)
	s.True(ierr.IsTenantNotProvisioned(err))
}

func (s *SequenceStoreSuite) TestNonResettingCounter() {
	rule := sequence.FormatRule{Prefix: "GP", ResetPeriod: types.ResetPeriodNone, PadWidth: 5}
	_, err := s.repo.EnsureInitialized(s.ctx, sequence.NewCounter("tenant_acme", "gate_pass", rule, s.now))
	s.Require().NoError(err)

	s.increment("tenant_acme", "gate_pass", s.now)
	alloc := s.increment("tenant_acme", "gate_pass", s.now.AddDate(3, 0, 0))
	s.Equal(int64(2), alloc.Value)
	s.Empty(alloc.PeriodKey)
}
