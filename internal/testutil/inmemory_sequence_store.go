package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/flexcargo/flexcargo/internal/domain/sequence"
	ierr "github.com/flexcargo/flexcargo/internal/errors"
	"github.com/flexcargo/flexcargo/internal/types"
)

var _ sequence.Repository = (*InMemorySequenceStore)(nil)

// InMemorySequenceStore keeps counters in a map guarded by one mutex, which
// gives IncrementAndFetch the same atomicity as the single UPDATE statement
type InMemorySequenceStore struct {
	mu       sync.Mutex
	counters map[string]*sequence.Counter
	// FailWith makes every call return this error when set
	FailWith error
}

func NewInMemorySequenceStore() *InMemorySequenceStore {
	return &InMemorySequenceStore{
		counters: make(map[string]*sequence.Counter),
	}
}

func counterKey(tenantID string, sequenceType types.SequenceType) string {
	return tenantID + "|" + string(sequenceType)
}

func (s *InMemorySequenceStore) EnsureInitialized(ctx context.Context, c *sequence.Counter) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWith != nil {
		return false, sequence.NewStoreUnavailableError(s.FailWith, c.TenantID, c.SequenceType)
	}

	key := counterKey(c.TenantID, c.SequenceType)
	if _, exists := s.counters[key]; exists {
		return false, nil
	}

	stored := *c
	s.counters[key] = &stored
	return true, nil
}

func (s *InMemorySequenceStore) IncrementAndFetch(ctx context.Context, tenantID string, sequenceType types.SequenceType, keys sequence.PeriodKeys, now time.Time) (*sequence.Allocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWith != nil {
		return nil, sequence.NewStoreUnavailableError(s.FailWith, tenantID, sequenceType)
	}

	c, ok := s.counters[counterKey(tenantID, sequenceType)]
	if !ok {
		return nil, sequence.NewNotProvisionedError(tenantID, sequenceType)
	}

	applicable := keys.For(c.ResetPeriod)
	if c.PeriodKey >= applicable {
		c.CurrentValue++
	} else {
		c.CurrentValue = 1
		c.PeriodKey = applicable
		resetAt := now
		c.LastResetAt = &resetAt
	}
	c.UpdatedAt = now

	return &sequence.Allocation{
		Value:       c.CurrentValue,
		Prefix:      c.Prefix,
		Suffix:      c.Suffix,
		ResetPeriod: c.ResetPeriod,
		PeriodKey:   c.PeriodKey,
	}, nil
}

func (s *InMemorySequenceStore) Get(ctx context.Context, tenantID string, sequenceType types.SequenceType) (*sequence.Counter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.counters[counterKey(tenantID, sequenceType)]
	if !ok {
		return nil, sequence.NewNotProvisionedError(tenantID, sequenceType)
	}

	copied := *c
	return &copied, nil
}

func (s *InMemorySequenceStore) List(ctx context.Context, tenantID string) ([]*sequence.Counter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWith != nil {
		return nil, ierr.WithError(s.FailWith).Mark(ierr.ErrStoreUnavailable)
	}

	var result []*sequence.Counter
	for _, c := range s.counters {
		if c.TenantID == tenantID {
			copied := *c
			result = append(result, &copied)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].SequenceType < result[j].SequenceType
	})
	return result, nil
}

func (s *InMemorySequenceStore) SetFloor(ctx context.Context, tenantID string, sequenceType types.SequenceType, periodKey string, value int64) (*sequence.Counter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.counters[counterKey(tenantID, sequenceType)]
	if !ok {
		return nil, sequence.NewNotProvisionedError(tenantID, sequenceType)
	}

	switch {
	case c.PeriodKey < periodKey:
		c.CurrentValue = value
		c.PeriodKey = periodKey
	case c.PeriodKey == periodKey && c.CurrentValue < value:
		c.CurrentValue = value
	}
	c.UpdatedAt = time.Now().UTC()

	copied := *c
	return &copied, nil
}

// Count returns the number of provisioned counters across all tenants
func (s *InMemorySequenceStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.counters)
}

func (s *InMemorySequenceStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters = make(map[string]*sequence.Counter)
	s.FailWith = nil
}
