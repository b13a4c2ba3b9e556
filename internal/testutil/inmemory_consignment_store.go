package testutil

import (
	"context"
	"sync"

	"github.com/flexcargo/flexcargo/internal/domain/consignment"
	ierr "github.com/flexcargo/flexcargo/internal/errors"
	"github.com/flexcargo/flexcargo/internal/types"
	"github.com/samber/lo"
)

var _ consignment.Repository = (*InMemoryConsignmentStore)(nil)

type InMemoryConsignmentStore struct {
	*InMemoryStore[*consignment.Consignment]

	mu       sync.RWMutex
	tracking []*consignment.TrackingEvent
}

func NewInMemoryConsignmentStore() *InMemoryConsignmentStore {
	return &InMemoryConsignmentStore{
		InMemoryStore: NewInMemoryStore[*consignment.Consignment](),
	}
}

func (s *InMemoryConsignmentStore) Create(ctx context.Context, c *consignment.Consignment) error {
	if _, taken := s.Find(ctx, func(_ context.Context, other *consignment.Consignment) bool {
		return other.TenantID == c.TenantID && other.CNNumber == c.CNNumber
	}); taken {
		return ierr.NewError("cn number already exists").
			WithHintf("Consignment %s already exists", c.CNNumber).
			Mark(ierr.ErrAlreadyExists)
	}
	return s.InMemoryStore.Create(ctx, c.ID, c)
}

func (s *InMemoryConsignmentStore) Get(ctx context.Context, id string) (*consignment.Consignment, error) {
	c, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || !CheckTenantFilter(ctx, c.TenantID) {
		return nil, ierr.NewError("consignment not found").
			WithHintf("Consignment %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return copyConsignment(c), nil
}

func (s *InMemoryConsignmentStore) GetByCNNumber(ctx context.Context, cnNumber string) (*consignment.Consignment, error) {
	c, ok := s.Find(ctx, func(ctx context.Context, c *consignment.Consignment) bool {
		return CheckTenantFilter(ctx, c.TenantID) && c.CNNumber == cnNumber
	})
	if !ok {
		return nil, ierr.NewError("consignment not found").
			WithHintf("Consignment %s was not found", cnNumber).
			Mark(ierr.ErrNotFound)
	}
	return copyConsignment(c), nil
}

func (s *InMemoryConsignmentStore) ListByIDs(ctx context.Context, ids []string) ([]*consignment.Consignment, error) {
	found := s.InMemoryStore.List(ctx, func(ctx context.Context, c *consignment.Consignment) bool {
		return CheckTenantFilter(ctx, c.TenantID) && lo.Contains(ids, c.ID)
	}, nil)
	return lo.Map(found, func(c *consignment.Consignment, _ int) *consignment.Consignment {
		return copyConsignment(c)
	}), nil
}

func (s *InMemoryConsignmentStore) TransitionStatus(ctx context.Context, ids []string, from []types.ConsignmentStatus, to types.ConsignmentStatus) error {
	return s.updateMany(ctx, ids, func(c *consignment.Consignment) bool {
		return lo.Contains(from, c.ConsignmentStatus)
	}, func(c *consignment.Consignment) {
		c.ConsignmentStatus = to
	})
}

func (s *InMemoryConsignmentStore) SetInvoice(ctx context.Context, ids []string, invoiceID string) error {
	return s.updateMany(ctx, ids, func(c *consignment.Consignment) bool {
		return c.InvoiceID == nil && c.ConsignmentStatus != types.ConsignmentStatusCancelled
	}, func(c *consignment.Consignment) {
		c.InvoiceID = lo.ToPtr(invoiceID)
	})
}

// updateMany applies set to every id or to none of them
func (s *InMemoryConsignmentStore) updateMany(ctx context.Context, ids []string, guard func(*consignment.Consignment) bool, set func(*consignment.Consignment)) error {
	ids = lo.Uniq(ids)
	return s.Mutate(func(items map[string]*consignment.Consignment) error {
		matched := lo.Filter(ids, func(id string, _ int) bool {
			c, ok := items[id]
			return ok && CheckTenantFilter(ctx, c.TenantID) && guard(c)
		})
		if len(matched) != len(ids) {
			return consignment.NewStaleUpdateError(len(ids), 0)
		}

		for _, id := range ids {
			updated := copyConsignment(items[id])
			set(updated)
			items[id] = updated
		}
		return nil
	})
}

func copyConsignment(c *consignment.Consignment) *consignment.Consignment {
	cp := *c
	return &cp
}

func (s *InMemoryConsignmentStore) AddTracking(ctx context.Context, events ...*consignment.TrackingEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracking = append(s.tracking, events...)
	return nil
}

func (s *InMemoryConsignmentStore) ListTracking(ctx context.Context, consignmentID string) ([]*consignment.TrackingEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Filter(s.tracking, func(e *consignment.TrackingEvent, _ int) bool {
		return e.ConsignmentID == consignmentID && CheckTenantFilter(ctx, e.TenantID)
	}), nil
}

func (s *InMemoryConsignmentStore) Clear() {
	s.InMemoryStore.Clear()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracking = nil
}
