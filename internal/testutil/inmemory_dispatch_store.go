package testutil

import (
	"context"

	"github.com/flexcargo/flexcargo/internal/domain/deliveryrun"
	"github.com/flexcargo/flexcargo/internal/domain/ogpl"
	"github.com/flexcargo/flexcargo/internal/domain/receipt"
	ierr "github.com/flexcargo/flexcargo/internal/errors"
)

var (
	_ ogpl.Repository        = (*InMemoryOGPLStore)(nil)
	_ deliveryrun.Repository = (*InMemoryDeliveryRunStore)(nil)
	_ receipt.Repository     = (*InMemoryReceiptStore)(nil)
)

type InMemoryOGPLStore struct {
	*InMemoryStore[*ogpl.OGPL]
}

func NewInMemoryOGPLStore() *InMemoryOGPLStore {
	return &InMemoryOGPLStore{InMemoryStore: NewInMemoryStore[*ogpl.OGPL]()}
}

func (s *InMemoryOGPLStore) Create(ctx context.Context, o *ogpl.OGPL) error {
	if _, taken := s.Find(ctx, func(_ context.Context, other *ogpl.OGPL) bool {
		return other.TenantID == o.TenantID && other.OGPLNumber == o.OGPLNumber
	}); taken {
		return ierr.NewError("ogpl number already exists").
			Mark(ierr.ErrAlreadyExists)
	}
	return s.InMemoryStore.Create(ctx, o.ID, o)
}

func (s *InMemoryOGPLStore) Get(ctx context.Context, id string) (*ogpl.OGPL, error) {
	o, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || !CheckTenantFilter(ctx, o.TenantID) {
		return nil, ierr.NewError("ogpl not found").
			Mark(ierr.ErrNotFound)
	}
	return o, nil
}

type InMemoryDeliveryRunStore struct {
	*InMemoryStore[*deliveryrun.DeliveryRun]
}

func NewInMemoryDeliveryRunStore() *InMemoryDeliveryRunStore {
	return &InMemoryDeliveryRunStore{InMemoryStore: NewInMemoryStore[*deliveryrun.DeliveryRun]()}
}

func (s *InMemoryDeliveryRunStore) Create(ctx context.Context, run *deliveryrun.DeliveryRun) error {
	if _, taken := s.Find(ctx, func(_ context.Context, other *deliveryrun.DeliveryRun) bool {
		return other.TenantID == run.TenantID && other.RunNumber == run.RunNumber
	}); taken {
		return ierr.NewError("delivery run number already exists").
			Mark(ierr.ErrAlreadyExists)
	}
	return s.InMemoryStore.Create(ctx, run.ID, run)
}

func (s *InMemoryDeliveryRunStore) Get(ctx context.Context, id string) (*deliveryrun.DeliveryRun, error) {
	run, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || !CheckTenantFilter(ctx, run.TenantID) {
		return nil, ierr.NewError("delivery run not found").
			Mark(ierr.ErrNotFound)
	}
	return run, nil
}

type InMemoryReceiptStore struct {
	*InMemoryStore[*receipt.Receipt]
}

func NewInMemoryReceiptStore() *InMemoryReceiptStore {
	return &InMemoryReceiptStore{InMemoryStore: NewInMemoryStore[*receipt.Receipt]()}
}

func (s *InMemoryReceiptStore) Create(ctx context.Context, r *receipt.Receipt) error {
	if _, taken := s.Find(ctx, func(_ context.Context, other *receipt.Receipt) bool {
		return other.TenantID == r.TenantID && other.ReceiptNumber == r.ReceiptNumber
	}); taken {
		return ierr.NewError("receipt number already exists").
			Mark(ierr.ErrAlreadyExists)
	}
	return s.InMemoryStore.Create(ctx, r.ID, r)
}

func (s *InMemoryReceiptStore) Get(ctx context.Context, id string) (*receipt.Receipt, error) {
	r, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || !CheckTenantFilter(ctx, r.TenantID) {
		return nil, ierr.NewError("receipt not found").
			Mark(ierr.ErrNotFound)
	}
	return r, nil
}

func (s *InMemoryReceiptStore) ListByInvoice(ctx context.Context, invoiceID string) ([]*receipt.Receipt, error) {
	return s.InMemoryStore.List(ctx, func(ctx context.Context, r *receipt.Receipt) bool {
		return CheckTenantFilter(ctx, r.TenantID) && r.InvoiceID == invoiceID
	}, func(a, b *receipt.Receipt) bool {
		return a.ReceivedAt.Before(b.ReceivedAt)
	}), nil
}
