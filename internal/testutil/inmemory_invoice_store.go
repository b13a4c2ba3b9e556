package testutil

import (
	"context"

	"github.com/flexcargo/flexcargo/internal/domain/invoice"
	ierr "github.com/flexcargo/flexcargo/internal/errors"
	"github.com/flexcargo/flexcargo/internal/types"
	"github.com/shopspring/decimal"
)

var _ invoice.Repository = (*InMemoryInvoiceStore)(nil)

type InMemoryInvoiceStore struct {
	*InMemoryStore[*invoice.Invoice]
}

func NewInMemoryInvoiceStore() *InMemoryInvoiceStore {
	return &InMemoryInvoiceStore{
		InMemoryStore: NewInMemoryStore[*invoice.Invoice](),
	}
}

func (s *InMemoryInvoiceStore) Create(ctx context.Context, inv *invoice.Invoice) error {
	if _, taken := s.Find(ctx, func(_ context.Context, other *invoice.Invoice) bool {
		return other.TenantID == inv.TenantID && other.InvoiceNumber == inv.InvoiceNumber
	}); taken {
		return ierr.NewError("invoice number already exists").
			WithHintf("Invoice %s already exists", inv.InvoiceNumber).
			Mark(ierr.ErrAlreadyExists)
	}
	return s.InMemoryStore.Create(ctx, inv.ID, inv)
}

func (s *InMemoryInvoiceStore) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	inv, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || !CheckTenantFilter(ctx, inv.TenantID) {
		return nil, ierr.NewError("invoice not found").
			WithHintf("Invoice %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return inv, nil
}

func (s *InMemoryInvoiceStore) GetByNumber(ctx context.Context, invoiceNumber string) (*invoice.Invoice, error) {
	inv, ok := s.Find(ctx, func(ctx context.Context, inv *invoice.Invoice) bool {
		return CheckTenantFilter(ctx, inv.TenantID) && inv.InvoiceNumber == invoiceNumber
	})
	if !ok {
		return nil, ierr.NewError("invoice not found").
			WithHintf("Invoice %s was not found", invoiceNumber).
			Mark(ierr.ErrNotFound)
	}
	return inv, nil
}

func (s *InMemoryInvoiceStore) ApplyPayment(ctx context.Context, id string, amount decimal.Decimal) (decimal.Decimal, types.InvoiceStatus, error) {
	var updated invoice.Invoice
	err := s.Mutate(func(items map[string]*invoice.Invoice) error {
		inv, ok := items[id]
		if !ok || !CheckTenantFilter(ctx, inv.TenantID) {
			return ierr.NewError("invoice not found").
				WithHintf("Invoice %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		if amount.GreaterThan(inv.AmountDue()) {
			return invoice.NewOverpaymentError(inv, amount)
		}

		updated = *inv
		updated.AmountPaid = inv.AmountPaid.Add(amount)
		updated.InvoiceStatus = inv.StatusFor(updated.AmountPaid)
		items[id] = &updated
		return nil
	})
	if err != nil {
		return decimal.Zero, "", err
	}
	return updated.AmountPaid, updated.InvoiceStatus, nil
}
