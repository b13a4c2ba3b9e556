package service

import (
	"context"

	"github.com/flexcargo/flexcargo/internal/api/dto"
	"github.com/flexcargo/flexcargo/internal/domain/invoice"
	"github.com/flexcargo/flexcargo/internal/types"
)

type ReceiptService interface {
	// CreateReceipt records a payment against an invoice under a new receipt number
	CreateReceipt(ctx context.Context, req dto.CreateReceiptRequest) (*dto.ReceiptResponse, error)
}

type receiptService struct {
	ServiceParams
	allocator SequenceAllocator
}

func NewReceiptService(params ServiceParams, allocator SequenceAllocator) ReceiptService {
	return &receiptService{
		ServiceParams: params,
		allocator:     allocator,
	}
}

func (s *receiptService) CreateReceipt(ctx context.Context, req dto.CreateReceiptRequest) (*dto.ReceiptResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	inv, err := s.InvoiceRepo.Get(ctx, req.InvoiceID)
	if err != nil {
		return nil, err
	}

	if req.Amount.GreaterThan(inv.AmountDue()) {
		return nil, invoice.NewOverpaymentError(inv, req.Amount)
	}

	r := req.ToReceipt(ctx)

	var settled invoice.Invoice
	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		code, err := s.allocator.NextCode(ctx, NextCodeRequest{
			TenantID:     types.GetTenantID(ctx),
			SequenceType: types.SequenceTypeReceipt,
		})
		if err != nil {
			return err
		}

		r.ReceiptNumber = code.Value
		r.ReceivedAt = s.now().UTC()

		// the invoice row is re-checked here, the read above may be stale
		paid, status, err := s.InvoiceRepo.ApplyPayment(ctx, inv.ID, r.Amount)
		if err != nil {
			return err
		}

		if err := s.ReceiptRepo.Create(ctx, r); err != nil {
			return err
		}

		settled = *inv
		settled.AmountPaid = paid
		settled.InvoiceStatus = status
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("recorded receipt",
		"tenant_id", r.TenantID,
		"receipt_number", r.ReceiptNumber,
		"invoice_number", inv.InvoiceNumber,
		"amount", r.Amount.String(),
	)

	return &dto.ReceiptResponse{
		Receipt: r,
		Invoice: dto.NewInvoiceResponse(&settled),
	}, nil
}
