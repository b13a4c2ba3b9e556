package service

import (
	"context"

	"github.com/flexcargo/flexcargo/internal/api/dto"
	"github.com/flexcargo/flexcargo/internal/domain/consignment"
	"github.com/flexcargo/flexcargo/internal/domain/invoice"
	ierr "github.com/flexcargo/flexcargo/internal/errors"
	"github.com/flexcargo/flexcargo/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type InvoiceService interface {
	// GenerateInvoice bills uninvoiced consignments under a new invoice number
	GenerateInvoice(ctx context.Context, req dto.GenerateInvoiceRequest) (*dto.InvoiceResponse, error)
	GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error)
}

type invoiceService struct {
	ServiceParams
	allocator SequenceAllocator
}

func NewInvoiceService(params ServiceParams, allocator SequenceAllocator) InvoiceService {
	return &invoiceService{
		ServiceParams: params,
		allocator:     allocator,
	}
}

func (s *invoiceService) GenerateInvoice(ctx context.Context, req dto.GenerateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	b, err := s.BranchRepo.Get(ctx, req.BranchID)
	if err != nil {
		return nil, err
	}

	consignments, err := loadConsignments(ctx, s.ConsignmentRepo, req.ConsignmentIDs)
	if err != nil {
		return nil, err
	}

	invoiced := lo.Filter(consignments, func(c *consignment.Consignment, _ int) bool {
		return c.InvoiceID != nil || c.ConsignmentStatus == types.ConsignmentStatusCancelled
	})
	if len(invoiced) > 0 {
		return nil, ierr.NewError("consignments cannot be invoiced").
			WithHint("Some consignments are already invoiced or cancelled").
			WithReportableDetails(map[string]any{
				"cn_numbers": lo.Map(invoiced, func(c *consignment.Consignment, _ int) string { return c.CNNumber }),
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	inv := req.ToInvoice(ctx)
	inv.Consignments = lo.Map(consignments, func(c *consignment.Consignment, _ int) *invoice.InvoiceConsignment {
		return &invoice.InvoiceConsignment{
			ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE_CONSIGNMENT),
			TenantID:      inv.TenantID,
			InvoiceID:     inv.ID,
			ConsignmentID: c.ID,
			Amount:        c.FreightAmount,
			CreatedAt:     inv.CreatedAt,
		}
	})
	inv.TotalAmount = lo.Reduce(consignments, func(total decimal.Decimal, c *consignment.Consignment, _ int) decimal.Decimal {
		return total.Add(c.FreightAmount)
	}, decimal.Zero)

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		code, err := s.allocator.NextCode(ctx, NextCodeRequest{
			TenantID:     types.GetTenantID(ctx),
			SequenceType: types.SequenceTypeInvoice,
			BranchCode:   b.Code,
		})
		if err != nil {
			return err
		}

		inv.InvoiceNumber = code.Value
		inv.IssuedAt = s.now().UTC()

		if err := s.ConsignmentRepo.SetInvoice(ctx, req.ConsignmentIDs, inv.ID); err != nil {
			return err
		}

		return s.InvoiceRepo.Create(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("generated invoice",
		"tenant_id", inv.TenantID,
		"invoice_number", inv.InvoiceNumber,
		"consignments", len(consignments),
		"total_amount", inv.TotalAmount.String(),
	)

	return dto.NewInvoiceResponse(inv), nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewInvoiceResponse(inv), nil
}
