package service

import (
	"context"

	"github.com/flexcargo/flexcargo/internal/api/dto"
	"github.com/flexcargo/flexcargo/internal/domain/consignment"
	ierr "github.com/flexcargo/flexcargo/internal/errors"
	"github.com/flexcargo/flexcargo/internal/types"
	"github.com/samber/lo"
)

type OGPLService interface {
	// CreateOGPL dispatches booked consignments from one branch to another
	CreateOGPL(ctx context.Context, req dto.CreateOGPLRequest) (*dto.OGPLResponse, error)
	GetOGPL(ctx context.Context, id string) (*dto.OGPLResponse, error)
}

type ogplService struct {
	ServiceParams
	allocator SequenceAllocator
}

func NewOGPLService(params ServiceParams, allocator SequenceAllocator) OGPLService {
	return &ogplService{
		ServiceParams: params,
		allocator:     allocator,
	}
}

// ogplLoadable lists the statuses a consignment may have when it is loaded
var ogplLoadable = []types.ConsignmentStatus{types.ConsignmentStatusBooked}

func (s *ogplService) CreateOGPL(ctx context.Context, req dto.CreateOGPLRequest) (*dto.OGPLResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	from, err := s.BranchRepo.Get(ctx, req.FromBranchID)
	if err != nil {
		return nil, err
	}
	if _, err := s.BranchRepo.Get(ctx, req.ToBranchID); err != nil {
		return nil, err
	}

	consignments, err := loadConsignments(ctx, s.ConsignmentRepo, req.ConsignmentIDs)
	if err != nil {
		return nil, err
	}

	notBooked := lo.Filter(consignments, func(c *consignment.Consignment, _ int) bool {
		return !lo.Contains(ogplLoadable, c.ConsignmentStatus)
	})
	if len(notBooked) > 0 {
		return nil, ierr.NewError("consignments cannot be dispatched").
			WithHint("Only booked consignments can be loaded on an OGPL").
			WithReportableDetails(map[string]any{
				"cn_numbers": lo.Map(notBooked, func(c *consignment.Consignment, _ int) string { return c.CNNumber }),
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	o := req.ToOGPL(ctx)

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		code, err := s.allocator.NextCode(ctx, NextCodeRequest{
			TenantID:     types.GetTenantID(ctx),
			SequenceType: types.SequenceTypeOGPL,
			BranchCode:   from.Code,
		})
		if err != nil {
			return err
		}

		o.OGPLNumber = code.Value
		o.DispatchedAt = s.now().UTC()

		// claims the consignments, a concurrent OGPL for any of them fails here
		if err := s.ConsignmentRepo.TransitionStatus(ctx, o.ConsignmentIDs, ogplLoadable, types.ConsignmentStatusInTransit); err != nil {
			return err
		}

		if err := s.OGPLRepo.Create(ctx, o); err != nil {
			return err
		}

		return s.ConsignmentRepo.AddTracking(ctx, trackAll(consignments, types.ConsignmentStatusInTransit, from.ID, o.OGPLNumber)...)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("dispatched ogpl",
		"tenant_id", o.TenantID,
		"ogpl_number", o.OGPLNumber,
		"consignments", len(o.ConsignmentIDs),
	)

	return &dto.OGPLResponse{OGPL: o}, nil
}

func (s *ogplService) GetOGPL(ctx context.Context, id string) (*dto.OGPLResponse, error) {
	o, err := s.OGPLRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.OGPLResponse{OGPL: o}, nil
}
