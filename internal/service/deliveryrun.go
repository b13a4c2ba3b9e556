package service

import (
	"context"

	"github.com/flexcargo/flexcargo/internal/api/dto"
	"github.com/flexcargo/flexcargo/internal/domain/consignment"
	ierr "github.com/flexcargo/flexcargo/internal/errors"
	"github.com/flexcargo/flexcargo/internal/types"
	"github.com/samber/lo"
)

type DeliveryRunService interface {
	// CreateDeliveryRun sends consignments out for delivery from a branch
	CreateDeliveryRun(ctx context.Context, req dto.CreateDeliveryRunRequest) (*dto.DeliveryRunResponse, error)
	GetDeliveryRun(ctx context.Context, id string) (*dto.DeliveryRunResponse, error)
}

type deliveryRunService struct {
	ServiceParams
	allocator SequenceAllocator
}

func NewDeliveryRunService(params ServiceParams, allocator SequenceAllocator) DeliveryRunService {
	return &deliveryRunService{
		ServiceParams: params,
		allocator:     allocator,
	}
}

// deliveryRunLoadable lists the statuses a consignment may have when it joins a run
var deliveryRunLoadable = []types.ConsignmentStatus{
	types.ConsignmentStatusBooked,
	types.ConsignmentStatusInTransit,
}

func (s *deliveryRunService) CreateDeliveryRun(ctx context.Context, req dto.CreateDeliveryRunRequest) (*dto.DeliveryRunResponse, error) {
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

	unavailable := lo.Filter(consignments, func(c *consignment.Consignment, _ int) bool {
		return !lo.Contains(deliveryRunLoadable, c.ConsignmentStatus)
	})
	if len(unavailable) > 0 {
		return nil, ierr.NewError("consignments cannot be sent out for delivery").
			WithHint("Only booked or in transit consignments can join a delivery run").
			WithReportableDetails(map[string]any{
				"cn_numbers": lo.Map(unavailable, func(c *consignment.Consignment, _ int) string { return c.CNNumber }),
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	run := req.ToDeliveryRun(ctx)

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		code, err := s.allocator.NextCode(ctx, NextCodeRequest{
			TenantID:     types.GetTenantID(ctx),
			SequenceType: types.SequenceTypeDeliveryRun,
			BranchCode:   b.Code,
		})
		if err != nil {
			return err
		}

		run.RunNumber = code.Value
		run.RunDate = s.now().UTC()

		if err := s.ConsignmentRepo.TransitionStatus(ctx, run.ConsignmentIDs, deliveryRunLoadable, types.ConsignmentStatusOutForDelivery); err != nil {
			return err
		}

		if err := s.DeliveryRunRepo.Create(ctx, run); err != nil {
			return err
		}

		return s.ConsignmentRepo.AddTracking(ctx, trackAll(consignments, types.ConsignmentStatusOutForDelivery, b.ID, run.RunNumber)...)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("created delivery run",
		"tenant_id", run.TenantID,
		"run_number", run.RunNumber,
		"consignments", len(run.ConsignmentIDs),
	)

	return &dto.DeliveryRunResponse{DeliveryRun: run}, nil
}

func (s *deliveryRunService) GetDeliveryRun(ctx context.Context, id string) (*dto.DeliveryRunResponse, error) {
	run, err := s.DeliveryRunRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.DeliveryRunResponse{DeliveryRun: run}, nil
}
