package service

import (
	"context"

	"github.com/flexcargo/flexcargo/internal/api/dto"
	"github.com/flexcargo/flexcargo/internal/domain/consignment"
	ierr "github.com/flexcargo/flexcargo/internal/errors"
	"github.com/flexcargo/flexcargo/internal/types"
	"github.com/samber/lo"
)

type ConsignmentService interface {
	// CreateConsignment books a consignment under a freshly allocated CN number
	CreateConsignment(ctx context.Context, req dto.CreateConsignmentRequest) (*dto.ConsignmentResponse, error)
	GetConsignmentByCNNumber(ctx context.Context, cnNumber string) (*dto.ConsignmentResponse, error)
}

type consignmentService struct {
	ServiceParams
	allocator SequenceAllocator
}

func NewConsignmentService(params ServiceParams, allocator SequenceAllocator) ConsignmentService {
	return &consignmentService{
		ServiceParams: params,
		allocator:     allocator,
	}
}

func (s *consignmentService) CreateConsignment(ctx context.Context, req dto.CreateConsignmentRequest) (*dto.ConsignmentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	origin, err := s.BranchRepo.Get(ctx, req.OriginBranchID)
	if err != nil {
		return nil, err
	}
	if _, err := s.BranchRepo.Get(ctx, req.DestinationBranchID); err != nil {
		return nil, err
	}

	c := req.ToConsignment(ctx)
	var booked *consignment.TrackingEvent

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		code, err := s.allocator.NextCode(ctx, NextCodeRequest{
			TenantID:     types.GetTenantID(ctx),
			SequenceType: types.SequenceTypeConsignment,
			BranchCode:   origin.Code,
		})
		if err != nil {
			return err
		}

		c.CNNumber = code.Value
		c.BookedAt = s.now().UTC()

		if err := s.ConsignmentRepo.Create(ctx, c); err != nil {
			return err
		}

		booked = consignment.NewTrackingEvent(c, types.ConsignmentStatusBooked, origin.ID, c.CNNumber, "")
		return s.ConsignmentRepo.AddTracking(ctx, booked)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("booked consignment",
		"tenant_id", c.TenantID,
		"cn_number", c.CNNumber,
		"origin_branch", origin.Code,
	)

	return &dto.ConsignmentResponse{
		Consignment: c,
		Tracking:    []*consignment.TrackingEvent{booked},
	}, nil
}

func (s *consignmentService) GetConsignmentByCNNumber(ctx context.Context, cnNumber string) (*dto.ConsignmentResponse, error) {
	if cnNumber == "" {
		return nil, ierr.NewError("cn number is required").
			WithHint("Please provide a CN number").
			Mark(ierr.ErrValidation)
	}

	c, err := s.ConsignmentRepo.GetByCNNumber(ctx, cnNumber)
	if err != nil {
		return nil, err
	}

	tracking, err := s.ConsignmentRepo.ListTracking(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	return &dto.ConsignmentResponse{Consignment: c, Tracking: tracking}, nil
}

// loadConsignments returns the consignments in ids order and fails when any
// of them is missing
func loadConsignments(ctx context.Context, repo consignment.Repository, ids []string) ([]*consignment.Consignment, error) {
	found, err := repo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := lo.KeyBy(found, func(c *consignment.Consignment) string { return c.ID })
	missing := lo.Filter(ids, func(id string, _ int) bool {
		_, ok := byID[id]
		return !ok
	})
	if len(missing) > 0 {
		return nil, ierr.NewError("consignments not found").
			WithHintf("%d consignment(s) could not be found", len(missing)).
			WithReportableDetails(map[string]any{
				"consignment_ids": missing,
			}).
			Mark(ierr.ErrNotFound)
	}

	return lo.Map(ids, func(id string, _ int) *consignment.Consignment { return byID[id] }), nil
}

// trackAll records the same status change for every consignment
func trackAll(consignments []*consignment.Consignment, status types.ConsignmentStatus, branchID, reference string) []*consignment.TrackingEvent {
	return lo.Map(consignments, func(c *consignment.Consignment, _ int) *consignment.TrackingEvent {
		return consignment.NewTrackingEvent(c, status, branchID, reference, "")
	})
}
