package service

import (
	"context"

	"github.com/flexcargo/flexcargo/internal/domain/branch"
	"github.com/flexcargo/flexcargo/internal/domain/sequence"
	ierr "github.com/flexcargo/flexcargo/internal/errors"
	"github.com/flexcargo/flexcargo/internal/types"
	"github.com/samber/lo"
)

// SequenceBackfillService seeds counters from numbers issued before the
// allocator owned numbering
type SequenceBackfillService interface {
	// BackfillFromIssuedCodes raises the counter of the current period to the
	// highest number already stored for it. It never lowers a counter.
	BackfillFromIssuedCodes(ctx context.Context, tenantID string, sequenceType types.SequenceType) (*sequence.Counter, error)
}

type sequenceBackfillService struct {
	ServiceParams
	allocator SequenceAllocator
}

func NewSequenceBackfillService(params ServiceParams, allocator SequenceAllocator) SequenceBackfillService {
	return &sequenceBackfillService{
		ServiceParams: params,
		allocator:     allocator,
	}
}

func (s *sequenceBackfillService) BackfillFromIssuedCodes(ctx context.Context, tenantID string, sequenceType types.SequenceType) (*sequence.Counter, error) {
	if tenantID == "" {
		return nil, ierr.NewError("tenant id is required").
			WithHint("A tenant is required to backfill document numbering").
			Mark(ierr.ErrValidation)
	}

	rule, err := s.allocator.Rule(sequenceType)
	if err != nil {
		return nil, err
	}

	counter, err := s.SequenceRepo.Get(ctx, tenantID, sequenceType)
	if err != nil {
		return nil, err
	}

	periodKey := s.allocator.PeriodKeys().For(counter.ResetPeriod)

	heads := []string{rule.Head(counter.Prefix, "", counter.ResetPeriod, periodKey)}
	if rule.IncludeBranch {
		branches, err := s.BranchRepo.List(tenantContext(ctx, tenantID))
		if err != nil {
			return nil, err
		}
		heads = lo.Map(branches, func(b *branch.Branch, _ int) string {
			return rule.Head(counter.Prefix, b.Code, counter.ResetPeriod, periodKey)
		})
	}

	var highest int64
	for _, head := range heads {
		codes, err := s.IssuedCodeRepo.ListIssuedCodes(ctx, tenantID, sequenceType, head)
		if err != nil {
			return nil, err
		}
		for _, code := range codes {
			if n, ok := sequence.ParseNumber(code, head, counter.Suffix); ok && n > highest {
				highest = n
			}
		}
	}

	if highest == 0 {
		s.Logger.Infow("no issued codes found for backfill",
			"tenant_id", tenantID,
			"sequence_type", sequenceType,
			"period_key", periodKey,
		)
		return counter, nil
	}

	updated, err := s.SequenceRepo.SetFloor(ctx, tenantID, sequenceType, periodKey, highest)
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("backfilled sequence counter",
		"tenant_id", tenantID,
		"sequence_type", sequenceType,
		"period_key", periodKey,
		"highest_issued", highest,
		"current_value", updated.CurrentValue,
	)

	return updated, nil
}
