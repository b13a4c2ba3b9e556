package internal

import (
	"context"
	"fmt"

	"github.com/flexcargo/flexcargo/internal/service"
	"github.com/flexcargo/flexcargo/internal/types"
	"github.com/samber/lo"
)

// BackfillSequences raises counters to the highest number already issued in
// the current period. An empty sequenceType backfills every known type.
func BackfillSequences(ctx context.Context, tenantID string, sequenceType string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	sequenceTypes := types.KnownSequenceTypes
	if sequenceType != "" {
		st := types.SequenceType(sequenceType)
		if !lo.Contains(types.KnownSequenceTypes, st) {
			return fmt.Errorf("unknown sequence type %q", sequenceType)
		}
		sequenceTypes = []types.SequenceType{st}
	}

	backfill := service.NewSequenceBackfillService(a.params, a.allocator)
	for _, st := range sequenceTypes {
		counter, err := backfill.BackfillFromIssuedCodes(ctx, tenantID, st)
		if err != nil {
			return fmt.Errorf("backfill %s: %w", st, err)
		}
		fmt.Printf("  %-14s value=%d period=%s\n", st, counter.CurrentValue, counter.PeriodKey)
	}
	return nil
}
