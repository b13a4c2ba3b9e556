package postgres

import (
	"context"
	"time"

	"github.com/flexcargo/flexcargo/internal/domain/sequence"
	ierr "github.com/flexcargo/flexcargo/internal/errors"
	"github.com/flexcargo/flexcargo/internal/logger"
	"github.com/flexcargo/flexcargo/internal/postgres"
	"github.com/flexcargo/flexcargo/internal/types"
)

const counterColumns = `id, tenant_id, sequence_type, current_value, prefix, suffix,
	reset_period, period_key, last_reset_at, created_at, updated_at`

// applicablePeriodKey picks the caller supplied key matching the row's own
// reset period. It takes three bind arguments: daily, yearly, financial yearly.
const applicablePeriodKey = `(CASE reset_period
		WHEN 'daily' THEN CAST(? AS TEXT)
		WHEN 'yearly' THEN CAST(? AS TEXT)
		WHEN 'financial_yearly' THEN CAST(? AS TEXT)
		ELSE '' END)`

// incrementQuery advances the counter and applies a period reset in a single
// statement. The stored period only moves forward: a caller whose clock lags
// behind the stored period keeps counting inside the stored period.
const incrementQuery = `
	UPDATE sequence_counters
	SET current_value = CASE WHEN period_key >= ` + applicablePeriodKey + ` THEN current_value + 1 ELSE 1 END,
		last_reset_at = CASE WHEN period_key >= ` + applicablePeriodKey + ` THEN last_reset_at ELSE ? END,
		period_key = CASE WHEN period_key >= ` + applicablePeriodKey + ` THEN period_key ELSE ` + applicablePeriodKey + ` END,
		updated_at = ?
	WHERE tenant_id = ? AND sequence_type = ?
	RETURNING current_value, prefix, suffix, reset_period, period_key`

const setFloorQuery = `
	UPDATE sequence_counters
	SET current_value = CASE
			WHEN period_key < ? THEN ?
			WHEN period_key = ? AND current_value < ? THEN ?
			ELSE current_value END,
		period_key = CASE WHEN period_key < ? THEN ? ELSE period_key END,
		updated_at = ?
	WHERE tenant_id = ? AND sequence_type = ?
	RETURNING ` + counterColumns

type sequenceRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

// NewSequenceRepository creates the sequence store backed by sequence_counters
func NewSequenceRepository(client postgres.IClient, logger *logger.Logger) sequence.Repository {
	return &sequenceRepository{
		client: client,
		logger: logger,
	}
}

func (r *sequenceRepository) EnsureInitialized(ctx context.Context, c *sequence.Counter) (bool, error) {
	span := StartRepositorySpan(ctx, "sequence", "ensure_initialized", map[string]interface{}{
		"tenant_id":     c.TenantID,
		"sequence_type": c.SequenceType,
	})
	defer FinishSpan(span)

	q := r.client.Querier(ctx)
	query := q.Rebind(`
	INSERT INTO sequence_counters (` + counterColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (tenant_id, sequence_type) DO NOTHING`)

	res, err := q.ExecContext(ctx, query,
		c.ID,
		c.TenantID,
		c.SequenceType,
		c.CurrentValue,
		c.Prefix,
		c.Suffix,
		c.ResetPeriod,
		c.PeriodKey,
		c.LastResetAt,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		SetSpanError(span, err)
		return false, sequence.NewStoreUnavailableError(err, c.TenantID, c.SequenceType)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		SetSpanError(span, err)
		return false, sequence.NewStoreUnavailableError(err, c.TenantID, c.SequenceType)
	}

	SetSpanSuccess(span)
	return affected > 0, nil
}

func (r *sequenceRepository) IncrementAndFetch(
	ctx context.Context,
	tenantID string,
	sequenceType types.SequenceType,
	keys sequence.PeriodKeys,
	now time.Time,
) (*sequence.Allocation, error) {
	span := StartRepositorySpan(ctx, "sequence", "increment_and_fetch", map[string]interface{}{
		"tenant_id":     tenantID,
		"sequence_type": sequenceType,
	})
	defer FinishSpan(span)

	q := r.client.Querier(ctx)
	periodArgs := []interface{}{keys.Daily, keys.Yearly, keys.FinancialYearly}

	args := make([]interface{}, 0, 16)
	args = append(args, periodArgs...) // current_value
	args = append(args, periodArgs...) // last_reset_at
	args = append(args, now)
	args = append(args, periodArgs...) // period_key condition
	args = append(args, periodArgs...) // period_key reset value
	args = append(args, now, tenantID, sequenceType)

	var alloc sequence.Allocation
	err := q.QueryRowxContext(ctx, q.Rebind(incrementQuery), args...).StructScan(&alloc)
	if err != nil {
		SetSpanError(span, err)
		if isNoRows(err) {
			return nil, sequence.NewNotProvisionedError(tenantID, sequenceType)
		}
		return nil, sequence.NewStoreUnavailableError(err, tenantID, sequenceType)
	}

	SetSpanSuccess(span)
	return &alloc, nil
}

func (r *sequenceRepository) Get(ctx context.Context, tenantID string, sequenceType types.SequenceType) (*sequence.Counter, error) {
	span := StartRepositorySpan(ctx, "sequence", "get", map[string]interface{}{
		"tenant_id":     tenantID,
		"sequence_type": sequenceType,
	})
	defer FinishSpan(span)

	q := r.client.Querier(ctx)
	var counter sequence.Counter
	err := q.GetContext(ctx, &counter,
		q.Rebind(`SELECT `+counterColumns+` FROM sequence_counters WHERE tenant_id = ? AND sequence_type = ?`),
		tenantID, sequenceType)
	if err != nil {
		SetSpanError(span, err)
		if isNoRows(err) {
			return nil, sequence.NewNotProvisionedError(tenantID, sequenceType)
		}
		return nil, sequence.NewStoreUnavailableError(err, tenantID, sequenceType)
	}

	SetSpanSuccess(span)
	return &counter, nil
}

func (r *sequenceRepository) List(ctx context.Context, tenantID string) ([]*sequence.Counter, error) {
	span := StartRepositorySpan(ctx, "sequence", "list", map[string]interface{}{
		"tenant_id": tenantID,
	})
	defer FinishSpan(span)

	q := r.client.Querier(ctx)
	var counters []*sequence.Counter
	err := q.SelectContext(ctx, &counters,
		q.Rebind(`SELECT `+counterColumns+` FROM sequence_counters WHERE tenant_id = ? ORDER BY sequence_type`),
		tenantID)
	if err != nil {
		SetSpanError(span, err)
		return nil, ierr.WithError(err).
			WithHint("Failed to list sequence counters").
			WithReportableDetails(map[string]interface{}{
				"tenant_id": tenantID,
			}).
			Mark(ierr.ErrStoreUnavailable)
	}

	SetSpanSuccess(span)
	return counters, nil
}

func (r *sequenceRepository) SetFloor(
	ctx context.Context,
	tenantID string,
	sequenceType types.SequenceType,
	periodKey string,
	value int64,
) (*sequence.Counter, error) {
	span := StartRepositorySpan(ctx, "sequence", "set_floor", map[string]interface{}{
		"tenant_id":     tenantID,
		"sequence_type": sequenceType,
		"period_key":    periodKey,
		"value":         value,
	})
	defer FinishSpan(span)

	q := r.client.Querier(ctx)
	args := []interface{}{
		periodKey, value,
		periodKey, value, value,
		periodKey, periodKey,
		time.Now().UTC(),
		tenantID, sequenceType,
	}

	var counter sequence.Counter
	err := q.QueryRowxContext(ctx, q.Rebind(setFloorQuery), args...).StructScan(&counter)
	if err != nil {
		SetSpanError(span, err)
		if isNoRows(err) {
			return nil, sequence.NewNotProvisionedError(tenantID, sequenceType)
		}
		return nil, sequence.NewStoreUnavailableError(err, tenantID, sequenceType)
	}

	r.logger.Infow("raised sequence floor",
		"tenant_id", tenantID,
		"sequence_type", sequenceType,
		"period_key", counter.PeriodKey,
		"current_value", counter.CurrentValue,
	)

	SetSpanSuccess(span)
	return &counter, nil
}
