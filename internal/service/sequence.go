package service

import (
	"context"
	"sort"
	"time"

	"github.com/flexcargo/flexcargo/internal/config"
	"github.com/flexcargo/flexcargo/internal/domain/sequence"
	ierr "github.com/flexcargo/flexcargo/internal/errors"
	"github.com/flexcargo/flexcargo/internal/metrics"
	"github.com/flexcargo/flexcargo/internal/postgres"
	"github.com/flexcargo/flexcargo/internal/types"
	"github.com/samber/lo"
)

// NextCodeRequest asks for the next document number of one tenant
type NextCodeRequest struct {
	TenantID     string
	SequenceType types.SequenceType
	// BranchCode is required by branch bearing formats such as OGPL-BOM-20250001
	BranchCode string
}

// SequenceAllocator is the single entry point for document numbering
type SequenceAllocator interface {
	// NextCode atomically allocates and formats the next number. In gap tolerant
	// mode the increment commits on its own even when ctx carries a transaction.
	NextCode(ctx context.Context, req NextCodeRequest) (*sequence.Code, error)

	// ProvisionTenantSequences creates the missing counters of a tenant. It is
	// idempotent and never touches existing counters; an existing counter whose
	// prefix, suffix or reset period differs from the configured rule is logged
	// as a warning and keeps its stored values.
	ProvisionTenantSequences(ctx context.Context, tenantID string) ([]*sequence.Counter, error)

	ListCounters(ctx context.Context, tenantID string) ([]*sequence.Counter, error)

	// Rule returns the format rule registered for a sequence type
	Rule(sequenceType types.SequenceType) (sequence.FormatRule, error)

	// PeriodKeys returns the period keys of the current instant
	PeriodKeys() sequence.PeriodKeys
}

type sequenceAllocator struct {
	ServiceParams
	rules   map[types.SequenceType]sequence.FormatRule
	loc     *time.Location
	fyStart time.Month
	mode    types.AllocationMode
}

// NewSequenceAllocator builds the allocator and validates the format rules of
// every known sequence type, so a missing rule fails at startup.
func NewSequenceAllocator(params ServiceParams) (SequenceAllocator, error) {
	rules, err := BuildFormatRules(params.Config.Sequence)
	if err != nil {
		return nil, err
	}

	loc, err := params.Config.Sequence.Location()
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Invalid sequence timezone %s", params.Config.Sequence.Timezone).
			Mark(ierr.ErrValidation)
	}

	mode := params.Config.Sequence.AllocationMode
	if mode == "" {
		mode = types.AllocationModeGapTolerant
	}

	params.Logger.Infow("sequence allocator ready",
		"allocation_mode", mode,
		"timezone", loc.String(),
		"sequence_types", lo.Keys(rules),
	)

	return &sequenceAllocator{
		ServiceParams: params,
		rules:         rules,
		loc:           loc,
		fyStart:       time.Month(params.Config.Sequence.FinancialYearStartMonth),
		mode:          mode,
	}, nil
}

// BuildFormatRules merges configured overrides into the default rules
func BuildFormatRules(cfg config.SequenceConfig) (map[types.SequenceType]sequence.FormatRule, error) {
	rules := sequence.DefaultRules()

	for name, override := range cfg.Rules {
		st := types.SequenceType(name)
		rule, ok := rules[st]
		if !ok {
			rule = sequence.FormatRule{ResetPeriod: types.ResetPeriodNone, PadWidth: 4}
		}

		if override.Prefix != nil {
			rule.Prefix = *override.Prefix
		}
		if override.Suffix != nil {
			rule.Suffix = *override.Suffix
		}
		if override.ResetPeriod != "" {
			rule.ResetPeriod = override.ResetPeriod
		}
		if override.Separator != nil {
			rule.Separator = *override.Separator
		}
		if override.NumberSeparator != nil {
			rule.NumberSeparator = *override.NumberSeparator
		}
		if override.IncludeBranch != nil {
			rule.IncludeBranch = *override.IncludeBranch
		}
		if override.IncludePeriod != nil {
			rule.IncludePeriod = *override.IncludePeriod
		}
		if override.ShortPeriod != nil {
			rule.ShortPeriod = *override.ShortPeriod
		}
		if override.PadWidth > 0 {
			rule.PadWidth = override.PadWidth
		}
		rules[st] = rule
	}

	for _, st := range types.KnownSequenceTypes {
		if _, ok := rules[st]; !ok {
			return nil, sequence.NewFormatMissingError(st)
		}
	}

	for st, rule := range rules {
		if rule.Prefix == "" {
			return nil, ierr.NewError("sequence prefix missing").
				WithHintf("Sequence type %s needs a prefix", st).
				Mark(ierr.ErrFormatConfigurationMissing)
		}
		if err := rule.Validate(); err != nil {
			return nil, ierr.WithError(err).
				WithHintf("Invalid format rule for sequence type %s", st).
				Mark(ierr.ErrFormatConfigurationMissing)
		}
	}

	return rules, nil
}

func (s *sequenceAllocator) Rule(sequenceType types.SequenceType) (sequence.FormatRule, error) {
	rule, ok := s.rules[sequenceType]
	if !ok {
		return sequence.FormatRule{}, sequence.NewFormatMissingError(sequenceType)
	}
	return rule, nil
}

func (s *sequenceAllocator) PeriodKeys() sequence.PeriodKeys {
	return sequence.NewPeriodKeys(s.now(), s.loc, s.fyStart)
}

func (s *sequenceAllocator) NextCode(ctx context.Context, req NextCodeRequest) (*sequence.Code, error) {
	start := time.Now()
	result := metrics.ResultSuccess
	reset := false
	defer func() {
		s.Metrics.ObserveAllocation(req.SequenceType.String(), result, time.Since(start), reset)
	}()

	if req.TenantID == "" {
		result = metrics.ResultValidationError
		return nil, ierr.NewError("tenant id is required").
			WithHint("A tenant is required to generate a document number").
			Mark(ierr.ErrValidation)
	}
	if err := req.SequenceType.Validate(); err != nil {
		result = metrics.ResultValidationError
		return nil, err
	}

	log := s.Logger.With(
		"tenant_id", req.TenantID,
		"sequence_type", req.SequenceType,
	)

	rule, err := s.Rule(req.SequenceType)
	if err != nil {
		result = metrics.ResultFormatMissing
		log.Errorw("no format rule for sequence type")
		return nil, err
	}

	if rule.IncludeBranch && req.BranchCode == "" {
		result = metrics.ResultValidationError
		return nil, ierr.NewError("branch code is required").
			WithHintf("A branch is required to generate a %s number", req.SequenceType).
			Mark(ierr.ErrValidation)
	}

	now := s.now()
	keys := sequence.NewPeriodKeys(now, s.loc, s.fyStart)

	allocCtx := ctx
	if s.mode == types.AllocationModeGapTolerant {
		allocCtx = postgres.WithoutTx(ctx)
	}

	alloc, err := s.SequenceRepo.IncrementAndFetch(allocCtx, req.TenantID, req.SequenceType, keys, now.UTC())
	if err != nil {
		switch {
		case ierr.IsTenantNotProvisioned(err):
			result = metrics.ResultNotProvisioned
			log.Errorw("sequence counter not provisioned")
		default:
			result = metrics.ResultStoreError
			log.Errorw("sequence allocation failed", "error", err)
			s.Sentry.CaptureExceptionWithTags(ctx, err, map[string]string{
				"tenant_id":     req.TenantID,
				"sequence_type": req.SequenceType.String(),
			})
		}
		return nil, err
	}

	value, err := rule.Format(alloc, req.BranchCode)
	if err != nil {
		result = metrics.ResultValidationError
		return nil, err
	}

	reset = alloc.Value == 1
	log.Debugw("allocated document number",
		"code", value,
		"period_key", alloc.PeriodKey,
		"allocation_mode", s.mode,
	)

	return &sequence.Code{
		TenantID:     req.TenantID,
		SequenceType: req.SequenceType,
		Value:        value,
		Number:       alloc.Value,
		PeriodKey:    alloc.PeriodKey,
	}, nil
}

func (s *sequenceAllocator) ProvisionTenantSequences(ctx context.Context, tenantID string) ([]*sequence.Counter, error) {
	if tenantID == "" {
		return nil, ierr.NewError("tenant id is required").
			WithHint("A tenant is required to provision document numbering").
			Mark(ierr.ErrValidation)
	}

	now := s.now().UTC()
	created := 0
	for _, st := range s.provisionOrder() {
		counter := sequence.NewCounter(tenantID, st, s.rules[st], now)
		ok, err := s.SequenceRepo.EnsureInitialized(ctx, counter)
		if err != nil {
			return nil, err
		}
		if ok {
			created++
		}
	}

	s.Logger.Infow("provisioned tenant sequences",
		"tenant_id", tenantID,
		"created", created,
	)

	counters, err := s.SequenceRepo.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	s.warnRuleDrift(counters)
	return counters, nil
}

// warnRuleDrift reports existing counters whose stored format no longer
// matches the configured rule
func (s *sequenceAllocator) warnRuleDrift(counters []*sequence.Counter) {
	for _, c := range counters {
		rule, ok := s.rules[c.SequenceType]
		if !ok {
			continue
		}
		drift := c.RuleDrift(rule)
		if len(drift) == 0 {
			continue
		}
		s.Logger.Warnw("sequence counter keeps its stored format, configured rule differs",
			"tenant_id", c.TenantID,
			"sequence_type", c.SequenceType,
			"fields", drift,
			"stored_prefix", c.Prefix,
			"rule_prefix", rule.Prefix,
			"stored_suffix", c.Suffix,
			"rule_suffix", rule.Suffix,
			"stored_reset_period", c.ResetPeriod,
			"rule_reset_period", rule.ResetPeriod,
		)
	}
}

// provisionOrder returns the known types first, then configured extra types by name
func (s *sequenceAllocator) provisionOrder() []types.SequenceType {
	order := append([]types.SequenceType{}, types.KnownSequenceTypes...)

	var extra []types.SequenceType
	for st := range s.rules {
		if !lo.Contains(types.KnownSequenceTypes, st) {
			extra = append(extra, st)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })

	return append(order, extra...)
}

func (s *sequenceAllocator) ListCounters(ctx context.Context, tenantID string) ([]*sequence.Counter, error) {
	if tenantID == "" {
		return nil, ierr.NewError("tenant id is required").
			Mark(ierr.ErrValidation)
	}
	return s.SequenceRepo.List(ctx, tenantID)
}
