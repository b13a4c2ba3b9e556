package postgres

import (
	"context"
	"strings"

	"github.com/flexcargo/flexcargo/internal/domain/sequence"
	ierr "github.com/flexcargo/flexcargo/internal/errors"
	"github.com/flexcargo/flexcargo/internal/logger"
	"github.com/flexcargo/flexcargo/internal/postgres"
	"github.com/flexcargo/flexcargo/internal/types"
)

// issuedCodeColumns maps a sequence type to the entity column holding its codes
var issuedCodeColumns = map[types.SequenceType]struct{ table, column string }{
	types.SequenceTypeConsignment: {"consignments", "cn_number"},
	types.SequenceTypeInvoice:     {"invoices", "invoice_number"},
	types.SequenceTypeOGPL:        {"ogpls", "ogpl_number"},
	types.SequenceTypeDeliveryRun: {"delivery_runs", "run_number"},
	types.SequenceTypeReceipt:     {"receipts", "receipt_number"},
}

type issuedCodeRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

func NewIssuedCodeRepository(client postgres.IClient, logger *logger.Logger) sequence.IssuedCodeRepository {
	return &issuedCodeRepository{
		client: client,
		logger: logger,
	}
}

func (r *issuedCodeRepository) ListIssuedCodes(ctx context.Context, tenantID string, sequenceType types.SequenceType, prefix string) ([]string, error) {
	target, ok := issuedCodeColumns[sequenceType]
	if !ok {
		return nil, ierr.NewError("unsupported sequence type").
			WithHintf("No document table is known for sequence type %s", sequenceType).
			Mark(ierr.ErrValidation)
	}

	span := StartRepositorySpan(ctx, "sequence", "list_issued_codes", map[string]interface{}{
		"tenant_id":     tenantID,
		"sequence_type": sequenceType,
	})
	defer FinishSpan(span)

	q := r.client.Querier(ctx)
	var codes []string
	err := q.SelectContext(ctx, &codes,
		q.Rebind(`SELECT `+target.column+` FROM `+target.table+` WHERE tenant_id = ? AND `+target.column+` LIKE ?`),
		tenantID, escapeLike(prefix)+"%")
	if err != nil {
		SetSpanError(span, err)
		return nil, ierr.WithError(err).
			WithHint("Failed to read issued document numbers").
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return codes, nil
}

// escapeLike drops LIKE wildcards from a literal prefix; callers re-check the
// prefix on the returned codes
func escapeLike(s string) string {
	return strings.NewReplacer("%", "_").Replace(s)
}
