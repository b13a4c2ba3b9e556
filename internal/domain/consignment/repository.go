package consignment

import (
	"context"

	"github.com/flexcargo/flexcargo/internal/types"
)

type Repository interface {
	Create(ctx context.Context, c *Consignment) error
	Get(ctx context.Context, id string) (*Consignment, error)
	GetByCNNumber(ctx context.Context, cnNumber string) (*Consignment, error)
	// ListByIDs returns the consignments found, missing ids are skipped
	ListByIDs(ctx context.Context, ids []string) ([]*Consignment, error)
	// TransitionStatus moves the consignments to status, but only those
	// currently in one of the from statuses. When fewer consignments match than
	// ids given it fails with ErrInvalidOperation; callers run it in a
	// transaction so the partial update is rolled back.
	TransitionStatus(ctx context.Context, ids []string, from []types.ConsignmentStatus, to types.ConsignmentStatus) error
	// SetInvoice bills consignments that are not on an invoice yet, with the
	// same all-or-nothing rule as TransitionStatus
	SetInvoice(ctx context.Context, ids []string, invoiceID string) error

	AddTracking(ctx context.Context, events ...*TrackingEvent) error
	ListTracking(ctx context.Context, consignmentID string) ([]*TrackingEvent, error)
}
