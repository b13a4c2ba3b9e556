package receipt

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, r *Receipt) error
	Get(ctx context.Context, id string) (*Receipt, error)
	ListByInvoice(ctx context.Context, invoiceID string) ([]*Receipt, error)
}
