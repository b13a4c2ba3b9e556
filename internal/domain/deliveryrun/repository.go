package deliveryrun

import (
	"context"
)

type Repository interface {
	// Create inserts the run and one link row per consignment
	Create(ctx context.Context, run *DeliveryRun) error
	Get(ctx context.Context, id string) (*DeliveryRun, error)
}
