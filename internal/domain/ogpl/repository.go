package ogpl

import (
	"context"
)

type Repository interface {
	// Create inserts the manifest and one link row per consignment
	Create(ctx context.Context, o *OGPL) error
	Get(ctx context.Context, id string) (*OGPL, error)
}
