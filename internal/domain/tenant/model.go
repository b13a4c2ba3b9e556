package tenant

import (
	"time"

	"github.com/flexcargo/flexcargo/internal/types"
)

// Tenant is one logistics company sharing the platform
type Tenant struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
	// Subdomain maps acme.<base domain> to this tenant
	Subdomain *string      `db:"subdomain" json:"subdomain,omitempty"`
	Status    types.Status `db:"status" json:"status"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt time.Time    `db:"updated_at" json:"updated_at"`
}

func (t *Tenant) IsActive() bool {
	return t != nil && t.Status == types.StatusActive
}
