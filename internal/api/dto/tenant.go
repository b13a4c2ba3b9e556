package dto

import (
	"strings"
	"time"

	"github.com/flexcargo/flexcargo/internal/domain/sequence"
	"github.com/flexcargo/flexcargo/internal/domain/tenant"
	"github.com/flexcargo/flexcargo/internal/types"
	"github.com/flexcargo/flexcargo/internal/validator"
	"github.com/samber/lo"
)

type CreateTenantRequest struct {
	Name      string `json:"name" validate:"required,max=255"`
	Subdomain string `json:"subdomain,omitempty" validate:"omitempty,hostname_rfc1123,max=100"`
}

func (r *CreateTenantRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *CreateTenantRequest) ToTenant() *tenant.Tenant {
	now := time.Now().UTC()
	var subdomain *string
	if r.Subdomain != "" {
		subdomain = lo.ToPtr(strings.ToLower(r.Subdomain))
	}
	return &tenant.Tenant{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TENANT),
		Name:      r.Name,
		Subdomain: subdomain,
		Status:    types.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

type TenantResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Subdomain string `json:"subdomain,omitempty"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
	// Sequences lists the counters provisioned with the tenant
	Sequences []*SequenceCounterResponse `json:"sequences,omitempty"`
}

// NewTenantResponse converts a Tenant domain object into a TenantResponse DTO.
func NewTenantResponse(t *tenant.Tenant, counters []*sequence.Counter) *TenantResponse {
	return &TenantResponse{
		ID:        t.ID,
		Name:      t.Name,
		Subdomain: lo.FromPtr(t.Subdomain),
		Status:    string(t.Status),
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
		UpdatedAt: t.UpdatedAt.Format(time.RFC3339),
		Sequences: lo.Map(counters, func(c *sequence.Counter, _ int) *SequenceCounterResponse {
			return NewSequenceCounterResponse(c)
		}),
	}
}
