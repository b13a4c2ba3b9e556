package types

import (
	"context"
	"time"
)

// BaseModel carries the tenant and audit columns shared by every tenant
// scoped table
type BaseModel struct {
	TenantID  string    `db:"tenant_id" json:"tenant_id"`
	Status    Status    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
	CreatedBy string    `db:"created_by" json:"created_by"`
	UpdatedBy string    `db:"updated_by" json:"updated_by"`
}

// GetDefaultBaseModel stamps a new active row with the tenant and user of ctx
func GetDefaultBaseModel(ctx context.Context) BaseModel {
	now := time.Now().UTC()
	userID := GetUserID(ctx)
	return BaseModel{
		TenantID:  GetTenantID(ctx),
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: userID,
		UpdatedBy: userID,
	}
}
