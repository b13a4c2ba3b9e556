package consignment

import (
	"time"

	"github.com/flexcargo/flexcargo/internal/types"
	"github.com/shopspring/decimal"
)

// Consignment is a booked shipment identified by its CN number
type Consignment struct {
	ID                  string                  `db:"id" json:"id"`
	CNNumber            string                  `db:"cn_number" json:"cn_number"`
	OriginBranchID      string                  `db:"origin_branch_id" json:"origin_branch_id"`
	DestinationBranchID string                  `db:"destination_branch_id" json:"destination_branch_id"`
	ConsignorName       string                  `db:"consignor_name" json:"consignor_name"`
	ConsigneeName       string                  `db:"consignee_name" json:"consignee_name"`
	ConsigneePhone      string                  `db:"consignee_phone" json:"consignee_phone"`
	Packages            int                     `db:"packages" json:"packages"`
	WeightKg            decimal.Decimal         `db:"weight_kg" json:"weight_kg"`
	FreightAmount       decimal.Decimal         `db:"freight_amount" json:"freight_amount"`
	PaymentMode         types.PaymentMode       `db:"payment_mode" json:"payment_mode"`
	ConsignmentStatus   types.ConsignmentStatus `db:"consignment_status" json:"consignment_status"`
	// InvoiceID is set once the consignment is billed
	InvoiceID *string   `db:"invoice_id" json:"invoice_id,omitempty"`
	BookedAt  time.Time `db:"booked_at" json:"booked_at"`
	types.BaseModel
}

// TrackingEvent is one entry of a consignment's movement history
type TrackingEvent struct {
	ID                string                  `db:"id" json:"id"`
	TenantID          string                  `db:"tenant_id" json:"tenant_id"`
	ConsignmentID     string                  `db:"consignment_id" json:"consignment_id"`
	ConsignmentStatus types.ConsignmentStatus `db:"consignment_status" json:"consignment_status"`
	BranchID          string                  `db:"branch_id" json:"branch_id"`
	// Reference is the document number that caused the event, e.g. an OGPL number
	Reference string    `db:"reference" json:"reference"`
	Remarks   string    `db:"remarks" json:"remarks"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	CreatedBy string    `db:"created_by" json:"created_by"`
}

func NewTrackingEvent(c *Consignment, status types.ConsignmentStatus, branchID, reference, remarks string) *TrackingEvent {
	return &TrackingEvent{
		ID:                types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TRACKING),
		TenantID:          c.TenantID,
		ConsignmentID:     c.ID,
		ConsignmentStatus: status,
		BranchID:          branchID,
		Reference:         reference,
		Remarks:           remarks,
		CreatedAt:         time.Now().UTC(),
		CreatedBy:         c.UpdatedBy,
	}
}
