package ogpl

import (
	"time"

	"github.com/flexcargo/flexcargo/internal/types"
)

// OGPL is the outward goods pass listing consignments loaded on one vehicle
// between two branches
type OGPL struct {
	ID            string           `db:"id" json:"id"`
	OGPLNumber    string           `db:"ogpl_number" json:"ogpl_number"`
	FromBranchID  string           `db:"from_branch_id" json:"from_branch_id"`
	ToBranchID    string           `db:"to_branch_id" json:"to_branch_id"`
	VehicleNumber string           `db:"vehicle_number" json:"vehicle_number"`
	DriverName    string           `db:"driver_name" json:"driver_name"`
	DriverPhone   string           `db:"driver_phone" json:"driver_phone"`
	OGPLStatus    types.OGPLStatus `db:"ogpl_status" json:"ogpl_status"`
	DispatchedAt  time.Time        `db:"dispatched_at" json:"dispatched_at"`
	types.BaseModel

	ConsignmentIDs []string `db:"-" json:"consignment_ids,omitempty"`
}
