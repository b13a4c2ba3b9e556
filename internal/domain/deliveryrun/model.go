package deliveryrun

import (
	"time"

	"github.com/flexcargo/flexcargo/internal/types"
)

// DeliveryRun is a day's last mile trip from a branch
type DeliveryRun struct {
	ID            string                  `db:"id" json:"id"`
	RunNumber     string                  `db:"run_number" json:"run_number"`
	BranchID      string                  `db:"branch_id" json:"branch_id"`
	VehicleNumber string                  `db:"vehicle_number" json:"vehicle_number"`
	DeliveryAgent string                  `db:"delivery_agent" json:"delivery_agent"`
	RunStatus     types.DeliveryRunStatus `db:"run_status" json:"run_status"`
	RunDate       time.Time               `db:"run_date" json:"run_date"`
	types.BaseModel

	ConsignmentIDs []string `db:"-" json:"consignment_ids,omitempty"`
}
