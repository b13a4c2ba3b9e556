package branch

import (
	"github.com/flexcargo/flexcargo/internal/types"
)

// Branch is an office of a tenant. Its short code appears in branch bearing
// document numbers such as OGPL-BOM-20250001.
type Branch struct {
	ID   string `db:"id" json:"id"`
	Code string `db:"code" json:"code"`
	Name string `db:"name" json:"name"`
	City string `db:"city" json:"city"`
	types.BaseModel
}
