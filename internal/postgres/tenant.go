package postgres

import (
	"strings"
)

// TenantScoped appends the tenant predicate to a statement that has no
// trailing ORDER BY, GROUP BY or LIMIT clause. The query is written with ?
// bindvars and rebound for the querier's driver; tenantID becomes the last
// bind argument.
func TenantScoped(q Querier, query string, tenantID string, args ...interface{}) (string, []interface{}) {
	predicate := " WHERE tenant_id = ?"
	if strings.Contains(strings.ToUpper(query), " WHERE ") {
		predicate = " AND tenant_id = ?"
	}
	return q.Rebind(query + predicate), append(args, tenantID)
}
