package types

// TenantSource is a place the tenant resolver looks for a tenant identity
type TenantSource string

const (
	TenantSourceJWT       TenantSource = "jwt"
	TenantSourceHeader    TenantSource = "header"
	TenantSourceSubdomain TenantSource = "subdomain"
	TenantSourceQuery     TenantSource = "query"
)

// DefaultTenantSources is the resolution order used when none is configured
var DefaultTenantSources = []TenantSource{
	TenantSourceJWT,
	TenantSourceHeader,
	TenantSourceSubdomain,
	TenantSourceQuery,
}
