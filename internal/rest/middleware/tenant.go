package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/flexcargo/flexcargo/internal/auth"
	"github.com/flexcargo/flexcargo/internal/config"
	"github.com/flexcargo/flexcargo/internal/domain/tenant"
	ierr "github.com/flexcargo/flexcargo/internal/errors"
	"github.com/flexcargo/flexcargo/internal/logger"
	"github.com/flexcargo/flexcargo/internal/types"
	"github.com/gin-gonic/gin"
)

// TenantLookup is the part of the tenant service the resolver needs
type TenantLookup interface {
	GetTenantByID(ctx context.Context, id string) (*tenant.Tenant, error)
	GetTenantBySubdomain(ctx context.Context, subdomain string) (*tenant.Tenant, error)
}

type tenantResolver struct {
	cfg     config.TenancyConfig
	tokens  *auth.Tokens
	tenants TenantLookup
	logger  *logger.Logger
}

// TenantMiddleware resolves the tenant of a request from the configured
// sources, first match wins, and stores it in the request context. The
// tenant must exist and be active.
func TenantMiddleware(
	cfg *config.Configuration,
	tokens *auth.Tokens,
	tenants TenantLookup,
	logger *logger.Logger,
) gin.HandlerFunc {
	r := &tenantResolver{
		cfg:     cfg.Tenancy,
		tokens:  tokens,
		tenants: tenants,
		logger:  logger,
	}
	return r.handle
}

func (r *tenantResolver) handle(c *gin.Context) {
	ctx := c.Request.Context()

	tenantID, userID, source, err := r.resolve(c)
	if err != nil {
		r.logger.Debugw("tenant resolution failed", "error", err, "source", source)
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
			Error: ErrorDetail{Display: getDisplayMessage(err)},
		})
		return
	}
	if tenantID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
			Error: ErrorDetail{Display: "Tenant could not be resolved"},
		})
		return
	}

	t, err := r.tenants.GetTenantByID(ctx, tenantID)
	if err != nil {
		if ierr.IsNotFound(err) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Error: ErrorDetail{Display: "Unknown tenant"},
			})
			return
		}
		c.Error(err)
		c.Abort()
		return
	}
	if !t.IsActive() {
		c.Error(tenant.NewTenantInactiveError(t.ID))
		c.Abort()
		return
	}

	ctx = types.SetTenantID(ctx, t.ID)
	if userID != "" {
		ctx = types.SetUserID(ctx, userID)
	}
	c.Request = c.Request.WithContext(ctx)
	c.Next()
}

// resolve walks the sources in order. A present but invalid credential is an
// error rather than a reason to try the next source.
func (r *tenantResolver) resolve(c *gin.Context) (tenantID, userID string, source types.TenantSource, err error) {
	for _, source = range r.cfg.GetSources() {
		switch source {
		case types.TenantSourceJWT:
			token, ok := bearerToken(c)
			if !ok || r.tokens == nil || !r.tokens.Enabled() {
				continue
			}
			claims, err := r.tokens.ValidateToken(token)
			if err != nil {
				return "", "", source, err
			}
			return claims.TenantID, claims.UserID, source, nil

		case types.TenantSourceHeader:
			if id := strings.TrimSpace(c.GetHeader(r.headerName())); id != "" {
				return id, "", source, nil
			}

		case types.TenantSourceSubdomain:
			sub, ok := r.subdomain(c.Request.Host)
			if !ok {
				continue
			}
			t, err := r.tenants.GetTenantBySubdomain(c.Request.Context(), sub)
			if err != nil {
				return "", "", source, err
			}
			return t.ID, "", source, nil

		case types.TenantSourceQuery:
			if id := strings.TrimSpace(c.Query(r.queryParam())); id != "" {
				return id, "", source, nil
			}
		}
	}
	return "", "", "", nil
}

func (r *tenantResolver) headerName() string {
	if r.cfg.Header != "" {
		return r.cfg.Header
	}
	return types.HeaderTenantID
}

func (r *tenantResolver) queryParam() string {
	if r.cfg.QueryParam != "" {
		return r.cfg.QueryParam
	}
	return "tenant_id"
}

// subdomain extracts the single label in front of the base domain,
// acme.cargo.example.com -> acme
func (r *tenantResolver) subdomain(host string) (string, bool) {
	if r.cfg.BaseDomain == "" {
		return "", false
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.ToLower(host)
	label, ok := strings.CutSuffix(host, "."+strings.ToLower(r.cfg.BaseDomain))
	if !ok || label == "" || strings.Contains(label, ".") {
		return "", false
	}
	return label, true
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader(types.HeaderAuthorization)
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}
