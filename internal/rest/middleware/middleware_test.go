package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/flexcargo/flexcargo/internal/auth"
	"github.com/flexcargo/flexcargo/internal/config"
	"github.com/flexcargo/flexcargo/internal/domain/tenant"
	ierr "github.com/flexcargo/flexcargo/internal/errors"
	"github.com/flexcargo/flexcargo/internal/logger"
	"github.com/flexcargo/flexcargo/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTenants struct {
	byID map[string]*tenant.Tenant
}

func newFakeTenants(tenants ...*tenant.Tenant) *fakeTenants {
	f := &fakeTenants{byID: make(map[string]*tenant.Tenant)}
	for _, t := range tenants {
		f.byID[t.ID] = t
	}
	return f
}

func (f *fakeTenants) GetTenantByID(_ context.Context, id string) (*tenant.Tenant, error) {
	if t, ok := f.byID[id]; ok {
		return t, nil
	}
	return nil, tenant.NewTenantNotFoundError(id)
}

func (f *fakeTenants) GetTenantBySubdomain(_ context.Context, subdomain string) (*tenant.Tenant, error) {
	for _, t := range f.byID {
		if lo.FromPtr(t.Subdomain) == subdomain {
			return t, nil
		}
	}
	return nil, tenant.NewTenantNotFoundError(subdomain)
}

type tenantFixture struct {
	router *gin.Engine
	tokens *auth.Tokens
}

func newTenantFixture(t *testing.T, mutate func(cfg *config.Configuration)) *tenantFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.GetDefaultConfig()
	cfg.Auth.Secret = "test-secret"
	cfg.Tenancy.BaseDomain = "cargo.test"
	if mutate != nil {
		mutate(cfg)
	}

	tenants := newFakeTenants(
		&tenant.Tenant{ID: "tenant_acme", Name: "Acme", Subdomain: lo.ToPtr("acme"), Status: types.StatusActive},
		&tenant.Tenant{ID: "tenant_globex", Name: "Globex", Subdomain: lo.ToPtr("globex"), Status: types.StatusActive},
		&tenant.Tenant{ID: "tenant_gone", Name: "Gone", Status: types.StatusInactive},
	)
	tokens := auth.NewTokens(cfg)
	log := logger.NewNopLogger()

	r := gin.New()
	r.Use(RequestIDMiddleware, ErrorHandler(log))
	r.GET("/whoami", TenantMiddleware(cfg, tokens, tenants, log), func(c *gin.Context) {
		ctx := c.Request.Context()
		c.JSON(http.StatusOK, gin.H{
			"tenant_id": types.GetTenantID(ctx),
			"user_id":   types.GetUserID(ctx),
		})
	})

	return &tenantFixture{router: r, tokens: tokens}
}

func (f *tenantFixture) do(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	body := map[string]any{}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestTenantMiddlewareSources(t *testing.T) {
	f := newTenantFixture(t, nil)

	t.Run("header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set(types.HeaderTenantID, "tenant_acme")

		w, body := f.do(t, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "tenant_acme", body["tenant_id"])
	})

	t.Run("jwt wins over header", func(t *testing.T) {
		token, err := f.tokens.GenerateToken("user_1", "tenant_globex", time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set(types.HeaderAuthorization, "Bearer "+token)
		req.Header.Set(types.HeaderTenantID, "tenant_acme")

		w, body := f.do(t, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "tenant_globex", body["tenant_id"])
		assert.Equal(t, "user_1", body["user_id"])
	})

	t.Run("subdomain", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Host = "acme.cargo.test:8080"

		w, body := f.do(t, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "tenant_acme", body["tenant_id"])
	})

	t.Run("query param", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami?tenant_id=tenant_globex", nil)

		w, body := f.do(t, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "tenant_globex", body["tenant_id"])
	})
}

func TestTenantMiddlewareConfiguredOrder(t *testing.T) {
	f := newTenantFixture(t, func(cfg *config.Configuration) {
		cfg.Tenancy.Sources = []types.TenantSource{types.TenantSourceQuery, types.TenantSourceHeader}
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami?tenant_id=tenant_globex", nil)
	req.Header.Set(types.HeaderTenantID, "tenant_acme")

	w, body := f.do(t, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tenant_globex", body["tenant_id"])
}

func TestTenantMiddlewareRejects(t *testing.T) {
	f := newTenantFixture(t, nil)

	t.Run("no tenant", func(t *testing.T) {
		w, _ := f.do(t, httptest.NewRequest(http.MethodGet, "/whoami", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set(types.HeaderAuthorization, "Bearer not-a-token")
		req.Header.Set(types.HeaderTenantID, "tenant_acme")

		w, _ := f.do(t, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown tenant", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set(types.HeaderTenantID, "tenant_nobody")

		w, _ := f.do(t, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown subdomain", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Host = "initech.cargo.test"

		w, _ := f.do(t, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("inactive tenant", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set(types.HeaderTenantID, "tenant_gone")

		w, _ := f.do(t, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestSubdomainExtraction(t *testing.T) {
	r := &tenantResolver{cfg: config.TenancyConfig{BaseDomain: "cargo.test"}}

	cases := map[string]struct {
		host  string
		label string
		ok    bool
	}{
		"plain":          {"acme.cargo.test", "acme", true},
		"with port":      {"acme.cargo.test:443", "acme", true},
		"upper case":     {"ACME.Cargo.Test", "acme", true},
		"apex":           {"cargo.test", "", false},
		"nested label":   {"a.b.cargo.test", "", false},
		"foreign domain": {"acme.example.com", "", false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			label, ok := r.subdomain(tc.host)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.label, label)
		})
	}
}

func TestErrorHandlerStatusAndHint(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		err    error
		status int
		hint   string
	}{
		{
			name: "not provisioned",
			err: ierr.NewError("no counter").
				WithHint("Booking failed, please retry").
				WithReportableDetails(map[string]any{"tenant_id": "tenant_acme", "sequence_type": "consignment"}).
				Mark(ierr.ErrTenantNotProvisioned),
			status: http.StatusUnprocessableEntity,
			hint:   "Booking failed, please retry",
		},
		{
			name:   "store unavailable",
			err:    ierr.NewError("connection refused").WithHint("Service temporarily unavailable").Mark(ierr.ErrStoreUnavailable),
			status: http.StatusServiceUnavailable,
			hint:   "Service temporarily unavailable",
		},
		{
			name:   "format missing",
			err:    ierr.NewError("no rule").Mark(ierr.ErrFormatConfigurationMissing),
			status: http.StatusInternalServerError,
			hint:   fallbackMessage,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.Use(ErrorHandler(logger.NewNopLogger()))
			r.GET("/fail", func(c *gin.Context) { _ = c.Error(tc.err) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))

			require.Equal(t, tc.status, w.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Equal(t, tc.hint, resp.Error.Display)
			assert.NotContains(t, w.Body.String(), "tenant_acme")
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware)
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, types.GetRequestID(c.Request.Context()))
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(types.HeaderRequestID, "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Body.String())
	assert.Equal(t, "req-42", w.Header().Get(types.HeaderRequestID))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, w.Header().Get(types.HeaderRequestID))
	assert.Equal(t, w.Header().Get(types.HeaderRequestID), w.Body.String())
}
