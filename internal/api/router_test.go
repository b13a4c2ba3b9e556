package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	v1 "github.com/flexcargo/flexcargo/internal/api/v1"
	"github.com/flexcargo/flexcargo/internal/auth"
	"github.com/flexcargo/flexcargo/internal/service"
	"github.com/flexcargo/flexcargo/internal/testutil"
	"github.com/flexcargo/flexcargo/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
)

type RouterSuite struct {
	testutil.BaseServiceTestSuite
	router *gin.Engine
}

func TestRouter(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	gin.SetMode(gin.TestMode)

	stores := s.GetStores()
	params := service.ServiceParams{
		Logger:          s.GetLogger(),
		Config:          s.GetConfig(),
		DB:              s.GetDB(),
		Cache:           s.GetCache(),
		Metrics:         s.GetMetrics(),
		Clock:           s.GetNow,
		SequenceRepo:    stores.SequenceRepo,
		IssuedCodeRepo:  stores.IssuedCodeRepo,
		TenantRepo:      stores.TenantRepo,
		BranchRepo:      stores.BranchRepo,
		ConsignmentRepo: stores.ConsignmentRepo,
		InvoiceRepo:     stores.InvoiceRepo,
		OGPLRepo:        stores.OGPLRepo,
		DeliveryRunRepo: stores.DeliveryRunRepo,
		ReceiptRepo:     stores.ReceiptRepo,
	}

	allocator, err := service.NewSequenceAllocator(params)
	s.Require().NoError(err)
	tenants := service.NewTenantService(params, allocator)
	log := s.GetLogger()

	handlers := NewHandlers(
		v1.NewHealthHandler(nil, log),
		v1.NewTenantHandler(tenants, log),
		v1.NewBranchHandler(service.NewBranchService(params), log),
		v1.NewConsignmentHandler(service.NewConsignmentService(params, allocator), log),
		v1.NewInvoiceHandler(service.NewInvoiceService(params, allocator), log),
		v1.NewDispatchHandler(
			service.NewOGPLService(params, allocator),
			service.NewDeliveryRunService(params, allocator),
			service.NewReceiptService(params, allocator),
			log,
		),
		v1.NewSequenceHandler(allocator, log),
	)

	s.router = NewRouter(handlers, s.GetConfig(), log, s.GetMetrics(), auth.NewTokens(s.GetConfig()), tenants)
}

func (s *RouterSuite) request(method, path, tenantID string, body any) (*httptest.ResponseRecorder, map[string]any) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if tenantID != "" {
		req.Header.Set(types.HeaderTenantID, tenantID)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	out := map[string]any{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func (s *RouterSuite) createTenant(name, subdomain string) string {
	w, body := s.request(http.MethodPost, "/v1/tenants", "", map[string]any{
		"name":      name,
		"subdomain": subdomain,
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	return body["id"].(string)
}

func (s *RouterSuite) createBranch(tenantID, code string) string {
	w, body := s.request(http.MethodPost, "/v1/branches", tenantID, map[string]any{
		"code": code,
		"name": code + " office",
		"city": code,
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	return body["id"].(string)
}

func (s *RouterSuite) bookingPayload(originID, destinationID string) map[string]any {
	return map[string]any{
		"origin_branch_id":      originID,
		"destination_branch_id": destinationID,
		"consignor_name":        "Shree Textiles",
		"consignee_name":        "Delhi Fabrics",
		"packages":              3,
		"weight_kg":             "42.5",
		"freight_amount":        "1200",
		"payment_mode":          "to_pay",
	}
}

func (s *RouterSuite) TestBookingFlow() {
	tenantID := s.createTenant("Acme Logistics", "acme")
	bom := s.createBranch(tenantID, "BOM")
	del := s.createBranch(tenantID, "DEL")

	w, body := s.request(http.MethodPost, "/v1/consignments", tenantID, s.bookingPayload(bom, del))
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	s.Equal("CN250001", body["cn_number"])

	w, body = s.request(http.MethodPost, "/v1/consignments", tenantID, s.bookingPayload(bom, del))
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	s.Equal("CN250002", body["cn_number"])

	w, body = s.request(http.MethodGet, "/v1/consignments/CN250001", tenantID, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Equal("booked", body["consignment_status"])
	s.Len(body["tracking"], 1)

	w, body = s.request(http.MethodGet, "/v1/sequences", tenantID, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.EqualValues(5, body["total"])
}

func (s *RouterSuite) TestTenantsDoNotShareNumbers() {
	acme := s.createTenant("Acme Logistics", "acme")
	globex := s.createTenant("Globex Cargo", "globex")

	acmeBOM := s.createBranch(acme, "BOM")
	globexBOM := s.createBranch(globex, "BOM")

	_, body := s.request(http.MethodPost, "/v1/consignments", acme, s.bookingPayload(acmeBOM, acmeBOM))
	s.Equal("CN250001", body["cn_number"])
	_, body = s.request(http.MethodPost, "/v1/consignments", globex, s.bookingPayload(globexBOM, globexBOM))
	s.Equal("CN250001", body["cn_number"])

	w, _ := s.request(http.MethodGet, "/v1/consignments/CN250001", globex, nil)
	s.Equal(http.StatusOK, w.Code)

	// branches of one tenant are invisible to another
	w, _ = s.request(http.MethodPost, "/v1/consignments", globex, s.bookingPayload(acmeBOM, acmeBOM))
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *RouterSuite) TestUnprovisionedTenantGets422() {
	legacy := s.CreateTestTenant("tenant_legacy", "Legacy Movers")
	branchID := s.CreateTestBranch(testutil.TenantContext(legacy.ID), "PNQ", "Pune").ID

	w, body := s.request(http.MethodPost, "/v1/consignments", legacy.ID, s.bookingPayload(branchID, branchID))
	s.Equal(http.StatusUnprocessableEntity, w.Code)
	s.NotContains(w.Body.String(), "tenant_legacy")
	s.Equal(false, body["success"])
}

func (s *RouterSuite) TestRequestsWithoutTenantAreRejected() {
	w, _ := s.request(http.MethodGet, "/v1/sequences", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)

	w, _ = s.request(http.MethodGet, "/v1/sequences", "tenant_unknown", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *RouterSuite) TestInvalidPayload() {
	tenantID := s.createTenant("Acme Logistics", "acme")

	w, _ := s.request(http.MethodPost, "/v1/branches", tenantID, map[string]any{"name": "no code"})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *RouterSuite) TestHealthAndMetrics() {
	w, _ := s.request(http.MethodGet, "/health", "", nil)
	s.Equal(http.StatusOK, w.Code)

	s.request(http.MethodGet, "/v1/sequences", "", nil)

	w, _ = s.request(http.MethodGet, "/metrics", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.True(strings.Contains(w.Body.String(), "flexcargo_http_requests_total"))
}
