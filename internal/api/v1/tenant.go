package v1

import (
	"net/http"

	"github.com/flexcargo/flexcargo/internal/api/dto"
	"github.com/flexcargo/flexcargo/internal/logger"
	"github.com/flexcargo/flexcargo/internal/service"
	"github.com/gin-gonic/gin"
)

type TenantHandler struct {
	service service.TenantService
	logger  *logger.Logger
}

func NewTenantHandler(service service.TenantService, logger *logger.Logger) *TenantHandler {
	return &TenantHandler{service: service, logger: logger}
}

// @Summary Create a tenant
// @Description Creates a tenant and provisions its document counters
// @Tags Tenants
// @Accept json
// @Produce json
// @Param request body dto.CreateTenantRequest true "Tenant"
// @Success 201 {object} dto.TenantResponse
// @Router /tenants [post]
func (h *TenantHandler) CreateTenant(c *gin.Context) {
	var req dto.CreateTenantRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.CreateTenant(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}
