package v1

import (
	"net/http"

	"github.com/flexcargo/flexcargo/internal/api/dto"
	"github.com/flexcargo/flexcargo/internal/logger"
	"github.com/flexcargo/flexcargo/internal/service"
	"github.com/gin-gonic/gin"
)

type ConsignmentHandler struct {
	service service.ConsignmentService
	logger  *logger.Logger
}

func NewConsignmentHandler(service service.ConsignmentService, logger *logger.Logger) *ConsignmentHandler {
	return &ConsignmentHandler{service: service, logger: logger}
}

// @Summary Book a consignment
// @Description Books a consignment under the next CN number of the tenant
// @Tags Consignments
// @Accept json
// @Produce json
// @Param request body dto.CreateConsignmentRequest true "Consignment"
// @Success 201 {object} dto.ConsignmentResponse
// @Router /consignments [post]
func (h *ConsignmentHandler) CreateConsignment(c *gin.Context) {
	var req dto.CreateConsignmentRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.CreateConsignment(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get a consignment by CN number
// @Tags Consignments
// @Produce json
// @Param cn_number path string true "CN number"
// @Success 200 {object} dto.ConsignmentResponse
// @Router /consignments/{cn_number} [get]
func (h *ConsignmentHandler) GetConsignment(c *gin.Context) {
	resp, err := h.service.GetConsignmentByCNNumber(c.Request.Context(), c.Param("cn_number"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
