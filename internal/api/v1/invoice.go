package v1

import (
	"net/http"

	"github.com/flexcargo/flexcargo/internal/api/dto"
	"github.com/flexcargo/flexcargo/internal/logger"
	"github.com/flexcargo/flexcargo/internal/service"
	"github.com/gin-gonic/gin"
)

type InvoiceHandler struct {
	service service.InvoiceService
	logger  *logger.Logger
}

func NewInvoiceHandler(service service.InvoiceService, logger *logger.Logger) *InvoiceHandler {
	return &InvoiceHandler{service: service, logger: logger}
}

// @Summary Generate an invoice
// @Description Bills uninvoiced consignments under the next invoice number of the branch
// @Tags Invoices
// @Accept json
// @Produce json
// @Param request body dto.GenerateInvoiceRequest true "Invoice"
// @Success 201 {object} dto.InvoiceResponse
// @Router /invoices [post]
func (h *InvoiceHandler) GenerateInvoice(c *gin.Context) {
	var req dto.GenerateInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.GenerateInvoice(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get an invoice
// @Tags Invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	resp, err := h.service.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
