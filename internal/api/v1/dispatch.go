package v1

import (
	"net/http"

	"github.com/flexcargo/flexcargo/internal/api/dto"
	"github.com/flexcargo/flexcargo/internal/logger"
	"github.com/flexcargo/flexcargo/internal/service"
	"github.com/gin-gonic/gin"
)

// DispatchHandler serves the documents that move consignments: OGPLs,
// delivery runs and payment receipts
type DispatchHandler struct {
	ogpls        service.OGPLService
	deliveryRuns service.DeliveryRunService
	receipts     service.ReceiptService
	logger       *logger.Logger
}

func NewDispatchHandler(
	ogpls service.OGPLService,
	deliveryRuns service.DeliveryRunService,
	receipts service.ReceiptService,
	logger *logger.Logger,
) *DispatchHandler {
	return &DispatchHandler{
		ogpls:        ogpls,
		deliveryRuns: deliveryRuns,
		receipts:     receipts,
		logger:       logger,
	}
}

// @Summary Create an OGPL
// @Tags Dispatch
// @Accept json
// @Produce json
// @Param request body dto.CreateOGPLRequest true "OGPL"
// @Success 201 {object} dto.OGPLResponse
// @Router /ogpls [post]
func (h *DispatchHandler) CreateOGPL(c *gin.Context) {
	var req dto.CreateOGPLRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.ogpls.CreateOGPL(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get an OGPL
// @Tags Dispatch
// @Produce json
// @Param id path string true "OGPL ID"
// @Success 200 {object} dto.OGPLResponse
// @Router /ogpls/{id} [get]
func (h *DispatchHandler) GetOGPL(c *gin.Context) {
	resp, err := h.ogpls.GetOGPL(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Create a delivery run
// @Tags Dispatch
// @Accept json
// @Produce json
// @Param request body dto.CreateDeliveryRunRequest true "Delivery run"
// @Success 201 {object} dto.DeliveryRunResponse
// @Router /delivery-runs [post]
func (h *DispatchHandler) CreateDeliveryRun(c *gin.Context) {
	var req dto.CreateDeliveryRunRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.deliveryRuns.CreateDeliveryRun(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get a delivery run
// @Tags Dispatch
// @Produce json
// @Param id path string true "Delivery run ID"
// @Success 200 {object} dto.DeliveryRunResponse
// @Router /delivery-runs/{id} [get]
func (h *DispatchHandler) GetDeliveryRun(c *gin.Context) {
	resp, err := h.deliveryRuns.GetDeliveryRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Record a payment receipt
// @Tags Dispatch
// @Accept json
// @Produce json
// @Param request body dto.CreateReceiptRequest true "Receipt"
// @Success 201 {object} dto.ReceiptResponse
// @Router /receipts [post]
func (h *DispatchHandler) CreateReceipt(c *gin.Context) {
	var req dto.CreateReceiptRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.receipts.CreateReceipt(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}
