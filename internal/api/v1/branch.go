package v1

import (
	"net/http"

	"github.com/flexcargo/flexcargo/internal/api/dto"
	"github.com/flexcargo/flexcargo/internal/domain/branch"
	"github.com/flexcargo/flexcargo/internal/logger"
	"github.com/flexcargo/flexcargo/internal/service"
	"github.com/gin-gonic/gin"
)

type BranchHandler struct {
	service service.BranchService
	logger  *logger.Logger
}

func NewBranchHandler(service service.BranchService, logger *logger.Logger) *BranchHandler {
	return &BranchHandler{service: service, logger: logger}
}

// @Summary Create a branch
// @Tags Branches
// @Accept json
// @Produce json
// @Param request body dto.CreateBranchRequest true "Branch"
// @Success 201 {object} dto.BranchResponse
// @Router /branches [post]
func (h *BranchHandler) CreateBranch(c *gin.Context) {
	var req dto.CreateBranchRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.CreateBranch(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary List branches
// @Tags Branches
// @Produce json
// @Success 200 {object} dto.ListResponse[branch.Branch]
// @Router /branches [get]
func (h *BranchHandler) ListBranches(c *gin.Context) {
	branches, err := h.service.ListBranches(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse[*branch.Branch](branches))
}
