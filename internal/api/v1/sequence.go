package v1

import (
	"net/http"

	"github.com/flexcargo/flexcargo/internal/api/dto"
	"github.com/flexcargo/flexcargo/internal/domain/sequence"
	"github.com/flexcargo/flexcargo/internal/logger"
	"github.com/flexcargo/flexcargo/internal/service"
	"github.com/flexcargo/flexcargo/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

type SequenceHandler struct {
	allocator service.SequenceAllocator
	logger    *logger.Logger
}

func NewSequenceHandler(allocator service.SequenceAllocator, logger *logger.Logger) *SequenceHandler {
	return &SequenceHandler{allocator: allocator, logger: logger}
}

// @Summary List document counters
// @Description Shows the counters of the tenant. Read only, numbers are never computed from it.
// @Tags Sequences
// @Produce json
// @Success 200 {object} dto.ListSequenceCountersResponse
// @Router /sequences [get]
func (h *SequenceHandler) ListSequences(c *gin.Context) {
	ctx := c.Request.Context()

	counters, err := h.allocator.ListCounters(ctx, types.GetTenantID(ctx))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(lo.Map(counters, func(counter *sequence.Counter, _ int) *dto.SequenceCounterResponse {
		return dto.NewSequenceCounterResponse(counter)
	})))
}
