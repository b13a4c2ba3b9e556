package v1

import (
	ierr "github.com/flexcargo/flexcargo/internal/errors"
	"github.com/gin-gonic/gin"
)

// bindJSON decodes the request body and records a validation error on failure
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return false
	}
	return true
}
