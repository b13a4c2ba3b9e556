package middleware

import (
	ierr "github.com/flexcargo/flexcargo/internal/errors"
	"github.com/flexcargo/flexcargo/internal/logger"
	"github.com/gin-gonic/gin"
)

const fallbackMessage = "An unexpected error occurred"

// ErrorResponse is the body written for every failed request
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Display string `json:"message"`
}

// ErrorHandler renders the last error of the request. Only hints reach the
// client; the error chain and its reportable details are logged.
func ErrorHandler(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status := ierr.HTTPStatusFromErr(err)

		fields := []interface{}{
			"error", err,
			"status", status,
			"code", ierr.CodeFromErr(err),
			"path", c.Request.URL.Path,
		}
		for k, v := range ierr.ReportableDetails(err) {
			fields = append(fields, k, v)
		}
		reqLog := log.WithContext(c.Request.Context())
		if status >= 500 {
			reqLog.Errorw("request failed", fields...)
		} else {
			reqLog.Debugw("request rejected", fields...)
		}

		c.JSON(status, ErrorResponse{
			Success: false,
			Error:   ErrorDetail{Display: getDisplayMessage(err)},
		})
	}
}

func getDisplayMessage(err error) string {
	if hint := ierr.Hint(err); hint != "" {
		return hint
	}
	return fallbackMessage
}
