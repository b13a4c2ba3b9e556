package middleware

import (
	"context"

	"github.com/flexcargo/flexcargo/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDMiddleware reuses the caller's X-Request-ID or generates one
func RequestIDMiddleware(c *gin.Context) {
	requestID := c.GetHeader(types.HeaderRequestID)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	ctx := context.WithValue(c.Request.Context(), types.CtxRequestID, requestID)
	c.Request = c.Request.WithContext(ctx)
	c.Header(types.HeaderRequestID, requestID)

	c.Next()
}
