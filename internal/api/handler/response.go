package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/spacesedan/sentimeter/internal/api/middleware"
)

// ErrorEnvelope is the body of every failed request. Successful responses are returned bare.
type ErrorEnvelope struct {
	Success bool      `json:"success"`
	Error   ErrorInfo `json:"error"`
	Meta    MetaInfo  `json:"meta"`
}

type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type MetaInfo struct {
	Timestamp string `json:"timestamp"`
	RequestID string `json:"request_id"`
}

func newMeta(c *gin.Context) MetaInfo {
	requestID := c.GetString(middleware.RequestIDKey)
	if requestID == "" {
		requestID = uuid.New().String()
	}
	return MetaInfo{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RequestID: requestID,
	}
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorEnvelope{
		Success: false,
		Error:   ErrorInfo{Code: code, Message: message},
		Meta:    newMeta(c),
	})
}
