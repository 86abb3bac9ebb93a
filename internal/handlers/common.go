package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/autobridge/autobridge-api/internal/logger"
	"github.com/autobridge/autobridge-api/internal/services"
	"github.com/autobridge/autobridge-api/internal/store"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse represents a standard success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// sendError logs the error and sends a JSON error response
func sendError(c *gin.Context, statusCode int, message string, err error) {
	logger.Error(message,
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
	)
	c.JSON(statusCode, ErrorResponse{Error: message})
}

// handleServiceError maps the service error taxonomy onto HTTP status
// codes: validation 400, authorization 403, precondition 409, external
// dependency 502, unknown 500.
func handleServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	if errors.Is(err, store.ErrNotFound) || errors.Is(err, services.ErrOrderNotFound) {
		sendError(c, http.StatusNotFound, err.Error(), err)
		return
	}

	switch services.Kind(err) {
	case services.KindValidation:
		sendError(c, http.StatusBadRequest, err.Error(), err)
	case services.KindAuthorization:
		sendError(c, http.StatusForbidden, err.Error(), err)
	case services.KindPrecondition:
		sendError(c, http.StatusConflict, err.Error(), err)
	case services.KindExternal:
		sendError(c, http.StatusBadGateway, err.Error(), err)
	default:
		sendError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}

// sendSuccess sends a success response with data
func sendSuccess(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// sendSuccessMessage sends a success message response
func sendSuccessMessage(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, SuccessResponse{Message: message})
}

// sendList sends a list response
func sendList(c *gin.Context, items interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"object": "list",
		"data":   items,
	})
}
