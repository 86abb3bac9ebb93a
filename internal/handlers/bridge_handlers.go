package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/autobridge/autobridge-api/internal/helpers"
	"github.com/autobridge/autobridge-api/internal/services"
)

// BridgeHandler exposes trigger evaluation and bridge execution
type BridgeHandler struct {
	bridge  *services.BridgeService
	trigger *services.TriggerService
	logger  *zap.Logger
}

// NewBridgeHandler creates a new bridge handler
func NewBridgeHandler(bridge *services.BridgeService, trigger *services.TriggerService, logger *zap.Logger) *BridgeHandler {
	if logger == nil {
		logger = zap.L()
	}
	return &BridgeHandler{
		bridge:  bridge,
		trigger: trigger,
		logger:  logger,
	}
}

// CheckTrigger evaluates the user's trigger condition without side effects
func (h *BridgeHandler) CheckTrigger(c *gin.Context) {
	address := c.Param("address")

	result, err := h.trigger.Check(c.Request.Context(), address)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, result)
}

// ExecuteBridgeRequest is the body for a bridge execution attempt
type ExecuteBridgeRequest struct {
	// Caller performing the execution; the user themselves or an
	// authorized session key.
	CallerAddress string `json:"caller_address" binding:"required"`
	// Fee payment in wei, as a decimal string
	PaidFee string `json:"paid_fee" binding:"required"`
}

// ExecuteBridgeResponse describes a successful execution
type ExecuteBridgeResponse struct {
	AttemptID string  `json:"attempt_id"`
	Receipt   string  `json:"receipt"`
	Amount    string  `json:"amount"`
	Fee       string  `json:"fee"`
	Refund    string  `json:"refund"`
	Reading   float64 `json:"reading"`
}

// Execute runs one bridge execution attempt for the user
func (h *BridgeHandler) Execute(c *gin.Context) {
	address := c.Param("address")

	var req ExecuteBridgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	paidFee := helpers.ParseWeiAmount(req.PaidFee)
	if paidFee == nil {
		sendError(c, http.StatusBadRequest, "Invalid paid_fee", nil)
		return
	}

	result, err := h.bridge.Execute(c.Request.Context(), services.ExecuteParams{
		UserAddress:   address,
		CallerAddress: req.CallerAddress,
		PaidFee:       paidFee,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	sendSuccess(c, http.StatusOK, ExecuteBridgeResponse{
		AttemptID: result.AttemptID,
		Receipt:   result.Receipt,
		Amount:    result.Amount.String(),
		Fee:       result.Fee.String(),
		Refund:    result.Refund.String(),
		Reading:   result.Reading,
	})
}

// ListAttempts returns the user's bridge execution audit trail
func (h *BridgeHandler) ListAttempts(c *gin.Context) {
	address := c.Param("address")

	attempts, err := h.bridge.ListAttempts(c.Request.Context(), address)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	sendList(c, attempts)
}
