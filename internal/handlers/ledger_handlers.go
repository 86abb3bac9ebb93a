package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/autobridge/autobridge-api/internal/helpers"
	"github.com/autobridge/autobridge-api/internal/services"
)

// LedgerHandler exposes threshold and deposit endpoints
type LedgerHandler struct {
	ledger *services.LedgerService
	events *services.EventService
	logger *zap.Logger
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(ledger *services.LedgerService, events *services.EventService, logger *zap.Logger) *LedgerHandler {
	if logger == nil {
		logger = zap.L()
	}
	return &LedgerHandler{
		ledger: ledger,
		events: events,
		logger: logger,
	}
}

// SetThresholdRequest is the body for setting a trigger threshold
type SetThresholdRequest struct {
	Value float64 `json:"value" binding:"required"`
}

// ThresholdResponse describes a user's trigger threshold
type ThresholdResponse struct {
	UserAddress string  `json:"user_address"`
	Value       float64 `json:"value"`
	Set         bool    `json:"set"`
}

// SetThreshold sets or overwrites the user's trigger threshold
func (h *LedgerHandler) SetThreshold(c *gin.Context) {
	address := c.Param("address")

	var req SetThresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.ledger.SetThreshold(c.Request.Context(), address, req.Value); err != nil {
		handleServiceError(c, err)
		return
	}

	sendSuccess(c, http.StatusOK, ThresholdResponse{
		UserAddress: helpers.NormalizeAddress(address),
		Value:       req.Value,
		Set:         true,
	})
}

// GetThreshold returns the user's threshold; Set is false when none exists
func (h *LedgerHandler) GetThreshold(c *gin.Context) {
	address := c.Param("address")

	value, set, err := h.ledger.GetThreshold(c.Request.Context(), address)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	sendSuccess(c, http.StatusOK, ThresholdResponse{
		UserAddress: helpers.NormalizeAddress(address),
		Value:       value,
		Set:         set,
	})
}

// DepositRequest is the body for a deposit or withdrawal
type DepositRequest struct {
	Token string `json:"token"`
	// Amount in wei, as a decimal string
	Amount string `json:"amount" binding:"required"`
}

// BalanceResponse describes a (user, token) balance
type BalanceResponse struct {
	UserAddress string    `json:"user_address"`
	Token       string    `json:"token"`
	Balance     string    `json:"balance"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// Deposit credits funds to the user's deposit balance
func (h *LedgerHandler) Deposit(c *gin.Context) {
	address := c.Param("address")

	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	amount := helpers.ParseWeiAmount(req.Amount)
	if amount == nil {
		sendError(c, http.StatusBadRequest, "Invalid amount", nil)
		return
	}

	balance, err := h.ledger.Deposit(c.Request.Context(), address, req.Token, amount)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	sendSuccess(c, http.StatusOK, BalanceResponse{
		UserAddress: helpers.NormalizeAddress(address),
		Token:       req.Token,
		Balance:     balance.String(),
	})
}

// Withdraw debits funds and pays them out to the user's address
func (h *LedgerHandler) Withdraw(c *gin.Context) {
	address := c.Param("address")

	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	amount := helpers.ParseWeiAmount(req.Amount)
	if amount == nil {
		sendError(c, http.StatusBadRequest, "Invalid amount", nil)
		return
	}

	balance, err := h.ledger.Withdraw(c.Request.Context(), address, req.Token, amount)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	sendSuccess(c, http.StatusOK, BalanceResponse{
		UserAddress: helpers.NormalizeAddress(address),
		Token:       req.Token,
		Balance:     balance.String(),
	})
}

// GetDeposit returns the user's balance for a token
func (h *LedgerHandler) GetDeposit(c *gin.Context) {
	address := c.Param("address")
	token := c.Param("token")

	balance, err := h.ledger.GetDeposit(c.Request.Context(), address, token)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	sendSuccess(c, http.StatusOK, BalanceResponse{
		UserAddress: helpers.NormalizeAddress(address),
		Token:       token,
		Balance:     balance.String(),
	})
}

// ListEvents returns the user's recorded audit events
func (h *LedgerHandler) ListEvents(c *gin.Context) {
	address := helpers.NormalizeAddress(c.Param("address"))

	events, err := h.events.ListEvents(c.Request.Context(), address)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	sendList(c, events)
}
