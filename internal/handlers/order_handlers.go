package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/autobridge/autobridge-api/internal/helpers"
	"github.com/autobridge/autobridge-api/internal/services"
	"github.com/autobridge/autobridge-api/internal/store"
)

// OrderHandler exposes the limit order book
type OrderHandler struct {
	orders *services.OrderService
	logger *zap.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders *services.OrderService, logger *zap.Logger) *OrderHandler {
	if logger == nil {
		logger = zap.L()
	}
	return &OrderHandler{
		orders: orders,
		logger: logger,
	}
}

// CreateOrderRequest is the body for creating a limit order
type CreateOrderRequest struct {
	TokenIn  string `json:"token_in" binding:"required"`
	TokenOut string `json:"token_out" binding:"required"`
	// Amount in wei, as a decimal string
	AmountIn     string  `json:"amount_in" binding:"required"`
	LimitPrice   float64 `json:"limit_price" binding:"required"`
	IsBuy        bool    `json:"is_buy"`
	ValidityDays int     `json:"validity_days" binding:"required"`
}

// OrderResponse describes a limit order
type OrderResponse struct {
	UserAddress string    `json:"user_address"`
	OrderID     int64     `json:"order_id"`
	TokenIn     string    `json:"token_in"`
	TokenOut    string    `json:"token_out"`
	AmountIn    string    `json:"amount_in"`
	LimitPrice  float64   `json:"limit_price"`
	IsBuy       bool      `json:"is_buy"`
	IsActive    bool      `json:"is_active"`
	ExpiresAt   time.Time `json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
}

func toOrderResponse(order store.LimitOrder) OrderResponse {
	return OrderResponse{
		UserAddress: order.UserAddress,
		OrderID:     order.OrderID,
		TokenIn:     order.TokenIn,
		TokenOut:    order.TokenOut,
		AmountIn:    order.AmountIn.String(),
		LimitPrice:  order.LimitPrice,
		IsBuy:       order.IsBuy,
		IsActive:    order.IsActive,
		ExpiresAt:   order.ExpiresAt,
		CreatedAt:   order.CreatedAt,
	}
}

func orderIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("order_id"), 10, 64)
	if err != nil || id < 0 {
		sendError(c, http.StatusBadRequest, "Invalid order_id", err)
		return 0, false
	}
	return id, true
}

// Create records a new limit order, holding the input amount
func (h *OrderHandler) Create(c *gin.Context) {
	address := c.Param("address")

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	amountIn := helpers.ParseWeiAmount(req.AmountIn)
	if amountIn == nil {
		sendError(c, http.StatusBadRequest, "Invalid amount_in", nil)
		return
	}

	order, err := h.orders.CreateLimitOrder(c.Request.Context(), services.CreateLimitOrderParams{
		UserAddress:  address,
		TokenIn:      req.TokenIn,
		TokenOut:     req.TokenOut,
		AmountIn:     amountIn,
		LimitPrice:   req.LimitPrice,
		IsBuy:        req.IsBuy,
		ValidityDays: req.ValidityDays,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	sendSuccess(c, http.StatusCreated, toOrderResponse(order))
}

// Get returns a single order
func (h *OrderHandler) Get(c *gin.Context) {
	address := c.Param("address")
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	order, err := h.orders.GetOrder(c.Request.Context(), address, orderID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, toOrderResponse(order))
}

// List returns all of the user's orders
func (h *OrderHandler) List(c *gin.Context) {
	address := c.Param("address")

	orders, err := h.orders.ListOrders(c.Request.Context(), address)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	responses := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		responses = append(responses, toOrderResponse(order))
	}
	sendList(c, responses)
}

// Cancel deactivates an order and refunds the held amount. The caller
// defaults to the user; a session key acts via the caller_address
// query parameter.
func (h *OrderHandler) Cancel(c *gin.Context) {
	address := c.Param("address")
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}
	caller := c.DefaultQuery("caller_address", address)

	if err := h.orders.CancelLimitOrder(c.Request.Context(), address, caller, orderID); err != nil {
		handleServiceError(c, err)
		return
	}
	sendSuccessMessage(c, http.StatusOK, "Order cancelled")
}

// ExecuteOrderRequest is the optional body for an order execution
type ExecuteOrderRequest struct {
	// Caller performing the execution; the user themselves or an
	// authorized session key. Defaults to the user.
	CallerAddress string `json:"caller_address"`
}

// ExecuteOrderResponse describes a completed order execution
type ExecuteOrderResponse struct {
	Order     OrderResponse `json:"order"`
	Price     float64       `json:"price"`
	AmountOut string        `json:"amount_out"`
}

// Execute attempts to execute an order at the current price
func (h *OrderHandler) Execute(c *gin.Context) {
	address := c.Param("address")
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	var req ExecuteOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	caller := req.CallerAddress
	if caller == "" {
		caller = address
	}

	result, err := h.orders.ExecuteLimitOrder(c.Request.Context(), address, caller, orderID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	sendSuccess(c, http.StatusOK, ExecuteOrderResponse{
		Order:     toOrderResponse(result.Order),
		Price:     result.Price,
		AmountOut: result.AmountOut.String(),
	})
}
