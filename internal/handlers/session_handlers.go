package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/autobridge/autobridge-api/internal/helpers"
	"github.com/autobridge/autobridge-api/internal/services"
)

// SessionHandler exposes the session authorization registry
type SessionHandler struct {
	sessions *services.SessionService
	logger   *zap.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *services.SessionService, logger *zap.Logger) *SessionHandler {
	if logger == nil {
		logger = zap.L()
	}
	return &SessionHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// AuthorizeSessionRequest is the body for granting a session
type AuthorizeSessionRequest struct {
	SessionKey string `json:"session_key" binding:"required"`
}

// SessionGrantResponse describes a session grant
type SessionGrantResponse struct {
	UserAddress string `json:"user_address"`
	SessionKey  string `json:"session_key"`
	Authorized  bool   `json:"authorized"`
}

// Authorize grants a session key execute rights for the user
func (h *SessionHandler) Authorize(c *gin.Context) {
	address := c.Param("address")

	var req AuthorizeSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.sessions.Authorize(c.Request.Context(), address, req.SessionKey); err != nil {
		handleServiceError(c, err)
		return
	}

	sendSuccess(c, http.StatusCreated, SessionGrantResponse{
		UserAddress: helpers.NormalizeAddress(address),
		SessionKey:  helpers.NormalizeAddress(req.SessionKey),
		Authorized:  true,
	})
}

// Revoke withdraws a session grant
func (h *SessionHandler) Revoke(c *gin.Context) {
	address := c.Param("address")
	sessionKey := c.Param("session_key")

	if err := h.sessions.Revoke(c.Request.Context(), address, sessionKey); err != nil {
		handleServiceError(c, err)
		return
	}

	sendSuccessMessage(c, http.StatusOK, "Session revoked")
}

// GetGrant reports whether a session key holds a grant for the user
func (h *SessionHandler) GetGrant(c *gin.Context) {
	address := c.Param("address")
	sessionKey := c.Param("session_key")

	authorized, err := h.sessions.IsAuthorized(c.Request.Context(), address, sessionKey)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	sendSuccess(c, http.StatusOK, SessionGrantResponse{
		UserAddress: helpers.NormalizeAddress(address),
		SessionKey:  helpers.NormalizeAddress(sessionKey),
		Authorized:  authorized,
	})
}
