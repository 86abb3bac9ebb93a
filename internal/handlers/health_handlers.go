package handlers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// HealthResponse reports server liveness
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Stage   string `json:"stage,omitempty"`
}

// Health returns a simple "ok" status
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Service: "autobridge-api",
		Stage:   os.Getenv("STAGE"),
	})
}
