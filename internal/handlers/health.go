package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type healthStatus struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// HealthHTTPHandler is http handler for health endpoint
type HealthHTTPHandler struct{}

// NewHealthHTTPHandler builds new HealthHTTPHandler
func NewHealthHTTPHandler() *HealthHTTPHandler {
	return &HealthHTTPHandler{}
}

// Health reports service liveness, no side effects and no auth
func (h *HealthHTTPHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, &healthStatus{
		Status:    "success",
		Message:   "API is running",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
