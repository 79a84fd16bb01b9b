package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/fusion-ai/internal/services"
)

// Version is reported by the root and health endpoints.
const Version = "1.0.0"

// DelegateStatus exposes the circuit state of the AI delegate.
type DelegateStatus interface {
	CircuitState() string
	IsHealthy() bool
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	assistant   *services.Assistant
	delegate    DelegateStatus
	serviceName string
	logger      *logrus.Logger
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status           string                 `json:"status"`
	Timestamp        time.Time              `json:"timestamp"`
	Service          string                 `json:"service"`
	Version          string                 `json:"version"`
	Uptime           string                 `json:"uptime"`
	GeminiConfigured bool                   `json:"gemini_configured"`
	Checks           map[string]HealthCheck `json:"checks"`
}

// HealthCheck represents an individual health check
type HealthCheck struct {
	Status    string    `json:"status"`
	Message   string    `json:"message,omitempty"`
	Latency   string    `json:"latency,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// ReadinessResponse represents the readiness check response
type ReadinessResponse struct {
	Ready     bool            `json:"ready"`
	Timestamp time.Time       `json:"timestamp"`
	Service   string          `json:"service"`
	Checks    map[string]bool `json:"checks"`
}

var startTime = time.Now()

// NewHealthHandler creates a new health handler. delegate is nil when no AI
// credential is configured.
func NewHealthHandler(assistant *services.Assistant, delegate DelegateStatus, serviceName string, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{
		assistant:   assistant,
		delegate:    delegate,
		serviceName: serviceName,
		logger:      logger,
	}
}

// GetRoot describes the service.
func (h *HealthHandler) GetRoot(c *gin.Context) {
	status := "active"
	if h.delegate == nil {
		status = "no_api_key"
	}
	c.JSON(http.StatusOK, gin.H{
		"service":    "Flow Fantasy Fusion AI",
		"version":    Version,
		"powered_by": "Google Gemini",
		"status":     status,
	})
}

// GetHealth performs health checks. A broken session store makes the service
// unhealthy; a missing or tripped delegate only degrades it.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	h.logger.Debug("Health check requested")

	checks := make(map[string]HealthCheck)
	overallStatus := "healthy"

	storeCheck := h.checkSessionStore(c.Request.Context())
	checks["session_store"] = storeCheck
	if storeCheck.Status == "unhealthy" {
		overallStatus = "unhealthy"
	}

	delegateCheck := h.checkDelegate()
	checks["ai_delegate"] = delegateCheck
	if delegateCheck.Status == "unhealthy" && overallStatus == "healthy" {
		overallStatus = "degraded"
	}

	response := HealthResponse{
		Status:           overallStatus,
		Timestamp:        time.Now(),
		Service:          h.serviceName,
		Version:          Version,
		Uptime:           time.Since(startTime).String(),
		GeminiConfigured: h.delegate != nil,
		Checks:           checks,
	}

	statusCode := http.StatusOK
	if overallStatus == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, response)
}

// GetReady checks if the service is ready to serve requests
func (h *HealthHandler) GetReady(c *gin.Context) {
	h.logger.Debug("Readiness check requested")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]bool{
		"session_store": h.assistant.StoreHealthy(ctx) == nil,
	}

	ready := true
	for _, check := range checks {
		if !check {
			ready = false
			break
		}
	}

	response := ReadinessResponse{
		Ready:     ready,
		Timestamp: time.Now(),
		Service:   h.serviceName,
		Checks:    checks,
	}

	statusCode := http.StatusOK
	if !ready {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, response)
}

func (h *HealthHandler) checkSessionStore(ctx context.Context) HealthCheck {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	if err := h.assistant.StoreHealthy(ctx); err != nil {
		return HealthCheck{
			Status:    "unhealthy",
			Message:   h.assistant.StoreName() + " ping failed: " + err.Error(),
			CheckedAt: time.Now(),
		}
	}

	latency := time.Since(start)
	status := "healthy"
	if latency > 100*time.Millisecond {
		status = "slow"
	}

	return HealthCheck{
		Status:    status,
		Message:   h.assistant.StoreName(),
		Latency:   latency.String(),
		CheckedAt: time.Now(),
	}
}

func (h *HealthHandler) checkDelegate() HealthCheck {
	if h.delegate == nil {
		return HealthCheck{
			Status:    "disabled",
			Message:   "GEMINI_API_KEY not set, serving rule-based lineups",
			CheckedAt: time.Now(),
		}
	}

	if !h.delegate.IsHealthy() {
		return HealthCheck{
			Status:    "unhealthy",
			Message:   "Circuit breaker " + h.delegate.CircuitState(),
			CheckedAt: time.Now(),
		}
	}

	return HealthCheck{
		Status:    "healthy",
		Message:   "Circuit breaker " + h.delegate.CircuitState(),
		CheckedAt: time.Now(),
	}
}
