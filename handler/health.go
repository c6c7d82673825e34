package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/settlelinecompany-commits/contract-intelligence-agent/service"
)

type HealthHandler struct {
	ocrService   *service.OCRService
	intelService *service.IntelService
}

func NewHealthHandler(ocrSvc *service.OCRService, intelSvc *service.IntelService) *HealthHandler {
	return &HealthHandler{
		ocrService:   ocrSvc,
		intelService: intelSvc,
	}
}

// Health reports reachability of the two upstream services. This is not
// deep health: the OCR probe is a single GET and the AI entry only
// reflects configuration.
func (h *HealthHandler) Health(c *gin.Context) {
	ocrStatus := h.ocrService.Health(c.Request.Context())

	var aiStatus string
	if h.intelService.Enabled() {
		aiStatus = fmt.Sprintf("ready (model: %s)", h.intelService.Model())
	} else {
		aiStatus = "fallback mode: API key missing"
	}

	status := "ok"
	if ocrStatus != "healthy" {
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"services": gin.H{
			"ocr": ocrStatus,
			"ai":  aiStatus,
		},
	})
}
