package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/settlelinecompany-commits/contract-intelligence-agent/config"
	"github.com/settlelinecompany-commits/contract-intelligence-agent/service"
)

func newHealthRouter(ocrURL, aiKey string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	ocrSvc := service.NewOCRService(&config.OCRConfig{
		APIURL:         ocrURL,
		APIKey:         "ocr-key",
		TimeoutSeconds: 5,
		HealthTimeout:  2,
	})
	intelSvc := service.NewIntelService(&config.AIConfig{
		APIKey:         aiKey,
		Model:          "gpt-4o-mini",
		TimeoutSeconds: 5,
	})

	h := NewHealthHandler(ocrSvc, intelSvc)

	router := gin.New()
	router.GET("/health", h.Health)
	return router
}

func TestHealthAllHealthy(t *testing.T) {
	ocr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ocr.Close()

	router := newHealthRouter(ocr.URL, "ai-key")

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp map[string]any
	json.Unmarshal(w.Body.Bytes(), &resp)

	if resp["status"] != "ok" {
		t.Errorf("Expected status ok, got %v", resp["status"])
	}

	services := resp["services"].(map[string]any)
	if services["ocr"] != "healthy" {
		t.Errorf("Expected healthy OCR, got %v", services["ocr"])
	}
	aiStatus, _ := services["ai"].(string)
	if !strings.Contains(aiStatus, "gpt-4o-mini") {
		t.Errorf("Expected model in AI status, got %q", aiStatus)
	}
}

func TestHealthOCRUnreachable(t *testing.T) {
	ocr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ocr.Close()

	router := newHealthRouter(ocr.URL, "ai-key")

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200 even when degraded, got %d", w.Code)
	}

	var resp map[string]any
	json.Unmarshal(w.Body.Bytes(), &resp)

	if resp["status"] != "degraded" {
		t.Errorf("Expected degraded status, got %v", resp["status"])
	}

	services := resp["services"].(map[string]any)
	ocrStatus, _ := services["ocr"].(string)
	if !strings.Contains(ocrStatus, "unreachable") {
		t.Errorf("Expected unreachable OCR status, got %q", ocrStatus)
	}
}

func TestHealthAIKeyMissing(t *testing.T) {
	ocr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ocr.Close()

	router := newHealthRouter(ocr.URL, "")

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp map[string]any
	json.Unmarshal(w.Body.Bytes(), &resp)

	services := resp["services"].(map[string]any)
	aiStatus, _ := services["ai"].(string)
	if !strings.Contains(aiStatus, "fallback mode") {
		t.Errorf("Expected fallback mode in AI status, got %q", aiStatus)
	}
}
