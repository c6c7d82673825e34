package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/settlelinecompany-commits/contract-intelligence-agent/config"
	"github.com/settlelinecompany-commits/contract-intelligence-agent/model"
	"github.com/settlelinecompany-commits/contract-intelligence-agent/pkg/logger"
)

// OCRService relays PDF bytes to a serverless GPU OCR worker and returns
// the extracted text. Every upstream fault — network error, timeout,
// non-2xx status, malformed body — comes back as a failed
// model.ExtractionResult; the caller never sees a raised error.
type OCRService struct {
	config       *config.OCRConfig
	httpClient   *http.Client
	healthClient *http.Client
}

// ocrRunRequest is the worker's /runsync payload. The document travels
// base64-encoded inside the input envelope.
type ocrRunRequest struct {
	Input ocrRunInput `json:"input"`
}

type ocrRunInput struct {
	PDFData string `json:"pdf_data"`
}

// ocrRunResponse wraps the worker output. Some deployments return the
// output object at the top level instead of under "output".
type ocrRunResponse struct {
	Output json.RawMessage `json:"output"`
}

// OCROutput is the worker's result object.
type OCROutput struct {
	Success    bool   `json:"success"`
	Pages      int    `json:"pages"`
	TextLength int    `json:"text_length"`
	OCRText    string `json:"ocr_text"`
	Error      string `json:"error,omitempty"`
}

func NewOCRService(cfg *config.OCRConfig) *OCRService {
	return &OCRService{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		healthClient: &http.Client{
			Timeout: time.Duration(cfg.HealthTimeout) * time.Second,
		},
	}
}

// Extract submits one PDF to the OCR worker and waits for the result.
func (s *OCRService) Extract(ctx context.Context, pdf []byte) model.ExtractionResult {
	start := time.Now()

	reqBody := ocrRunRequest{
		Input: ocrRunInput{PDFData: base64.StdEncoding.EncodeToString(pdf)},
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return failedExtraction(fmt.Sprintf("failed to encode request: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.APIURL+"/runsync", bytes.NewReader(jsonData))
	if err != nil {
		return failedExtraction(fmt.Sprintf("failed to create request: %v", err))
	}
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		logger.Warn(ctx, "ocr request failed", "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return failedExtraction(fmt.Sprintf("OCR worker unreachable: %v", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return failedExtraction(fmt.Sprintf("failed to read response: %v", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Warn(ctx, "ocr worker rejected request", "status", resp.StatusCode)
		return failedExtraction(fmt.Sprintf("OCR worker returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var wrapped ocrRunResponse
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return failedExtraction(fmt.Sprintf("failed to parse response: %v", err))
	}

	// Unwrapped workers put the output object at the top level
	outputJSON := wrapped.Output
	if len(outputJSON) == 0 || string(outputJSON) == "null" {
		outputJSON = body
	}

	var out OCROutput
	if err := json.Unmarshal(outputJSON, &out); err != nil {
		return failedExtraction(fmt.Sprintf("failed to parse worker output: %v", err))
	}

	if !out.Success {
		detail := out.Error
		if detail == "" {
			detail = "OCR processing failed"
		}
		return failedExtraction(detail)
	}

	text := NormalizePages(out.OCRText)

	logger.Info(ctx, "ocr completed",
		"pages", out.Pages,
		"text_length", len(text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	return model.ExtractionResult{
		Text:      text,
		Succeeded: true,
		Pages:     out.Pages,
	}
}

// Health checks whether the OCR worker endpoint is reachable. This is a
// shallow check: it reports transport-level reachability only.
func (s *OCRService) Health(ctx context.Context) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.config.APIURL+"/health", nil)
	if err != nil {
		return fmt.Sprintf("unreachable: %v", err)
	}
	if s.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	}

	resp, err := s.healthClient.Do(req)
	if err != nil {
		return fmt.Sprintf("unreachable: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Sprintf("returned status %d", resp.StatusCode)
	}
	return "healthy"
}

// NormalizePages enforces the page text convention: lines within a page
// joined by newlines, pages separated by one blank line, empty lines
// dropped.
func NormalizePages(text string) string {
	pages := strings.Split(text, "\n\n")
	normalized := make([]string, 0, len(pages))
	for _, page := range pages {
		lines := make([]string, 0)
		for _, line := range strings.Split(page, "\n") {
			if strings.TrimSpace(line) != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) > 0 {
			normalized = append(normalized, strings.Join(lines, "\n"))
		}
	}
	return strings.Join(normalized, "\n\n")
}

func failedExtraction(detail string) model.ExtractionResult {
	return model.ExtractionResult{
		Succeeded:   false,
		ErrorDetail: detail,
	}
}
