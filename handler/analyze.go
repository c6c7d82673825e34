package handler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/settlelinecompany-commits/contract-intelligence-agent/pkg/logger"
	"github.com/settlelinecompany-commits/contract-intelligence-agent/service"
)

// previewLimit bounds the OCR text echoed back in the response.
const previewLimit = 500

type AnalyzeHandler struct {
	ocrService     *service.OCRService
	intelService   *service.IntelService
	archiveService *service.ArchiveService
}

func NewAnalyzeHandler(ocrSvc *service.OCRService, intelSvc *service.IntelService, archiveSvc *service.ArchiveService) *AnalyzeHandler {
	return &AnalyzeHandler{
		ocrService:     ocrSvc,
		intelService:   intelSvc,
		archiveService: archiveSvc,
	}
}

// Analyze runs the two-stage pipeline on one uploaded PDF: OCR first, then
// AI structuring. OCR failures stop the request with an error response;
// AI failures degrade to the fallback analysis and still return 200.
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "No file provided"})
		return
	}
	defer file.Close()

	if !isPDFUpload(header.Filename, header.Header.Get("Content-Type"), file) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Unsupported file type: only PDF files are supported"})
		return
	}

	analysisID := uuid.New().String()
	ctx := context.WithValue(c.Request.Context(), logger.AnalysisIDKey, analysisID)
	ctx = context.WithValue(ctx, logger.FilenameKey, header.Filename)

	logger.Info(ctx, "starting contract analysis", "size", header.Size)

	// The upload lives in a request-scoped temp file, removed on every
	// exit path.
	tempFile, err := os.CreateTemp("", "contract-*.pdf")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to store upload: " + err.Error()})
		return
	}
	tempPath := tempFile.Name()
	defer os.Remove(tempPath)

	if _, err := io.Copy(tempFile, file); err != nil {
		tempFile.Close()
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to store upload: " + err.Error()})
		return
	}
	if err := tempFile.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to store upload: " + err.Error()})
		return
	}

	pdfBytes, err := os.ReadFile(tempPath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to read upload: " + err.Error()})
		return
	}
	if len(pdfBytes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Empty file"})
		return
	}

	h.archiveUpload(ctx, analysisID, header.Filename, pdfBytes)

	// Stage 1: OCR
	extraction := h.ocrService.Extract(ctx, pdfBytes)
	if !extraction.Succeeded {
		logger.Warn(ctx, "ocr stage failed", "detail", extraction.ErrorDetail)
		c.JSON(http.StatusBadGateway, gin.H{"detail": "OCR processing failed: " + extraction.ErrorDetail})
		return
	}

	if strings.TrimSpace(extraction.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "No text could be extracted from the document"})
		return
	}

	// Stage 2: AI structuring (never fails; degrades to fallback)
	analysis := h.intelService.Analyze(ctx, extraction.Text)

	c.JSON(http.StatusOK, gin.H{
		"status":                "success",
		"analysis_id":           analysisID,
		"filename":              header.Filename,
		"ocr_text_preview":      textPreview(extraction.Text),
		"contract_data":         analysis.ContractData,
		"rental_events":         analysis.RentalEvents,
		"completeness_analysis": analysis.Completeness,
		"analysis_time":         time.Now().Format(time.RFC3339),
	})
}

// archiveUpload stores a copy of the original document when archival is
// configured. Failures are logged and swallowed.
func (h *AnalyzeHandler) archiveUpload(ctx context.Context, analysisID, filename string, pdfBytes []byte) {
	if h.archiveService == nil || !h.archiveService.Enabled() {
		return
	}
	objectName := fmt.Sprintf("uploads/%s/%s", analysisID, filename)
	err := h.archiveService.Store(ctx, objectName, bytes.NewReader(pdfBytes), int64(len(pdfBytes)), "application/pdf")
	if err != nil {
		logger.Warn(ctx, "failed to archive upload", "error", err)
	}
}

// isPDFUpload validates the upload by extension, declared content type,
// and a content sniff when the declared type looks wrong.
func isPDFUpload(filename, contentType string, file io.ReadSeeker) bool {
	if strings.ToLower(filepath.Ext(filename)) != ".pdf" {
		return false
	}

	if contentType == "" || contentType == "application/octet-stream" || strings.Contains(contentType, "pdf") {
		return true
	}

	// Declared type disagrees with the extension: sniff the content
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return false
	}
	file.Seek(0, io.SeekStart)

	detected := http.DetectContentType(buffer[:n])
	return strings.Contains(detected, "pdf") || detected == "application/octet-stream"
}

func textPreview(text string) string {
	if len(text) > previewLimit {
		return text[:previewLimit] + "..."
	}
	return text
}
