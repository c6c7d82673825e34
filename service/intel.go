package service

import (
	"bytes"
	"context"
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

// IntelService turns raw contract text into a structured ContractAnalysis
// via a remote chat-completion API. Exactly one remote attempt is made per
// call; every failure mode (unreachable endpoint, non-2xx, non-JSON
// content, schema violation) degrades into the deterministic fallback
// analysis. Analyze never returns an error.
type IntelService struct {
	config     *config.AIConfig
	httpClient *http.Client
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func NewIntelService(cfg *config.AIConfig) *IntelService {
	svc := &IntelService{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
	if cfg.APIKey == "" {
		logger.Warn(context.Background(), "no AI API key configured, structuring runs in fallback mode")
	}
	return svc
}

// Enabled reports whether the remote AI call is configured at all.
func (s *IntelService) Enabled() bool {
	return s.config.APIKey != ""
}

// Model returns the configured model identifier.
func (s *IntelService) Model() string {
	return s.config.Model
}

// Analyze runs the structuring stage on extracted contract text. The text
// must be non-empty; callers reject empty documents before this stage.
func (s *IntelService) Analyze(ctx context.Context, text string) *model.ContractAnalysis {
	if !s.Enabled() {
		return s.fallback(ctx, text, "AI analysis disabled: no API key configured")
	}

	start := time.Now()

	content, err := s.complete(ctx, text)
	if err != nil {
		logger.Warn(ctx, "ai call failed, using fallback",
			"error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return s.fallback(ctx, text, fmt.Sprintf("AI call failed: %v", err))
	}

	cleaned := StripCodeFences(content)

	if err := ValidateAnalysisJSON([]byte(cleaned)); err != nil {
		logger.Warn(ctx, "ai response failed validation, using fallback",
			"error", err,
			"content_length", len(cleaned),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return s.fallback(ctx, text, "AI response was not valid analysis JSON")
	}

	var analysis model.ContractAnalysis
	if err := json.Unmarshal([]byte(cleaned), &analysis); err != nil {
		logger.Warn(ctx, "ai response failed decoding, using fallback", "error", err)
		return s.fallback(ctx, text, "AI response could not be decoded")
	}

	if analysis.RentalEvents == nil {
		analysis.RentalEvents = []model.RentalEvent{}
	}
	analysis.ContractData.ParsedAt = time.Now().Format(time.RFC3339)
	analysis.ContractData.AIModel = s.config.Model
	analysis.ContractData.Confidence = model.ConfidenceHigh

	logger.Info(ctx, "ai analysis completed",
		"model", s.config.Model,
		"events", len(analysis.RentalEvents),
		"completeness_score", analysis.Completeness.CompletenessScore,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	return &analysis
}

// complete performs the single chat-completion round trip and returns the
// assistant message content.
func (s *IntelService) complete(ctx context.Context, text string) (string, error) {
	prompt, err := RenderAnalysisPrompt(text)
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}

	reqBody := chatRequest{
		Model: s.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: s.config.Temperature,
		MaxTokens:   s.config.MaxTokens,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := strings.TrimRight(s.config.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("completion API status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var cc chatResponse
	if err := json.Unmarshal(body, &cc); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(cc.Choices) == 0 {
		return "", fmt.Errorf("no choices in completion response")
	}

	return strings.TrimSpace(cc.Choices[0].Message.Content), nil
}

func (s *IntelService) fallback(ctx context.Context, text, note string) *model.ContractAnalysis {
	analysis := model.NewFallbackAnalysis(text, note, time.Now())
	logger.Info(ctx, "fallback analysis constructed",
		"note", note,
		"rent_found", analysis.ContractData.RentAmount != nil,
	)
	return analysis
}

// StripCodeFences removes a Markdown code-fence wrapper from model output.
// Models frequently echo the JSON inside ```json ... ``` fences despite
// instructions not to.
func StripCodeFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "```json") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
	} else if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```")
	} else {
		return trimmed
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
