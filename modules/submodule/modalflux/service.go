package modalflux

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"ai-marketing-content-creator/modules/common/model"
)

const (
	generateTimeout = 120 * time.Second
	healthTimeout   = 10 * time.Second
)

// Service - Modal GPU에 올라간 FLUX.1-dev + LoRA 서버 클라이언트
type Service struct {
	baseURL    string
	httpClient *http.Client
}

func NewService(baseURL string) *Service {
	if baseURL == "" {
		log.Println("⚠️  [ModalFlux] MODAL_API_URL not configured")
	}
	return &Service{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// Generate - POST /generate 호출, base64 PNG 반환
func (s *Service) Generate(ctx context.Context, req model.ImageRequest) (string, error) {
	if s.baseURL == "" {
		return "", fmt.Errorf("MODAL_API_URL not configured")
	}
	req = req.WithDefaults()

	log.Printf("🎨 [ModalFlux] Generating image - size: %dx%d, steps: %d, prompt: %s",
		req.Width, req.Height, req.NumInferenceSteps, truncateString(req.Prompt, 50))

	jsonBody, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/generate", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	startTime := time.Now()
	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("Modal API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Modal API error (%d): %s", resp.StatusCode, string(body))
	}

	var result GenerateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse Modal response: %w", err)
	}
	if result.ImageBase64 == nil {
		return "", fmt.Errorf("No 'image_base64' key found in response")
	}

	remote := ""
	if result.GenerationTime != nil {
		remote = fmt.Sprintf(", gpu %.1fs", *result.GenerationTime)
	}
	log.Printf("✅ [ModalFlux] Image generated in %s%s (%d chars)",
		time.Since(startTime).Round(time.Millisecond), remote, len(*result.ImageBase64))

	return *result.ImageBase64, nil
}

// Health - GET /health 결과를 사람이 읽는 문자열로
func (s *Service) Health(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/health", nil)
	if err != nil {
		return fmt.Sprintf("Modal API health check failed: %v", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Sprintf("Modal API health check failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Sprintf("Modal API returned status %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	return fmt.Sprintf("Modal API is healthy: %s", string(body))
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
