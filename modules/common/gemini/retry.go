package gemini

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"
)

const (
	maxRetriesPerKey = 3
	retryDelay       = 2 * time.Second
)

// Client - 여러 API 키를 돌려 쓰는 Gemini 클라이언트
// 429(rate limit)이면 같은 키로 최대 3번, 이후 다음 키로 넘어감
type Client struct {
	apiKeys []string

	mu      sync.Mutex
	clients map[string]*genai.Client
}

// NewClient - 키 목록으로 클라이언트 생성
func NewClient(apiKeys []string) (*Client, error) {
	if len(apiKeys) == 0 {
		return nil, fmt.Errorf("no Gemini API keys provided")
	}
	return &Client{
		apiKeys: apiKeys,
		clients: make(map[string]*genai.Client),
	}, nil
}

func (c *Client) clientFor(ctx context.Context, apiKey string) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cl, ok := c.clients[apiKey]; ok {
		return cl, nil
	}
	cl, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	c.clients[apiKey] = cl
	return cl, nil
}

// GenerateContent - 429 에러 시 재시도/키 교체하며 GenerateContent 호출
func (c *Client) GenerateContent(
	ctx context.Context,
	model string,
	contents []*genai.Content,
	config *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	var lastErr error

	for keyIndex, apiKey := range c.apiKeys {
		for attempt := 1; attempt <= maxRetriesPerKey; attempt++ {
			if attempt > 1 {
				log.Printf("   🔄 [Gemini] Retry attempt %d/%d for key #%d", attempt, maxRetriesPerKey, keyIndex+1)
			}

			client, err := c.clientFor(ctx, apiKey)
			if err != nil {
				log.Printf("⚠️  [Gemini] Failed to create client with key #%d: %v", keyIndex+1, err)
				lastErr = err
				break
			}

			result, err := client.Models.GenerateContent(ctx, model, contents, config)
			if err == nil {
				return result, nil
			}
			lastErr = err

			// 429가 아닌 에러는 재시도하지 않음
			if !is429Error(err) {
				return nil, err
			}

			log.Printf("⚠️  [Gemini] Key #%d hit rate limit (429) on attempt %d/%d", keyIndex+1, attempt, maxRetriesPerKey)
			if attempt < maxRetriesPerKey {
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(retryDelay):
				}
			}
		}
	}

	return nil, fmt.Errorf("all %d API keys exhausted, last error: %w", len(c.apiKeys), lastErr)
}

// is429Error - 429 Rate Limit 에러인지 확인
func is429Error(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "quota")
}

// FirstText - 응답의 텍스트 파트를 이어 붙임
func FirstText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.Text != "" {
				b.WriteString(part.Text)
			}
		}
		if b.Len() > 0 {
			break
		}
	}
	return b.String()
}

// FirstImage - 응답의 첫 인라인 이미지 바이트
func FirstImage(resp *genai.GenerateContentResponse) ([]byte, error) {
	if resp == nil {
		return nil, fmt.Errorf("empty Gemini response")
	}
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data, nil
			}
		}
	}
	return nil, fmt.Errorf("no image in Gemini response")
}
