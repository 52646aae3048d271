package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"

	"ai-marketing-content-creator/modules/common/gemini"
)

// 프롬프트 작성 LLM 파라미터
const (
	writerTemperature = 0.8
	writerMaxTokens   = 250
	writerTimeout     = 30 * time.Second
)

// Writer - system/user 메시지로 텍스트 한 건을 받아오는 LLM
type Writer interface {
	Complete(ctx context.Context, system, user string) (string, error)
	Name() string
}

// MistralWriter - Mistral chat completions (OpenAI 호환 API)
type MistralWriter struct {
	client *openai.Client
	model  string
	hasKey bool
}

// NewMistralWriter - baseURL 예: https://api.mistral.ai/v1
func NewMistralWriter(apiKey, baseURL, model string) *MistralWriter {
	clientConfig := openai.DefaultConfig(apiKey)
	clientConfig.BaseURL = strings.TrimRight(baseURL, "/")

	return &MistralWriter{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
		hasKey: apiKey != "",
	}
}

func (w *MistralWriter) Name() string { return "mistral" }

func (w *MistralWriter) Complete(ctx context.Context, system, user string) (string, error) {
	if !w.hasKey {
		return "", fmt.Errorf("MISTRAL_API_KEY is not set")
	}

	ctx, cancel := context.WithTimeout(ctx, writerTimeout)
	defer cancel()

	resp, err := w.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: w.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: writerTemperature,
		MaxTokens:   writerMaxTokens,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("Mistral API error (%d): %s", apiErr.HTTPStatusCode, apiErr.Message)
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) {
			return "", fmt.Errorf("Mistral API error (%d): %v", reqErr.HTTPStatusCode, reqErr)
		}
		return "", fmt.Errorf("Mistral request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("Mistral API returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// GeminiWriter - Gemini 텍스트 모델
type GeminiWriter struct {
	client *gemini.Client
	model  string
}

func NewGeminiWriter(client *gemini.Client, model string) *GeminiWriter {
	return &GeminiWriter{client: client, model: model}
}

func (w *GeminiWriter) Name() string { return "gemini" }

func (w *GeminiWriter) Complete(ctx context.Context, system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, writerTimeout)
	defer cancel()

	temperature := float32(writerTemperature)
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       &temperature,
		MaxOutputTokens:   writerMaxTokens,
	}

	resp, err := w.client.GenerateContent(ctx, w.model, genai.Text(user), config)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	text := gemini.FirstText(resp)
	if text == "" {
		return "", fmt.Errorf("Gemini API returned no text")
	}
	return text, nil
}
