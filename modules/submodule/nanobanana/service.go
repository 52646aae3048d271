package nanobanana

import (
	"context"
	"fmt"
	"log"
	"math"

	"google.golang.org/genai"

	"ai-marketing-content-creator/modules/common/gemini"
	"ai-marketing-content-creator/modules/common/model"
	"ai-marketing-content-creator/modules/common/utils"
)

// Gemini 이미지 모델이 받는 비율
var supportedRatios = []struct {
	label string
	w, h  float64
}{
	{"1:1", 1, 1},
	{"2:3", 2, 3},
	{"3:2", 3, 2},
	{"3:4", 3, 4},
	{"4:3", 4, 3},
	{"4:5", 4, 5},
	{"5:4", 5, 4},
	{"9:16", 9, 16},
	{"16:9", 16, 9},
	{"21:9", 21, 9},
}

// Service - Gemini 이미지 모델 백엔드 (Modal 대체)
type Service struct {
	client *gemini.Client
	model  string
}

func NewService(client *gemini.Client, model string) *Service {
	log.Printf("✅ [Nanobanana] Service initialized (model: %s)", model)
	return &Service{client: client, model: model}
}

// AspectRatio - width/height에 가장 가까운 지원 비율
func AspectRatio(width, height int) string {
	if width <= 0 || height <= 0 {
		return "1:1"
	}
	target := math.Log(float64(width) / float64(height))

	best := supportedRatios[0].label
	bestDiff := math.MaxFloat64
	for _, r := range supportedRatios {
		if diff := math.Abs(math.Log(r.w/r.h) - target); diff < bestDiff {
			best, bestDiff = r.label, diff
		}
	}
	return best
}

// Generate - 프롬프트로 이미지 생성 후 요청 크기로 맞춰 base64 반환
// num_inference_steps 는 Gemini에 해당 개념이 없어 무시
func (s *Service) Generate(ctx context.Context, req model.ImageRequest) (string, error) {
	req = req.WithDefaults()
	aspectRatio := AspectRatio(req.Width, req.Height)

	log.Printf("🎨 [Nanobanana] Generating image - model: %s, ratio: %s, prompt: %s",
		s.model, aspectRatio, truncateString(req.Prompt, 50))

	temperature := float32(0.7)
	result, err := s.client.GenerateContent(
		ctx,
		s.model,
		[]*genai.Content{{Parts: []*genai.Part{genai.NewPartFromText(req.Prompt)}}},
		&genai.GenerateContentConfig{
			ImageConfig: &genai.ImageConfig{
				AspectRatio: aspectRatio,
			},
			Temperature: &temperature,
		},
	)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	imageData, err := gemini.FirstImage(result)
	if err != nil {
		return "", fmt.Errorf("No image generated from Gemini: %w", err)
	}

	resized, err := utils.ResizeToExact(imageData, req.Width, req.Height)
	if err != nil {
		return "", err
	}

	log.Printf("✅ [Nanobanana] Image generated: %d bytes", len(resized))
	return utils.ConvertImageToBase64(resized), nil
}

// Health - Gemini는 별도 헬스 엔드포인트가 없어 설정 상태만 보고
func (s *Service) Health(ctx context.Context) string {
	return fmt.Sprintf("Gemini image backend configured (model: %s)", s.model)
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
