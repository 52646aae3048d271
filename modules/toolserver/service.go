package toolserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"ai-marketing-content-creator/modules/assistant"
	"ai-marketing-content-creator/modules/common/fallback"
	"ai-marketing-content-creator/modules/common/history"
	"ai-marketing-content-creator/modules/common/model"
	"ai-marketing-content-creator/modules/prompt"
)

// 기본값
const (
	DefaultHistoryLimit = 10
	DefaultPackageName  = "marketing_assets"
	limiterBurst        = 2
)

var metricsToTrack = []string{
	"Impressions",
	"Engagement Rate (%)",
	"Click-through Rate (%)",
	"Saves/Shares",
	"Comments",
	"Conversion Rate (%)",
}

// Service - 툴 서버의 실제 동작 (MCP 바인딩과 분리)
type Service struct {
	assistant *assistant.Assistant
	generator model.Generator
	history   history.Store
	limiter   *rate.Limiter

	rngMu sync.Mutex
	rng   *rand.Rand
	now   func() time.Time
}

// NewService - ratePerSec 는 이미지 생성 호출 속도 상한 (배치/소셜 병렬 생성)
func NewService(a *assistant.Assistant, gen model.Generator, store history.Store, ratePerSec float64) *Service {
	limit := rate.Inf
	if ratePerSec > 0 {
		limit = rate.Limit(ratePerSec)
	}
	if store == nil {
		store = history.NewMemoryStore()
	}
	return &Service{
		assistant: a,
		generator: gen,
		history:   store,
		limiter:   rate.NewLimiter(limit, limiterBurst),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		now:       time.Now,
	}
}

// GeneratePrompt - generate_prompt_with_ai
func (s *Service) GeneratePrompt(ctx context.Context, req assistant.PromptRequest) assistant.PromptResult {
	return s.assistant.GeneratePrompt(ctx, req)
}

// EnhancePrompt - enhance_prompt_with_details
func (s *Service) EnhancePrompt(ctx context.Context, basePrompt, enhancementType string) assistant.EnhanceResult {
	return s.assistant.EnhancePrompt(ctx, basePrompt, enhancementType)
}

// GenerateImage - generate_and_save_image. 성공 시 기록에 추가
func (s *Service) GenerateImage(ctx context.Context, req model.ImageRequest) (string, error) {
	req = req.WithDefaults()
	log.Printf("📤 [ToolServer] Sending request to image backend: %s at %dx%d", truncate(req.Prompt, 60), req.Width, req.Height)

	b64, err := s.generator.Generate(ctx, req)
	if err != nil {
		log.Printf("❌ [ToolServer] Error in generate_and_save_image: %v", err)
		return "", fmt.Errorf("Error generating image: %v", err)
	}

	history.AppendLogged(ctx, s.history, history.NewEntry(req.Prompt, req.Width, req.Height, b64, s.now()))
	return b64, nil
}

// SmartVariations - batch_generate_smart_variations
// 변형별 생성은 병렬, 실패한 변형은 건너뜀. 결과는 선택 순서와 원래 index 유지
func (s *Service) SmartVariations(ctx context.Context, basePrompt string, count int, variationType string, base model.ImageRequest) (BatchResult, error) {
	if variationType == "" {
		variationType = prompt.VariationMixed
	}
	base = base.WithDefaults()

	s.rngMu.Lock()
	selected := prompt.SelectVariations(variationType, count, s.rng)
	s.rngMu.Unlock()

	slots := make([]*VariationImage, len(selected))
	eg, egCtx := errgroup.WithContext(ctx)

	for i, variation := range selected {
		i, variation := i, variation
		eg.Go(func() error {
			if err := s.limiter.Wait(egCtx); err != nil {
				return err
			}

			fullPrompt := prompt.VariationPrompt(basePrompt, variation)
			log.Printf("🎨 [ToolServer] Generating variation %d/%d: %s", i+1, len(selected), variation)

			req := base
			req.Prompt = fullPrompt
			b64, err := s.GenerateImage(egCtx, req)
			if err != nil {
				log.Printf("⚠️  [ToolServer] Error generating variation %d: %v", i+1, err)
				return nil
			}

			slots[i] = &VariationImage{
				Index:                i,
				VariationDescription: variation,
				FullPrompt:           fullPrompt,
				Dimensions:           fmt.Sprintf("%dx%d", base.Width, base.Height),
				ImageBase64:          b64,
				TestingPurpose:       prompt.TestingPurpose(variation),
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return BatchResult{}, err
	}

	images := make([]VariationImage, 0, len(slots))
	for _, slot := range slots {
		if slot != nil {
			images = append(images, *slot)
		}
	}

	return BatchResult{
		Images:          images,
		Count:           len(images),
		VariationType:   variationType,
		TestingStrategy: prompt.TestingStrategy(variationType),
	}, nil
}

// BatchImages - batch_generate_images (mixed 전략)
func (s *Service) BatchImages(ctx context.Context, basePrompt string, count int, base model.ImageRequest) (BatchResult, error) {
	return s.SmartVariations(ctx, basePrompt, count, prompt.VariationMixed, base)
}

// ABReport - generate_ab_test_report_template. 배치 결과 JSON으로 추적 템플릿 생성
func (s *Service) ABReport(variationsData string) (string, error) {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(variationsData), &data); err != nil {
		return "", fmt.Errorf("invalid variations data: %w", err)
	}

	report := ABReport{
		TestName:                "Content Variation A/B Test",
		TestDate:                s.now().Format(time.RFC3339),
		VariationType:           fallback.SafeString(data["variation_type"], prompt.VariationMixed),
		TestingStrategy:         fallback.SafeString(data["testing_strategy"], ""),
		Variations:              []ReportVariation{},
		MetricsToTrack:          metricsToTrack,
		RecommendedTestDuration: "7-14 days for statistical significance",
		SampleSizeNeeded:        "Minimum 1000 impressions per variation",
	}

	for pos, img := range fallback.SafeList(data["images"]) {
		report.Variations = append(report.Variations, ReportVariation{
			VariationID:    fmt.Sprintf("V%d", fallback.SafeIndex(img["index"], pos)+1),
			Description:    fallback.SafeString(img["variation_description"], ""),
			TestingPurpose: fallback.SafeString(img["testing_purpose"], ""),
		})
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}
	return string(out), nil
}

// SocialMediaSet - generate_social_media_set. 알 수 없는 플랫폼과 실패는 건너뜀
func (s *Service) SocialMediaSet(ctx context.Context, basePrompt string, platforms []string, steps int) (SocialResult, error) {
	slots := make([]*SocialImage, len(platforms))
	eg, egCtx := errgroup.WithContext(ctx)

	for i, platform := range platforms {
		size, ok := prompt.SizePresets[platform]
		if !ok {
			log.Printf("⚠️  [ToolServer] Unknown platform skipped: %s", platform)
			continue
		}

		i, platform := i, platform
		eg.Go(func() error {
			if err := s.limiter.Wait(egCtx); err != nil {
				return err
			}

			platformPrompt := fmt.Sprintf("%s, optimized for %s", basePrompt, strings.ReplaceAll(platform, "_", " "))
			b64, err := s.GenerateImage(egCtx, model.ImageRequest{
				Prompt:            platformPrompt,
				NumInferenceSteps: steps,
				Width:             size.Width,
				Height:            size.Height,
			})
			if err != nil {
				log.Printf("⚠️  [ToolServer] Error generating for %s: %v", platform, err)
				return nil
			}

			log.Printf("✅ [ToolServer] Generated %s image at %s", platform, size)
			slots[i] = &SocialImage{
				Platform:    platform,
				Size:        [2]int{size.Width, size.Height},
				Resolution:  size.String(),
				ImageBase64: b64,
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return SocialResult{}, err
	}

	results := []SocialImage{}
	for _, slot := range slots {
		if slot != nil {
			results = append(results, *slot)
		}
	}
	return SocialResult{Results: results}, nil
}

// AddStyleModifier - add_style_modifier
func (s *Service) AddStyleModifier(basePrompt, style string) StyleResult {
	enhanced, ok := prompt.ApplyStyle(basePrompt, style)
	if !ok {
		return StyleResult{
			Error:           fmt.Sprintf("Style '%s' not found", style),
			AvailableStyles: prompt.StyleNames(),
		}
	}
	return StyleResult{
		OriginalPrompt: basePrompt,
		EnhancedPrompt: enhanced,
		StyleApplied:   style,
	}
}

// GenerationHistory - get_generation_history
func (s *Service) GenerationHistory(ctx context.Context, limit int) (HistoryResult, error) {
	entries, total, err := s.history.Recent(ctx, limit)
	if err != nil {
		return HistoryResult{}, err
	}
	if entries == nil {
		entries = []model.HistoryEntry{}
	}
	return HistoryResult{History: entries, TotalGenerations: total}, nil
}

// CreateImagePackage - create_image_package. 파일명은 "<pkg>_<i+1>.png"
func (s *Service) CreateImagePackage(items []PackageItem, packageName string) PackageInfo {
	if packageName == "" {
		packageName = DefaultPackageName
	}

	info := PackageInfo{
		PackageName: packageName,
		CreatedAt:   s.now().Format(time.RFC3339),
		TotalImages: len(items),
		Images:      make([]PackageImage, 0, len(items)),
	}
	for idx, item := range items {
		metadata := item.Metadata
		if metadata == nil {
			metadata = map[string]interface{}{}
		}
		info.Images = append(info.Images, PackageImage{
			Filename: fmt.Sprintf("%s_%d.png", packageName, idx+1),
			Prompt:   item.Prompt,
			Metadata: metadata,
		})
	}
	return info
}

// HealthCheck - health_check
func (s *Service) HealthCheck(ctx context.Context) string {
	return s.generator.Health(ctx)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
