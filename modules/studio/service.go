package studio

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"ai-marketing-content-creator/modules/assistant"
	"ai-marketing-content-creator/modules/common/model"
	"ai-marketing-content-creator/modules/common/storage"
	"ai-marketing-content-creator/modules/common/utils"
	"ai-marketing-content-creator/modules/prompt"
	"ai-marketing-content-creator/modules/toolserver"
)

// Service - UI 콜백 동작. 모든 툴 호출은 브로커를 거침
type Service struct {
	broker Requester
	store  storage.AssetStore
	now    func() time.Time

	mu      sync.Mutex
	prompts map[string]string // 저장 파일명 → 최종 프롬프트
}

func NewService(b Requester, store storage.AssetStore) *Service {
	return &Service{
		broker:  b,
		store:   store,
		now:     time.Now,
		prompts: make(map[string]string),
	}
}

// call - 브로커 호출 후 (payload, 성공여부). 타임아웃이면 payload는 "Timeout"
func (s *Service) call(ctx context.Context, tool string, args map[string]any, prefix string, timeout time.Duration) (string, bool) {
	res, err := s.broker.Call(ctx, tool, args, prefix, timeout)
	if err != nil {
		log.Printf("⚠️  [Studio] %s (%s): %v", tool, res.RequestID, err)
	}
	return res.Payload, res.IsSuccess()
}

func errorOutput(msg string) Output {
	return Output{Images: []Image{}, Status: "❌ Error: " + msg}
}

func statusOutput(msg string) Output {
	return Output{Images: []Image{}, Status: msg}
}

// SingleImage - 스타일 적용(선택) 후 이미지 한 장 생성
func (s *Service) SingleImage(ctx context.Context, req SingleRequest) Output {
	if !s.broker.IsConnected() {
		return statusOutput(MsgNotConnected)
	}

	finalPrompt := req.Prompt
	if req.Style != "" && req.Style != "none" {
		payload, ok := s.call(ctx, toolserver.ToolAddStyleModifier, map[string]any{
			"prompt": finalPrompt,
			"style":  req.Style,
		}, "style", StyleTimeout)

		// 실패하면 원래 프롬프트로 진행
		var styled toolserver.StyleResult
		if ok && json.Unmarshal([]byte(payload), &styled) == nil && styled.EnhancedPrompt != "" {
			finalPrompt = styled.EnhancedPrompt
		} else {
			log.Printf("⚠️  [Studio] Style %q not applied, using original prompt", req.Style)
		}
	}

	payload, ok := s.call(ctx, toolserver.ToolGenerateImage, map[string]any{
		"prompt":              finalPrompt,
		"num_inference_steps": stepsOrDefault(req.Steps),
	}, "single", ImageTimeout)
	if !ok {
		return errorOutput(payload)
	}

	name := fmt.Sprintf("generated_%d.png", s.now().Unix())
	img, err := s.DecodeAndSave(ctx, payload, name)
	if err != nil {
		return errorOutput(err.Error())
	}
	s.remember(name, finalPrompt)

	return Output{
		Images: []Image{img},
		Status: fmt.Sprintf("✅ Image generated successfully!\n📝 Final prompt: %s", finalPrompt),
		Prompt: finalPrompt,
	}
}

// BatchVariations - A/B 테스트용 전략 변형 생성
func (s *Service) BatchVariations(ctx context.Context, req BatchRequest) Output {
	if !s.broker.IsConnected() {
		return statusOutput(MsgNotConnected)
	}

	variationType := req.VariationType
	if variationType == "" {
		variationType = prompt.VariationMixed
	}

	payload, ok := s.call(ctx, toolserver.ToolSmartVariations, map[string]any{
		"prompt":              req.Prompt,
		"count":               prompt.NormalizeCount(req.Count),
		"variation_type":      variationType,
		"num_inference_steps": stepsOrDefault(req.Steps),
	}, "smart_batch", ImageTimeout)
	if !ok {
		return errorOutput(payload)
	}

	var batch toolserver.BatchResult
	if err := json.Unmarshal([]byte(payload), &batch); err != nil {
		return errorOutput(fmt.Sprintf("invalid batch result: %v", err))
	}

	ts := s.now().Unix()
	images := make([]Image, 0, len(batch.Images))
	details := make([]string, 0, len(batch.Images))
	for i, v := range batch.Images {
		name := fmt.Sprintf("variation_%d_%d.png", i+1, ts)
		img, err := s.DecodeAndSave(ctx, v.ImageBase64, name)
		if err != nil {
			return errorOutput(err.Error())
		}
		s.remember(name, v.FullPrompt)

		img.Label = fmt.Sprintf("Variation %d", i+1)
		images = append(images, img)
		details = append(details, fmt.Sprintf("**Variation %d:** %s\n*Testing Purpose:* %s\n",
			i+1, v.VariationDescription, v.TestingPurpose))

		// 리포트 입력용 사본에는 이미지 데이터 제외
		batch.Images[i].ImageBase64 = ""
	}

	batchData, err := json.Marshal(batch)
	if err != nil {
		return errorOutput(err.Error())
	}

	status := fmt.Sprintf("✅ Generated %d strategic variations!\n\n**Testing Strategy:** %s\n\n**Variations Created:**\n%s\n"+
		"💡 **Next Steps:** Post each variation and track engagement metrics to see which performs best!",
		len(images), batch.TestingStrategy, strings.Join(details, "\n"))

	return Output{Images: images, Status: status, BatchData: string(batchData)}
}

// SocialPack - 플랫폼별 이미지 생성 후 정확한 플랫폼 크기로 리사이즈
func (s *Service) SocialPack(ctx context.Context, req SocialRequest) Output {
	if !s.broker.IsConnected() {
		return statusOutput(MsgSocialNotConnected)
	}

	platforms := req.Platforms
	if platforms == nil {
		platforms = []string{}
	}

	payload, ok := s.call(ctx, toolserver.ToolSocialMediaSet, map[string]any{
		"prompt":              req.Prompt,
		"platforms":           platforms,
		"num_inference_steps": stepsOrDefault(req.Steps),
	}, "social", ImageTimeout)
	if !ok {
		return statusOutput("Error: " + payload)
	}

	var social toolserver.SocialResult
	if err := json.Unmarshal([]byte(payload), &social); err != nil {
		return statusOutput(fmt.Sprintf("Error: invalid social result: %v", err))
	}

	ts := s.now().Unix()
	images := []Image{}
	lines := []string{}
	for _, r := range social.Results {
		data, err := utils.DecodeBase64Image(r.ImageBase64)
		if err != nil {
			return statusOutput("Error: " + err.Error())
		}

		resolution := r.Resolution
		if size, known := prompt.PlatformSizes[r.Platform]; known {
			if data, err = utils.ResizeToExact(data, size.Width, size.Height); err != nil {
				return statusOutput("Error: " + err.Error())
			}
			resolution = size.String()
		}

		name := fmt.Sprintf("%s_%s_%d.png", r.Platform, resolution, ts)
		img, err := s.save(ctx, name, data)
		if err != nil {
			return statusOutput("Error: " + err.Error())
		}
		s.remember(name, fmt.Sprintf("%s, optimized for %s", req.Prompt, strings.ReplaceAll(r.Platform, "_", " ")))

		img.Label = fmt.Sprintf("%s (%s)", r.Platform, resolution)
		images = append(images, img)
		lines = append(lines, fmt.Sprintf("• %s: %s", r.Platform, resolution))
	}

	if len(images) == 0 {
		return statusOutput(MsgNoImages)
	}
	return Output{Images: images, Status: "Generated images:\n" + strings.Join(lines, "\n")}
}

// GenerateAIPrompt - LLM 프롬프트 작성. 실패하면 fallback 프롬프트 반환
func (s *Service) GenerateAIPrompt(ctx context.Context, req AIPromptRequest) Output {
	if !s.broker.IsConnected() {
		return statusOutput(MsgNotConnected)
	}
	if strings.TrimSpace(req.UserInput) == "" {
		return statusOutput("⚠️ Please describe what you want to create.")
	}

	payload, ok := s.call(ctx, toolserver.ToolGeneratePrompt, map[string]any{
		"user_input": req.UserInput,
		"context":    orDefault(req.Context, assistant.DefaultContext),
		"style":      orDefault(req.Style, assistant.DefaultStyle),
		"platform":   orDefault(req.Platform, assistant.DefaultPlatform),
	}, "ai_prompt", PromptTimeout)
	if !ok {
		return errorOutput(payload)
	}

	var result assistant.PromptResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return errorOutput(fmt.Sprintf("invalid prompt result: %v", err))
	}

	if result.Success {
		return Output{Images: []Image{}, Prompt: result.Prompt, Status: "✅ AI prompt generated successfully!"}
	}
	return Output{
		Images: []Image{},
		Prompt: result.FallbackPrompt,
		Status: "⚠️ Using fallback prompt: " + orDefault(result.Error, "Unknown error"),
	}
}

// ImprovePrompt - 현재 프롬프트에 개선 요청을 붙여 detailed 강화
func (s *Service) ImprovePrompt(ctx context.Context, req ImproveRequest) Output {
	keep := func(status string) Output {
		return Output{Images: []Image{}, Prompt: req.CurrentPrompt, Status: status}
	}

	if !s.broker.IsConnected() {
		return keep(MsgNotConnectedShort)
	}
	if strings.TrimSpace(req.CurrentPrompt) == "" {
		return statusOutput("⚠️ No prompt to improve. Generate one first.")
	}
	if strings.TrimSpace(req.Improvement) == "" {
		return keep("⚠️ Please describe how you'd like to improve the prompt.")
	}

	payload, ok := s.call(ctx, toolserver.ToolEnhancePrompt, map[string]any{
		"base_prompt":      fmt.Sprintf("%s. %s", req.CurrentPrompt, req.Improvement),
		"enhancement_type": "detailed",
	}, "improve_prompt", PromptTimeout)
	if !ok {
		return keep("❌ Error: " + payload)
	}
	if payload == "" {
		return keep("⚠️ Received empty response from server.")
	}

	var result assistant.EnhanceResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		log.Printf("⚠️  [Studio] Enhance result is not JSON, using raw text: %v", err)
		return Output{Images: []Image{}, Prompt: payload, Status: "✅ Prompt improved (received as text)!"}
	}
	if result.Success {
		return Output{Images: []Image{}, Prompt: result.EnhancedPrompt, Status: "✅ Prompt improved successfully!"}
	}
	return keep("⚠️ Could not improve prompt: " + orDefault(result.Error, "Unknown error"))
}

// GenerateFromAIPrompt - AI 프롬프트로 바로 이미지 생성 (스타일 없음, 50 steps)
func (s *Service) GenerateFromAIPrompt(ctx context.Context, req PromptImageRequest) Output {
	if strings.TrimSpace(req.Prompt) == "" {
		return statusOutput("⚠️ Please generate a prompt first.")
	}
	return s.SingleImage(ctx, SingleRequest{Prompt: req.Prompt, Steps: model.DefaultSteps, Style: "none"})
}

// ABReport - 배치 결과로 A/B 테스트 추적 템플릿 생성
func (s *Service) ABReport(ctx context.Context, req ReportRequest) Output {
	if !s.broker.IsConnected() {
		return statusOutput(MsgNotConnected)
	}
	if strings.TrimSpace(req.BatchData) == "" {
		return statusOutput("⚠️ Generate variations first.")
	}

	payload, ok := s.call(ctx, toolserver.ToolABReport, map[string]any{
		"variations_data": req.BatchData,
	}, "ab_report", ReportTimeout)
	if !ok {
		return errorOutput(payload)
	}
	return Output{Images: []Image{}, Report: payload, Status: "✅ A/B test report template ready!"}
}

// StrategyInfo - 테스트 전략 안내 markdown
func (s *Service) StrategyInfo(variationType string) string {
	return prompt.RenderStrategyInfo(variationType)
}

// Templates - 용도별 프롬프트 템플릿 (이름순)
func (s *Service) Templates() []Template {
	names := prompt.TemplateNames()
	out := make([]Template, 0, len(names))
	for _, name := range names {
		out = append(out, Template{Name: name, Text: prompt.PromptTemplates[name]})
	}
	return out
}

// FillTemplate - placeholder를 채운 프롬프트. 툴 서버 연결 불필요
func (s *Service) FillTemplate(name string, values map[string]string) (string, error) {
	return prompt.FillTemplate(name, values)
}

// ConnectionStatus - 브로커 연결 상태
func (s *Service) ConnectionStatus() Status {
	st := Status{
		Connected: s.broker.IsConnected(),
		Message:   MsgConnecting,
		Tools:     s.broker.Tools(),
		Stats:     s.broker.Stats(),
	}
	if st.Connected {
		st.Message = MsgConnected
	}
	if st.Tools == nil {
		st.Tools = []string{}
	}
	return st
}

// DecodeAndSave - base64 이미지 디코딩 (공백 제거, 패딩 보정, 검증) 후 저장
func (s *Service) DecodeAndSave(ctx context.Context, b64, filename string) (Image, error) {
	data, err := utils.DecodeBase64Image(b64)
	if err != nil {
		return Image{}, err
	}
	return s.save(ctx, filename, data)
}

func (s *Service) save(ctx context.Context, filename string, data []byte) (Image, error) {
	pngData, err := utils.NormalizePNG(data)
	if err != nil {
		return Image{}, err
	}

	asset, err := s.store.Save(ctx, filename, pngData)
	if err != nil {
		return Image{}, fmt.Errorf("failed to save %s: %w", filename, err)
	}
	return Image{Name: asset.Name, URL: "/images/" + asset.Name}, nil
}

func (s *Service) remember(name, finalPrompt string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts[name] = finalPrompt
}

func (s *Service) promptFor(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prompts[name]
}

func stepsOrDefault(steps int) int {
	if steps <= 0 {
		return model.DefaultSteps
	}
	return steps
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
