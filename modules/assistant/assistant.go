package assistant

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"ai-marketing-content-creator/modules/prompt"
)

// 요청 기본값
const (
	DefaultContext         = "marketing"
	DefaultStyle           = "professional"
	DefaultPlatform        = "general"
	DefaultEnhancementType = "cinematic"
)

// PromptRequest - generate_prompt_with_ai 입력
type PromptRequest struct {
	UserInput string `json:"user_input"`
	Context   string `json:"context"`
	Style     string `json:"style"`
	Platform  string `json:"platform"`
}

func (r PromptRequest) withDefaults() PromptRequest {
	if r.Context == "" {
		r.Context = DefaultContext
	}
	if r.Style == "" {
		r.Style = DefaultStyle
	}
	if r.Platform == "" {
		r.Platform = DefaultPlatform
	}
	return r
}

// PromptResult - 성공 시 prompt, 실패 시 error + fallback_prompt
type PromptResult struct {
	Success        bool   `json:"success"`
	Prompt         string `json:"prompt,omitempty"`
	UserInput      string `json:"user_input,omitempty"`
	Context        string `json:"context,omitempty"`
	Style          string `json:"style,omitempty"`
	WordCount      int    `json:"word_count,omitempty"`
	Error          string `json:"error,omitempty"`
	FallbackPrompt string `json:"fallback_prompt,omitempty"`
}

// EnhanceResult - enhance_prompt_with_details 결과
type EnhanceResult struct {
	Success        bool   `json:"success"`
	OriginalPrompt string `json:"original_prompt"`
	EnhancedPrompt string `json:"enhanced_prompt,omitempty"`
	WordCount      int    `json:"word_count,omitempty"`
	Error          string `json:"error,omitempty"`
}

// Assistant - LLM으로 이미지 프롬프트 작성/강화
// 생성은 매번 새로 호출하고, 강화 결과만 성공 시 캐시
type Assistant struct {
	writer Writer
	cache  *cache.Cache
}

// New - ttl 동안 같은 강화 요청은 캐시된 결과 반환
func New(writer Writer, ttl time.Duration) *Assistant {
	return &Assistant{
		writer: writer,
		cache:  cache.New(ttl, 2*ttl),
	}
}

// GeneratePrompt - 사용자 아이디어를 영화 포스터풍 Flux 프롬프트로
func (a *Assistant) GeneratePrompt(ctx context.Context, req PromptRequest) PromptResult {
	req = req.withDefaults()

	text, err := a.writer.Complete(ctx, prompt.GeneratorSystemPrompt,
		prompt.GeneratorUserMessage(req.UserInput, req.Context, req.Style, req.Platform))
	if err != nil {
		log.Printf("⚠️  [Assistant] Prompt generation failed: %v", err)
		return PromptResult{
			Success:        false,
			Error:          err.Error(),
			FallbackPrompt: prompt.FallbackPrompt(req.UserInput, req.Style),
		}
	}

	text = prompt.CapWords(text)
	result := PromptResult{
		Success:   true,
		Prompt:    text,
		UserInput: req.UserInput,
		Context:   req.Context,
		Style:     req.Style,
		WordCount: prompt.WordCount(text),
	}

	log.Printf("✅ [Assistant] Prompt generated (%d words)", result.WordCount)
	return result
}

// EnhancePrompt - 기본 프롬프트에 조명/구도/분위기 디테일 추가
func (a *Assistant) EnhancePrompt(ctx context.Context, basePrompt, enhancementType string) EnhanceResult {
	if enhancementType == "" {
		enhancementType = DefaultEnhancementType
	}
	key := strings.Join([]string{"enh", basePrompt, enhancementType}, "\x00")

	if cached, ok := a.cache.Get(key); ok {
		log.Printf("♻️  [Assistant] Enhancement cache hit (%s)", a.writer.Name())
		return cached.(EnhanceResult)
	}

	text, err := a.writer.Complete(ctx, prompt.EnhancerSystemPrompt,
		prompt.EnhancerUserMessage(basePrompt, enhancementType))
	if err != nil {
		log.Printf("⚠️  [Assistant] Prompt enhancement failed: %v", err)
		return EnhanceResult{
			Success:        false,
			Error:          err.Error(),
			OriginalPrompt: basePrompt,
		}
	}

	text = prompt.CapWords(text)
	result := EnhanceResult{
		Success:        true,
		OriginalPrompt: basePrompt,
		EnhancedPrompt: text,
		WordCount:      prompt.WordCount(text),
	}
	a.cache.SetDefault(key, result)
	return result
}
