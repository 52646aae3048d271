package prompt

import (
	"fmt"
	"math/rand"
	"strings"
)

// 배치 생성 제한
const (
	MaxVariations     = 5
	DefaultVariations = 3
	VariationMixed    = "mixed"
)

// VariationStrategies - A/B 테스트용 변형 전략 (순서 중요: 앞의 2개가 mixed 풀에 들어감)
var VariationStrategies = map[string][]string{
	"color_schemes": {
		"with warm colors (reds, oranges, yellows)",
		"with cool colors (blues, greens, purples)",
		"with bold, high-contrast colors",
		"with muted, pastel colors",
		"monochromatic color scheme",
	},
	"composition_styles": {
		"centered composition with symmetrical balance",
		"rule of thirds composition with dynamic flow",
		"minimalist composition with lots of white space",
		"busy, detailed composition with multiple elements",
		"close-up, focused composition",
	},
	"emotional_tones": {
		"energetic and exciting mood",
		"calm and peaceful atmosphere",
		"professional and trustworthy feel",
		"fun and playful vibe",
		"luxurious and premium aesthetic",
	},
	"visual_styles": {
		"photorealistic style",
		"illustrated/graphic design style",
		"vintage/retro aesthetic",
		"modern/contemporary look",
		"artistic/creative approach",
	},
	"lighting_moods": {
		"bright, well-lit scene",
		"dramatic lighting with shadows",
		"soft, diffused lighting",
		"golden hour warm lighting",
		"studio lighting setup",
	},
}

// strategyOrder - map 순회 순서가 랜덤이므로 mixed 풀 구성 순서를 고정
var strategyOrder = []string{
	"color_schemes",
	"composition_styles",
	"emotional_tones",
	"visual_styles",
	"lighting_moods",
}

// CreatorVariations - 콘텐츠 크리에이터용 변형
var CreatorVariations = map[string][]string{
	"social_media": {
		"Instagram-optimized with bold text overlay space",
		"TikTok-style with vertical focus and trending elements",
		"LinkedIn professional with corporate aesthetic",
		"YouTube thumbnail with clickable visual hierarchy",
		"Twitter-friendly with clear, readable elements",
	},
	"engagement_hooks": {
		"with eye-catching focal point in center",
		"with contrasting element to grab attention",
		"with human faces or eyes for connection",
		"with bright colors that pop in feeds",
		"with intriguing visual question or mystery",
	},
	"brand_positioning": {
		"premium/luxury brand positioning",
		"affordable/accessible brand feel",
		"innovative/cutting-edge brand image",
		"trustworthy/established brand look",
		"fun/approachable brand personality",
	},
}

var fallbackVariations = []string{
	"with vibrant, attention-grabbing colors",
	"with professional, clean aesthetic",
	"with bold, dramatic composition",
}

// NormalizeCount - 변형 개수 보정 (0 이하는 0, 최대 5)
func NormalizeCount(count int) int {
	if count <= 0 {
		return 0
	}
	if count > MaxVariations {
		return MaxVariations
	}
	return count
}

// MixedPool - 각 전략의 앞 2개 + engagement hook 앞 2개
func MixedPool() []string {
	pool := make([]string, 0, len(strategyOrder)*2+2)
	for _, name := range strategyOrder {
		pool = append(pool, VariationStrategies[name][:2]...)
	}
	pool = append(pool, CreatorVariations["engagement_hooks"][:2]...)
	return pool
}

// SelectVariations - 변형 타입에 따라 변형 문구 선택
func SelectVariations(variationType string, count int, rng *rand.Rand) []string {
	count = NormalizeCount(count)

	if variationType == VariationMixed {
		pool := MixedPool()
		n := min(count, len(pool))
		selected := make([]string, 0, n)
		for _, idx := range rng.Perm(len(pool))[:n] {
			selected = append(selected, pool[idx])
		}
		return selected
	}

	if list, ok := VariationStrategies[variationType]; ok {
		return head(list, count)
	}
	if list, ok := CreatorVariations[variationType]; ok {
		return head(list, count)
	}
	return head(fallbackVariations, count)
}

func head(list []string, n int) []string {
	if n > len(list) {
		n = len(list)
	}
	return append([]string(nil), list[:n]...)
}

// VariationPrompt - "<prompt>, <variation>"
func VariationPrompt(basePrompt, variation string) string {
	return fmt.Sprintf("%s, %s", basePrompt, variation)
}

// purposeRules - 순서대로 처음 매칭되는 규칙 사용
var purposeRules = []struct {
	keywords []string
	purpose  string
}{
	{[]string{"warm colors", "cool colors"}, "Test color psychology impact on engagement"},
	{[]string{"centered", "rule of thirds"}, "Test composition impact on visual flow"},
	{[]string{"energetic", "calm"}, "Test emotional response and brand perception"},
	{[]string{"Instagram", "TikTok"}, "Test platform-specific optimization"},
	{[]string{"premium", "affordable"}, "Test brand positioning and target audience appeal"},
	{[]string{"eye-catching", "contrasting"}, "Test attention-grabbing effectiveness"},
}

// TestingPurpose - 변형 문구가 무엇을 테스트하는지
func TestingPurpose(variation string) string {
	for _, rule := range purposeRules {
		for _, kw := range rule.keywords {
			if strings.Contains(variation, kw) {
				return rule.purpose
			}
		}
	}
	return "Test visual style preference"
}

var testingStrategies = map[string]string{
	"mixed":              "Comprehensive A/B test across multiple variables to identify best overall approach",
	"color_schemes":      "Test how different colors affect engagement and emotional response",
	"composition_styles": "Test how layout affects visual hierarchy and user attention",
	"emotional_tones":    "Test which mood resonates best with your target audience",
	"social_media":       "Test platform-specific optimizations for maximum reach",
	"engagement_hooks":   "Test attention-grabbing elements for better click-through rates",
	"brand_positioning":  "Test how different brand feels affect audience perception",
}

// TestingStrategy - 변형 타입별 테스트 전략 설명
func TestingStrategy(variationType string) string {
	if s, ok := testingStrategies[variationType]; ok {
		return s
	}
	return "Test different approaches to optimize content performance"
}

// StrategyDescription - UI 전략 안내 카드
type StrategyDescription struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	UseCase     string `json:"use_case"`
}

var strategyDescriptions = map[string]StrategyDescription{
	"mixed": {
		Title:       "Mixed Strategy Testing",
		Description: "Tests multiple variables (colors, layout, mood) to find overall best approach",
		UseCase:     "Best for comprehensive optimization when you're not sure what to test first",
	},
	"color_schemes": {
		Title:       "Color Psychology Testing",
		Description: "Tests how different color schemes affect emotional response and engagement",
		UseCase:     "Great for brand content, product launches, and emotional marketing",
	},
	"composition_styles": {
		Title:       "Layout & Composition Testing",
		Description: "Tests different visual arrangements and focal points",
		UseCase:     "Perfect for optimizing visual hierarchy and user attention flow",
	},
	"emotional_tones": {
		Title:       "Emotional Tone Testing",
		Description: "Tests different moods and feelings to see what resonates with your audience",
		UseCase:     "Ideal for brand personality and audience connection optimization",
	},
	"social_media": {
		Title:       "Platform Optimization Testing",
		Description: "Tests platform-specific elements and styles",
		UseCase:     "Essential for multi-platform content strategies",
	},
	"engagement_hooks": {
		Title:       "Attention-Grabbing Testing",
		Description: "Tests different ways to capture and hold viewer attention",
		UseCase:     "Critical for improving reach and stopping scroll behavior",
	},
	"brand_positioning": {
		Title:       "Brand Positioning Testing",
		Description: "Tests how different brand personalities affect audience perception",
		UseCase:     "Important for brand development and target audience alignment",
	},
}

// StrategyInfo - 알 수 없는 타입은 mixed 설명으로 대체
func StrategyInfo(variationType string) StrategyDescription {
	if info, ok := strategyDescriptions[variationType]; ok {
		return info
	}
	return strategyDescriptions[VariationMixed]
}

// RenderStrategyInfo - 전략 안내 markdown
func RenderStrategyInfo(variationType string) string {
	info := StrategyInfo(variationType)
	return fmt.Sprintf("**💡 Current Strategy:** %s\n\n**What this tests:** %s\n\n**Best for:** %s\n",
		info.Title, info.Description, info.UseCase)
}
