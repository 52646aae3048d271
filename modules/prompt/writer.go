package prompt

import (
	"fmt"
	"strings"
)

// 프롬프트 길이 제한 (Flux 권장)
const (
	MaxPromptWords      = 200
	truncatedWordCount  = 190
	minSentenceCutIndex = 100
)

// GeneratorSystemPrompt - 사용자 요청을 영화 포스터풍 프롬프트로 바꾸는 시스템 프롬프트
const GeneratorSystemPrompt = `You are an expert prompt engineer specializing in creating detailed, cinematic prompts for Flux AI image generation.

Your prompts should be like movie poster descriptions - highly detailed, vivid, and cinematic. Study these examples:

GOOD EXAMPLES:
- "minimal poster featuring multiple hands coming out of frame holding a globe as the center subject. there is a miniature world on top of the globe, with happy miniature people and lush green trees. the word 'EARTH' appears above the main subject, with a luxurious, impactful font. the backdrop features a minimalistic galaxy background with glowing stars. the main subject is well lit and the poster is vividly colorful."

- "A high-energy, cinematic movie poster capturing an intense, high-stakes race between Sonic the Hedgehog and a cheetah, set against the vast African savannah at sunset. The poster features bold, dramatic lighting, with the golden glow of the setting sun casting long shadows as both competitors blur across the landscape, dust swirling behind them."

KEY REQUIREMENTS:
1. Be extremely detailed and descriptive
2. Include specific lighting details (dramatic lighting, golden glow, well lit, etc.)
3. Describe the composition and framing
4. Add cinematic and poster-like qualities
5. Include color palette descriptions
6. Mention text placement if relevant
7. Add atmospheric details (mist, smoke, glowing elements)
8. Keep under 200 words but pack in maximum detail
9. Use vivid, cinematic language
10. Focus on visual storytelling

Generate prompts that sound like professional movie poster or advertisement descriptions.`

// EnhancerSystemPrompt - 기본 프롬프트에 시각적 디테일을 더하는 시스템 프롬프트
const EnhancerSystemPrompt = `You are an expert at enhancing image prompts with rich visual details. Take the basic prompt and transform it into a highly detailed, cinematic description like a movie poster or professional advertisement.

Add elements like:
- Specific lighting (dramatic, golden glow, well lit, ethereal light)
- Composition details (center subject, background elements, framing)
- Atmospheric elements (mist, smoke, glowing stars, dust swirling)
- Color palette descriptions
- Texture and material details
- Cinematic qualities and mood
- Professional photography/poster qualities

Keep the enhanced prompt under 200 words but extremely detailed.`

// GeneratorUserMessage - 프롬프트 생성 요청 메시지
func GeneratorUserMessage(userInput, context, style, platform string) string {
	var b strings.Builder
	b.WriteString("Create a detailed, cinematic prompt for Flux AI based on:\n\n")
	b.WriteString(fmt.Sprintf("User Request: %s\n", userInput))
	b.WriteString(fmt.Sprintf("Context: %s \n", context))
	b.WriteString(fmt.Sprintf("Style: %s\n", style))
	b.WriteString(fmt.Sprintf("Platform: %s\n\n", platform))
	b.WriteString("Make it sound like a professional movie poster description with rich visual details, specific lighting, composition, and atmospheric elements. Keep it under 200 words but extremely detailed and vivid.")
	return b.String()
}

// EnhancerUserMessage - 프롬프트 강화 요청 메시지
func EnhancerUserMessage(basePrompt, enhancementType string) string {
	var b strings.Builder
	b.WriteString("Enhance this basic prompt with rich visual details:\n\n")
	b.WriteString(fmt.Sprintf("Basic Prompt: %s\n", basePrompt))
	b.WriteString(fmt.Sprintf("Enhancement Type: %s\n\n", enhancementType))
	b.WriteString("Transform it into a detailed, cinematic description with specific lighting, composition, atmosphere, and visual storytelling elements.")
	return b.String()
}

// FallbackPrompt - LLM 호출 실패 시 사용할 기본 프롬프트
func FallbackPrompt(userInput, style string) string {
	return fmt.Sprintf("Cinematic %s style image of %s, dramatic lighting, high detail, professional composition, vivid colors", style, userInput)
}

// WordCount - 공백 기준 단어 수
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// CapWords - 200단어 초과 시 190단어로 자르고 마지막 문장 끝에서 정리
// 마지막 마침표가 100번째 바이트 이전이면 원문을 그대로 둔다
func CapWords(text string) string {
	words := strings.Fields(text)
	if len(words) <= MaxPromptWords {
		return text
	}

	truncated := strings.Join(words[:truncatedWordCount], " ")
	lastPeriod := strings.LastIndex(truncated, ".")
	if lastPeriod > minSentenceCutIndex {
		return truncated[:lastPeriod+1]
	}
	return text
}
