package prompt

// StyleModifiers - 브랜드 일관성을 위한 스타일 수식어
var StyleModifiers = map[string]string{
	"professional": `professional studio lighting, cinematic composition, dramatic shadows and highlights, premium materials and textures, photorealistic detail, magazine-quality photography, sophisticated color grading, architectural precision, corporate elegance, high-end commercial aesthetics`,

	"playful": `vibrant neon colors, electric energy crackling through the frame, dynamic movement and flow, glowing particles and magical elements, whimsical floating objects, rainbow light effects, kinetic energy, joyful atmosphere, colorful light strips and LED effects, fun and energetic composition`,

	"minimalist": `clean geometric composition, pristine white negative space, single dramatic light source, subtle shadows and highlights, elegant simplicity, floating elements with perfect spacing, monochromatic or limited color palette, architectural precision, zen-like tranquility, museum-quality presentation`,

	"luxury": `opulent materials like gold, marble, and crystal, dramatic chiaroscuro lighting, rich textures and reflections, premium craftsmanship details, sophisticated color palette of deep jewel tones, elegant architectural elements, museum-quality presentation, exclusive atmosphere, metallic accents and flowing fabrics`,

	"tech": `futuristic neon lighting with electric blue and cyan glows, holographic interfaces and digital elements, sleek metallic surfaces with perfect reflections, floating geometric shapes, matrix-style digital rain effects, cyberpunk aesthetic, glowing circuit patterns, high-tech laboratory environment, innovative and cutting-edge atmosphere`,

	"cinematic": `movie poster lighting with dramatic spotlights, atmospheric haze and volumetric fog, epic scale and perspective, rich color grading with deep contrasts, cinematic depth of field, theatrical composition, dramatic sky and environmental elements, professional film-quality aesthetics, storytelling through visual elements`,

	"mystical": `ethereal lighting with soft, magical glows, floating particles and sparkles, misty atmospheric effects, enchanted forest or temple environment, glowing runes and magical symbols, otherworldly color palette of purples and golds, mysterious shadows and light rays, fantasy movie aesthetic, ancient and magical atmosphere`,

	"editorial": `magazine-quality photography lighting, sophisticated composition following rule of thirds, professional color grading, high fashion aesthetic, dramatic contrasts, premium materials and styling, architectural or natural backgrounds, artistic depth of field, editorial sophistication, contemporary visual storytelling`,
}

var styleOrder = []string{
	"professional",
	"playful",
	"minimalist",
	"luxury",
	"tech",
	"cinematic",
	"mystical",
	"editorial",
}

// StyleNames - 사용 가능한 스타일 목록 (정의 순서)
func StyleNames() []string {
	return append([]string(nil), styleOrder...)
}

// ApplyStyle - "<prompt>, <modifier>" 반환
func ApplyStyle(basePrompt, style string) (string, bool) {
	modifier, ok := StyleModifiers[style]
	if !ok {
		return "", false
	}
	return basePrompt + ", " + modifier, true
}
