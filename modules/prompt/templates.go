package prompt

import (
	"fmt"
	"sort"
	"strings"
)

// Size - 이미지 크기 (width x height)
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// String - "WxH" 형식
func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// SizePresets - 툴 서버가 실제 생성에 사용하는 크기
var SizePresets = map[string]Size{
	"instagram_post":    {1080, 1080},
	"instagram_story":   {1080, 1920},
	"twitter_post":      {1200, 672},
	"linkedin_post":     {1200, 1200},
	"facebook_cover":    {1200, 632},
	"youtube_thumbnail": {1280, 720},
}

// PlatformSizes - 플랫폼별 최종 전달 크기 (UI에 표시되는 크기)
var PlatformSizes = map[string]Size{
	"instagram_post":    {1080, 1080},
	"instagram_story":   {1080, 1920},
	"twitter_post":      {1200, 675},
	"linkedin_post":     {1200, 1200},
	"facebook_cover":    {1200, 630},
	"youtube_thumbnail": {1280, 720},
}

// PlatformNames - UI 체크박스 순서
var PlatformNames = []string{
	"instagram_post",
	"instagram_story",
	"twitter_post",
	"linkedin_post",
	"facebook_cover",
	"youtube_thumbnail",
}

// PromptTemplates - 마케팅 용도별 프롬프트 템플릿 ({placeholder} 치환)
var PromptTemplates = map[string]string{
	"product_hero": `A professional, cinematic product photography composition featuring {product} as the center subject against a {background} backdrop. The scene is illuminated with dramatic studio lighting creating golden highlights and deep shadows. The {product} appears to float with ethereal light emanating from beneath, surrounded by subtle glowing particles and atmospheric mist. The composition uses cinematic depth of field with the product razor-sharp in focus while the background fades into artistic bokeh. Luxurious materials and textures are emphasized with photorealistic detail, showcasing premium quality and craftsmanship.`,

	"social_announcement": `A high-energy, cinematic social media poster announcing {announcement}. The composition features bold, dramatic lighting with vibrant neon glows and electric energy crackling through the frame. Dynamic typography with the announcement text appears in luxurious, impactful metallic font that seems to emerge from the composition. The backdrop features a futuristic cityscape at night with towering skyscrapers surrounded by colorful LED light strips. Atmospheric elements include flowing energy streams, glowing particles, and lens flares that create a sense of excitement and urgency. The entire poster pulses with kinetic energy and modern sophistication.`,

	"blog_header": `An elegant, cinematic header image for a blog post about {topic}. The composition features ethereal lighting with soft golden hour illumination casting dramatic shadows across the scene. In the foreground, symbolic elements related to {topic} are artistically arranged with professional depth of field. The background dissolves into atmospheric mist with subtle bokeh and floating light particles. The color palette consists of warm golds, deep purples, and rich earth tones. The entire composition exudes intellectual sophistication and visual storytelling, with magazine-quality photography aesthetics.`,

	"team_photo": `A cinematic corporate team photograph showing {description} in a modern, luxurious office environment. The scene is lit with dramatic architectural lighting, featuring large floor-to-ceiling windows with natural light streaming in, creating beautiful rim lighting around the subjects. The team is positioned dynamically across multiple levels of the space, with some standing and others seated in premium furniture. The background showcases sleek modern architecture with glass, steel, and wood elements. Professional color grading gives the image a premium, magazine-worthy aesthetic with rich contrasts and warm undertones.`,

	"event_banner": `A spectacular, cinematic event banner for {event} with movie poster-level production value. The composition features epic scale with dramatic perspective and atmospheric depth. Bold, metallic event typography dominates the upper portion with luxurious, impactful font treatment that appears to be forged from light itself. The scene is filled with dynamic elements: swirling energy, floating particles, dramatic spotlights cutting through atmospheric haze, and architectural elements that frame the composition. The color palette uses deep blues, electric purples, and gold accents to create excitement and grandeur.`,

	"testimonial_bg": `An abstract, cinematic background for testimonial content featuring {mood} aesthetic. The composition uses flowing, organic shapes with ethereal lighting effects creating depth and movement. Subtle geometric patterns emerge from atmospheric mist while soft, diffused lighting creates beautiful gradients across the frame. The scene includes floating elements like delicate particles, soft bokeh, and gentle light rays that add visual interest without overwhelming the testimonial text. The color palette is sophisticated and calming, using gradient transitions between complementary colors to create emotional resonance.`,

	"poster_style": `A cinematic movie poster composition featuring {subject} with dramatic, high-impact visual storytelling. The scene is dominated by theatrical lighting with bold contrasts between light and shadow. The main subject is positioned using classical composition rules with supporting elements arranged to guide the eye. Atmospheric elements include swirling mist, dramatic sky, glowing magical effects, and rich environmental details. The composition features layered depth with foreground, midground, and background elements all contributing to the narrative. Typography space is reserved for impactful text placement with the overall mood being {mood}.`,

	"luxury_product": `An ultra-premium product showcase featuring {product} in a luxurious, museum-quality presentation. The item sits on pristine surfaces with perfect reflections, surrounded by architectural elements like marble, gold accents, and crystal. Dramatic lighting creates spectacular highlights and deep shadows, emphasizing every detail and texture. The background features elegant negative space with subtle gradient lighting and floating particles that suggest exclusivity. The entire composition exudes opulence and sophistication, with photorealistic detail that showcases premium craftsmanship and materials.`,
}

// TemplateNames - 템플릿 이름 목록 (정렬)
func TemplateNames() []string {
	names := make([]string, 0, len(PromptTemplates))
	for name := range PromptTemplates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FillTemplate - 템플릿의 {key}를 values로 치환
// 값이 없는 placeholder가 남아 있으면 에러
func FillTemplate(name string, values map[string]string) (string, error) {
	tmpl, ok := PromptTemplates[name]
	if !ok {
		return "", fmt.Errorf("template %q not found", name)
	}

	pairs := make([]string, 0, len(values)*2)
	for k, v := range values {
		pairs = append(pairs, "{"+k+"}", v)
	}
	out := strings.NewReplacer(pairs...).Replace(tmpl)

	if start := strings.Index(out, "{"); start >= 0 {
		if end := strings.Index(out[start:], "}"); end > 0 {
			return "", fmt.Errorf("template %q: missing value for %s", name, out[start:start+end+1])
		}
	}
	return out, nil
}
