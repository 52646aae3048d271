package prompt

import (
	"math/rand"
	"strings"
	"testing"
)

func TestFillTemplate(t *testing.T) {
	out, err := FillTemplate("product_hero", map[string]string{"product": "sneaker", "background": "marble"})
	if err != nil {
		t.Fatalf("FillTemplate: %v", err)
	}
	if !strings.Contains(out, "featuring sneaker as the center subject against a marble backdrop") {
		t.Fatalf("unexpected fill: %s", out)
	}
	if strings.Contains(out, "{") {
		t.Fatalf("placeholder left in %s", out)
	}

	if _, err := FillTemplate("product_hero", map[string]string{"product": "sneaker"}); err == nil || !strings.Contains(err.Error(), "{background}") {
		t.Fatalf("expected missing background error, got %v", err)
	}
	if _, err := FillTemplate("nope", nil); err == nil {
		t.Fatalf("expected unknown template error")
	}
}

func TestSizePresets(t *testing.T) {
	generation := map[string]string{
		"instagram_post":    "1080x1080",
		"instagram_story":   "1080x1920",
		"twitter_post":      "1200x672",
		"linkedin_post":     "1200x1200",
		"facebook_cover":    "1200x632",
		"youtube_thumbnail": "1280x720",
	}
	delivery := map[string]string{
		"instagram_post":    "1080x1080",
		"instagram_story":   "1080x1920",
		"twitter_post":      "1200x675",
		"linkedin_post":     "1200x1200",
		"facebook_cover":    "1200x630",
		"youtube_thumbnail": "1280x720",
	}

	if len(SizePresets) != len(generation) || len(PlatformSizes) != len(delivery) {
		t.Fatalf("presets=%d platform sizes=%d", len(SizePresets), len(PlatformSizes))
	}
	for _, name := range PlatformNames {
		if got := SizePresets[name].String(); got != generation[name] {
			t.Fatalf("%s generation size=%s, want %s", name, got, generation[name])
		}
		if got := PlatformSizes[name].String(); got != delivery[name] {
			t.Fatalf("%s delivery size=%s, want %s", name, got, delivery[name])
		}
	}
}

func TestApplyStyle(t *testing.T) {
	got, ok := ApplyStyle("a red car", "tech")
	if !ok {
		t.Fatalf("tech style missing")
	}
	if !strings.HasPrefix(got, "a red car, futuristic neon lighting") {
		t.Fatalf("ApplyStyle=%q", got)
	}
	if _, ok := ApplyStyle("a red car", "gothic"); ok {
		t.Fatalf("unknown style should not apply")
	}
	if n := len(StyleNames()); n != len(StyleModifiers) {
		t.Fatalf("StyleNames has %d entries, modifiers %d", n, len(StyleModifiers))
	}
}

func TestSelectVariations(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	tests := []struct {
		name  string
		vtype string
		count int
		want  []string
	}{
		{"strategy head", "lighting_moods", 2, []string{"bright, well-lit scene", "dramatic lighting with shadows"}},
		{"creator head", "social_media", 1, []string{"Instagram-optimized with bold text overlay space"}},
		{"fallback", "unknown", 5, fallbackVariations},
		{"capped", "color_schemes", 9, VariationStrategies["color_schemes"]},
		{"zero selects none", "visual_styles", 0, nil},
		{"negative selects none", "visual_styles", -2, nil},
		{"mixed zero selects none", VariationMixed, 0, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := SelectVariations(tc.vtype, tc.count, rng)
			if strings.Join(got, "|") != strings.Join(tc.want, "|") {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSelectVariations_MixedSamplesPoolWithoutRepeats(t *testing.T) {
	pool := MixedPool()
	if len(pool) != 12 {
		t.Fatalf("mixed pool size=%d, want 12", len(pool))
	}
	inPool := map[string]bool{}
	for _, p := range pool {
		inPool[p] = true
	}

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		got := SelectVariations(VariationMixed, 5, rng)
		if len(got) != 5 {
			t.Fatalf("len=%d", len(got))
		}
		seen := map[string]bool{}
		for _, v := range got {
			if !inPool[v] {
				t.Fatalf("%q not in mixed pool", v)
			}
			if seen[v] {
				t.Fatalf("duplicate variation %q", v)
			}
			seen[v] = true
		}
	}
}

func TestTestingPurpose(t *testing.T) {
	tests := map[string]string{
		"with warm colors (reds, oranges, yellows)":   "Test color psychology impact on engagement",
		"rule of thirds composition with dynamic flow": "Test composition impact on visual flow",
		"calm and peaceful atmosphere":                 "Test emotional response and brand perception",
		"TikTok-style with vertical focus":             "Test platform-specific optimization",
		"affordable/accessible brand feel":             "Test brand positioning and target audience appeal",
		"with contrasting element to grab attention":   "Test attention-grabbing effectiveness",
		"photorealistic style":                         "Test visual style preference",
	}
	for variation, want := range tests {
		if got := TestingPurpose(variation); got != want {
			t.Errorf("TestingPurpose(%q)=%q, want %q", variation, got, want)
		}
	}
}

func TestStrategyInfo(t *testing.T) {
	if got := StrategyInfo("color_schemes").Title; got != "Color Psychology Testing" {
		t.Fatalf("title=%q", got)
	}
	if got := StrategyInfo("lighting_moods").Title; got != "Mixed Strategy Testing" {
		t.Fatalf("unknown type should fall back to mixed, got %q", got)
	}
	md := RenderStrategyInfo("engagement_hooks")
	if !strings.Contains(md, "**Best for:** Critical for improving reach") {
		t.Fatalf("render=%q", md)
	}
	if TestingStrategy("visual_styles") != "Test different approaches to optimize content performance" {
		t.Fatalf("unexpected default testing strategy")
	}
}

func TestCapWords(t *testing.T) {
	short := "a short prompt."
	if CapWords(short) != short {
		t.Fatalf("short text changed")
	}

	// 201 단어, 150번째 단어 끝에 마침표
	words := make([]string, 201)
	for i := range words {
		words[i] = "word"
	}
	words[149] = "end."
	long := strings.Join(words, " ")
	got := CapWords(long)
	if !strings.HasSuffix(got, "end.") {
		t.Fatalf("expected cut after sentence, got suffix %q", got[len(got)-10:])
	}
	if WordCount(got) != 150 {
		t.Fatalf("word count=%d, want 150", WordCount(got))
	}

	// 마침표가 앞쪽에만 있으면 원문 유지
	words[149] = "word"
	words[2] = "early."
	long = strings.Join(words, " ")
	if CapWords(long) != long {
		t.Fatalf("text with early period should be kept")
	}
}

func TestFallbackPrompt(t *testing.T) {
	want := "Cinematic luxury style image of a watch, dramatic lighting, high detail, professional composition, vivid colors"
	if got := FallbackPrompt("a watch", "luxury"); got != want {
		t.Fatalf("FallbackPrompt=%q", got)
	}
}
