package toolserver

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"ai-marketing-content-creator/modules/assistant"
	"ai-marketing-content-creator/modules/common/history"
	"ai-marketing-content-creator/modules/common/model"
	"ai-marketing-content-creator/modules/prompt"
)

type fakeGenerator struct {
	mu       sync.Mutex
	requests []model.ImageRequest
	failOn   string
}

func (f *fakeGenerator) Generate(_ context.Context, req model.ImageRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.failOn != "" && strings.Contains(req.Prompt, f.failOn) {
		return "", errors.New("Modal API error (500): gpu busy")
	}
	return "b64:" + req.Prompt, nil
}

func (f *fakeGenerator) Health(context.Context) string { return "Modal API is healthy: ok" }

type echoWriter struct{}

func (echoWriter) Name() string { return "echo" }

func (echoWriter) Complete(_ context.Context, _, user string) (string, error) {
	if strings.Contains(user, "broken") {
		return "", errors.New("Mistral API error (503): unavailable")
	}
	return "Cinematic result.", nil
}

func newTestService(gen *fakeGenerator) (*Service, *history.MemoryStore) {
	store := history.NewMemoryStore()
	svc := NewService(assistant.New(echoWriter{}, time.Minute), gen, store, 0)
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC) }
	return svc, store
}

func TestGenerateImage(t *testing.T) {
	gen := &fakeGenerator{failOn: "explode"}
	svc, store := newTestService(gen)
	ctx := context.Background()

	b64, err := svc.GenerateImage(ctx, model.ImageRequest{Prompt: "a lamp"})
	if err != nil {
		t.Fatalf("GenerateImage: %v", err)
	}
	if b64 != "b64:a lamp" {
		t.Fatalf("b64=%q", b64)
	}
	if gen.requests[0].Width != 1024 || gen.requests[0].NumInferenceSteps != 50 {
		t.Fatalf("defaults not applied: %+v", gen.requests[0])
	}

	_, err = svc.GenerateImage(ctx, model.ImageRequest{Prompt: "explode"})
	if err == nil || err.Error() != "Error generating image: Modal API error (500): gpu busy" {
		t.Fatalf("err=%v", err)
	}

	entries, total, _ := store.Recent(ctx, 0)
	if total != 1 || entries[0].Prompt != "a lamp" || entries[0].Dimensions != "1024x1024" {
		t.Fatalf("history=%+v total=%d", entries, total)
	}
}

func TestSmartVariations_KeepsOrderAndSkipsFailures(t *testing.T) {
	gen := &fakeGenerator{failOn: "cool colors"}
	svc, _ := newTestService(gen)

	res, err := svc.SmartVariations(context.Background(), "a shoe", 3, "color_schemes", model.ImageRequest{Width: 1200, Height: 672, NumInferenceSteps: 20})
	if err != nil {
		t.Fatalf("SmartVariations: %v", err)
	}
	if res.Count != 2 || len(res.Images) != 2 {
		t.Fatalf("count=%d images=%d", res.Count, len(res.Images))
	}
	first, second := res.Images[0], res.Images[1]
	if first.Index != 0 || second.Index != 2 {
		t.Fatalf("indexes=%d,%d want 0,2", first.Index, second.Index)
	}
	if first.FullPrompt != "a shoe, with warm colors (reds, oranges, yellows)" {
		t.Fatalf("full prompt=%q", first.FullPrompt)
	}
	if first.Dimensions != "1200x672" || first.TestingPurpose != "Test color psychology impact on engagement" {
		t.Fatalf("first=%+v", first)
	}
	if res.TestingStrategy != prompt.TestingStrategy("color_schemes") || res.VariationType != "color_schemes" {
		t.Fatalf("result=%+v", res)
	}
	for _, r := range gen.requests {
		if r.NumInferenceSteps != 20 {
			t.Fatalf("steps not forwarded: %+v", r)
		}
	}
}

func TestBatchImages_MixedCappedAtFive(t *testing.T) {
	gen := &fakeGenerator{}
	svc, _ := newTestService(gen)

	res, err := svc.BatchImages(context.Background(), "a tent", 9, model.ImageRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Count != 5 || res.VariationType != "mixed" {
		t.Fatalf("count=%d type=%s", res.Count, res.VariationType)
	}
	pool := map[string]bool{}
	for _, v := range prompt.MixedPool() {
		pool[v] = true
	}
	for i, img := range res.Images {
		if img.Index != i || !pool[img.VariationDescription] {
			t.Fatalf("image %d=%+v", i, img)
		}
	}
}

func TestABReport(t *testing.T) {
	svc, _ := newTestService(&fakeGenerator{})

	batch := BatchResult{
		Images: []VariationImage{
			{Index: 0, VariationDescription: "with warm colors", TestingPurpose: "Test color psychology impact on engagement"},
			{Index: 2, VariationDescription: "monochromatic color scheme", TestingPurpose: "Test visual style preference"},
		},
		Count:           2,
		VariationType:   "color_schemes",
		TestingStrategy: "Test how different colors affect engagement and emotional response",
	}
	raw, _ := json.Marshal(batch)

	out, err := svc.ABReport(string(raw))
	if err != nil {
		t.Fatalf("ABReport: %v", err)
	}
	if !strings.Contains(out, "\n  \"test_name\": \"Content Variation A/B Test\"") {
		t.Fatalf("report should be indented JSON:\n%s", out)
	}

	var report ABReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatal(err)
	}
	if report.VariationType != "color_schemes" || report.TestDate != "2025-06-01T09:30:00Z" {
		t.Fatalf("report=%+v", report)
	}
	if len(report.Variations) != 2 || report.Variations[1].VariationID != "V3" || report.Variations[0].Notes != "" {
		t.Fatalf("variations=%+v", report.Variations)
	}
	if len(report.MetricsToTrack) != 6 || report.SampleSizeNeeded != "Minimum 1000 impressions per variation" {
		t.Fatalf("report=%+v", report)
	}

	empty, err := svc.ABReport(`{}`)
	if err != nil || !strings.Contains(empty, `"variation_type": "mixed"`) || !strings.Contains(empty, `"variations": []`) {
		t.Fatalf("empty report=%s err=%v", empty, err)
	}

	if _, err := svc.ABReport("not json"); err == nil {
		t.Fatalf("expected error for invalid JSON")
	}
}

func TestSocialMediaSet(t *testing.T) {
	gen := &fakeGenerator{failOn: "linkedin"}
	svc, _ := newTestService(gen)

	res, err := svc.SocialMediaSet(context.Background(), "a drink",
		[]string{"twitter_post", "myspace", "linkedin_post", "instagram_story"}, 30)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Results) != 2 {
		t.Fatalf("results=%+v", res.Results)
	}
	tw, ig := res.Results[0], res.Results[1]
	if tw.Platform != "twitter_post" || tw.Resolution != "1200x672" || tw.Size != [2]int{1200, 672} {
		t.Fatalf("twitter=%+v", tw)
	}
	if tw.ImageBase64 != "b64:a drink, optimized for twitter post" {
		t.Fatalf("twitter prompt=%q", tw.ImageBase64)
	}
	if ig.Platform != "instagram_story" || ig.Resolution != "1080x1920" {
		t.Fatalf("instagram=%+v", ig)
	}

	none, _ := svc.SocialMediaSet(context.Background(), "x", nil, 0)
	raw, _ := json.Marshal(none)
	if string(raw) != `{"results":[]}` {
		t.Fatalf("empty set JSON=%s", raw)
	}
}

func TestAddStyleModifier(t *testing.T) {
	svc, _ := newTestService(&fakeGenerator{})

	ok := svc.AddStyleModifier("a chair", "minimalist")
	if ok.Error != "" || ok.StyleApplied != "minimalist" || !strings.HasPrefix(ok.EnhancedPrompt, "a chair, clean geometric composition") {
		t.Fatalf("result=%+v", ok)
	}

	bad := svc.AddStyleModifier("a chair", "baroque")
	if bad.Error != "Style 'baroque' not found" || len(bad.AvailableStyles) != 8 || bad.AvailableStyles[0] != "professional" {
		t.Fatalf("result=%+v", bad)
	}
	raw, _ := json.Marshal(bad)
	if strings.Contains(string(raw), "enhanced_prompt") {
		t.Fatalf("error result should not carry enhanced_prompt: %s", raw)
	}
}

func TestGenerationHistory(t *testing.T) {
	svc, _ := newTestService(&fakeGenerator{})
	ctx := context.Background()

	empty, err := svc.GenerationHistory(ctx, 10)
	if err != nil || empty.History == nil || empty.TotalGenerations != 0 {
		t.Fatalf("empty=%+v err=%v", empty, err)
	}

	for _, p := range []string{"a", "b", "c"} {
		svc.GenerateImage(ctx, model.ImageRequest{Prompt: p})
	}
	res, _ := svc.GenerationHistory(ctx, 2)
	if res.TotalGenerations != 3 || len(res.History) != 2 || res.History[0].Prompt != "b" {
		t.Fatalf("history=%+v", res)
	}
	if !strings.HasSuffix(res.History[0].ImageBase64, "...") {
		t.Fatalf("history should store preview only: %q", res.History[0].ImageBase64)
	}
}

func TestCreateImagePackage(t *testing.T) {
	svc, _ := newTestService(&fakeGenerator{})

	info := svc.CreateImagePackage([]PackageItem{
		{Prompt: "one", Metadata: map[string]interface{}{"platform": "twitter_post"}},
		{Prompt: "two"},
	}, "")
	if info.PackageName != "marketing_assets" || info.TotalImages != 2 || info.CreatedAt != "2025-06-01T09:30:00Z" {
		t.Fatalf("info=%+v", info)
	}
	if info.Images[1].Filename != "marketing_assets_2.png" || info.Images[1].Metadata == nil {
		t.Fatalf("images=%+v", info.Images)
	}
}

func TestHealthCheck(t *testing.T) {
	svc, _ := newTestService(&fakeGenerator{})
	if got := svc.HealthCheck(context.Background()); got != "Modal API is healthy: ok" {
		t.Fatalf("HealthCheck=%q", got)
	}
}

func TestGeneratePromptPassThrough(t *testing.T) {
	svc, _ := newTestService(&fakeGenerator{})

	ok := svc.GeneratePrompt(context.Background(), assistant.PromptRequest{UserInput: "a kite"})
	if !ok.Success || ok.Prompt != "Cinematic result." {
		t.Fatalf("ok=%+v", ok)
	}
	failed := svc.GeneratePrompt(context.Background(), assistant.PromptRequest{UserInput: "broken kite"})
	if failed.Success || !strings.HasPrefix(failed.FallbackPrompt, "Cinematic professional style image of broken kite") {
		t.Fatalf("failed=%+v", failed)
	}
}
