package toolserver

import "ai-marketing-content-creator/modules/common/model"

// 툴 이름
const (
	ToolGeneratePrompt     = "generate_prompt_with_ai"
	ToolEnhancePrompt      = "enhance_prompt_with_details"
	ToolGenerateImage      = "generate_and_save_image"
	ToolSmartVariations    = "batch_generate_smart_variations"
	ToolABReport           = "generate_ab_test_report_template"
	ToolBatchImages        = "batch_generate_images"
	ToolSocialMediaSet     = "generate_social_media_set"
	ToolAddStyleModifier   = "add_style_modifier"
	ToolGenerationHistory  = "get_generation_history"
	ToolCreateImagePackage = "create_image_package"
	ToolHealthCheck        = "health_check"
)

// ServerName - MCP 서버 이름
const ServerName = "modal_flux_testing"

// VariationImage - 배치 변형 결과 한 장
type VariationImage struct {
	Index                int    `json:"index"`
	VariationDescription string `json:"variation_description"`
	FullPrompt           string `json:"full_prompt"`
	Dimensions           string `json:"dimensions"`
	ImageBase64          string `json:"image_base64"`
	TestingPurpose       string `json:"testing_purpose"`
}

// BatchResult - batch_generate_smart_variations 결과
type BatchResult struct {
	Images          []VariationImage `json:"images"`
	Count           int              `json:"count"`
	VariationType   string           `json:"variation_type"`
	TestingStrategy string           `json:"testing_strategy"`
}

// ReportResults - 수동 입력용 지표 (모두 0으로 시작)
type ReportResults struct {
	Impressions    int `json:"impressions"`
	EngagementRate int `json:"engagement_rate"`
	CTR            int `json:"ctr"`
	Saves          int `json:"saves"`
	Comments       int `json:"comments"`
	ConversionRate int `json:"conversion_rate"`
}

// ReportVariation - 리포트의 변형 한 줄
type ReportVariation struct {
	VariationID    string        `json:"variation_id"`
	Description    string        `json:"description"`
	TestingPurpose string        `json:"testing_purpose"`
	Results        ReportResults `json:"results"`
	Notes          string        `json:"notes"`
}

// ABReport - A/B 테스트 추적 템플릿
type ABReport struct {
	TestName                string            `json:"test_name"`
	TestDate                string            `json:"test_date"`
	VariationType           string            `json:"variation_type"`
	TestingStrategy         string            `json:"testing_strategy"`
	Variations              []ReportVariation `json:"variations"`
	MetricsToTrack          []string          `json:"metrics_to_track"`
	RecommendedTestDuration string            `json:"recommended_test_duration"`
	SampleSizeNeeded        string            `json:"sample_size_needed"`
}

// SocialImage - 플랫폼별 이미지
type SocialImage struct {
	Platform    string `json:"platform"`
	Size        [2]int `json:"size"`
	Resolution  string `json:"resolution"`
	ImageBase64 string `json:"image_base64"`
}

// SocialResult - generate_social_media_set 결과
type SocialResult struct {
	Results []SocialImage `json:"results"`
}

// StyleResult - add_style_modifier 결과 (성공 또는 error + available_styles)
type StyleResult struct {
	OriginalPrompt  string   `json:"original_prompt,omitempty"`
	EnhancedPrompt  string   `json:"enhanced_prompt,omitempty"`
	StyleApplied    string   `json:"style_applied,omitempty"`
	Error           string   `json:"error,omitempty"`
	AvailableStyles []string `json:"available_styles,omitempty"`
}

// HistoryResult - get_generation_history 결과
type HistoryResult struct {
	History          []model.HistoryEntry `json:"history"`
	TotalGenerations int                  `json:"total_generations"`
}

// PackageItem - create_image_package 입력 항목
type PackageItem struct {
	Prompt   string                 `json:"prompt"`
	Metadata map[string]interface{} `json:"metadata"`
}

// PackageImage - 패키지 매니페스트의 이미지 항목
type PackageImage struct {
	Filename string                 `json:"filename"`
	Prompt   string                 `json:"prompt"`
	Metadata map[string]interface{} `json:"metadata"`
}

// PackageInfo - create_image_package 결과
type PackageInfo struct {
	PackageName string         `json:"package_name"`
	CreatedAt   string         `json:"created_at"`
	TotalImages int            `json:"total_images"`
	Images      []PackageImage `json:"images"`
}
