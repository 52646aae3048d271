package studio

import (
	"context"
	"time"

	"ai-marketing-content-creator/modules/broker"
)

// 요청별 대기 시간
const (
	StyleTimeout  = 50 * time.Second
	ImageTimeout  = 300 * time.Second
	PromptTimeout = 60 * time.Second
	ReportTimeout = 60 * time.Second
)

// 상태 메시지
const (
	MsgNotConnected       = "⚠️ MCP Server not connected. Please wait a few seconds and try again."
	MsgNotConnectedShort  = "⚠️ MCP Server not connected."
	MsgSocialNotConnected = "MCP Server not connected"
	MsgConnected          = "✅ **Connected to MCP Server** - Ready to generate!"
	MsgConnecting         = "🔄 Connecting to MCP server... (please wait)"
	MsgNoImages           = "No images generated"
)

// Requester - studio가 사용하는 브로커 기능
type Requester interface {
	IsConnected() bool
	Call(ctx context.Context, tool string, args map[string]any, prefix string, timeout time.Duration) (broker.Result, error)
	Tools() []string
	Stats() broker.Stats
}

// Image - 저장된 이미지 (UI 갤러리 항목)
type Image struct {
	Name  string `json:"name"`
	URL   string `json:"url"`
	Label string `json:"label,omitempty"`
}

// Output - UI 콜백 결과 (이미지 + 상태 메시지)
type Output struct {
	Images    []Image `json:"images"`
	Status    string  `json:"status"`
	Prompt    string  `json:"prompt,omitempty"`
	BatchData string  `json:"batch_data,omitempty"`
	Report    string  `json:"report,omitempty"`
}

// SingleRequest - POST /api/single
type SingleRequest struct {
	Prompt string `json:"prompt"`
	Steps  int    `json:"steps"`
	Style  string `json:"style"`
}

// BatchRequest - POST /api/batch
type BatchRequest struct {
	Prompt        string `json:"prompt"`
	VariationType string `json:"variation_type"`
	Count         int    `json:"count"`
	Steps         int    `json:"steps"`
}

// SocialRequest - POST /api/social
type SocialRequest struct {
	Prompt    string   `json:"prompt"`
	Platforms []string `json:"platforms"`
	Steps     int      `json:"steps"`
}

// AIPromptRequest - POST /api/ai-prompt
type AIPromptRequest struct {
	UserInput string `json:"user_input"`
	Context   string `json:"context"`
	Style     string `json:"style"`
	Platform  string `json:"platform"`
}

// ImproveRequest - POST /api/ai-prompt/improve
type ImproveRequest struct {
	CurrentPrompt string `json:"current_prompt"`
	Improvement   string `json:"improvement"`
}

// PromptImageRequest - POST /api/ai-prompt/image
type PromptImageRequest struct {
	Prompt string `json:"prompt"`
}

// ReportRequest - POST /api/ab-report
type ReportRequest struct {
	BatchData string `json:"batch_data"`
}

// PackageRequest - POST /api/package
type PackageRequest struct {
	Files []string `json:"files"`
	Name  string   `json:"name"`
}

// Template - GET /api/templates 항목
type Template struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// TemplateRequest - POST /api/templates/{name}
type TemplateRequest struct {
	Values map[string]string `json:"values"`
}

// Status - GET /api/status
type Status struct {
	Connected bool         `json:"connected"`
	Message   string       `json:"message"`
	Tools     []string     `json:"tools"`
	Stats     broker.Stats `json:"stats"`
}
