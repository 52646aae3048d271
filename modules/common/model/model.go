package model

import (
	"context"
	"time"
)

// 기본 생성 파라미터
const (
	DefaultSteps  = 50
	DefaultWidth  = 1024
	DefaultHeight = 1024
)

// ImageRequest - 이미지 생성 요청 (Modal /generate 요청 바디와 동일)
type ImageRequest struct {
	Prompt            string `json:"prompt"`
	NumInferenceSteps int    `json:"num_inference_steps"`
	Width             int    `json:"width"`
	Height            int    `json:"height"`
}

// WithDefaults - 0 이하 값은 기본값으로 채움
func (r ImageRequest) WithDefaults() ImageRequest {
	if r.NumInferenceSteps <= 0 {
		r.NumInferenceSteps = DefaultSteps
	}
	if r.Width <= 0 {
		r.Width = DefaultWidth
	}
	if r.Height <= 0 {
		r.Height = DefaultHeight
	}
	return r
}

// Generator - 이미지 생성 백엔드 (Modal Flux / Gemini)
type Generator interface {
	// Generate 는 base64 PNG 문자열을 반환
	Generate(ctx context.Context, req ImageRequest) (string, error)
	// Health 는 사람이 읽는 상태 문자열
	Health(ctx context.Context) string
}

// HistoryEntry - 생성 기록 한 건
type HistoryEntry struct {
	Prompt      string `json:"prompt"`
	Timestamp   string `json:"timestamp"`
	Dimensions  string `json:"dimensions"`
	ImageBase64 string `json:"image_base64"`
}

// Asset - 저장된 생성 이미지
type Asset struct {
	Name       string    `json:"name"`
	LocalPath  string    `json:"local_path"`
	RemotePath string    `json:"remote_path,omitempty"`
	Size       int64     `json:"size"`
	CreatedAt  time.Time `json:"created_at"`
}
