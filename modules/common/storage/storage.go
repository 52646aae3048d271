package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ai-marketing-content-creator/modules/common/model"
)

// AssetStore - 생성 이미지 저장소
type AssetStore interface {
	Save(ctx context.Context, name string, pngData []byte) (model.Asset, error)
	Open(name string) (io.ReadCloser, error)
}

// LocalStore - OUTPUT_DIR 아래에 파일 저장
type LocalStore struct {
	dir string
}

// NewLocalStore - 디렉토리가 없으면 생성
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir %s: %w", dir, err)
	}
	return &LocalStore{dir: dir}, nil
}

// Dir - 저장 디렉토리
func (s *LocalStore) Dir() string {
	return s.dir
}

// resolve - 파일명만 허용 (경로 이동 차단)
func (s *LocalStore) resolve(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid asset name %q", name)
	}
	return filepath.Join(s.dir, name), nil
}

func (s *LocalStore) Save(_ context.Context, name string, pngData []byte) (model.Asset, error) {
	p, err := s.resolve(name)
	if err != nil {
		return model.Asset{}, err
	}
	if err := os.WriteFile(p, pngData, 0o644); err != nil {
		return model.Asset{}, fmt.Errorf("failed to write %s: %w", p, err)
	}

	log.Printf("💾 Saved image: %s (%d bytes)", p, len(pngData))
	return model.Asset{
		Name:      name,
		LocalPath: p,
		Size:      int64(len(pngData)),
		CreatedAt: time.Now(),
	}, nil
}

func (s *LocalStore) Open(name string) (io.ReadCloser, error) {
	p, err := s.resolve(name)
	if err != nil {
		return nil, err
	}
	return os.Open(p)
}

// AssetRecorder - 업로드된 에셋 메타데이터 기록 (database.Client)
type AssetRecorder interface {
	CreateAssetRecord(ctx context.Context, localName, filePath string, fileSize int64) (int64, error)
}

// SupabaseStore - 로컬 사본 + Supabase Storage WebP 업로드 + 메타데이터 행 삽입
type SupabaseStore struct {
	local         *LocalStore
	recorder      AssetRecorder
	baseURL       string
	serviceKey    string
	bucket        string
	httpClient    *http.Client
	convertToWebP func([]byte, float32) ([]byte, error)
}

// NewSupabaseStore - Supabase 에셋 저장소 생성
func NewSupabaseStore(local *LocalStore, recorder AssetRecorder, baseURL, serviceKey, bucket string, convertToWebP func([]byte, float32) ([]byte, error)) *SupabaseStore {
	return &SupabaseStore{
		local:         local,
		recorder:      recorder,
		baseURL:       strings.TrimRight(baseURL, "/"),
		serviceKey:    serviceKey,
		bucket:        bucket,
		httpClient:    &http.Client{Timeout: 60 * time.Second},
		convertToWebP: convertToWebP,
	}
}

// Save - 로컬 저장 후 업로드. 업로드 실패는 로그만 남기고 로컬 에셋 반환
func (s *SupabaseStore) Save(ctx context.Context, name string, pngData []byte) (model.Asset, error) {
	asset, err := s.local.Save(ctx, name, pngData)
	if err != nil {
		return model.Asset{}, err
	}

	remotePath, webpSize, err := s.UploadImageToStorage(ctx, name, pngData)
	if err != nil {
		log.Printf("⚠️  [Storage] Upload failed for %s: %v", name, err)
		return asset, nil
	}
	asset.RemotePath = remotePath

	if s.recorder != nil {
		if _, err := s.recorder.CreateAssetRecord(ctx, name, remotePath, webpSize); err != nil {
			log.Printf("⚠️  [Storage] Failed to record asset %s: %v", name, err)
		}
	}
	return asset, nil
}

func (s *SupabaseStore) Open(name string) (io.ReadCloser, error) {
	return s.local.Open(name)
}

// UploadImageToStorage - Supabase Storage에 이미지 업로드 (WebP 변환 포함)
func (s *SupabaseStore) UploadImageToStorage(ctx context.Context, name string, imageData []byte) (string, int64, error) {
	// PNG를 WebP로 변환 (quality: 90)
	webpData, err := s.convertToWebP(imageData, 90.0)
	if err != nil {
		return "", 0, fmt.Errorf("failed to convert PNG to WebP: %w", err)
	}

	fileName := strings.TrimSuffix(name, filepath.Ext(name)) + ".webp"
	filePath := fmt.Sprintf("generated-images/%s/%s", time.Now().Format("2006-01-02"), fileName)

	log.Printf("📤 Uploading WebP image to storage: %s", filePath)

	uploadURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, s.bucket, filePath)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, bytes.NewReader(webpData))
	if err != nil {
		return "", 0, fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("Content-Type", "image/webp")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("failed to upload image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return "", 0, fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, string(body))
	}

	webpSize := int64(len(webpData))
	log.Printf("✅ WebP image uploaded successfully: %s (%d bytes)", filePath, webpSize)
	return filePath, webpSize, nil
}
