package utils

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg" // JPEG 디코더 등록
	"image/png"
	"log"
	"math"
	"strings"

	_ "github.com/kolesa-team/go-webp/decoder" // WebP 디코더 등록
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
	"github.com/nfnt/resize"
)

// 콘택트 시트 최대 너비
const maxSheetWidth = 2048

// PadBase64 - 길이가 4의 배수가 되도록 '=' 패딩 추가
func PadBase64(s string) string {
	s = strings.TrimSpace(s)
	if rem := len(s) % 4; rem != 0 {
		s += strings.Repeat("=", 4-rem)
	}
	return s
}

// DecodeBase64Image - base64 문자열을 이미지 바이너리로 디코딩 (패딩 보정 + 이미지 검증)
func DecodeBase64Image(b64 string) ([]byte, error) {
	b64 = PadBase64(b64)
	if b64 == "" {
		return nil, fmt.Errorf("empty image data")
	}

	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 image data: %w", err)
	}

	if _, _, err := ValidateImage(data); err != nil {
		return nil, err
	}
	return data, nil
}

// ValidateImage - 디코딩 가능한 이미지인지 확인하고 포맷과 크기 반환
func ValidateImage(data []byte) (string, image.Point, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", image.Point{}, fmt.Errorf("data is not a valid image: %w", err)
	}
	return format, image.Pt(cfg.Width, cfg.Height), nil
}

// ConvertImageToBase64 - 이미지 바이너리를 base64로 변환
func ConvertImageToBase64(imageData []byte) string {
	base64Str := base64.StdEncoding.EncodeToString(imageData)
	log.Printf("🔄 Image converted to base64: %d chars (preview: %s...)",
		len(base64Str),
		base64Str[:min(50, len(base64Str))])
	return base64Str
}

// ConvertPNGToWebP - PNG(또는 JPEG/WebP) 바이너리를 WebP로 변환
func ConvertPNGToWebP(pngData []byte, quality float32) ([]byte, error) {
	log.Printf("🔄 Converting PNG to WebP (quality: %.1f)", quality)

	img, _, err := image.Decode(bytes.NewReader(pngData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode PNG: %w", err)
	}

	options, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, quality)
	if err != nil {
		return nil, fmt.Errorf("failed to create WebP encoder options: %w", err)
	}

	var webpBuffer bytes.Buffer
	if err := webp.Encode(&webpBuffer, img, options); err != nil {
		return nil, fmt.Errorf("failed to encode WebP: %w", err)
	}

	webpData := webpBuffer.Bytes()
	log.Printf("✅ PNG converted to WebP: %d bytes → %d bytes", len(pngData), len(webpData))
	return webpData, nil
}

// ResizeToExact - 이미지를 정확히 width x height로 리사이즈 후 PNG 인코딩
// 이미 같은 크기면 원본 그대로 반환
func ResizeToExact(data []byte, width, height int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return data, nil
	}

	resized := resize.Resize(uint(width), uint(height), img, resize.Lanczos3)
	log.Printf("📐 Resized image %dx%d → %dx%d", b.Dx(), b.Dy(), width, height)
	return EncodePNG(resized)
}

// NormalizePNG - PNG가 아니면 PNG로 재인코딩
func NormalizePNG(data []byte) ([]byte, error) {
	format, _, err := ValidateImage(data)
	if err != nil {
		return nil, err
	}
	if format == "png" {
		return data, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s image: %w", format, err)
	}
	log.Printf("🔄 Re-encoding %s image as PNG", format)
	return EncodePNG(img)
}

// EncodePNG - image.Image를 PNG 바이너리로
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// MergeImages - 여러 이미지를 Grid 방식으로 병합 (패키지 콘택트 시트용)
func MergeImages(images [][]byte) ([]byte, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("no images to merge")
	}

	// 이미지 디코드 (WebP, PNG, JPEG 자동 감지)
	decodedImages := []image.Image{}
	for i, imgData := range images {
		img, _, err := image.Decode(bytes.NewReader(imgData))
		if err != nil {
			log.Printf("⚠️  Failed to decode image %d: %v", i, err)
			continue
		}
		decodedImages = append(decodedImages, img)
	}

	if len(decodedImages) == 0 {
		return nil, fmt.Errorf("no valid images to merge")
	}

	numImages := len(decodedImages)
	cols := int(math.Ceil(math.Sqrt(float64(numImages))))
	rows := int(math.Ceil(float64(numImages) / float64(cols)))

	// 각 셀의 최대 너비/높이 계산
	maxCellWidth := 0
	maxCellHeight := 0
	for _, img := range decodedImages {
		bounds := img.Bounds()
		maxCellWidth = max(maxCellWidth, bounds.Dx())
		maxCellHeight = max(maxCellHeight, bounds.Dy())
	}

	merged := image.NewRGBA(image.Rect(0, 0, cols*maxCellWidth, rows*maxCellHeight))

	for idx, img := range decodedImages {
		row := idx / cols
		col := idx % cols

		bounds := img.Bounds()
		// 중앙 정렬
		xOffset := col*maxCellWidth + (maxCellWidth-bounds.Dx())/2
		yOffset := row*maxCellHeight + (maxCellHeight-bounds.Dy())/2

		draw.Draw(merged,
			image.Rect(xOffset, yOffset, xOffset+bounds.Dx(), yOffset+bounds.Dy()),
			img, bounds.Min, draw.Src)
	}

	var sheet image.Image = merged
	if merged.Bounds().Dx() > maxSheetWidth {
		// 높이 0 → 비율 유지
		sheet = resize.Resize(maxSheetWidth, 0, merged, resize.Bilinear)
	}

	log.Printf("✅ Merged %d images into %dx%d grid", numImages, rows, cols)
	return EncodePNG(sheet)
}
