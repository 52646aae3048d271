package studio

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"

	"ai-marketing-content-creator/modules/broker"
	"ai-marketing-content-creator/modules/common/utils"
	"ai-marketing-content-creator/modules/toolserver"
)

// 패키지 zip 안의 고정 파일명
const (
	manifestName     = "manifest.json"
	contactSheetName = "contact_sheet.png"
)

// Package - 저장된 이미지들을 매니페스트와 함께 zip으로 묶음. (zip 바이트, 파일명)
func (s *Service) Package(ctx context.Context, req PackageRequest) ([]byte, string, error) {
	if !s.broker.IsConnected() {
		return nil, "", broker.ErrNotConnected
	}
	if len(req.Files) == 0 {
		return nil, "", errors.New("no images selected for the package")
	}

	items := make([]map[string]any, 0, len(req.Files))
	for _, name := range req.Files {
		items = append(items, map[string]any{
			"prompt":   s.promptFor(name),
			"metadata": map[string]any{"source_file": name},
		})
	}

	args := map[string]any{"image_data_list": items}
	if req.Name != "" {
		args["package_name"] = req.Name
	}

	payload, ok := s.call(ctx, toolserver.ToolCreateImagePackage, args, "package", ReportTimeout)
	if !ok {
		return nil, "", fmt.Errorf("create_image_package failed: %s", payload)
	}

	var info toolserver.PackageInfo
	if err := json.Unmarshal([]byte(payload), &info); err != nil {
		return nil, "", fmt.Errorf("invalid package manifest: %w", err)
	}
	if len(info.Images) != len(req.Files) {
		return nil, "", fmt.Errorf("manifest lists %d images, expected %d", len(info.Images), len(req.Files))
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	sources := make([][]byte, 0, len(req.Files))
	for i, entry := range info.Images {
		data, err := s.readAsset(req.Files[i])
		if err != nil {
			return nil, "", err
		}
		if err := writeZipEntry(zw, entry.Filename, data); err != nil {
			return nil, "", err
		}
		sources = append(sources, data)
	}

	manifest, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := writeZipEntry(zw, manifestName, manifest); err != nil {
		return nil, "", err
	}

	if sheet, err := utils.MergeImages(sources); err != nil {
		log.Printf("⚠️  [Studio] Contact sheet skipped: %v", err)
	} else if err := writeZipEntry(zw, contactSheetName, sheet); err != nil {
		return nil, "", err
	}

	if err := zw.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish zip: %w", err)
	}

	log.Printf("📦 [Studio] Package %s created: %d images, %d bytes", info.PackageName, len(info.Images), buf.Len())
	return buf.Bytes(), info.PackageName + ".zip", nil
}

func (s *Service) readAsset(name string) ([]byte, error) {
	rc, err := s.store.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

func writeZipEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("failed to add %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}
