package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path"

	"github.com/supabase-community/supabase-go"
)

// 생성 에셋 메타데이터 테이블
const assetsTable = "marketing_assets"

// AssetRecord - marketing_assets 테이블 구조
type AssetRecord struct {
	AssetID     int64  `json:"asset_id,omitempty"`
	FileName    string `json:"file_name"`
	FilePath    string `json:"file_path"`
	FileSize    int64  `json:"file_size"`
	FileType    string `json:"file_type"`
	StorageType string `json:"storage_type"`
	LocalName   string `json:"local_name"`
}

type Client struct {
	supabase *supabase.Client
}

// NewClient - Database 클라이언트 생성
func NewClient(url, serviceKey string) (*Client, error) {
	supabaseClient, err := supabase.NewClient(url, serviceKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create Supabase client: %w", err)
	}

	return &Client{
		supabase: supabaseClient,
	}, nil
}

// CreateAssetRecord - marketing_assets 테이블에 레코드 생성, asset_id 반환
func (c *Client) CreateAssetRecord(ctx context.Context, localName, filePath string, fileSize int64) (int64, error) {
	log.Printf("💾 Creating asset record for: %s", filePath)

	insertData := AssetRecord{
		FileName:    path.Base(filePath),
		FilePath:    filePath,
		FileSize:    fileSize,
		FileType:    "image/webp",
		StorageType: "supabase",
		LocalName:   localName,
	}

	data, _, err := c.supabase.From(assetsTable).
		Insert(insertData, false, "", "representation", "").
		Execute()
	if err != nil {
		return 0, fmt.Errorf("failed to insert asset record: %w", err)
	}

	var records []AssetRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return 0, fmt.Errorf("failed to parse asset response: %w", err)
	}
	if len(records) == 0 {
		return 0, fmt.Errorf("no asset record returned")
	}

	log.Printf("✅ Asset record created: ID=%d", records[0].AssetID)
	return records[0].AssetID, nil
}
