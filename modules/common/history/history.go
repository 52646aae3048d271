package history

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"ai-marketing-content-creator/modules/common/model"
)

// 기록에 남기는 base64 미리보기 길이
const previewLength = 100

// Store - 생성 기록 저장소
type Store interface {
	Append(ctx context.Context, entry model.HistoryEntry) error
	// Recent 는 마지막 limit개를 오래된 순으로 반환 (limit <= 0 이면 전체)
	Recent(ctx context.Context, limit int) ([]model.HistoryEntry, int, error)
}

// NewEntry - 생성 결과로 기록 항목 생성 (base64는 앞 100자 + "...")
func NewEntry(prompt string, width, height int, imageBase64 string, now time.Time) model.HistoryEntry {
	preview := imageBase64
	if len(preview) > previewLength {
		preview = preview[:previewLength]
	}
	return model.HistoryEntry{
		Prompt:      prompt,
		Timestamp:   now.Format(time.RFC3339),
		Dimensions:  fmt.Sprintf("%dx%d", width, height),
		ImageBase64: preview + "...",
	}
}

// MemoryStore - 프로세스 메모리 기록 (툴 서버 수명 동안 유지)
type MemoryStore struct {
	mu      sync.RWMutex
	entries []model.HistoryEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(_ context.Context, entry model.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *MemoryStore) Recent(_ context.Context, limit int) ([]model.HistoryEntry, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := len(s.entries)
	start := 0
	if limit > 0 && limit < total {
		start = total - limit
	}
	out := make([]model.HistoryEntry, total-start)
	copy(out, s.entries[start:])
	return out, total, nil
}

// AppendLogged - 기록 실패는 생성 결과에 영향 주지 않음
func AppendLogged(ctx context.Context, store Store, entry model.HistoryEntry) {
	if store == nil {
		return
	}
	if err := store.Append(ctx, entry); err != nil {
		log.Printf("⚠️  [History] Failed to append entry: %v", err)
	}
}
