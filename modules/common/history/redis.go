package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"ai-marketing-content-creator/modules/common/model"
)

// RedisStore - Redis 리스트 기반 기록 (RPUSH 순서 = 생성 순서)
type RedisStore struct {
	rdb *redis.Client
	key string
}

func NewRedisStore(rdb *redis.Client, key string) *RedisStore {
	return &RedisStore{rdb: rdb, key: key}
}

func (s *RedisStore) Append(ctx context.Context, entry model.HistoryEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal history entry: %w", err)
	}
	if err := s.rdb.RPush(ctx, s.key, data).Err(); err != nil {
		return fmt.Errorf("failed to push history entry: %w", err)
	}
	return nil
}

func (s *RedisStore) Recent(ctx context.Context, limit int) ([]model.HistoryEntry, int, error) {
	total, err := s.rdb.LLen(ctx, s.key).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read history length: %w", err)
	}

	start := int64(0)
	if limit > 0 {
		start = -int64(limit)
	}
	raw, err := s.rdb.LRange(ctx, s.key, start, -1).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read history: %w", err)
	}

	entries := make([]model.HistoryEntry, 0, len(raw))
	for _, item := range raw {
		var entry model.HistoryEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			log.Printf("⚠️  [History] Skipping malformed entry: %v", err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, int(total), nil
}
