package history

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestNewEntry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	e := NewEntry("a cat", 1200, 672, strings.Repeat("A", 250), now)

	if e.Dimensions != "1200x672" {
		t.Fatalf("Dimensions=%q", e.Dimensions)
	}
	if e.Timestamp != "2025-06-01T12:00:00Z" {
		t.Fatalf("Timestamp=%q", e.Timestamp)
	}
	if len(e.ImageBase64) != 103 || !strings.HasSuffix(e.ImageBase64, "...") {
		t.Fatalf("ImageBase64 preview=%q", e.ImageBase64)
	}

	short := NewEntry("a cat", 1, 1, "abc", now)
	if short.ImageBase64 != "abc..." {
		t.Fatalf("short preview=%q", short.ImageBase64)
	}
}

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()
	now := time.Now()

	entries, total, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent on empty store: %v", err)
	}
	if total != 0 || len(entries) != 0 {
		t.Fatalf("empty store returned %d/%d", len(entries), total)
	}

	for _, p := range []string{"one", "two", "three", "four"} {
		if err := store.Append(ctx, NewEntry(p, 1024, 1024, "b64", now)); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	entries, total, err = store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if total != 4 {
		t.Fatalf("total=%d, want 4", total)
	}
	if len(entries) != 2 || entries[0].Prompt != "three" || entries[1].Prompt != "four" {
		t.Fatalf("Recent(2)=%+v", entries)
	}

	entries, _, _ = store.Recent(ctx, 0)
	if len(entries) != 4 || entries[0].Prompt != "one" {
		t.Fatalf("Recent(0) should return all oldest-first, got %+v", entries)
	}

	entries, _, _ = store.Recent(ctx, 50)
	if len(entries) != 4 {
		t.Fatalf("Recent(50) len=%d", len(entries))
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	exerciseStore(t, NewRedisStore(rdb, "test:history"))

	if items, _ := mr.List("test:history"); len(items) != 4 {
		t.Fatalf("redis list length=%d", len(items))
	}
}

func TestRedisStore_SkipsMalformed(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	mr.RPush("h", "{not json")
	store := NewRedisStore(rdb, "h")
	if err := store.Append(context.Background(), NewEntry("ok", 1, 1, "x", time.Now())); err != nil {
		t.Fatal(err)
	}

	entries, total, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 || len(entries) != 1 || entries[0].Prompt != "ok" {
		t.Fatalf("entries=%+v total=%d", entries, total)
	}
}
