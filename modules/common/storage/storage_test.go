package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestLocalStore_SaveOpen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	store, err := NewLocalStore(dir)
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	asset, err := store.Save(context.Background(), "generated_1.png", []byte("png-bytes"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if asset.LocalPath != filepath.Join(dir, "generated_1.png") || asset.Size != 9 {
		t.Fatalf("asset=%+v", asset)
	}

	rc, err := store.Open("generated_1.png")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "png-bytes" {
		t.Fatalf("data=%q", data)
	}
}

func TestLocalStore_RejectsTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"", "..", "../x.png", "a/b.png", `a\b.png`, "."} {
		if _, err := store.Save(context.Background(), name, []byte("x")); err == nil {
			t.Errorf("Save(%q) should fail", name)
		}
		if _, err := store.Open(name); err == nil {
			t.Errorf("Open(%q) should fail", name)
		}
	}
}

type fakeRecorder struct {
	mu    sync.Mutex
	paths []string
}

func (f *fakeRecorder) CreateAssetRecord(_ context.Context, localName, filePath string, fileSize int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths = append(f.paths, localName+"|"+filePath)
	return int64(len(f.paths)), nil
}

func fakeWebP(data []byte, _ float32) ([]byte, error) {
	return append([]byte("RIFF"), data...), nil
}

func TestSupabaseStore_UploadsAndRecords(t *testing.T) {
	var gotPath, gotAuth, gotType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"Key":"ok"}`))
	}))
	defer srv.Close()

	local, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	rec := &fakeRecorder{}
	store := NewSupabaseStore(local, rec, srv.URL+"/", "service-key", "assets", fakeWebP)

	asset, err := store.Save(context.Background(), "variation_1_99.png", []byte("png"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if !strings.HasPrefix(gotPath, "/storage/v1/object/assets/generated-images/") || !strings.HasSuffix(gotPath, "/variation_1_99.webp") {
		t.Fatalf("upload path=%q", gotPath)
	}
	if gotAuth != "Bearer service-key" || gotType != "image/webp" || gotBody != "RIFFpng" {
		t.Fatalf("auth=%q type=%q body=%q", gotAuth, gotType, gotBody)
	}
	if !strings.HasSuffix(asset.RemotePath, "variation_1_99.webp") {
		t.Fatalf("RemotePath=%q", asset.RemotePath)
	}
	if len(rec.paths) != 1 || !strings.HasPrefix(rec.paths[0], "variation_1_99.png|generated-images/") {
		t.Fatalf("recorded=%v", rec.paths)
	}
	if _, err := os.Stat(asset.LocalPath); err != nil {
		t.Fatalf("local copy missing: %v", err)
	}
}

func TestSupabaseStore_UploadFailureKeepsLocalCopy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bucket not found", http.StatusNotFound)
	}))
	defer srv.Close()

	local, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	rec := &fakeRecorder{}
	store := NewSupabaseStore(local, rec, srv.URL, "k", "missing", fakeWebP)

	asset, err := store.Save(context.Background(), "generated_2.png", []byte("png"))
	if err != nil {
		t.Fatalf("Save should succeed with local copy, got %v", err)
	}
	if asset.RemotePath != "" {
		t.Fatalf("RemotePath=%q, want empty", asset.RemotePath)
	}
	if len(rec.paths) != 0 {
		t.Fatalf("no record expected on failed upload")
	}

	if _, _, err := store.UploadImageToStorage(context.Background(), "x.png", []byte("png")); err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected 404 upload error, got %v", err)
	}
}
