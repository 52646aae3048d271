package modalflux

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ai-marketing-content-creator/modules/common/model"
)

func TestGenerate(t *testing.T) {
	var got model.ImageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/generate" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"image_base64":"iVBORw0KGgo","generation_time":3.2}`))
	}))
	defer srv.Close()

	s := NewService(srv.URL + "/")
	b64, err := s.Generate(context.Background(), model.ImageRequest{Prompt: "a fox", Width: 1200, Height: 672})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if b64 != "iVBORw0KGgo" {
		t.Fatalf("b64=%q", b64)
	}
	if got.Prompt != "a fox" || got.Width != 1200 || got.Height != 672 || got.NumInferenceSteps != 50 {
		t.Fatalf("request=%+v", got)
	}
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"upstream error", http.StatusInternalServerError, "CUDA out of memory", "Modal API error (500): CUDA out of memory"},
		{"missing key", http.StatusOK, `{"error":"nope"}`, "No 'image_base64' key found in response"},
		{"bad json", http.StatusOK, `not json`, "failed to parse Modal response"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := NewService(srv.URL).Generate(context.Background(), model.ImageRequest{Prompt: "x"})
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("err=%v, want %q", err, tc.wantErr)
			}
		})
	}

	if _, err := NewService("").Generate(context.Background(), model.ImageRequest{Prompt: "x"}); err == nil {
		t.Fatalf("expected error without base URL")
	}
}

func TestHealth(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("path=%s", r.URL.Path)
		}
		w.Write([]byte(`{"status":"healthy"}`))
	}))
	defer healthy.Close()

	if got := NewService(healthy.URL).Health(context.Background()); got != `Modal API is healthy: {"status":"healthy"}` {
		t.Fatalf("Health=%q", got)
	}

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()

	if got := NewService(down.URL).Health(context.Background()); got != "Modal API returned status 503" {
		t.Fatalf("Health=%q", got)
	}

	down.Close()
	if got := NewService(down.URL).Health(context.Background()); !strings.HasPrefix(got, "Modal API health check failed: ") {
		t.Fatalf("Health=%q", got)
	}
}
