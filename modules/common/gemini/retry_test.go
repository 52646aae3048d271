package gemini

import (
	"errors"
	"testing"

	"google.golang.org/genai"
)

func TestIs429Error(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("Error 429, Message: Resource has been exhausted"), true},
		{errors.New("Rate Limit exceeded"), true},
		{errors.New("Quota exceeded for metric"), true},
		{errors.New("400 invalid argument"), false},
	}
	for _, tc := range tests {
		if got := is429Error(tc.err); got != tc.want {
			t.Errorf("is429Error(%v)=%v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestNewClientRequiresKeys(t *testing.T) {
	if _, err := NewClient(nil); err == nil {
		t.Fatalf("expected error without keys")
	}
}

func TestResponseHelpers(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: nil},
			{Content: &genai.Content{Parts: []*genai.Part{
				{Text: "hello "},
				{InlineData: &genai.Blob{MIMEType: "image/png", Data: []byte{1, 2, 3}}},
				{Text: "world"},
			}}},
		},
	}
	if got := FirstText(resp); got != "hello world" {
		t.Fatalf("FirstText=%q", got)
	}
	img, err := FirstImage(resp)
	if err != nil || len(img) != 3 {
		t.Fatalf("FirstImage=%v, %v", img, err)
	}
	if _, err := FirstImage(&genai.GenerateContentResponse{}); err == nil {
		t.Fatalf("expected error for response without image")
	}
	if FirstText(nil) != "" {
		t.Fatalf("FirstText(nil) should be empty")
	}
}
