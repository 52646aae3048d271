package nanobanana

import "testing"

func TestAspectRatio(t *testing.T) {
	tests := []struct {
		w, h int
		want string
	}{
		{1024, 1024, "1:1"},
		{1080, 1920, "9:16"},
		{1280, 720, "16:9"},
		{1200, 672, "16:9"},
		{1200, 632, "16:9"},
		{1200, 900, "4:3"},
		{2520, 1080, "21:9"},
		{0, 100, "1:1"},
	}
	for _, tc := range tests {
		if got := AspectRatio(tc.w, tc.h); got != tc.want {
			t.Errorf("AspectRatio(%d,%d)=%s, want %s", tc.w, tc.h, got, tc.want)
		}
	}
}
