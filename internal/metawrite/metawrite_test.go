package metawrite

import (
	"testing"
)

func TestWritableFormats(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"a.jpg", true},
		{"a.png", true},
		{"a.heic", false},
		{"a.mp4", false},
	}
	for _, tc := range cases {
		if got := writable(tc.path); got != tc.want {
			t.Errorf("writable(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestWritableIsCaseInsensitive(t *testing.T) {
	if !writable("a.JPEG") {
		t.Error("expected writable to ignore extension case")
	}
}

func TestDMSConversion(t *testing.T) {
	got := dms(45.5)
	want := "45 deg 30' 0.0000\""
	if got != want {
		t.Errorf("dms(45.5) = %q, want %q", got, want)
	}
}
