package sanitize

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestToSafeFilename_Basics(t *testing.T) {
	got := ToSafeFilename("Hello:/\\*?\"<>| World", "mp4")
	if got != "Hello_ World.mp4" {
		t.Fatalf("got %q", got)
	}
}

func TestToSafeFilename_Defaults(t *testing.T) {
	got := ToSafeFilename("", "")
	if got != "video.mp4" {
		t.Fatalf("got %q", got)
	}
}

func TestToSafeFilename_Long(t *testing.T) {
	title := "a"
	for len(title) < 200 {
		title += "a"
	}
	got := ToSafeFilename(title, "mp4")
	if len(got) > 125 { // name(120)+.ext
		t.Fatalf("too long: %d", len(got))
	}
}

func TestToSafeFilename_LongMultibyte(t *testing.T) {
	title := strings.Repeat("видео", 50) // 250 runes, 500 bytes
	got := ToSafeFilename(title, "mp4")
	if !utf8.ValidString(got) {
		t.Fatalf("invalid UTF-8: %q", got)
	}
	base := strings.TrimSuffix(got, ".mp4")
	if n := utf8.RuneCountInString(base); n > MaxFilenameLength {
		t.Fatalf("rune count = %d, want <= %d", n, MaxFilenameLength)
	}
}

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`Some Movie (2024) | HD`, "Some Movie (2024)  HD"},
		{`a/b\c:d`, "abcd"},
		{"  spaced  ", "spaced"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CleanTitle(tt.in); got != tt.want {
			t.Errorf("CleanTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
