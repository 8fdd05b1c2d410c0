package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParseRate(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"", 0},
		{"garbage", 0},
		{"-5MiB/s", 0},
		{"1048576", 1048576},
		{"500KiB/s", 500 * 1024},
		{"500kb/s", 500 * 1024},
		{"2MiB/s", 2 * 1024 * 1024},
		{"1.5MiB/s", 1536 * 1024},
		{"1GiB", 1 << 30},
		{"100B/s", 100},
	}
	for _, tt := range tests {
		if got := parseRate(tt.in); got != tt.want {
			t.Errorf("parseRate(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSplitURLs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "single",
			args: []string{"https://d-s.io/e/abc"},
			want: []string{"https://d-s.io/e/abc"},
		},
		{
			name: "comma separated",
			args: []string{"https://d-s.io/e/abc,https://d-s.io/e/def"},
			want: []string{"https://d-s.io/e/abc", "https://d-s.io/e/def"},
		},
		{
			name: "mixed with spaces and empties",
			args: []string{"https://d-s.io/e/abc, ", "https://d-s.io/d/ghi"},
			want: []string{"https://d-s.io/e/abc", "https://d-s.io/d/ghi"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitURLs(tt.args); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitURLs(%v) = %v, want %v", tt.args, got, tt.want)
			}
		})
	}
}

func TestPrepareOutputPath(t *testing.T) {
	t.Run("single url passes through", func(t *testing.T) {
		got, err := prepareOutputPath("video.mp4", 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "video.mp4" {
			t.Errorf("got %q, want video.mp4", got)
		}
	})

	t.Run("multi url creates directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "videos")
		got, err := prepareOutputPath(dir, 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != dir {
			t.Errorf("got %q, want %q", got, dir)
		}
		fi, err := os.Stat(dir)
		if err != nil || !fi.IsDir() {
			t.Errorf("expected %q to be a directory", dir)
		}
	})

	t.Run("multi url file path uses parent dir", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "out")
		got, err := prepareOutputPath(filepath.Join(base, "video.mp4"), 2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != base {
			t.Errorf("got %q, want %q", got, base)
		}
	})
}

func TestHumanBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
		{3 * 1024 * 1024 * 1024, "3.0 GiB"},
	}
	for _, tt := range tests {
		if got := humanBytes(tt.in); got != tt.want {
			t.Errorf("humanBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
