package main

import (
	"strconv"
	"strings"
)

// parseRate converts a human rate string like "2MiB/s", "500KiB/s" or
// "1048576" into bytes per second. Invalid input returns 0 (unlimited).
func parseRate(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	s = strings.TrimSuffix(strings.ToLower(s), "/s")

	mult := int64(1)
	switch {
	case strings.HasSuffix(s, "gib"), strings.HasSuffix(s, "gb"):
		mult = 1 << 30
		s = strings.TrimSuffix(strings.TrimSuffix(s, "gib"), "gb")
	case strings.HasSuffix(s, "mib"), strings.HasSuffix(s, "mb"):
		mult = 1 << 20
		s = strings.TrimSuffix(strings.TrimSuffix(s, "mib"), "mb")
	case strings.HasSuffix(s, "kib"), strings.HasSuffix(s, "kb"):
		mult = 1 << 10
		s = strings.TrimSuffix(strings.TrimSuffix(s, "kib"), "kb")
	case strings.HasSuffix(s, "b"):
		s = strings.TrimSuffix(s, "b")
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 {
		return 0
	}
	return int64(v * float64(mult))
}
