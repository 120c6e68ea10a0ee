package common

import (
	"strconv"
	"strings"
)

// ParsePositiveInt parses a positive query value, returning fallback when it is absent or
// invalid and clamping to max when max > 0.
func ParsePositiveInt(value string, fallback, max int) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return fallback
	}
	if max > 0 && parsed > max {
		return max
	}
	return parsed
}
