package platform

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var byteSizePattern = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)\s*([kKmMgG]?[bB]?)?\s*$`)

// ParseBytes parses a byte size string like "4MB", "500KB", "2GB"
func ParseBytes(s string) (int64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}

	matches := byteSizePattern.FindStringSubmatch(s)
	if matches == nil {
		return 0, fmt.Errorf("invalid size: %s", s)
	}

	val, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, err
	}

	multiplier := int64(1)
	switch strings.ToLower(matches[2]) {
	case "k", "kb":
		multiplier = 1024
	case "m", "mb":
		multiplier = 1024 * 1024
	case "g", "gb":
		multiplier = 1024 * 1024 * 1024
	}

	size := val * float64(multiplier)
	if size >= math.MaxInt64 {
		return 0, fmt.Errorf("size too large: %s", s)
	}
	return int64(size), nil
}
