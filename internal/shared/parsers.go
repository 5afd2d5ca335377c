package shared

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

var durationPattern = regexp.MustCompile(`^(\d+)\s*(d|h|m|s)$`)

// ParseDuration parses a duration string with support for days
// (e.g., "30d", "24h") into a time.Duration.
// A special value of "0" is allowed and returns 0 duration (disabling the check).
func ParseDuration(durationStr string) (time.Duration, error) {
	trimmedStr := strings.TrimSpace(durationStr)
	if trimmedStr == "0" {
		return 0, nil
	}

	matches := durationPattern.FindStringSubmatch(trimmedStr)
	if len(matches) < 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, durationStr)
	}

	value, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, fmt.Errorf("%w: bad number %q", ErrInvalidDuration, matches[1])
	}
	if value == 0 {
		return 0, nil
	}

	switch matches[2] {
	case "d":
		return time.Duration(value) * 24 * time.Hour, nil
	case "h":
		return time.Duration(value) * time.Hour, nil
	case "m":
		return time.Duration(value) * time.Minute, nil
	default:
		return time.Duration(value) * time.Second, nil
	}
}

// ParseSize parses a byte size such as "500MB" or "2GiB". SI and IEC units are
// both accepted. "0" disables the check.
func ParseSize(sizeStr string) (uint64, error) {
	trimmedStr := strings.TrimSpace(sizeStr)
	if trimmedStr == "0" {
		return 0, nil
	}
	size, err := humanize.ParseBytes(trimmedStr)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, sizeStr)
	}
	return size, nil
}
