package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/common"

	"github.com/dustin/go-humanize"
)

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseSize accepts plain byte counts and human units such as 10k, 4MiB or 1G
func parseSize(s string) (int64, error) {
	n, err := humanize.ParseBytes(strings.TrimSpace(s))
	if err != nil {
		return 0, common.ConfigError(common.ErrInvalidRange, "size %q: %v", s, err)
	}
	if n > math.MaxInt64 {
		return 0, common.ConfigError(common.ErrInvalidRange, "size %q: exceeds %d bytes", s, int64(math.MaxInt64))
	}
	return int64(n), nil
}

// parseTimeRef accepts an absolute timestamp or a duration counted back from
// now. Durations also take a "d" (day) or "w" (week) unit.
func parseTimeRef(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}

	d, err := parseAge(s)
	if err != nil {
		return time.Time{}, common.ConfigError(common.ErrInvalidRange, "time %q: expected a date or a duration like 2h, 3d, 1w", s)
	}
	return now.Add(-d), nil
}

func parseAge(s string) (time.Duration, error) {
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	unit := s[len(s)-1]
	if unit == 'd' || unit == 'w' {
		n, err := strconv.Atoi(s[:len(s)-1])
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		day := 24 * time.Hour
		if unit == 'w' {
			return time.Duration(n) * 7 * day, nil
		}
		return time.Duration(n) * day, nil
	}
	return time.ParseDuration(s)
}
