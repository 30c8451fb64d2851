package helpers

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseKeyDuration parses a validity period typed by an admin. Plain numbers
// are days; "d", "m" and "y" suffixes select days, months (30d) and years (365d).
func ParseKeyDuration(input string) (time.Duration, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}

	mult := 24 * time.Hour
	switch {
	case strings.HasSuffix(s, "d"):
		s = strings.TrimSuffix(s, "d")
	case strings.HasSuffix(s, "m"):
		s = strings.TrimSuffix(s, "m")
		mult = 30 * 24 * time.Hour
	case strings.HasSuffix(s, "y"):
		s = strings.TrimSuffix(s, "y")
		mult = 365 * 24 * time.Hour
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", input, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %d", n)
	}
	return time.Duration(n) * mult, nil
}

// FormatExpiry renders a subscription expiry date the way it is shown to users.
func FormatExpiry(t time.Time) string {
	return t.Format("2006-01-02")
}
