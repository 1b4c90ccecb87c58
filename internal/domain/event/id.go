package event

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatID renders a year-scoped event identifier such as 2025-0007.
func FormatID(year, seq int) string {
	return fmt.Sprintf("%04d-%04d", year, seq)
}

// ParseID splits an identifier into its year and sequence parts.
func ParseID(id string) (year, seq int, err error) {
	prefix, suffix, ok := strings.Cut(id, "-")
	if !ok || len(prefix) != 4 || len(suffix) < 4 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidEventID, id)
	}
	year, err = strconv.Atoi(prefix)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidEventID, id)
	}
	seq, err = strconv.Atoi(suffix)
	if err != nil || seq < 1 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidEventID, id)
	}
	return year, seq, nil
}

// NextID returns the identifier following latest in year's namespace.
// An empty latest starts the year at 0001.
func NextID(year int, latest string) (string, error) {
	if latest == "" {
		return FormatID(year, 1), nil
	}
	y, seq, err := ParseID(latest)
	if err != nil {
		return "", err
	}
	if y != year {
		return FormatID(year, 1), nil
	}
	return FormatID(year, seq+1), nil
}

// YearPrefix is the LIKE pattern matching every identifier issued in year.
func YearPrefix(year int) string {
	return fmt.Sprintf("%04d-%%", year)
}
