package penalty

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// MaxCount caps parsed counts so oversized entries stay representable.
const MaxCount = math.MaxInt32

// SanitizeDevices converts a device-count entry to a count.
// Empty or non-numeric entries yield 0, as do negative numbers.
func SanitizeDevices(raw string) int {
	n, ok := parseCount(raw)
	if !ok || n < 0 {
		return 0
	}
	return n
}

// SanitizeViolators converts a violator-count entry to a count.
// Empty, non-numeric, or entries below one yield 1.
func SanitizeViolators(raw string) int {
	n, ok := parseCount(raw)
	if !ok || n < 1 {
		return 1
	}
	return n
}

// parseCount parses a numeric entry, truncating any fraction toward zero.
func parseCount(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return clampCount(n), true
	}
	// Out-of-range exponents come back as ±Inf with ErrRange and clamp like
	// any other oversized entry; a literal "Inf" or "NaN" is malformed.
	f, err := strconv.ParseFloat(s, 64)
	switch {
	case errors.Is(err, strconv.ErrRange):
	case err != nil, math.IsNaN(f), math.IsInf(f, 0):
		return 0, false
	}
	f = math.Trunc(f)
	if f > MaxCount {
		return MaxCount, true
	}
	if f < -MaxCount {
		return -MaxCount, true
	}
	return int(f), true
}

func clampCount(n int) int {
	if n > MaxCount {
		return MaxCount
	}
	if n < -MaxCount {
		return -MaxCount
	}
	return n
}
