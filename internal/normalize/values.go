package normalize

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/gyeh/dropoff/internal/model"
)

var multiSpace = regexp.MustCompile(`\s+`)

// Category collapses inner whitespace and substitutes model.UnknownCategory
// for a null cell. Case is preserved.
func Category(v string, ok bool) string {
	if !ok {
		return model.UnknownCategory
	}
	s := multiSpace.ReplaceAllString(strings.TrimSpace(v), " ")
	if s == "" {
		return model.UnknownCategory
	}
	return s
}

// Gender maps raw labels onto Male, Female or Other.
func Gender(v string, ok bool) string {
	switch strings.ToLower(Category(v, ok)) {
	case "m", "male":
		return "Male"
	case "f", "female":
		return "Female"
	default:
		return "Other"
	}
}

// ParseNumber parses a decimal cell, tolerating a leading currency sign and
// thousands separators ("$1,250.50").
func ParseNumber(v string) (float64, error) {
	s := strings.TrimSpace(v)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a finite number")
	}
	return f, nil
}

// ParseCount parses an integer cell. Integral decimals such as "3.0" are accepted.
func ParseCount(v string) (int64, error) {
	if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
		return n, nil
	}
	f, err := ParseNumber(v)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("not an integer")
	}
	return int64(f), nil
}

// ParseFlag coerces a binary cell to 0 or 1.
func ParseFlag(v string) (int64, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "1.0", "true", "t", "yes", "y":
		return 1, nil
	case "0", "0.0", "false", "f", "no", "n":
		return 0, nil
	}
	return 0, fmt.Errorf("not a binary flag")
}

// ClampMax caps n at max; there is no floor.
func ClampMax(n, max int64) int64 {
	if n > max {
		return max
	}
	return n
}
