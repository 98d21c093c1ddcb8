package normalize

import (
	"strings"
	"time"

	"github.com/gyeh/dropoff/internal/model"
)

// ParseLogTimestamp parses an event timestamp in model.LogTimestampLayout.
// An empty string yields nil with no error.
func ParseLogTimestamp(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(model.LogTimestampLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
