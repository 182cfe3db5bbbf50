package aggregate

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownGranularity is returned when a granularity string cannot be parsed.
var ErrUnknownGranularity = errors.New("unknown granularity")

// Granularity selects the bucket size.
type Granularity string

const (
	Daily   Granularity = "daily"
	Weekly  Granularity = "weekly"
	Monthly Granularity = "monthly"
	Yearly  Granularity = "yearly"
)

var granularityAliases = map[string]Granularity{
	"daily":   Daily,
	"day":     Daily,
	"diario":  Daily,
	"weekly":  Weekly,
	"week":    Weekly,
	"semanal": Weekly,
	"monthly": Monthly,
	"month":   Monthly,
	"mensual": Monthly,
	"yearly":  Yearly,
	"year":    Yearly,
	"anual":   Yearly,
}

// ParseGranularity parses a granularity name. The Spanish names used by the
// admin views are accepted as aliases.
func ParseGranularity(s string) (Granularity, error) {
	g, ok := granularityAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownGranularity, s)
	}
	return g, nil
}

// IsValid reports whether g is one of the four supported granularities.
func (g Granularity) IsValid() bool {
	switch g {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

func (g Granularity) String() string {
	return string(g)
}
