package valueobject

import (
	"fmt"
	"strings"
)

// RiskLevel is an immutable value object representing the risk bucket of a fraud probability.
type RiskLevel struct {
	value string
}

// Three-tier levels.
var (
	RiskLevelLow    = RiskLevel{value: "Low"}
	RiskLevelMedium = RiskLevel{value: "Medium"}
	RiskLevelHigh   = RiskLevel{value: "High"}
)

// Five-tier levels.
var (
	RiskLevelVeryLow     = RiskLevel{value: "VERY_LOW"}
	RiskLevelLowTier5    = RiskLevel{value: "LOW"}
	RiskLevelMediumTier5 = RiskLevel{value: "MEDIUM"}
	RiskLevelHighTier5   = RiskLevel{value: "HIGH"}
	RiskLevelVeryHigh    = RiskLevel{value: "VERY_HIGH"}
)

var allRiskLevels = []RiskLevel{
	RiskLevelLow, RiskLevelMedium, RiskLevelHigh,
	RiskLevelVeryLow, RiskLevelLowTier5, RiskLevelMediumTier5, RiskLevelHighTier5, RiskLevelVeryHigh,
}

// RiskLevelFromString reconstructs a RiskLevel from its string representation.
func RiskLevelFromString(s string) (RiskLevel, error) {
	for _, l := range allRiskLevels {
		if l.value == s {
			return l, nil
		}
	}
	return RiskLevel{}, fmt.Errorf("invalid risk level: %s", s)
}

// String returns the string representation.
func (r RiskLevel) String() string {
	return r.value
}

// IsZero returns true if the RiskLevel has not been set.
func (r RiskLevel) IsZero() bool {
	return r.value == ""
}

// Equal checks equality with another RiskLevel.
func (r RiskLevel) Equal(other RiskLevel) bool {
	return r.value == other.value
}

// IsHigh reports whether the level is one of the top buckets of either scheme.
func (r RiskLevel) IsHigh() bool {
	switch r {
	case RiskLevelHigh, RiskLevelHighTier5, RiskLevelVeryHigh:
		return true
	default:
		return false
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r RiskLevel) MarshalText() ([]byte, error) {
	return []byte(r.value), nil
}

// RiskScheme selects the thresholds used to bucket a fraud probability.
type RiskScheme string

const (
	// RiskSchemeThreeTier: <0.3 Low, <0.7 Medium, otherwise High.
	RiskSchemeThreeTier RiskScheme = "three_tier"
	// RiskSchemeFiveTier: <0.2 VERY_LOW, <0.4 LOW, <0.6 MEDIUM, <0.8 HIGH, otherwise VERY_HIGH.
	RiskSchemeFiveTier RiskScheme = "five_tier"
)

// RiskSchemeFromString parses a scheme name. The empty string selects the three-tier scheme.
func RiskSchemeFromString(s string) (RiskScheme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "three_tier", "3", "three":
		return RiskSchemeThreeTier, nil
	case "five_tier", "5", "five":
		return RiskSchemeFiveTier, nil
	default:
		return "", fmt.Errorf("invalid risk scheme: %q", s)
	}
}

// Classify maps a fraud probability to a RiskLevel. It is a monotonic step function.
func (s RiskScheme) Classify(probability float64) RiskLevel {
	if s == RiskSchemeFiveTier {
		switch {
		case probability < 0.2:
			return RiskLevelVeryLow
		case probability < 0.4:
			return RiskLevelLowTier5
		case probability < 0.6:
			return RiskLevelMediumTier5
		case probability < 0.8:
			return RiskLevelHighTier5
		default:
			return RiskLevelVeryHigh
		}
	}

	switch {
	case probability < 0.3:
		return RiskLevelLow
	case probability < 0.7:
		return RiskLevelMedium
	default:
		return RiskLevelHigh
	}
}

// String returns the scheme name.
func (s RiskScheme) String() string {
	return string(s)
}
