package canon

import (
	"fmt"
	"strconv"
	"strings"
)

// Decimal is a fixed-precision amount: Minor units of Precision decimal
// places. All core arithmetic operates on Minor as a plain int64;
// Decimal exists only to render amounts as the canonical decimal
// strings §4.2 requires in signed payloads. Floating-point is never
// used to represent money anywhere in this codebase.
type Decimal struct {
	Minor     int64
	Precision int32
}

// NewDecimal constructs a Decimal from its minor-unit integer value.
func NewDecimal(minor int64, precision int32) Decimal {
	return Decimal{Minor: minor, Precision: precision}
}

// Canonical renders d as the canonical decimal string: no trailing
// zeros, one digit after the point only if the value is fractional,
// and a leading '-' for negative amounts.
func (d Decimal) Canonical() string {
	if d.Precision <= 0 {
		return strconv.FormatInt(d.Minor, 10)
	}

	neg := d.Minor < 0
	abs := d.Minor
	if neg {
		abs = -abs
	}

	s := strconv.FormatInt(abs, 10)
	for int32(len(s)) <= d.Precision {
		s = "0" + s
	}

	cut := int32(len(s)) - d.Precision
	intPart := s[:cut]
	fracPart := strings.TrimRight(s[cut:], "0")

	out := intPart
	if fracPart != "" {
		out += "." + fracPart
	}
	if neg && d.Minor != 0 {
		out = "-" + out
	}
	return out
}

// ParseDecimal parses a canonical decimal string back into minor units
// at the given precision.
func ParseDecimal(s string, precision int32) (Decimal, error) {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	parts := strings.SplitN(s, ".", 2)
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if int32(len(fracPart)) > precision {
		return Decimal{}, fmt.Errorf("canon: %q has more than %d fractional digits", s, precision)
	}
	for int32(len(fracPart)) < precision {
		fracPart += "0"
	}

	combined := intPart + fracPart
	minor, err := strconv.ParseInt(combined, 10, 64)
	if err != nil {
		return Decimal{}, fmt.Errorf("canon: invalid decimal %q: %w", s, err)
	}
	if neg {
		minor = -minor
	}
	return Decimal{Minor: minor, Precision: precision}, nil
}
