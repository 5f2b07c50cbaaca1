// internal/core/domain/flex.go
package domain

import (
	"bytes"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Flex is a numeric field as delivered by loosely-typed snapshot payloads.
// Upstream systems emit these fields as numbers, numeric strings (possibly
// with thousands separators), null, or omit them entirely. Flex coerces all
// of those to a decimal at the boundary so no consumer ever has to guard:
// anything unparsable is zero.
type Flex struct {
	value decimal.Decimal
}

// NewFlex wraps a decimal in a Flex value.
func NewFlex(d decimal.Decimal) Flex {
	return Flex{value: d}
}

// FlexFromFloat builds a Flex from a float64. Non-finite inputs coerce to zero.
func FlexFromFloat(f float64) Flex {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Flex{}
	}
	return Flex{value: decimal.NewFromFloat(f)}
}

// FlexFromString parses a lenient numeric string. Thousands separators are
// stripped; unparsable input coerces to zero.
func FlexFromString(s string) Flex {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return Flex{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Flex{}
	}
	return Flex{value: d}
}

// UnmarshalJSON accepts a JSON number, a numeric string, or null.
func (f *Flex) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		f.value = decimal.Zero
		return nil
	}
	if data[0] == '"' {
		*f = FlexFromString(strings.Trim(string(data), `"`))
		return nil
	}
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		f.value = decimal.Zero
		return nil
	}
	f.value = d
	return nil
}

// MarshalJSON emits the value as a JSON number.
func (f Flex) MarshalJSON() ([]byte, error) {
	return []byte(f.value.String()), nil
}

// Decimal returns the coerced value.
func (f Flex) Decimal() decimal.Decimal {
	return f.value
}

// Float64 returns the coerced value as a float64.
func (f Flex) Float64() float64 {
	v, _ := f.value.Float64()
	return v
}

// IsPositive reports whether the value is strictly greater than zero.
func (f Flex) IsPositive() bool {
	return f.value.IsPositive()
}

// IsZero reports whether the value is exactly zero.
func (f Flex) IsZero() bool {
	return f.value.IsZero()
}

// Add returns f + other.
func (f Flex) Add(other Flex) Flex {
	return Flex{value: f.value.Add(other.value)}
}
