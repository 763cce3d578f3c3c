// Package core holds the domain types shared by the API, the storage layer
// and the dashboard aggregation code.
//
// Monetary values are integer cents throughout. Sums and differences stay
// exact; the two-decimal representation only appears at the JSON boundary.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// Money is a non-negative amount in cents. Aggregated balances may go
// negative (income minus expense), so the type itself is signed.
type Money struct {
	Cents int64
}

// Validate rejects negative amounts. Zero is allowed: the original data
// model permits zero-amount budgets, and percentage math must handle them.
func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Sub returns m - other. The result may be negative.
func (m Money) Sub(other Money) Money {
	return Money{Cents: m.Cents - other.Cents}
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

// Float returns the amount in currency units for ratio math.
func (m Money) Float() float64 {
	return float64(m.Cents) / 100.0
}

// MarshalJSON emits the amount as a plain decimal number with two
// fractional digits, e.g. 450.00.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(formatCents(m.Cents)), nil
}

// UnmarshalJSON accepts a JSON number (or a quoted decimal string) with at
// most two fractional digits.
func (m *Money) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	cents, err := ParseAmount(s)
	if err != nil {
		return err
	}
	m.Cents = cents
	return nil
}

// ParseAmount converts a decimal string into cents, rounding a third
// fractional digit half-up. Negative amounts are rejected.
//
//	ParseAmount("12.34") -> 1234
//	ParseAmount("12.345") -> 1235
//	ParseAmount("-1") -> error
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	units, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxUnits = (1<<63 - 1) / 100
	if units > maxUnits {
		return 0, ErrInvalidAmount
	}
	var frac int64
	if len(fracPart) > 0 {
		frac = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			frac += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				frac++
			}
		}
	}
	return units*100 + frac, nil
}

// formatCents renders cents as a decimal with exactly two fractional digits.
func formatCents(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := strconv.FormatInt(cents/100, 10) + "." + pad2(cents%100)
	if neg {
		return "-" + s
	}
	return s
}

func pad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
