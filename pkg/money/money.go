package money

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Cents is a currency amount in integer minor units. All pricing arithmetic
// happens on this type; amounts are only rendered as decimals at the edges.
type Cents int64

var ErrInvalidAmount = errors.New("invalid monetary amount")

// ApplyPercent returns pct percent of amount, rounded half-up to the
// nearest cent. pct is a whole percentage (15 means 15%).
func ApplyPercent(amount Cents, pct int64) Cents {
	if amount <= 0 || pct <= 0 {
		return 0
	}
	return Cents((int64(amount)*pct + 50) / 100)
}

// ApplyBasisPoints returns bps/10000 of amount, rounded half-up to the
// nearest cent. A tax rate of 8.75% is 875 basis points.
func ApplyBasisPoints(amount Cents, bps int64) Cents {
	if amount <= 0 || bps <= 0 {
		return 0
	}
	return Cents((int64(amount)*bps + 5000) / 10000)
}

// Format renders the amount as a plain decimal string with two places.
func (c Cents) Format() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// ParseDecimal parses a decimal string such as "29.99" into cents.
// At most two fractional digits are accepted.
func ParseDecimal(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}

	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("%w: %q has more than two fractional digits", ErrInvalidAmount, s)
	}
	for len(frac) < 2 {
		frac += "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	total := units*100 + cents
	if neg {
		total = -total
	}
	return Cents(total), nil
}
