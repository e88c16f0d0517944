package entity

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnsupportedCurrency = errors.New("unsupported currency")

// Currency - ISO 4217 code of a display currency
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyINR Currency = "INR"
)

// ParseCurrency normalizes a user supplied code and checks it against the allowed set
func ParseCurrency(s string, allowed ...Currency) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	for _, a := range allowed {
		if c == a {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedCurrency, s)
}
