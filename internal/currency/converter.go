// Package currency converts base-currency amounts into a display currency
// and renders them as locale formatted strings.
package currency

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"subs_dashboard/internal/entity"
)

var ErrInvalidRate = errors.New("exchange rate must be > 0")

// locales picks the formatting locale for a currency; unknown codes fall back to en.
var locales = map[entity.Currency]language.Tag{
	entity.CurrencyUSD: language.AmericanEnglish,
	entity.CurrencyINR: language.MustParse("en-IN"),
	"EUR":              language.MustParse("en-IE"),
	"GBP":              language.BritishEnglish,
}

// Converter holds the base/secondary currency pair and the static rate between them.
// Pure: nothing it does mutates the amounts it is given.
type Converter struct {
	base      entity.Currency
	secondary entity.Currency
	rate      decimal.Decimal
	units     map[entity.Currency]currency.Unit
}

// New validates both ISO codes and the rate (secondary = base * rate)
func New(base, secondary entity.Currency, rate decimal.Decimal) (*Converter, error) {
	if !rate.IsPositive() {
		return nil, ErrInvalidRate
	}
	units := make(map[entity.Currency]currency.Unit, 2)
	for _, c := range []entity.Currency{base, secondary} {
		u, err := currency.ParseISO(string(c))
		if err != nil {
			return nil, fmt.Errorf("%w: %q", entity.ErrUnsupportedCurrency, c)
		}
		units[c] = u
	}
	return &Converter{
		base:      base,
		secondary: secondary,
		rate:      rate,
		units:     units,
	}, nil
}

func (c *Converter) Base() entity.Currency      { return c.base }
func (c *Converter) Secondary() entity.Currency { return c.secondary }
func (c *Converter) Rate() decimal.Decimal      { return c.rate }

// Currencies lists the codes this converter can display
func (c *Converter) Currencies() []entity.Currency {
	return []entity.Currency{c.base, c.secondary}
}

// WithRate returns a copy using another rate
func (c *Converter) WithRate(rate decimal.Decimal) (*Converter, error) {
	return New(c.base, c.secondary, rate)
}

// Convert turns a base amount into target. Anything but the secondary currency is
// treated as the base currency.
func (c *Converter) Convert(amount decimal.Decimal, target entity.Currency) decimal.Decimal {
	if target == c.secondary && c.secondary != c.base {
		return amount.Mul(c.rate)
	}
	return amount
}

// ToBase is the inverse of Convert
func (c *Converter) ToBase(amount decimal.Decimal, from entity.Currency) decimal.Decimal {
	if from == c.secondary && c.secondary != c.base {
		return amount.Div(c.rate)
	}
	return amount
}

// Format renders amount (already in cur) with the currency symbol, standard
// fraction digits and the grouping rules of the currency's home locale.
func (c *Converter) Format(amount decimal.Decimal, cur entity.Currency) string {
	unit, ok := c.units[cur]
	if !ok {
		u, err := currency.ParseISO(string(cur))
		if err != nil {
			return amount.StringFixed(2) + " " + string(cur)
		}
		unit = u
	}
	tag, ok := locales[cur]
	if !ok {
		tag = language.English
	}
	p := message.NewPrinter(tag)

	scale, _ := currency.Standard.Rounding(unit)
	rounded := amount.Round(int32(scale))
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}

	sym := p.Sprint(currency.Symbol(unit))
	num := p.Sprint(number.Decimal(rounded.InexactFloat64(), number.Scale(scale)))
	return sign + sym + num
}

// ConvertAndFormat is Format(Convert(amount, target), target)
func (c *Converter) ConvertAndFormat(amount decimal.Decimal, target entity.Currency) string {
	return c.Format(c.Convert(amount, target), target)
}
