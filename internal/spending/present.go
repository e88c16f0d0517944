package spending

import (
	"github.com/shopspring/decimal"

	"subs_dashboard/internal/entity"
)

const (
	maxNameRunes   = 15
	truncatedRunes = 12
	ellipsis       = "..."
)

// Converter is the part of currency.Converter the presentation needs
type Converter interface {
	Convert(amount decimal.Decimal, target entity.Currency) decimal.Decimal
	Format(amount decimal.Decimal, cur entity.Currency) string
}

// Bar - a breakdown item ready for display
type Bar struct {
	ID          string
	DisplayName string
	DisplayCost decimal.Decimal
	Formatted   string
}

// View - a Summary rendered in one display currency
type View struct {
	Currency     entity.Currency
	MonthlyTotal decimal.Decimal
	YearlyTotal  decimal.Decimal
	Monthly      string
	Yearly       string
	Breakdown    []Bar
}

// DisplayName shortens names longer than 15 characters to 12 plus an ellipsis
func DisplayName(name string) string {
	r := []rune(name)
	if len(r) <= maxNameRunes {
		return name
	}
	return string(r[:truncatedRunes]) + ellipsis
}

// Present converts every amount of s into cur. s is not modified.
func Present(s Summary, cur entity.Currency, conv Converter) View {
	monthly := conv.Convert(s.MonthlyTotal, cur)
	yearly := conv.Convert(s.YearlyTotal, cur)
	bars := make([]Bar, 0, len(s.Breakdown))
	for _, it := range s.Breakdown {
		cost := conv.Convert(it.Cost, cur)
		bars = append(bars, Bar{
			ID:          it.ID,
			DisplayName: DisplayName(it.Name),
			DisplayCost: cost,
			Formatted:   conv.Format(cost, cur),
		})
	}
	return View{
		Currency:     cur,
		MonthlyTotal: monthly,
		YearlyTotal:  yearly,
		Monthly:      conv.Format(monthly, cur),
		Yearly:       conv.Format(yearly, cur),
		Breakdown:    bars,
	}
}
