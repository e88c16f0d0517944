// Package spending computes subscription spend totals and the per-subscription
// breakdown. Aggregation works on stored base-currency costs only; conversion and
// naming rules for display live in present.go.
package spending

import (
	"sort"

	"github.com/shopspring/decimal"

	"subs_dashboard/internal/entity"
)

const monthsPerYear = 12

// Item - one bar of the breakdown
type Item struct {
	ID   string
	Name string
	Cost decimal.Decimal
}

// Summary - totals in the base currency
type Summary struct {
	MonthlyTotal decimal.Decimal
	YearlyTotal  decimal.Decimal
	// Breakdown - items sorted by cost, most expensive first
	Breakdown []Item
}

// Summarize sums the monthly costs and sorts the breakdown by descending cost.
// Ties keep their input order.
func Summarize(subs []entity.Subscription) Summary {
	monthly := decimal.Zero
	items := make([]Item, 0, len(subs))
	for _, s := range subs {
		monthly = monthly.Add(s.Cost)
		items = append(items, Item{ID: s.ID, Name: s.Name, Cost: s.Cost})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Cost.GreaterThan(items[j].Cost)
	})
	return Summary{
		MonthlyTotal: monthly,
		YearlyTotal:  monthly.Mul(decimal.NewFromInt(monthsPerYear)),
		Breakdown:    items,
	}
}
