package spending

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subs_dashboard/internal/currency"
	"subs_dashboard/internal/entity"
)

func sub(id, name, cost string) entity.Subscription {
	return entity.Subscription{
		ID:             id,
		Name:           name,
		Cost:           decimal.RequireFromString(cost),
		RenewalDate:    time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		DeliveryMethod: entity.DeliveryEmail,
	}
}

func seedLike() []entity.Subscription {
	return []entity.Subscription{
		sub("1", "Netflix Premium", "19.99"),
		sub("2", "Spotify Duo", "12.99"),
		sub("3", "Gym Membership", "45.00"),
		sub("4", "Amazon Prime", "14.99"),
	}
}

func TestSummarize(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		got := Summarize(nil)
		assert.True(t, got.MonthlyTotal.IsZero())
		assert.True(t, got.YearlyTotal.IsZero())
		assert.Empty(t, got.Breakdown)
	})

	t.Run("totals", func(t *testing.T) {
		got := Summarize(seedLike())
		assert.Equal(t, "92.97", got.MonthlyTotal.StringFixed(2))
		assert.True(t, got.YearlyTotal.Equal(got.MonthlyTotal.Mul(decimal.NewFromInt(12))))
		assert.Equal(t, "1115.64", got.YearlyTotal.StringFixed(2))
	})

	t.Run("sorted by cost desc", func(t *testing.T) {
		got := Summarize(seedLike())
		ids := make([]string, 0, len(got.Breakdown))
		for _, it := range got.Breakdown {
			ids = append(ids, it.ID)
		}
		assert.Equal(t, []string{"3", "1", "4", "2"}, ids)
	})

	t.Run("ties keep input order", func(t *testing.T) {
		got := Summarize([]entity.Subscription{sub("a", "A", "5"), sub("b", "B", "7"), sub("c", "C", "5")})
		assert.Equal(t, "b", got.Breakdown[0].ID)
		assert.Equal(t, "a", got.Breakdown[1].ID)
		assert.Equal(t, "c", got.Breakdown[2].ID)
	})

	t.Run("input untouched", func(t *testing.T) {
		in := seedLike()
		_ = Summarize(in)
		assert.Equal(t, "1", in[0].ID)
		assert.Equal(t, "19.99", in[0].Cost.String())
	})
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Netflix", "Netflix"},
		{"Netflix Premium", "Netflix Premium"},
		{"Netflix Premium+", "Netflix Prem..."},
		{"Disney Plus Bundle Max", "Disney Plus ..."},
		{"Яндекс Плюс Мульти", "Яндекс Плюс ..."},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayName(tt.in))
		})
	}
}

func TestPresent(t *testing.T) {
	conv, err := currency.New(entity.CurrencyUSD, entity.CurrencyINR, decimal.RequireFromString("83.5"))
	require.NoError(t, err)

	subs := append(seedLike(), sub("5", "Adobe Creative Cloud", "54.99"))
	summary := Summarize(subs)

	t.Run("base currency", func(t *testing.T) {
		v := Present(summary, entity.CurrencyUSD, conv)
		assert.True(t, v.MonthlyTotal.Equal(summary.MonthlyTotal))
		assert.Equal(t, "Adobe Creati...", v.Breakdown[0].DisplayName)
		assert.Contains(t, v.Monthly, "$")
		assert.Contains(t, v.Breakdown[0].Formatted, "54.99")
	})

	t.Run("secondary currency", func(t *testing.T) {
		v := Present(summary, entity.CurrencyINR, conv)
		assert.True(t, v.MonthlyTotal.Equal(summary.MonthlyTotal.Mul(decimal.RequireFromString("83.5"))))
		assert.True(t, v.YearlyTotal.Equal(v.MonthlyTotal.Mul(decimal.NewFromInt(12))))
		assert.Contains(t, v.Yearly, "₹")
		for i := 1; i < len(v.Breakdown); i++ {
			assert.True(t, v.Breakdown[i-1].DisplayCost.GreaterThanOrEqual(v.Breakdown[i].DisplayCost))
		}
		// stored totals never change with the display currency
		assert.Equal(t, "147.96", summary.MonthlyTotal.StringFixed(2))
	})
}
