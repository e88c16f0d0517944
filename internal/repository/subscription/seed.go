package subscription

import (
	"time"

	"github.com/shopspring/decimal"

	"subs_dashboard/internal/entity"
)

// Seed returns the starter list used when nothing usable is stored.
// Renewal dates are relative to now.
func Seed(now time.Time) []entity.Subscription {
	return []entity.Subscription{
		{
			ID:             "1",
			Name:           "Netflix Premium",
			Cost:           decimal.RequireFromString("19.99"),
			RenewalDate:    now.AddDate(0, 0, 2),
			DeliveryMethod: entity.DeliveryEmail,
		},
		{
			ID:             "2",
			Name:           "Spotify Duo",
			Cost:           decimal.RequireFromString("12.99"),
			RenewalDate:    now.AddDate(0, 0, 10),
			DeliveryMethod: entity.DeliverySMS,
		},
		{
			ID:             "3",
			Name:           "Gym Membership",
			Cost:           decimal.RequireFromString("45.00"),
			RenewalDate:    now.AddDate(0, 0, 25),
			DeliveryMethod: entity.DeliveryEmail,
		},
		{
			ID:             "4",
			Name:           "Amazon Prime",
			Cost:           decimal.RequireFromString("14.99"),
			RenewalDate:    now.AddDate(0, 0, -5),
			DeliveryMethod: entity.DeliverySMS,
		},
	}
}
