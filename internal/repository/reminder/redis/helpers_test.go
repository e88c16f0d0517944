package redis

import (
	"time"

	"github.com/shopspring/decimal"

	"subs_dashboard/internal/entity"
)

var now = time.Date(2025, time.August, 17, 10, 0, 0, 0, time.UTC)

func seedDue() []entity.Subscription {
	return []entity.Subscription{
		{ID: "1", Name: "Netflix Premium", Cost: decimal.RequireFromString("19.99"), RenewalDate: now.AddDate(0, 0, 2), DeliveryMethod: entity.DeliveryEmail},
		{ID: "2", Name: "Spotify Duo", Cost: decimal.RequireFromString("12.99"), RenewalDate: now.AddDate(0, 0, 10), DeliveryMethod: entity.DeliverySMS},
	}
}
