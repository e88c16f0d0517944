package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeliveryMethod - preferred reminder channel. Only recorded, never used for sending.
type DeliveryMethod string

const (
	DeliveryEmail DeliveryMethod = "email"
	DeliverySMS   DeliveryMethod = "sms"
)

// Valid reports whether m is one of the known channels
func (m DeliveryMethod) Valid() bool {
	return m == DeliveryEmail || m == DeliverySMS
}

// Subscription - a tracked recurring subscription
type Subscription struct {
	// ID - unique identity, assigned on creation and never changed
	ID string
	// Name - display name of the service
	Name string
	// Cost - monthly cost in the base currency
	Cost decimal.Decimal
	// RenewalDate - date (and time) of the next renewal
	RenewalDate time.Time
	// DeliveryMethod - preferred reminder channel
	DeliveryMethod DeliveryMethod
}
