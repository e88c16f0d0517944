package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"subs_dashboard/internal/entity"
	"subs_dashboard/internal/reminder"
	"subs_dashboard/internal/spending"
)

//go:generate go run github.com/golang/mock/mockgen@v1.6.0 -destination=usecase_mock.go -package=usecase subs_dashboard/internal/usecase SubscriptionStore,ReminderScanner,Notifier

var (
	ErrNotReady             = errors.New("dashboard is still loading")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrInvalidSubscription  = errors.New("invalid subscription")
	ErrInvalidRate          = errors.New("invalid exchange rate")
)

// State - lifecycle of the dashboard
type State int

const (
	StateLoading State = iota
	StateReady
)

func (s State) String() string {
	if s == StateReady {
		return "ready"
	}
	return "loading"
}

// ChangeKind - what a change event is about
type ChangeKind string

const (
	ChangeLoaded   ChangeKind = "loaded"
	ChangeAdded    ChangeKind = "added"
	ChangeEdited   ChangeKind = "edited"
	ChangeDeleted  ChangeKind = "deleted"
	ChangeSettings ChangeKind = "settings"
)

// ChangeEvent - published to observers after a change completed
type ChangeEvent struct {
	// Kind - type of the change
	Kind ChangeKind
	// SubscriptionID - affected subscription, empty for list or settings changes
	SubscriptionID string
}

// SubscriptionInput - user supplied fields of a subscription
type SubscriptionInput struct {
	// Name - display name, trimmed, must not be empty
	Name string
	// Cost - monthly cost in the base currency, >= 0
	Cost decimal.Decimal
	// RenewalDate - next renewal
	RenewalDate time.Time
	// DeliveryMethod - preferred reminder channel
	DeliveryMethod entity.DeliveryMethod
}

// Settings - display settings of the dashboard
type Settings struct {
	// Currency - currently displayed currency
	Currency entity.Currency
	// BaseCurrency - currency costs are stored in
	BaseCurrency entity.Currency
	// Currencies - selectable display currencies
	Currencies []entity.Currency
	// ExchangeRate - secondary = base * rate
	ExchangeRate decimal.Decimal
}

// SettingsUpdate - settings to change; zero fields are left as they are
type SettingsUpdate struct {
	// Currency - new display currency code, empty keeps the current one
	Currency string
	// ExchangeRate - new rate, nil keeps the current one
	ExchangeRate *decimal.Decimal
}

// SpendingSummary - totals plus their rendering in one currency
type SpendingSummary struct {
	Summary spending.Summary
	View    spending.View
}

// SubscriptionStore - fail-soft persistence of the whole list
type SubscriptionStore interface {
	// Load - stored list, or the seed set when nothing usable is stored
	Load(ctx context.Context) []entity.Subscription
	// Save - persist the list; failures are handled by the store
	Save(ctx context.Context, subs []entity.Subscription)
}

// ReminderScanner - the reminder engine as seen by the dashboard
type ReminderScanner interface {
	// Scan - issue reminders for due subscriptions that have none yet
	Scan(ctx context.Context, subs []entity.Subscription, now time.Time, sink reminder.Sink) reminder.Result
	// Forget - drop the issued flag of a deleted subscription
	Forget(ctx context.Context, id string) error
}

// Notifier - where reminder and failure notifications go
type Notifier interface {
	Reminder(ctx context.Context, r entity.Reminder)
	Failure(ctx context.Context, sub entity.Subscription, err error)
}

// Observer - receives change events after every completed change
type Observer interface {
	OnChange(ev ChangeEvent)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(ev ChangeEvent)

func (f ObserverFunc) OnChange(ev ChangeEvent) { f(ev) }
