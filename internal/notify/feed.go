// Package notify surfaces reminder events to the user. Delivery over e-mail or
// SMS is out of scope: events are logged and kept in a short in-memory feed.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"subs_dashboard/internal/entity"
)

const DefaultCapacity = 50

type Kind string

const (
	KindReminder Kind = "reminder"
	KindFailure  Kind = "failure"
)

// Notification - one toast-like event
type Notification struct {
	ID             string
	Kind           Kind
	SubscriptionID string
	Title          string
	Message        string
	RenewalDate    time.Time
	Cost           string
	CreatedAt      time.Time
}

// Feed keeps the most recent notifications, newest first. Safe for concurrent use.
type Feed struct {
	mu       sync.Mutex
	items    []Notification
	capacity int
	log      *slog.Logger
	now      func() time.Time
	format   func(decimal.Decimal) string
}

func NewFeed(log *slog.Logger, options ...func(*Feed)) *Feed {
	f := &Feed{
		capacity: DefaultCapacity,
		log:      log,
		now:      time.Now,
		format:   func(d decimal.Decimal) string { return d.StringFixed(2) },
	}
	for _, o := range options {
		o(f)
	}
	if f.log == nil {
		f.log = slog.Default()
	}
	return f
}

// WithCapacity returns an option that bounds the number of kept notifications.
func WithCapacity(n int) func(*Feed) {
	return func(f *Feed) {
		if n > 0 {
			f.capacity = n
		}
	}
}

// WithClock returns an option that sets the notification timestamp source.
func WithClock(now func() time.Time) func(*Feed) {
	return func(f *Feed) {
		if now != nil {
			f.now = now
		}
	}
}

// WithCostFormatter returns an option that sets how costs are rendered.
func WithCostFormatter(format func(decimal.Decimal) string) func(*Feed) {
	return func(f *Feed) {
		if format != nil {
			f.format = format
		}
	}
}

func (f *Feed) Reminder(_ context.Context, r entity.Reminder) {
	n := Notification{
		ID:             uuid.NewString(),
		Kind:           KindReminder,
		SubscriptionID: r.Subscription.ID,
		Title:          fmt.Sprintf("Reminder for %s", r.Subscription.Name),
		Message:        r.Message,
		RenewalDate:    r.Subscription.RenewalDate,
		Cost:           f.format(r.Subscription.Cost),
		CreatedAt:      f.now(),
	}
	f.log.Info("reminder notification",
		slog.String("subscription_id", n.SubscriptionID),
		slog.String("channel", string(r.Subscription.DeliveryMethod)),
		slog.String("message", n.Message))
	f.push(n)
}

func (f *Feed) Failure(_ context.Context, sub entity.Subscription, err error) {
	n := Notification{
		ID:             uuid.NewString(),
		Kind:           KindFailure,
		SubscriptionID: sub.ID,
		Title:          "Error generating reminder",
		Message:        fmt.Sprintf("Could not generate a reminder for %s.", sub.Name),
		RenewalDate:    sub.RenewalDate,
		Cost:           f.format(sub.Cost),
		CreatedAt:      f.now(),
	}
	errText := ""
	if err != nil {
		errText = err.Error()
	}
	f.log.Warn("reminder failure notification",
		slog.String("subscription_id", n.SubscriptionID),
		slog.String("error", errText))
	f.push(n)
}

func (f *Feed) push(n Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append([]Notification{n}, f.items...)
	if len(f.items) > f.capacity {
		f.items = f.items[:f.capacity]
	}
}

// Recent returns up to limit notifications, newest first. limit <= 0 means all.
func (f *Feed) Recent(limit int) []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	if limit <= 0 || limit > len(f.items) {
		limit = len(f.items)
	}
	out := make([]Notification, limit)
	copy(out, f.items[:limit])
	return out
}
