package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"subs_dashboard/internal/currency"
	"subs_dashboard/internal/entity"
	"subs_dashboard/internal/reminder"
	"subs_dashboard/internal/spending"
)

// Dashboard owns the subscription list, the issued reminders and the display
// settings. Every mutation runs to completion under one lock, is persisted and
// then published to the observers.
type Dashboard struct {
	store    SubscriptionStore
	scanner  ReminderScanner
	notifier Notifier
	log      *slog.Logger
	now      func() time.Time
	newID    func() string

	mu        sync.RWMutex
	state     State
	subs      []entity.Subscription
	reminders map[string]entity.Reminder
	order     []string
	conv      *currency.Converter
	display   entity.Currency
	observers []Observer
}

// NewDashboard creates a dashboard in the Loading state
func NewDashboard(
	store SubscriptionStore,
	scanner ReminderScanner,
	conv *currency.Converter,
	notifier Notifier,
	log *slog.Logger,
	options ...func(*Dashboard),
) *Dashboard {
	d := &Dashboard{
		store:     store,
		scanner:   scanner,
		notifier:  notifier,
		log:       log,
		now:       time.Now,
		newID:     uuid.NewString,
		state:     StateLoading,
		reminders: make(map[string]entity.Reminder),
		conv:      conv,
		display:   conv.Base(),
	}
	for _, o := range options {
		o(d)
	}
	if d.log == nil {
		d.log = slog.Default()
	}
	return d
}

// WithClock returns an option that sets the dashboard clock.
func WithClock(now func() time.Time) func(*Dashboard) {
	return func(d *Dashboard) {
		if now != nil {
			d.now = now
		}
	}
}

// WithIDGenerator returns an option that sets how new subscription IDs are made.
func WithIDGenerator(newID func() string) func(*Dashboard) {
	return func(d *Dashboard) {
		if newID != nil {
			d.newID = newID
		}
	}
}

// WithDisplayCurrency returns an option that sets the initially displayed currency.
func WithDisplayCurrency(c entity.Currency) func(*Dashboard) {
	return func(d *Dashboard) {
		if c != "" {
			d.display = c
		}
	}
}

// Subscribe registers an observer for change events
func (d *Dashboard) Subscribe(o Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observers = append(d.observers, o)
}

// State returns the lifecycle state
func (d *Dashboard) State() State {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state
}

// Load reads the list from the store and moves the dashboard to Ready.
// Loading an already Ready dashboard is a no-op.
func (d *Dashboard) Load(ctx context.Context) {
	if d.State() == StateReady {
		return
	}
	subs := d.store.Load(ctx)

	d.mu.Lock()
	if d.state == StateReady {
		d.mu.Unlock()
		return
	}
	d.subs = slices.Clone(subs)
	d.state = StateReady
	d.mu.Unlock()

	d.log.Info("dashboard ready", slog.Int("subscriptions", len(subs)))
	d.publish(ChangeEvent{Kind: ChangeLoaded})
}

// List returns a copy of the subscriptions; empty while loading
func (d *Dashboard) List() []entity.Subscription {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.state != StateReady {
		return []entity.Subscription{}
	}
	return slices.Clone(d.subs)
}

// Get returns one subscription by ID
func (d *Dashboard) Get(id string) (entity.Subscription, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.state != StateReady {
		return entity.Subscription{}, ErrNotReady
	}
	i := d.indexOf(id)
	if i < 0 {
		return entity.Subscription{}, fmt.Errorf("%w: id=%q", ErrSubscriptionNotFound, id)
	}
	return d.subs[i], nil
}

// Add validates the input, assigns a fresh ID and appends the subscription
func (d *Dashboard) Add(ctx context.Context, in SubscriptionInput) (entity.Subscription, error) {
	in, err := normalizeInput(in)
	if err != nil {
		return entity.Subscription{}, err
	}

	d.mu.Lock()
	if d.state != StateReady {
		d.mu.Unlock()
		return entity.Subscription{}, ErrNotReady
	}
	sub := entity.Subscription{
		ID:             d.newID(),
		Name:           in.Name,
		Cost:           in.Cost,
		RenewalDate:    in.RenewalDate,
		DeliveryMethod: in.DeliveryMethod,
	}
	d.subs = append(d.subs, sub)
	d.store.Save(context.WithoutCancel(ctx), slices.Clone(d.subs))
	d.mu.Unlock()

	d.log.Info("subscription added", slog.String("subscription_id", sub.ID), slog.String("name", sub.Name))
	d.publish(ChangeEvent{Kind: ChangeAdded, SubscriptionID: sub.ID})
	return sub, nil
}

// Edit replaces the fields of an existing subscription. The ID and any issued
// reminder are kept.
func (d *Dashboard) Edit(ctx context.Context, id string, in SubscriptionInput) (entity.Subscription, error) {
	in, err := normalizeInput(in)
	if err != nil {
		return entity.Subscription{}, err
	}

	d.mu.Lock()
	if d.state != StateReady {
		d.mu.Unlock()
		return entity.Subscription{}, ErrNotReady
	}
	i := d.indexOf(id)
	if i < 0 {
		d.mu.Unlock()
		return entity.Subscription{}, fmt.Errorf("%w: id=%q", ErrSubscriptionNotFound, id)
	}
	sub := entity.Subscription{
		ID:             id,
		Name:           in.Name,
		Cost:           in.Cost,
		RenewalDate:    in.RenewalDate,
		DeliveryMethod: in.DeliveryMethod,
	}
	d.subs[i] = sub
	d.store.Save(context.WithoutCancel(ctx), slices.Clone(d.subs))
	d.mu.Unlock()

	d.log.Info("subscription edited", slog.String("subscription_id", id))
	d.publish(ChangeEvent{Kind: ChangeEdited, SubscriptionID: id})
	return sub, nil
}

// Delete removes a subscription together with its reminder
func (d *Dashboard) Delete(ctx context.Context, id string) (entity.Subscription, error) {
	d.mu.Lock()
	if d.state != StateReady {
		d.mu.Unlock()
		return entity.Subscription{}, ErrNotReady
	}
	i := d.indexOf(id)
	if i < 0 {
		d.mu.Unlock()
		return entity.Subscription{}, fmt.Errorf("%w: id=%q", ErrSubscriptionNotFound, id)
	}
	removed := d.subs[i]
	d.subs = slices.Delete(d.subs, i, i+1)
	d.dropReminder(id)
	d.store.Save(context.WithoutCancel(ctx), slices.Clone(d.subs))
	d.mu.Unlock()

	if err := d.scanner.Forget(ctx, id); err != nil {
		d.log.Warn("failed to forget issued reminder",
			slog.String("subscription_id", id),
			slog.String("error", err.Error()))
	}
	d.log.Info("subscription deleted", slog.String("subscription_id", id))
	d.publish(ChangeEvent{Kind: ChangeDeleted, SubscriptionID: id})
	return removed, nil
}

// Settings returns the current display settings
func (d *Dashboard) Settings() Settings {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return Settings{
		Currency:     d.display,
		BaseCurrency: d.conv.Base(),
		Currencies:   d.conv.Currencies(),
		ExchangeRate: d.conv.Rate(),
	}
}

// SetCurrency switches the displayed currency
func (d *Dashboard) SetCurrency(code string) (Settings, error) {
	return d.UpdateSettings(SettingsUpdate{Currency: code})
}

// SetExchangeRate replaces the static rate between base and secondary currency
func (d *Dashboard) SetExchangeRate(rate decimal.Decimal) (Settings, error) {
	return d.UpdateSettings(SettingsUpdate{ExchangeRate: &rate})
}

// UpdateSettings validates every field of u first and applies them together;
// on error nothing changes.
func (d *Dashboard) UpdateSettings(u SettingsUpdate) (Settings, error) {
	d.mu.Lock()
	if d.state != StateReady {
		d.mu.Unlock()
		return Settings{}, ErrNotReady
	}

	conv := d.conv
	if u.ExchangeRate != nil {
		c, err := d.conv.WithRate(*u.ExchangeRate)
		if err != nil {
			d.mu.Unlock()
			return Settings{}, fmt.Errorf("%w: %v", ErrInvalidRate, err)
		}
		conv = c
	}
	display := d.display
	if strings.TrimSpace(u.Currency) != "" {
		c, err := entity.ParseCurrency(u.Currency, conv.Currencies()...)
		if err != nil {
			d.mu.Unlock()
			return Settings{}, err
		}
		display = c
	}

	changed := !conv.Rate().Equal(d.conv.Rate()) || display != d.display
	d.conv = conv
	d.display = display
	d.mu.Unlock()

	if changed {
		d.log.Info("settings changed",
			slog.String("currency", string(display)),
			slog.String("rate", conv.Rate().String()))
		d.publish(ChangeEvent{Kind: ChangeSettings})
	}
	return d.Settings(), nil
}

// FormatCost renders a base currency amount in the displayed currency
func (d *Dashboard) FormatCost(amount decimal.Decimal) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.conv.ConvertAndFormat(amount, d.display)
}

// Reminders returns the issued reminders in the order they arrived
func (d *Dashboard) Reminders() []entity.Reminder {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]entity.Reminder, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.reminders[id])
	}
	return out
}

// Summary aggregates the current list and renders it in code, or in the
// displayed currency when code is empty
func (d *Dashboard) Summary(code string) (SpendingSummary, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	cur := d.display
	if strings.TrimSpace(code) != "" {
		c, err := entity.ParseCurrency(code, d.conv.Currencies()...)
		if err != nil {
			return SpendingSummary{}, err
		}
		cur = c
	}

	var subs []entity.Subscription
	if d.state == StateReady {
		subs = d.subs
	}
	s := spending.Summarize(subs)
	return SpendingSummary{
		Summary: s,
		View:    spending.Present(s, cur, d.conv),
	}, nil
}

// Scan runs the reminder engine over a snapshot of the list. Results are folded
// in as they arrive; a reminder whose subscription was deleted meanwhile is dropped.
func (d *Dashboard) Scan(ctx context.Context) reminder.Result {
	d.mu.RLock()
	if d.state != StateReady {
		d.mu.RUnlock()
		return reminder.Result{}
	}
	snapshot := slices.Clone(d.subs)
	d.mu.RUnlock()

	return d.scanner.Scan(ctx, snapshot, d.now(), foldSink{d: d})
}

// fold merges a reminder keyed by subscription ID. It reports false when the
// subscription no longer exists.
func (d *Dashboard) fold(r entity.Reminder) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.indexOf(r.Subscription.ID) < 0 {
		return false
	}
	if _, ok := d.reminders[r.Subscription.ID]; !ok {
		d.order = append(d.order, r.Subscription.ID)
	}
	d.reminders[r.Subscription.ID] = r
	return true
}

func (d *Dashboard) dropReminder(id string) {
	if _, ok := d.reminders[id]; !ok {
		return
	}
	delete(d.reminders, id)
	d.order = slices.DeleteFunc(d.order, func(v string) bool { return v == id })
}

func (d *Dashboard) indexOf(id string) int {
	return slices.IndexFunc(d.subs, func(s entity.Subscription) bool { return s.ID == id })
}

func (d *Dashboard) publish(ev ChangeEvent) {
	d.mu.RLock()
	observers := slices.Clone(d.observers)
	d.mu.RUnlock()
	for _, o := range observers {
		o.OnChange(ev)
	}
}

// foldSink routes engine events into the dashboard state and the notifier
type foldSink struct {
	d *Dashboard
}

func (s foldSink) OnReminder(ctx context.Context, r entity.Reminder) {
	if !s.d.fold(r) {
		s.d.log.Debug("reminder dropped, subscription deleted", slog.String("subscription_id", r.Subscription.ID))
		return
	}
	if s.d.notifier != nil {
		s.d.notifier.Reminder(ctx, r)
	}
}

func (s foldSink) OnFailure(ctx context.Context, sub entity.Subscription, err error) {
	if s.d.notifier != nil {
		s.d.notifier.Failure(ctx, sub, err)
	}
}

// normalizeInput enforces the domain rules of a subscription
func normalizeInput(in SubscriptionInput) (SubscriptionInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return in, fmt.Errorf("%w: empty name", ErrInvalidSubscription)
	}
	if in.Cost.IsNegative() {
		return in, fmt.Errorf("%w: cost must be >= 0", ErrInvalidSubscription)
	}
	if in.RenewalDate.IsZero() {
		return in, fmt.Errorf("%w: empty renewal date", ErrInvalidSubscription)
	}
	if !in.DeliveryMethod.Valid() {
		return in, fmt.Errorf("%w: unknown delivery method %q", ErrInvalidSubscription, in.DeliveryMethod)
	}
	return in, nil
}
