package usecase

import (
	"context"
	"log/slog"
	"time"

	"subs_dashboard/internal/reminder"
)

// Scanner is anything that can run one reminder scan
type Scanner interface {
	Scan(ctx context.Context) reminder.Result
}

// AutoScan reacts to change events by scanning for reminders. Events arriving
// while a scan runs are coalesced into one follow-up scan; scans never overlap.
type AutoScan struct {
	scanner  Scanner
	log      *slog.Logger
	interval time.Duration
	trigger  chan struct{}
	done     func(reminder.Result)
}

func NewAutoScan(scanner Scanner, log *slog.Logger, options ...func(*AutoScan)) *AutoScan {
	a := &AutoScan{
		scanner: scanner,
		log:     log,
		trigger: make(chan struct{}, 1),
	}
	for _, o := range options {
		o(a)
	}
	if a.log == nil {
		a.log = slog.Default()
	}
	return a
}

// WithInterval returns an option that also scans periodically, so renewals
// drifting into the window are noticed without any edit.
func WithInterval(d time.Duration) func(*AutoScan) {
	return func(a *AutoScan) {
		if d > 0 {
			a.interval = d
		}
	}
}

// WithScanDone returns an option that is called after every finished scan.
func WithScanDone(f func(reminder.Result)) func(*AutoScan) {
	return func(a *AutoScan) {
		a.done = f
	}
}

// OnChange implements Observer
func (a *AutoScan) OnChange(ev ChangeEvent) {
	a.log.Debug("change observed", slog.String("kind", string(ev.Kind)), slog.String("subscription_id", ev.SubscriptionID))
	a.Trigger()
}

// Trigger requests a scan without blocking
func (a *AutoScan) Trigger() {
	select {
	case a.trigger <- struct{}{}:
	default:
	}
}

// Run performs scans until ctx is done
func (a *AutoScan) Run(ctx context.Context) error {
	var tick <-chan time.Time
	if a.interval > 0 {
		t := time.NewTicker(a.interval)
		defer t.Stop()
		tick = t.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-a.trigger:
		case <-tick:
		}
		a.scan(ctx)
	}
}

func (a *AutoScan) scan(ctx context.Context) {
	res := a.scanner.Scan(ctx)
	if len(res.Issued) > 0 || len(res.Failed) > 0 {
		a.log.Info("reminder scan finished",
			slog.Int("issued", len(res.Issued)),
			slog.Int("failed", len(res.Failed)))
	}
	if a.done != nil {
		a.done(res)
	}
}
