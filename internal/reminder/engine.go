// Package reminder decides which subscriptions are about to renew and turns each
// of them into exactly one generated reminder per session.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"subs_dashboard/internal/entity"
)

// RenewalDateLayout - how the renewal date is spelled in generation requests
const RenewalDateLayout = "Jan 2, 2006"

const (
	defaultConcurrency = 4
	defaultTimeout     = 30 * time.Second
)

var ErrEmptyMessage = errors.New("generator returned an empty message")

// Request - input of the text-generation collaborator
type Request struct {
	SubscriptionName string                `json:"subscriptionName"`
	RenewalDate      string                `json:"renewalDate"`
	Cost             float64               `json:"cost"`
	DeliveryMethod   entity.DeliveryMethod `json:"deliveryMethod"`
}

// Response - output of the text-generation collaborator
type Response struct {
	ReminderMessage string `json:"reminderMessage"`
}

// Generator phrases a reminder for one subscription
type Generator interface {
	GenerateReminder(ctx context.Context, req Request) (Response, error)
}

// GeneratorFunc adapts a plain function to Generator
type GeneratorFunc func(ctx context.Context, req Request) (Response, error)

func (f GeneratorFunc) GenerateReminder(ctx context.Context, req Request) (Response, error) {
	return f(ctx, req)
}

// Sink receives scan events as they happen. Calls are serialized within a scan.
type Sink interface {
	OnReminder(ctx context.Context, r entity.Reminder)
	OnFailure(ctx context.Context, sub entity.Subscription, err error)
}

// Failure - a qualifying subscription whose reminder could not be produced
type Failure struct {
	Subscription entity.Subscription
	Err          error
}

// Result - outcome of one scan, in input order
type Result struct {
	Issued []entity.Reminder
	Failed []Failure
}

// Engine scans subscriptions for upcoming renewals. Safe for concurrent use;
// an ID being generated by one scan is skipped by any other until it resolves.
type Engine struct {
	gen         Generator
	issued      IssuedStore
	window      Window
	loc         *time.Location
	concurrency int
	timeout     time.Duration
	log         *slog.Logger
	metrics     *Metrics

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewEngine constructs an Engine with defaults and applies options
func NewEngine(gen Generator, issued IssuedStore, options ...func(*Engine)) *Engine {
	e := &Engine{
		gen:         gen,
		issued:      issued,
		window:      DefaultWindow(),
		loc:         time.UTC,
		concurrency: defaultConcurrency,
		timeout:     defaultTimeout,
		log:         slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})),
		inflight:    make(map[string]struct{}),
	}
	for _, o := range options {
		o(e)
	}
	if e.issued == nil {
		e.issued = NewMemoryIssued()
	}
	return e
}

// WithWindow returns an option that sets the reminder window.
func WithWindow(w Window) func(*Engine) {
	return func(e *Engine) {
		if w.MaxDays >= w.MinDays {
			e.window = w
		}
	}
}

// WithLocation returns an option that sets the time zone days are counted in.
func WithLocation(loc *time.Location) func(*Engine) {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// WithConcurrency returns an option that bounds parallel generation calls of one scan.
func WithConcurrency(n int) func(*Engine) {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithTimeout returns an option that sets the per-call generation timeout.
func WithTimeout(timeout time.Duration) func(*Engine) {
	return func(e *Engine) {
		if timeout > 0 {
			e.timeout = timeout
		}
	}
}

// WithLogger returns an option that sets the engine logger.
func WithLogger(log *slog.Logger) func(*Engine) {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithMetrics returns an option that sets the engine counters.
func WithMetrics(m *Metrics) func(*Engine) {
	return func(e *Engine) {
		e.metrics = m
	}
}

func (e *Engine) Window() Window           { return e.window }
func (e *Engine) Location() *time.Location { return e.loc }

// Due returns the subscriptions whose renewal falls inside the window, ignoring
// whether a reminder was already issued.
func (e *Engine) Due(subs []entity.Subscription, now time.Time) []entity.Subscription {
	out := make([]entity.Subscription, 0)
	for _, s := range subs {
		if e.window.Contains(DaysUntil(s.RenewalDate, now, e.loc)) {
			out = append(out, s)
		}
	}
	return out
}

// Forget drops the issued flag of a subscription, used when it is deleted
func (e *Engine) Forget(ctx context.Context, id string) error {
	return e.issued.Forget(ctx, id)
}

// Scan issues reminders for every due subscription that has none yet. A failing
// generation is reported to sink and left unmarked so the next scan retries it;
// it never stops the other subscriptions of the batch. sink may be nil.
func (e *Engine) Scan(ctx context.Context, subs []entity.Subscription, now time.Time, sink Sink) Result {
	e.metrics.scan()

	claimed := e.claim(ctx, e.Due(subs, now))
	if len(claimed) == 0 {
		return Result{}
	}
	e.log.Debug("reminder scan", slog.Int("candidates", len(claimed)))

	reminders := make([]*entity.Reminder, len(claimed))
	failures := make([]*Failure, len(claimed))
	var sinkMu sync.Mutex

	var g errgroup.Group
	g.SetLimit(e.concurrency)
	for i, s := range claimed {
		g.Go(func() error {
			defer e.release(s.ID)

			r, err := e.issue(ctx, s)
			sinkMu.Lock()
			defer sinkMu.Unlock()
			if err != nil {
				failures[i] = &Failure{Subscription: s, Err: err}
				e.log.Warn("reminder generation failed",
					slog.String("subscription_id", s.ID),
					slog.String("name", s.Name),
					slog.String("error", err.Error()))
				if sink != nil {
					sink.OnFailure(ctx, s, err)
				}
				return nil
			}
			reminders[i] = &r
			e.log.Info("reminder issued",
				slog.String("subscription_id", s.ID),
				slog.String("name", s.Name))
			if sink != nil {
				sink.OnReminder(ctx, r)
			}
			return nil
		})
	}
	_ = g.Wait()

	var res Result
	for i := range claimed {
		if reminders[i] != nil {
			res.Issued = append(res.Issued, *reminders[i])
		}
		if failures[i] != nil {
			res.Failed = append(res.Failed, *failures[i])
		}
	}
	return res
}

// claim marks the due IDs nobody else is generating as in flight, then drops
// the ones already issued. The issued lookups run outside e.mu.
func (e *Engine) claim(ctx context.Context, due []entity.Subscription) []entity.Subscription {
	e.mu.Lock()
	candidates := make([]entity.Subscription, 0, len(due))
	for _, s := range due {
		if _, busy := e.inflight[s.ID]; busy {
			continue
		}
		e.inflight[s.ID] = struct{}{}
		candidates = append(candidates, s)
	}
	e.mu.Unlock()

	out := candidates[:0]
	for _, s := range candidates {
		issued, err := e.issued.IsIssued(ctx, s.ID)
		if err != nil {
			e.metrics.failed(stageLookup)
			e.log.Error("issued lookup failed",
				slog.String("subscription_id", s.ID),
				slog.String("error", err.Error()))
			e.release(s.ID)
			continue
		}
		if issued {
			e.release(s.ID)
			continue
		}
		out = append(out, s)
	}
	return out
}

func (e *Engine) release(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.inflight, id)
}

// issue generates the message and marks the ID once the call has resolved
func (e *Engine) issue(ctx context.Context, s entity.Subscription) (entity.Reminder, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := e.gen.GenerateReminder(callCtx, NewRequest(s, e.loc))
	if err == nil && strings.TrimSpace(resp.ReminderMessage) == "" {
		err = ErrEmptyMessage
	}
	if err != nil {
		e.metrics.failed(stageGenerate)
		return entity.Reminder{}, fmt.Errorf("generate reminder for %q: %w", s.Name, err)
	}

	if err := e.issued.MarkIssued(ctx, s.ID); err != nil {
		e.metrics.failed(stageMark)
		return entity.Reminder{}, fmt.Errorf("mark reminder for %q: %w", s.Name, err)
	}
	e.metrics.issued()

	return entity.Reminder{
		Subscription: s,
		Message:      strings.TrimSpace(resp.ReminderMessage),
	}, nil
}

// NewRequest builds the generation request of a subscription
func NewRequest(s entity.Subscription, loc *time.Location) Request {
	if loc == nil {
		loc = time.UTC
	}
	return Request{
		SubscriptionName: s.Name,
		RenewalDate:      s.RenewalDate.In(loc).Format(RenewalDateLayout),
		Cost:             s.Cost.InexactFloat64(),
		DeliveryMethod:   s.DeliveryMethod,
	}
}
