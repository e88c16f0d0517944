package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subs_dashboard/internal/reminder"
	"subs_dashboard/internal/repository/subscription"
)

// blockingScanner counts scans and tracks whether two ever overlapped
type blockingScanner struct {
	release chan struct{}
	started chan struct{}
	running atomic.Int32
	overlap atomic.Bool
	scans   atomic.Int32
}

func (s *blockingScanner) Scan(context.Context) reminder.Result {
	if s.running.Add(1) > 1 {
		s.overlap.Store(true)
	}
	defer s.running.Add(-1)
	s.scans.Add(1)
	s.started <- struct{}{}
	<-s.release
	return reminder.Result{}
}

func TestAutoScan_Coalesces(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sc := &blockingScanner{release: make(chan struct{}), started: make(chan struct{}, 8)}
	a := NewAutoScan(sc, quietLog())

	errCh := make(chan error, 1)
	go func() { errCh <- a.Run(ctx) }()

	a.OnChange(ChangeEvent{Kind: ChangeAdded})
	<-sc.started

	// a burst while the first scan runs collapses into one follow-up
	for i := 0; i < 10; i++ {
		a.OnChange(ChangeEvent{Kind: ChangeEdited})
	}
	sc.release <- struct{}{}
	<-sc.started
	sc.release <- struct{}{}

	assert.Never(t, func() bool { return sc.scans.Load() > 2 }, 100*time.Millisecond, 10*time.Millisecond)
	assert.False(t, sc.overlap.Load())

	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)
}

func TestAutoScan_Interval(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var scans atomic.Int32
	a := NewAutoScan(scanFunc(func(context.Context) reminder.Result {
		scans.Add(1)
		return reminder.Result{}
	}), quietLog(), WithInterval(10*time.Millisecond))

	go func() { _ = a.Run(ctx) }()
	assert.Eventually(t, func() bool { return scans.Load() >= 3 }, time.Second, 5*time.Millisecond)
}

type scanFunc func(ctx context.Context) reminder.Result

func (f scanFunc) Scan(ctx context.Context) reminder.Result { return f(ctx) }

func TestAutoScan_WithDashboard(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := NewMockSubscriptionStore(ctrl)
	store.EXPECT().Load(gomock.Any()).Return(subscription.Seed(now))
	store.EXPECT().Save(gomock.Any(), gomock.Any()).AnyTimes()

	notifier := NewMockNotifier(ctrl)
	notifier.EXPECT().Reminder(gomock.Any(), gomock.Any()).Times(2)

	gen := newCountingGen()
	d := newDashboard(t, store, newEngine(gen), notifier)

	var mu sync.Mutex
	var results []reminder.Result
	a := NewAutoScan(d, quietLog(), WithScanDone(func(r reminder.Result) {
		mu.Lock()
		defer mu.Unlock()
		results = append(results, r)
	}))
	d.Subscribe(a)
	go func() { _ = a.Run(ctx) }()

	d.Load(ctx)
	require.Eventually(t, func() bool { return len(d.Reminders()) == 1 }, time.Second, 5*time.Millisecond)

	_, err := d.Add(ctx, input("Test", 0))
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(d.Reminders()) == 2 }, time.Second, 5*time.Millisecond)

	_, err = d.SetCurrency("INR")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(results) >= 3
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 2, gen.total())
}
