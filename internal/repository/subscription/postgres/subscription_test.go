package postgres

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"subs_dashboard/internal/entity"
	"subs_dashboard/internal/repository/subscription"
)

var pgContainer *postgres.PostgresContainer

func cleanup() {
	if pgContainer != nil {
		_ = pgContainer.Terminate(context.Background())
	}
}

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		// needs docker
		os.Exit(0)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cleanup()
		os.Exit(1)
	}()

	c, err := postgres.Run(
		ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("subs_db"),
		postgres.WithUsername("subs_user"),
		postgres.WithPassword("subs_password"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "run container: %v\n", err)
		cleanup()
		os.Exit(1)
	}
	pgContainer = c

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "conn string: %v\n", err)
		cleanup()
		os.Exit(1)
	}
	if err := RunMigrations(connStr); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "migrate up: %v\n", err)
		cleanup()
		os.Exit(1)
	}

	code := m.Run()

	cleanup()
	os.Exit(code)
}

func newRepo(t *testing.T) *SubRepository {
	t.Helper()
	ctx := context.Background()
	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `TRUNCATE TABLE subscriptions, subscription_list_state`)
	require.NoError(t, err)
	return NewSubRepository(pool)
}

func TestSubRepository_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("err, nothing saved", func(t *testing.T) {
		sr := newRepo(t)
		_, err := sr.Load(ctx)
		assert.ErrorIs(t, err, subscription.ErrNoData)
	})

	t.Run("ok, empty list after save", func(t *testing.T) {
		sr := newRepo(t)
		require.NoError(t, sr.Save(ctx, nil))
		got, err := sr.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestSubRepository_SaveLoad(t *testing.T) {
	ctx := context.Background()
	sr := newRepo(t)

	renewal := time.Date(2025, 8, 19, 10, 30, 0, 0, time.UTC)
	subs := []entity.Subscription{
		{ID: uuid.NewString(), Name: "Gym Membership", Cost: decimal.RequireFromString("45.00"), RenewalDate: renewal, DeliveryMethod: entity.DeliveryEmail},
		{ID: uuid.NewString(), Name: "Spotify Duo", Cost: decimal.RequireFromString("12.99"), RenewalDate: renewal.AddDate(0, 0, 8), DeliveryMethod: entity.DeliverySMS},
	}
	require.NoError(t, sr.Save(ctx, subs))

	got, err := sr.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for i := range subs {
		assert.Equal(t, subs[i].ID, got[i].ID)
		assert.Equal(t, subs[i].Name, got[i].Name)
		assert.True(t, subs[i].Cost.Equal(got[i].Cost))
		assert.True(t, subs[i].RenewalDate.Equal(got[i].RenewalDate))
		assert.Equal(t, subs[i].DeliveryMethod, got[i].DeliveryMethod)
	}

	t.Run("save replaces the list", func(t *testing.T) {
		require.NoError(t, sr.Save(ctx, subs[1:]))
		got, err := sr.Load(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, subs[1].ID, got[0].ID)
	})

	t.Run("err, check constraint rolls back", func(t *testing.T) {
		bad := append([]entity.Subscription(nil), subs...)
		bad[0].Cost = decimal.NewFromInt(-1)
		assert.Error(t, sr.Save(ctx, bad))

		got, err := sr.Load(ctx)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}
