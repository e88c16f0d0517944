package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subs_dashboard/internal/entity"
	"subs_dashboard/internal/repository/subscription"
)

func openTemp(t *testing.T) (*Repository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "subs.db")
	repo, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo, path
}

func TestRepository(t *testing.T) {
	ctx := context.Background()
	repo, path := openTemp(t)

	_, err := repo.Load(ctx)
	assert.ErrorIs(t, err, subscription.ErrNoData)

	renewal := time.Date(2025, 8, 19, 0, 0, 0, 0, time.UTC)
	subs := []entity.Subscription{
		{ID: "a", Name: "Netflix Premium", Cost: decimal.RequireFromString("19.99"), RenewalDate: renewal, DeliveryMethod: entity.DeliveryEmail},
		{ID: "b", Name: "Amazon Prime", Cost: decimal.RequireFromString("14.99"), RenewalDate: renewal.AddDate(0, 0, -7), DeliveryMethod: entity.DeliverySMS},
	}
	require.NoError(t, repo.Save(ctx, subs))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.True(t, got[0].RenewalDate.Equal(renewal))
	assert.Equal(t, "14.99", got[1].Cost.String())

	t.Run("survives reopen", func(t *testing.T) {
		again, err := Open(path)
		require.NoError(t, err)
		defer again.Close()
		got, err := again.Load(ctx)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("empty list is data", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, []entity.Subscription{}))
		got, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("err, malformed date is corrupt", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, subs))
		_, err := repo.db.ExecContext(ctx, `UPDATE subscriptions SET renewal_date = 'next tuesday' WHERE id = 'a'`)
		require.NoError(t, err)
		_, err = repo.Load(ctx)
		assert.ErrorIs(t, err, subscription.ErrCorrupt)
	})
}
