package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"subs_dashboard/internal/entity"
	"subs_dashboard/internal/repository/subscription"
)

const (
	selectSavedAt = `SELECT saved_at FROM subscription_list_state WHERE id = 1`
	selectAll     = `SELECT id, name, cost::text, renewal_date, delivery_method
		FROM subscriptions ORDER BY position`
	deleteAll = `DELETE FROM subscriptions`
	insertOne = `INSERT INTO subscriptions (id, position, name, cost, renewal_date, delivery_method)
		VALUES ($1, $2, $3, $4::numeric, $5, $6)`
	upsertSaved = `INSERT INTO subscription_list_state (id, saved_at) VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET saved_at = EXCLUDED.saved_at`
)

// SubRepository keeps the list in the subscriptions table, replacing it whole on save
type SubRepository struct {
	pool *pgxpool.Pool
}

func NewSubRepository(pool *pgxpool.Pool) *SubRepository {
	return &SubRepository{
		pool: pool,
	}
}

func (r *SubRepository) Load(ctx context.Context) ([]entity.Subscription, error) {
	var savedAt time.Time
	if err := r.pool.QueryRow(ctx, selectSavedAt).Scan(&savedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, subscription.ErrNoData
		}
		return nil, fmt.Errorf("load subs: %w", err)
	}

	rows, err := r.pool.Query(ctx, selectAll)
	if err != nil {
		return nil, fmt.Errorf("load subs: %w", err)
	}
	defer rows.Close()

	out := make([]entity.Subscription, 0)
	for rows.Next() {
		var (
			s       entity.Subscription
			cost    string
			renewal time.Time
			method  string
		)
		if err := rows.Scan(&s.ID, &s.Name, &cost, &renewal, &method); err != nil {
			return nil, fmt.Errorf("load subs: %w", err)
		}
		s.Cost, err = decimal.NewFromString(cost)
		if err != nil {
			return nil, fmt.Errorf("%w: id=%q cost: %v", subscription.ErrCorrupt, s.ID, err)
		}
		s.RenewalDate = renewal
		s.DeliveryMethod = entity.DeliveryMethod(method)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load subs: %w", err)
	}
	return out, nil
}

func (r *SubRepository) Save(ctx context.Context, subs []entity.Subscription) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("save subs: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, deleteAll); err != nil {
		return fmt.Errorf("save subs: %w", err)
	}

	batch := &pgx.Batch{}
	for i, s := range subs {
		batch.Queue(insertOne, s.ID, i, s.Name, s.Cost.String(), s.RenewalDate, string(s.DeliveryMethod))
	}
	batch.Queue(upsertSaved, time.Now().UTC())
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("save subs: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("save subs: %w", err)
	}
	return nil
}
