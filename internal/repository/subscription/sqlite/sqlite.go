// Package sqlite keeps the subscription list in a local SQLite file.
// Columns hold the serialized record form, so dates stay ISO-8601 text.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"subs_dashboard/internal/entity"
	"subs_dashboard/internal/repository/subscription"
)

type Repository struct {
	db *sql.DB
}

// Open creates the directory and the database if needed and migrates it
func Open(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *Repository) Load(ctx context.Context) ([]entity.Subscription, error) {
	var savedAt string
	err := r.db.QueryRowContext(ctx, `SELECT saved_at FROM subscription_list_state WHERE id = 1`).Scan(&savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, subscription.ErrNoData
	}
	if err != nil {
		return nil, fmt.Errorf("load subscriptions: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT id, name, cost, renewal_date, delivery_method
		FROM subscriptions ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("load subscriptions: %w", err)
	}
	defer rows.Close()

	out := make([]entity.Subscription, 0)
	for rows.Next() {
		var rec subscription.Record
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Cost, &rec.RenewalDate, &rec.DeliveryMethod); err != nil {
			return nil, fmt.Errorf("load subscriptions: %w", err)
		}
		s, err := rec.ToEntity()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load subscriptions: %w", err)
	}
	return out, nil
}

func (r *Repository) Save(ctx context.Context, subs []entity.Subscription) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save subscriptions: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM subscriptions`); err != nil {
		return fmt.Errorf("save subscriptions: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO subscriptions
		(id, position, name, cost, renewal_date, delivery_method) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("save subscriptions: %w", err)
	}
	defer stmt.Close()

	for i, s := range subs {
		rec := subscription.ToRecord(s)
		if _, err := stmt.ExecContext(ctx, rec.ID, i, rec.Name, rec.Cost, rec.RenewalDate, rec.DeliveryMethod); err != nil {
			return fmt.Errorf("save subscription %q: %w", s.ID, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO subscription_list_state (id, saved_at) VALUES (1, ?)
		ON CONFLICT (id) DO UPDATE SET saved_at = excluded.saved_at`, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("save subscriptions: %w", err)
	}
	return tx.Commit()
}
