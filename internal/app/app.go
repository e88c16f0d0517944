// Package app wires the configured backends, generator and use cases together.
// Both binaries start from here.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"subs_dashboard/internal/config"
	"subs_dashboard/internal/currency"
	"subs_dashboard/internal/entity"
	"subs_dashboard/internal/gateways/llm"
	"subs_dashboard/internal/notify"
	"subs_dashboard/internal/reminder"
	issuedRedis "subs_dashboard/internal/repository/reminder/redis"
	"subs_dashboard/internal/repository/subscription"
	"subs_dashboard/internal/repository/subscription/memory"
	"subs_dashboard/internal/repository/subscription/postgres"
	subsRedis "subs_dashboard/internal/repository/subscription/redis"
	"subs_dashboard/internal/repository/subscription/sqlite"
	"subs_dashboard/internal/usecase"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// App holds everything a binary needs after startup
type App struct {
	Config    *config.Config
	Log       *slog.Logger
	Location  *time.Location
	Converter *currency.Converter
	Engine    *reminder.Engine
	Feed      *notify.Feed
	Dashboard *usecase.Dashboard
	AutoScan  *usecase.AutoScan
	// Registry - nil when metrics are disabled
	Registry *prometheus.Registry

	closers []func() error
}

// SetupLogger picks the slog handler and level for the environment
func SetupLogger(env string) *slog.Logger {
	var log *slog.Logger
	switch strings.ToLower(env) {
	case envLocal:
		log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.Default()
	}
	return log
}

// New builds the application from cfg. The dashboard is returned in the
// Loading state; callers decide when to Load it.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (_ *App, err error) {
	a := &App{Config: cfg, Log: log}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	if a.Location, err = cfg.Reminders.Location(); err != nil {
		return nil, fmt.Errorf("reminders timezone: %w", err)
	}

	a.Converter, err = currency.New(
		entity.Currency(strings.ToUpper(cfg.Currency.Base)),
		entity.Currency(strings.ToUpper(cfg.Currency.Secondary)),
		decimal.NewFromFloat(cfg.Currency.ExchangeRate),
	)
	if err != nil {
		return nil, fmt.Errorf("currency: %w", err)
	}
	display := a.Converter.Base()
	if cfg.Currency.Display != "" {
		if display, err = entity.ParseCurrency(cfg.Currency.Display, a.Converter.Currencies()...); err != nil {
			return nil, fmt.Errorf("currency.display: %w", err)
		}
	}

	var rdb *goredis.Client
	if cfg.Storage.Backend == config.BackendRedis || cfg.Reminders.Dedup == config.BackendRedis {
		rdb = goredis.NewClient(&goredis.Options{
			Addr:     cfg.Storage.Redis.Addr,
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
		})
		a.closers = append(a.closers, rdb.Close)
		if err = rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		log.Debug("connected to redis", slog.String("addr", cfg.Storage.Redis.Addr))
	}

	backend, err := a.backend(ctx, rdb)
	if err != nil {
		return nil, err
	}
	store := subscription.NewStore(backend, log)

	var issued reminder.IssuedStore = reminder.NewMemoryIssued()
	if cfg.Reminders.Dedup == config.BackendRedis {
		issued = issuedRedis.NewIssuedStore(rdb, cfg.Reminders.IssuedKey)
	}

	base := a.Converter.Base()
	formatBase := func(d decimal.Decimal) string { return a.Converter.Format(d, base) }

	gen, err := a.generator(formatBase)
	if err != nil {
		return nil, err
	}

	engineOptions := []func(*reminder.Engine){
		reminder.WithWindow(reminder.Window{
			MinDays: cfg.Reminders.WindowMinDays,
			MaxDays: cfg.Reminders.WindowMaxDays,
		}),
		reminder.WithLocation(a.Location),
		reminder.WithConcurrency(cfg.Reminders.Concurrency),
		reminder.WithTimeout(cfg.Reminders.GenerationTimeout),
		reminder.WithLogger(log),
	}
	if cfg.Metrics.Enabled {
		a.Registry = prometheus.NewRegistry()
		a.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		engineOptions = append(engineOptions, reminder.WithMetrics(reminder.NewMetrics(cfg.Metrics.Namespace, a.Registry)))
	}
	a.Engine = reminder.NewEngine(gen, issued, engineOptions...)

	// costs in notifications follow the display currency at the time they are pushed
	a.Feed = notify.NewFeed(log, notify.WithCostFormatter(func(d decimal.Decimal) string {
		return a.Dashboard.FormatCost(d)
	}))
	a.Dashboard = usecase.NewDashboard(store, a.Engine, a.Converter, a.Feed, log,
		usecase.WithDisplayCurrency(display),
	)
	a.AutoScan = usecase.NewAutoScan(a.Dashboard, log, usecase.WithInterval(cfg.Reminders.ScanInterval))
	a.Dashboard.Subscribe(a.AutoScan)

	log.Info("application ready",
		slog.String("storage", cfg.Storage.Backend),
		slog.String("dedup", cfg.Reminders.Dedup),
		slog.String("generator", cfg.Generator.Provider),
		slog.String("timezone", a.Location.String()),
	)
	return a, nil
}

func (a *App) backend(ctx context.Context, rdb *goredis.Client) (subscription.Backend, error) {
	cfg := a.Config
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return memory.New(), nil
	case config.BackendRedis:
		return subsRedis.New(rdb, cfg.Storage.Redis.Key), nil
	case config.BackendPostgres:
		url := cfg.Storage.Postgres.URL()
		if err := postgres.RunMigrations(url); err != nil {
			return nil, fmt.Errorf("postgres migrations: %w", err)
		}
		pool, err := pgxpool.New(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("postgres pool: %w", err)
		}
		a.closers = append(a.closers, func() error { pool.Close(); return nil })
		a.Log.Debug("init database")
		return postgres.NewSubRepository(pool), nil
	case config.BackendSQLite:
		repo, err := sqlite.Open(cfg.Storage.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		a.closers = append(a.closers, repo.Close)
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func (a *App) generator(formatBase func(decimal.Decimal) string) (reminder.Generator, error) {
	g := a.Config.Generator
	switch g.Provider {
	case config.ProviderTemplate:
		return llm.NewTemplate(llm.WithCostFormatter(func(cost float64) string {
			return formatBase(decimal.NewFromFloat(cost))
		})), nil
	case config.ProviderOllama:
		return llm.NewOllama(g.BaseURL, g.Model, g.Timeout, a.Log), nil
	case config.ProviderOpenAI:
		return llm.NewOpenAI(g.APIKey, g.BaseURL, g.Model, g.Timeout, a.Log), nil
	default:
		return nil, fmt.Errorf("unknown generator provider %q", g.Provider)
	}
}

// Close releases connections in reverse order of creation
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}
