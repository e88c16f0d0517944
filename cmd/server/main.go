package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"subs_dashboard/internal/app"
	"subs_dashboard/internal/config"
	httpGateway "subs_dashboard/internal/gateways/http"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log := app.SetupLogger(cfg.Env)

	log.Info("starting subs dashboard", slog.String("env", cfg.Env))
	log.Debug("debug messages are enabled")

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("failed to init application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Error("failed to close application", slog.String("error", err.Error()))
		}
	}()

	go func() {
		if err := a.AutoScan.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("auto scan stopped", slog.String("error", err.Error()))
		}
	}()
	go a.Dashboard.Load(ctx)

	var metrics http.Handler
	if a.Registry != nil {
		metrics = promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{})
	}

	useCases := httpGateway.UseCases{
		Dashboard: a.Dashboard,
		Feed:      a.Feed,
		Metrics:   metrics,
		Location:  a.Location,
	}

	server := httpGateway.New(useCases,
		*cfg,
		log,
		httpGateway.WithHost(cfg.Server.Host),
		httpGateway.WithPort(uint16(cfg.Server.Port)),
		httpGateway.WithLogger(log),
		httpGateway.WithTimeout(cfg.Server.Timeout),
	)

	log.Info("starting server", slog.String("address", cfg.Server.Host+":"+strconv.Itoa(cfg.Server.Port)))
	if err := server.Run(ctx); err != nil {
		log.Error("server stopped", slog.String("error", err.Error()))
	}
}
