// Package main is the meteogram HTTP server. It wires the pipeline behind
// the core chassis and serves GET /v1/meteogram, rebuilding the plan on
// every request so callers always see the freshest forecast the on-disk
// cache allows.
//
// Graceful shutdown is handled via OS signal interception (SIGINT, SIGTERM).
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meteogram/internal/cache"
	"meteogram/internal/calendar"
	"meteogram/internal/config"
	"meteogram/internal/core"
	"meteogram/internal/meteogram"
	"meteogram/internal/upstream"
)

const userAgent = "meteogram/1.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := newLogger(cfg.LogLevel)
	logger.Info("meteogramd starting",
		"environment", cfg.Environment,
		"port", cfg.Server.Port,
		"horizon_days", cfg.Forecast.HorizonDays,
	)

	srv, err := core.NewServer(cfg, buildService(cfg, logger), logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	srv.MountRoutes()

	httpServer := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Server.Port),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-shutdown:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	logger.Info("initiating graceful shutdown")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped cleanly")
	return nil
}

// buildService wires the pipeline from configuration: the cached DataHub
// client for forecasts, the shared resilient HTTP client for calendar feeds,
// and the orchestration service on top.
func buildService(cfg *config.Config, logger *slog.Logger) *meteogram.Service {
	store := cache.New(cfg.Cache.Dir, cfg.Cache.Freshness)

	forecastClient := upstream.NewClient(
		&http.Client{Timeout: cfg.Forecast.Timeout},
		"datahub",
		cfg.Forecast.RequestsPerMinute,
		userAgent,
	)
	hub := upstream.NewDataHub(
		forecastClient,
		cfg.Forecast.BaseURL,
		cfg.Forecast.ClientKey,
		cfg.Forecast.ClientSecret,
		store,
		logger,
	)

	calendarClient := upstream.NewClient(
		&http.Client{Timeout: cfg.Calendars.Timeout},
		"calendar", 0, userAgent,
	)
	fetcher := calendar.NewFetcher(calendarClient, logger)

	var feeds []calendar.Feed
	for _, src := range cfg.Calendars.Sources() {
		feeds = append(feeds, calendar.Feed{ID: src.ID, URL: src.URL, Color: src.Color})
	}

	return meteogram.NewService(hub, fetcher, meteogram.Options{
		Location:           cfg.Location.Location(),
		HorizonDays:        cfg.Forecast.HorizonDays,
		Thresholds:         cfg.Warnings.Thresholds(),
		Feeds:              feeds,
		ShowWeatherIcons:   cfg.Display.ShowWeatherIcons,
		ShowConditionBars:  cfg.Display.ShowConditionBars,
		ShowCalendarEvents: cfg.Display.ShowCalendarEvents,
		UseFeelsLikeTemp:   cfg.Display.UseFeelsLikeTemp,
		IconStride:         cfg.Display.IconStride,
		MaxEventRows:       cfg.Display.MaxEventRows,
		SplitMultiDay:      cfg.Display.SplitMultiDay,
		StrictPacking:      cfg.Display.StrictPacking,
	}, logger)
}

// newLogger creates a structured slog.Logger for the given log level.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
