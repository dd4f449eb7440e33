// Package main is the one-shot meteogram CLI. It runs the full pipeline
// once -- fetch, merge, derive, pack -- and writes the resulting chart plan
// as JSON to the configured output file, or to stdout when OUTPUT_FILE=-.
//
// Interrupts (SIGINT, SIGTERM) cancel the in-flight upstream fetches and
// abort the run.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"meteogram/internal/cache"
	"meteogram/internal/calendar"
	"meteogram/internal/config"
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
	logger.Info("meteogram run starting",
		"environment", cfg.Environment,
		"latitude", cfg.Location.Latitude,
		"longitude", cfg.Location.Longitude,
		"horizon_days", cfg.Forecast.HorizonDays,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc := buildService(cfg, logger)
	plan, err := svc.Build(ctx)
	if err != nil {
		return fmt.Errorf("building meteogram plan: %w", err)
	}

	body, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding plan: %w", err)
	}
	body = append(body, '\n')

	if cfg.Output.File == "-" {
		_, err = os.Stdout.Write(body)
		return err
	}
	if err := os.WriteFile(cfg.Output.File, body, 0o644); err != nil {
		return fmt.Errorf("writing plan: %w", err)
	}
	logger.Info("meteogram plan written", "file", cfg.Output.File, "bytes", len(body))
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
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
