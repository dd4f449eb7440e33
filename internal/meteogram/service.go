// Package meteogram orchestrates one end-to-end build of the chart plan:
// concurrent upstream fetches, series merge, condition derivation, daylight
// and calendar overlays, and the final geometry pass.
package meteogram

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"meteogram/internal/calendar"
	"meteogram/internal/conditions"
	"meteogram/internal/daylight"
	"meteogram/internal/icons"
	"meteogram/internal/layout"
	"meteogram/internal/timeline"
	"meteogram/internal/types"
)

// ForecastSource provides the two point-forecast series for a location.
type ForecastSource interface {
	Hourly(ctx context.Context, loc types.Location) ([]types.Sample, error)
	ThreeHourly(ctx context.Context, loc types.Location) ([]types.Sample, error)
}

// EventSource provides calendar events intersecting the display horizon.
type EventSource interface {
	Events(ctx context.Context, feeds []calendar.Feed, bands []types.DaylightBand, first, last time.Time) ([]types.CalendarEvent, error)
}

// Options fixes one service's build behaviour. It is assembled from config
// at startup and never mutated.
type Options struct {
	Location    types.Location
	HorizonDays int
	Thresholds  types.Thresholds
	Feeds       []calendar.Feed

	ShowWeatherIcons   bool
	ShowConditionBars  bool
	ShowCalendarEvents bool
	UseFeelsLikeTemp   bool

	IconStride    int
	MaxEventRows  int
	SplitMultiDay bool
	StrictPacking bool
}

// Service builds meteogram plans. Safe for concurrent use; every Build is
// independent.
type Service struct {
	forecasts ForecastSource
	events    EventSource
	opts      Options
	logger    *slog.Logger
	clock     types.Clock
}

// NewService wires a Service from its sources and fixed options.
func NewService(forecasts ForecastSource, events EventSource, opts Options, logger *slog.Logger) *Service {
	return &Service{
		forecasts: forecasts,
		events:    events,
		opts:      opts,
		logger:    logger,
		clock:     types.SystemClock{},
	}
}

// WithClock overrides the time source. Intended for tests.
func (s *Service) WithClock(clock types.Clock) *Service {
	s.clock = clock
	return s
}

// Build runs the full pipeline once and returns the assembled Plan.
//
// The two forecast series and the calendar feeds are fetched concurrently;
// everything downstream of the merge is pure computation. A calendar overlay
// where every feed failed aborts the build, as does a merged series shorter
// than the minimum horizon.
func (s *Service) Build(ctx context.Context) (*Plan, error) {
	now := s.clock.Now()
	horizonEnd := now.AddDate(0, 0, s.opts.HorizonDays)
	start := time.Now()

	// Bands over the full horizon; calendar clamping needs them before the
	// merged series exists. The plan's own bands are recomputed against the
	// actual series extent below.
	horizonBands := daylight.Bands(s.opts.Location, now, horizonEnd)

	var (
		hourly, threeHourly []types.Sample
		events              []types.CalendarEvent
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		hourly, err = s.forecasts.Hourly(gctx, s.opts.Location)
		return err
	})
	g.Go(func() error {
		var err error
		threeHourly, err = s.forecasts.ThreeHourly(gctx, s.opts.Location)
		return err
	})
	if s.opts.ShowCalendarEvents && len(s.opts.Feeds) > 0 {
		g.Go(func() error {
			var err error
			events, err = s.events.Events(gctx, s.opts.Feeds, horizonBands, now, horizonEnd)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tl, err := timeline.Merge(hourly, threeHourly, now, horizonEnd)
	if err != nil {
		return nil, err
	}
	bands := daylight.Bands(s.opts.Location, tl.Start(), tl.End())

	plan := &Plan{
		GeneratedAt:      now,
		Location:         s.opts.Location,
		XStart:           tl.Start(),
		XEnd:             tl.End(),
		NowLine:          now,
		Series:           tl,
		TemperatureField: types.FieldTemperature,
		DaylightBands:    bands,
	}
	if s.opts.UseFeelsLikeTemp {
		plan.TemperatureField = types.FieldFeelsLike
	}

	if s.opts.ShowConditionBars {
		warnings := conditions.DeriveWarnings(tl, bands, s.opts.Thresholds)
		plan.ConditionBars = conditions.Cluster(tl, warnings)
	}
	if s.opts.ShowWeatherIcons {
		plan.IconMarks = icons.Marks(tl, s.opts.IconStride)
	}
	if s.opts.ShowCalendarEvents && len(events) > 0 {
		assignment, err := layout.PackRows(events, layout.PackOptions{
			MaxRows:                 s.opts.MaxEventRows,
			SplitMultiDayAtMidnight: s.opts.SplitMultiDay,
			Strict:                  s.opts.StrictPacking,
		})
		if err != nil {
			return nil, err
		}
		plan.EventRows = assignment.Rows
		for _, ev := range assignment.Dropped {
			plan.DroppedEvents = append(plan.DroppedEvents, ev.ID)
		}
		if len(assignment.Dropped) > 0 {
			s.logger.Warn("calendar events dropped from overlay",
				"dropped", len(assignment.Dropped), "max_rows", s.opts.MaxEventRows)
		}
	}

	plan.Geometry = layout.ComputeGeometry(
		len(plan.IconMarks) > 0,
		len(plan.ConditionBars) > 0,
		len(plan.EventRows),
	)

	s.logger.Info("meteogram plan built",
		"samples", len(tl),
		"condition_bars", len(plan.ConditionBars),
		"event_rows", len(plan.EventRows),
		"duration_ms", time.Since(start).Milliseconds())
	return plan, nil
}
