// Package calendar ingests ICS feeds and produces the CalendarEvents
// overlaid on the meteogram. Events are clamped to the display horizon, and
// all-day entries are narrowed to their day's daylight band so they line up
// with the daytime regions on the chart.
package calendar

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"meteogram/internal/types"
	"meteogram/internal/upstream"
)

// Feed is one configured ICS source.
type Feed struct {
	ID    string
	URL   string
	Color string
}

// Fetcher retrieves and decodes calendar feeds.
type Fetcher struct {
	client *upstream.Client
	logger *slog.Logger
}

// NewFetcher creates a Fetcher that performs its HTTP calls through the
// shared resilient client.
func NewFetcher(client *upstream.Client, logger *slog.Logger) *Fetcher {
	return &Fetcher{client: client, logger: logger}
}

// Events fetches every feed and returns the events intersecting
// [first, last], adjusted for display:
//
//   - All-day events are narrowed to the daylight band of their day(s); an
//     all-day event's exclusive end date is backed off by an hour so it does
//     not bleed into the following day.
//   - Start/end are clamped to the horizon so long-running events do not
//     stretch the figure.
//
// A feed that fails to fetch or parse is logged and skipped; the call only
// fails when every configured feed failed, since a meteogram without one of
// its calendars is still worth rendering.
func (f *Fetcher) Events(ctx context.Context, feeds []Feed, bands []types.DaylightBand, first, last time.Time) ([]types.CalendarEvent, error) {
	var out []types.CalendarEvent
	failures := 0
	var lastErr error

	for _, feed := range feeds {
		events, err := f.fetchFeed(ctx, feed, bands, first, last)
		if err != nil {
			f.logger.Warn("skipping calendar feed", "calendar", feed.ID, "error", err)
			failures++
			lastErr = err
			continue
		}
		out = append(out, events...)
	}

	if len(feeds) > 0 && failures == len(feeds) {
		return nil, types.NewAppError(types.ErrCodeUpstreamCalendar,
			"all calendar feeds failed", lastErr)
	}
	return out, nil
}

func (f *Fetcher) fetchFeed(ctx context.Context, feed Feed, bands []types.DaylightBand, first, last time.Time) ([]types.CalendarEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feed.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, types.NewAppError(types.ErrCodeUpstreamCalendar,
			"calendar feed returned "+resp.Status, nil)
	}

	cal, err := ics.ParseCalendar(resp.Body)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeUpstreamCalendar,
			"parsing calendar feed", err)
	}

	var out []types.CalendarEvent
	for _, v := range cal.Events() {
		ev, ok := f.convert(v, feed, bands)
		if !ok {
			continue
		}
		// Keep only events intersecting the horizon.
		if !ev.End.After(first) || !ev.Start.Before(last) {
			continue
		}
		if ev.Start.Before(first) {
			ev.Start = first
		}
		if ev.End.After(last) {
			ev.End = last
		}
		out = append(out, ev)
	}
	return out, nil
}

// convert maps a VEVENT onto the domain type. Events without parseable
// times are dropped.
func (f *Fetcher) convert(v *ics.VEvent, feed Feed, bands []types.DaylightBand) (types.CalendarEvent, bool) {
	ev := types.CalendarEvent{
		CalendarID: feed.ID,
		Color:      feed.Color,
	}

	if p := v.GetProperty(ics.ComponentPropertySummary); p != nil {
		ev.Title = p.Value
	}
	if p := v.GetProperty(ics.ComponentPropertyUniqueId); p != nil && p.Value != "" {
		ev.ID = p.Value
	} else {
		ev.ID = uuid.NewString()
	}

	start, err := v.GetStartAt()
	if err == nil {
		end, endErr := v.GetEndAt()
		if endErr != nil {
			return types.CalendarEvent{}, false
		}
		ev.Start = start.UTC()
		ev.End = end.UTC()
		return ev, true
	}

	// DATE-valued DTSTART: an all-day event.
	start, err = v.GetAllDayStartAt()
	if err != nil {
		return types.CalendarEvent{}, false
	}
	end, err := v.GetAllDayEndAt()
	if err != nil {
		end = start.AddDate(0, 0, 1)
	}
	ev.AllDay = true
	// The exclusive end lands on the next day's midnight; back off an hour
	// so the event does not claim an extra day.
	ev.Start, ev.End = allDayBounds(start.UTC(), end.UTC().Add(-time.Hour), bands)
	return ev, true
}

// allDayBounds narrows an all-day event to the daylight bands of its first
// and last days. Days without a band keep their midnight bounds.
func allDayBounds(start, end time.Time, bands []types.DaylightBand) (time.Time, time.Time) {
	byDate := make(map[time.Time]types.DaylightBand, len(bands))
	for _, b := range bands {
		byDate[b.Date] = b
	}
	if b, ok := byDate[midnight(start)]; ok {
		start = b.Sunrise
	}
	if b, ok := byDate[midnight(end)]; ok {
		end = b.Sunset
	}
	return start, end
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
