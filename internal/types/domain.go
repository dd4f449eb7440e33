package types

import "time"

// WarningKind identifies a derived condition rule.
type WarningKind string

const (
	WarningFrost   WarningKind = "frost"
	WarningStorm   WarningKind = "storm"
	WarningLaundry WarningKind = "laundry"
)

// Warning is a derived condition flag. It is recomputed on every run and
// never persisted.
//
// A Warning is either an instant (End is the zero time, the condition held
// at the sample at Start) or a half-open interval [Start, End). Per-instant
// rule output uses instants; clustering and the laundry rule produce
// intervals.
type Warning struct {
	Kind  WarningKind `json:"kind"`
	Start time.Time   `json:"start"`
	End   time.Time   `json:"end,omitempty"`

	// Ice marks a frost warning whose contiguous run met the configured
	// minimum duration. It is a severity escalation of frost, not a
	// separate kind.
	Ice bool `json:"ice,omitempty"`
}

// Instant reports whether the warning is a single-instant flag rather than
// an interval.
func (w Warning) Instant() bool { return w.End.IsZero() }

// Location is a geographic point the forecast and daylight calculations are
// anchored to.
type Location struct {
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
}

// DaylightBand is the sunrise-to-sunset interval for one calendar day.
// Days are identified by their midnight UTC instant. A day inside a polar
// night or polar day has no band at all.
type DaylightBand struct {
	Date    time.Time `json:"date"`
	Sunrise time.Time `json:"sunrise"`
	Sunset  time.Time `json:"sunset"`
}

// CalendarEvent is one entry from an external calendar feed, read-only to
// the row packer. ID is the upstream iCalendar UID where available, or a
// generated identifier otherwise; multi-day splitting derives per-day IDs
// from it.
type CalendarEvent struct {
	ID         string    `json:"id"`
	CalendarID string    `json:"calendar_id"`
	Title      string    `json:"title"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Color      string    `json:"color"`
	AllDay     bool      `json:"all_day,omitempty"`
}

// Overlaps reports whether the half-open intervals [e.Start, e.End) and
// [other.Start, other.End) intersect.
func (e CalendarEvent) Overlaps(other CalendarEvent) bool {
	return e.Start.Before(other.End) && other.Start.Before(e.End)
}

// RowAssignment maps calendar events onto bounded display rows such that no
// two events in the same row overlap. It is computed fresh per render and
// discarded after use.
type RowAssignment struct {
	// Rows holds the packed events; index is the display row. Rows beyond
	// the last occupied one are omitted.
	Rows [][]CalendarEvent `json:"rows"`

	// Dropped lists events that did not fit within the row limit under the
	// default lenient policy.
	Dropped []CalendarEvent `json:"dropped,omitempty"`
}

// RowCount returns the number of occupied rows.
func (ra RowAssignment) RowCount() int { return len(ra.Rows) }

// RowOf returns the row index the event with the given ID was packed into.
func (ra RowAssignment) RowOf(id string) (int, bool) {
	for row, events := range ra.Rows {
		for _, ev := range events {
			if ev.ID == id {
				return row, true
			}
		}
	}
	return 0, false
}

// LaundryThresholds parameterizes the good-laundry-day rule.
type LaundryThresholds struct {
	// HangOutHour is the earliest hour of day (UTC) laundry goes out; the
	// drying window starts at the later of this and sunrise.
	HangOutHour int `json:"hang_out_hour" validate:"min=0,max=23"`

	MinHoursDaylight   float64 `json:"min_hours_daylight" validate:"min=0"`
	MinAverageTempC    float64 `json:"min_average_temp_c"`
	MaxAverageHumidity float64 `json:"max_average_humidity" validate:"min=0,max=100"`
	MaxPrecipProb      float64 `json:"max_precip_prob" validate:"min=0,max=100"`
}

// Thresholds carries every caller-supplied numeric threshold the rule engine
// consumes. Nothing in the engine is hardcoded; this struct is passed
// explicitly into every derivation so concurrent runs with different
// settings never interfere.
type Thresholds struct {
	FrostTempC     float64       `json:"frost_temp_c"`
	IceMinDuration time.Duration `json:"ice_min_duration"`

	StormGustKnots  float64 `json:"storm_gust_knots" validate:"min=0"`
	StormPrecipProb float64 `json:"storm_precip_prob" validate:"min=0,max=100"`
	ThunderProb     float64 `json:"thunder_prob" validate:"min=0,max=100"`

	Laundry LaundryThresholds `json:"laundry"`
}
