// Package types defines the canonical domain types shared across the
// meteogram pipeline: forecast samples and timelines, derived warnings,
// daylight bands, calendar events, row assignments, and the error taxonomy.
// It has no dependencies on other internal packages so that every layer can
// import it freely.
package types

import "time"

// Resolution tags the upstream cadence a Sample was reported at.
type Resolution string

const (
	// ResolutionHourly marks samples from the hourly point forecast
	// (roughly the next 48 hours, one sample per hour).
	ResolutionHourly Resolution = "hourly"

	// ResolutionThreeHourly marks samples from the three-hourly point
	// forecast (roughly the next seven days, one sample per three hours).
	ResolutionThreeHourly Resolution = "three_hourly"
)

// Field selects a numeric measurement on a Sample. The two upstream cadences
// report different field sets, so any field may be absent on any sample;
// aggregation code must check presence via Sample.Value rather than reading
// struct members directly.
type Field string

const (
	FieldTemperature  Field = "temperature_c"
	FieldFeelsLike    Field = "feels_like_c"
	FieldWindSpeed    Field = "wind_speed_knots"
	FieldWindGust     Field = "wind_gust_knots"
	FieldPrecipProb   Field = "precipitation_probability"
	FieldPrecipAmount Field = "precipitation_mm"
	FieldHumidity     Field = "humidity_percent"
	FieldThunderProb  Field = "thunder_probability"
)

// Sample is one forecast instant. It is immutable once created: the merger,
// the rule engine, and the renderer all share the same backing values.
//
// Numeric fields are pointers because presence depends on which upstream
// endpoint produced the sample. A nil field means "not reported", never zero.
type Sample struct {
	Time       time.Time  `json:"time"`
	Resolution Resolution `json:"resolution"`

	TemperatureC       *float64 `json:"temperature_c,omitempty"`
	FeelsLikeC         *float64 `json:"feels_like_c,omitempty"`
	WindSpeedKnots     *float64 `json:"wind_speed_knots,omitempty"`
	WindGustKnots      *float64 `json:"wind_gust_knots,omitempty"`
	PrecipProbability  *float64 `json:"precipitation_probability,omitempty"`
	PrecipAmountMM     *float64 `json:"precipitation_mm,omitempty"`
	HumidityPercent    *float64 `json:"humidity_percent,omitempty"`
	ThunderProbability *float64 `json:"thunder_probability,omitempty"`
	WeatherCode        *int     `json:"weather_code,omitempty"`
}

// Value returns the measurement selected by f and whether it is present.
func (s Sample) Value(f Field) (float64, bool) {
	var p *float64
	switch f {
	case FieldTemperature:
		p = s.TemperatureC
	case FieldFeelsLike:
		p = s.FeelsLikeC
	case FieldWindSpeed:
		p = s.WindSpeedKnots
	case FieldWindGust:
		p = s.WindGustKnots
	case FieldPrecipProb:
		p = s.PrecipProbability
	case FieldPrecipAmount:
		p = s.PrecipAmountMM
	case FieldHumidity:
		p = s.HumidityPercent
	case FieldThunderProb:
		p = s.ThunderProbability
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

// Timeline is a merged forecast series: strictly ascending timestamps with
// no duplicates, covering the display horizon.
type Timeline []Sample

// Times returns the timestamp of every sample in order. It is the x-axis
// of the rendered chart.
func (tl Timeline) Times() []time.Time {
	out := make([]time.Time, len(tl))
	for i, s := range tl {
		out[i] = s.Time
	}
	return out
}

// Start returns the timestamp of the first sample, or the zero time for an
// empty timeline.
func (tl Timeline) Start() time.Time {
	if len(tl) == 0 {
		return time.Time{}
	}
	return tl[0].Time
}

// End returns the timestamp of the last sample, or the zero time for an
// empty timeline.
func (tl Timeline) End() time.Time {
	if len(tl) == 0 {
		return time.Time{}
	}
	return tl[len(tl)-1].Time
}

// Ascending reports whether timestamps are strictly increasing. The merger
// guarantees this; consumers may assert it cheaply in tests.
func (tl Timeline) Ascending() bool {
	for i := 1; i < len(tl); i++ {
		if !tl[i].Time.After(tl[i-1].Time) {
			return false
		}
	}
	return true
}

// Float64 returns a pointer to v. Convenience for building optional Sample
// fields at call sites and in tests.
func Float64(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }
