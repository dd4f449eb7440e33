// Package config defines the configuration for the meteogram pipeline.
// Configuration is loaded once at process start and is immutable thereafter;
// it follows 12-Factor principles by strictly separating code from
// configuration. Components receive only the subsets they require, and the
// core computations receive plain parameter structs (types.Thresholds,
// types.Location) rather than this package's types.
package config

import (
	"fmt"
	"time"

	"meteogram/internal/types"
)

// Config is the top-level configuration struct. Populated once during
// process initialization and never modified.
type Config struct {
	Environment string `envconfig:"APP_ENV" default:"local" validate:"required,oneof=local dev prod"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	Location  LocationConfig
	Forecast  ForecastConfig
	Cache     CacheConfig
	Calendars CalendarConfig
	Warnings  WarningConfig
	Display   DisplayConfig
	Server    ServerConfig
	Output    OutputConfig
}

// LocationConfig anchors the forecast and daylight calculations.
type LocationConfig struct {
	Latitude  float64 `envconfig:"LOCATION_LAT" validate:"min=-90,max=90"`
	Longitude float64 `envconfig:"LOCATION_LON" validate:"min=-180,max=180"`
}

// Location converts to the domain type handed into the core.
func (c LocationConfig) Location() types.Location {
	return types.Location{Latitude: c.Latitude, Longitude: c.Longitude}
}

// ForecastConfig holds the upstream point-forecast API settings.
type ForecastConfig struct {
	BaseURL      string             `envconfig:"DATAHUB_BASE_URL" default:"https://api-metoffice.apiconnect.ibmcloud.com/v0" validate:"required,url"`
	ClientKey    types.SecretString `envconfig:"DATAHUB_CLIENT_KEY" validate:"required"`
	ClientSecret types.SecretString `envconfig:"DATAHUB_CLIENT_SECRET" validate:"required"`

	Timeout time.Duration `envconfig:"DATAHUB_TIMEOUT" default:"15s"`

	// RequestsPerMinute caps upstream calls; the point API is metered.
	RequestsPerMinute int `envconfig:"DATAHUB_RPM" default:"10" validate:"min=1"`

	// HorizonDays is the forward display horizon. The upstream three-hourly
	// feed covers at most seven days.
	HorizonDays int `envconfig:"FORECAST_HORIZON_DAYS" default:"7" validate:"min=1,max=7"`
}

// CacheConfig holds the on-disk forecast cache settings.
type CacheConfig struct {
	Dir       string        `envconfig:"CACHE_DIR" default:".cache/meteogram"`
	Freshness time.Duration `envconfig:"CACHE_FRESHNESS" default:"10m"`
}

// CalendarConfig lists the ICS feeds overlaid on the meteogram. URLs and
// Colors are parallel lists; a feed without a color falls back to
// DefaultColor.
type CalendarConfig struct {
	URLs         []string      `envconfig:"CALENDAR_URLS"`
	Colors       []string      `envconfig:"CALENDAR_COLORS"`
	DefaultColor string        `envconfig:"CALENDAR_DEFAULT_COLOR" default:"#4c78a8"`
	Timeout      time.Duration `envconfig:"CALENDAR_TIMEOUT" default:"10s"`
}

// Source is one configured calendar feed.
type Source struct {
	ID    string
	URL   string
	Color string
}

// Sources pairs each calendar URL with its color.
func (c CalendarConfig) Sources() []Source {
	out := make([]Source, 0, len(c.URLs))
	for i, url := range c.URLs {
		color := c.DefaultColor
		if i < len(c.Colors) && c.Colors[i] != "" {
			color = c.Colors[i]
		}
		out = append(out, Source{ID: sourceID(i), URL: url, Color: color})
	}
	return out
}

func sourceID(i int) string {
	return fmt.Sprintf("calendar-%d", i+1)
}

// WarningConfig carries the condition rule thresholds.
type WarningConfig struct {
	FrostTempC     float64       `envconfig:"FROST_TEMP_C" default:"4"`
	IceMinDuration time.Duration `envconfig:"ICE_MIN_DURATION" default:"3h"`

	StormGustKnots  float64 `envconfig:"STORM_GUST_KNOTS" default:"40" validate:"min=0"`
	StormPrecipProb float64 `envconfig:"STORM_PRECIP_PROB" default:"50" validate:"min=0,max=100"`
	ThunderProb     float64 `envconfig:"THUNDER_PROB" default:"30" validate:"min=0,max=100"`

	LaundryHangOutHour        int     `envconfig:"LAUNDRY_HANG_OUT_HOUR" default:"9" validate:"min=0,max=23"`
	LaundryMinHoursDaylight   float64 `envconfig:"LAUNDRY_MIN_HOURS_DAYLIGHT" default:"6" validate:"min=0"`
	LaundryMinAverageTempC    float64 `envconfig:"LAUNDRY_MIN_AVERAGE_TEMP_C" default:"10"`
	LaundryMaxAverageHumidity float64 `envconfig:"LAUNDRY_MAX_AVERAGE_HUMIDITY" default:"70" validate:"min=0,max=100"`
	LaundryMaxPrecipProb      float64 `envconfig:"LAUNDRY_MAX_PRECIP_PROB" default:"20" validate:"min=0,max=100"`
}

// Thresholds converts to the parameter struct the rule engine consumes.
func (c WarningConfig) Thresholds() types.Thresholds {
	return types.Thresholds{
		FrostTempC:      c.FrostTempC,
		IceMinDuration:  c.IceMinDuration,
		StormGustKnots:  c.StormGustKnots,
		StormPrecipProb: c.StormPrecipProb,
		ThunderProb:     c.ThunderProb,
		Laundry: types.LaundryThresholds{
			HangOutHour:        c.LaundryHangOutHour,
			MinHoursDaylight:   c.LaundryMinHoursDaylight,
			MinAverageTempC:    c.LaundryMinAverageTempC,
			MaxAverageHumidity: c.LaundryMaxAverageHumidity,
			MaxPrecipProb:      c.LaundryMaxPrecipProb,
		},
	}
}

// DisplayConfig toggles figure overlays and row packing behavior.
type DisplayConfig struct {
	ShowWeatherIcons   bool `envconfig:"SHOW_WEATHER_ICONS" default:"true"`
	ShowConditionBars  bool `envconfig:"SHOW_CONDITION_BARS" default:"true"`
	ShowCalendarEvents bool `envconfig:"SHOW_CALENDAR_EVENTS" default:"true"`
	UseFeelsLikeTemp   bool `envconfig:"USE_FEELS_LIKE_TEMP" default:"false"`

	IconStride int `envconfig:"ICON_STRIDE" default:"3" validate:"min=1"`

	MaxEventRows  int  `envconfig:"MAX_EVENT_ROWS" default:"3" validate:"min=1"`
	SplitMultiDay bool `envconfig:"SPLIT_MULTI_DAY_EVENTS" default:"true"`
	StrictPacking bool `envconfig:"STRICT_PACKING" default:"false"`
}

// ServerConfig holds the HTTP surface settings for meteogramd.
type ServerConfig struct {
	Port           string        `envconfig:"PORT" default:"8080"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"29s"`
}

// OutputConfig holds the one-shot CLI output settings.
type OutputConfig struct {
	// File receives the render plan JSON; "-" writes to stdout.
	File string `envconfig:"OUTPUT_FILE" default:"meteogram.json"`
}
