package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meteogram/internal/types"
)

// setRequiredEnv sets the minimum environment for a successful load.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATAHUB_CLIENT_KEY", "key-123")
	t.Setenv("DATAHUB_CLIENT_SECRET", "secret-456")
	t.Setenv("LOCATION_LAT", "50.72")
	t.Setenv("LOCATION_LON", "-1.98")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Environment)
	assert.Equal(t, 7, cfg.Forecast.HorizonDays)
	assert.Equal(t, 10*time.Minute, cfg.Cache.Freshness)
	assert.Equal(t, 4.0, cfg.Warnings.FrostTempC)
	assert.Equal(t, 3*time.Hour, cfg.Warnings.IceMinDuration)
	assert.Equal(t, 3, cfg.Display.MaxEventRows)
	assert.True(t, cfg.Display.SplitMultiDay)
	assert.False(t, cfg.Display.StrictPacking)
	assert.Equal(t, "8080", cfg.Server.Port)
}

func TestLoadConfigSecretsRedacted(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "key-123", cfg.Forecast.ClientKey.Value())
	assert.Equal(t, "[REDACTED]", cfg.Forecast.ClientKey.String())

	raw, err := json.Marshal(cfg.Forecast)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret-456")
}

func TestLoadConfigMissingCredentials(t *testing.T) {
	t.Setenv("DATAHUB_CLIENT_KEY", "")
	t.Setenv("DATAHUB_CLIENT_SECRET", "")
	t.Setenv("LOCATION_LAT", "50.72")
	t.Setenv("LOCATION_LON", "-1.98")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.True(t, types.HasCode(err, types.ErrCodeConfigInvalid))
}

func TestLoadConfigRejectsBadLatitude(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LOCATION_LAT", "123.4")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.True(t, types.HasCode(err, types.ErrCodeConfigInvalid))
}

func TestLoadConfigRejectsHorizonBeyondUpstream(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("FORECAST_HORIZON_DAYS", "10")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.True(t, types.HasCode(err, types.ErrCodeConfigInvalid))
}

func TestCalendarSources(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CALENDAR_URLS", "https://cal.example/a.ics,https://cal.example/b.ics")
	t.Setenv("CALENDAR_COLORS", "#ff0000")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	sources := cfg.Calendars.Sources()
	require.Len(t, sources, 2)
	assert.Equal(t, "calendar-1", sources[0].ID)
	assert.Equal(t, "#ff0000", sources[0].Color)
	// Second feed falls back to the default color.
	assert.Equal(t, cfg.Calendars.DefaultColor, sources[1].Color)
}

func TestLoadConfigRejectsOrphanColors(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CALENDAR_URLS", "https://cal.example/a.ics")
	t.Setenv("CALENDAR_COLORS", "#ff0000,#00ff00")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.True(t, types.HasCode(err, types.ErrCodeConfigInvalid))
}

func TestThresholdsConversion(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("FROST_TEMP_C", "0")
	t.Setenv("LAUNDRY_HANG_OUT_HOUR", "10")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	th := cfg.Warnings.Thresholds()
	assert.Equal(t, 0.0, th.FrostTempC)
	assert.Equal(t, 10, th.Laundry.HangOutHour)
	assert.Equal(t, 50.0, th.StormPrecipProb)

	loc := cfg.Location.Location()
	assert.Equal(t, 50.72, loc.Latitude)
}
