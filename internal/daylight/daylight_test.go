package daylight

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meteogram/internal/types"
)

// Poole, UK: the reference location for the fixtures.
var poole = types.Location{Latitude: 50.72, Longitude: -1.98}

func TestBandForOrdinaryDay(t *testing.T) {
	at := time.Date(2026, 6, 21, 12, 0, 0, 0, time.UTC)
	band, ok := BandFor(poole, at)
	require.True(t, ok)

	assert.Equal(t, time.Date(2026, 6, 21, 0, 0, 0, 0, time.UTC), band.Date)
	assert.True(t, band.Sunrise.Before(band.Sunset))
	// Midsummer at 50N: roughly 16 hours of daylight.
	daylen := band.Sunset.Sub(band.Sunrise)
	assert.Greater(t, daylen, 15*time.Hour)
	assert.Less(t, daylen, 18*time.Hour)
	// Bounds fall within the band's own calendar day.
	assert.Equal(t, band.Date.Day(), band.Sunrise.Day())
}

func TestBandForPolarNight(t *testing.T) {
	svalbard := types.Location{Latitude: 78.22, Longitude: 15.63}
	_, ok := BandFor(svalbard, time.Date(2026, 12, 21, 12, 0, 0, 0, time.UTC))
	assert.False(t, ok, "no band during polar night")

	_, ok = BandFor(svalbard, time.Date(2026, 6, 21, 12, 0, 0, 0, time.UTC))
	assert.False(t, ok, "no band during polar day")
}

func TestBandsOnePerDay(t *testing.T) {
	from := time.Date(2026, 8, 23, 18, 30, 0, 0, time.UTC)
	to := from.Add(3 * 24 * time.Hour)
	bands := Bands(poole, from, to)

	// Partial first and last days still produce full bands.
	require.Len(t, bands, 4)
	for i, b := range bands {
		assert.Equal(t, time.Date(2026, 8, 23+i, 0, 0, 0, 0, time.UTC), b.Date)
		assert.True(t, b.Sunrise.Before(b.Sunset))
	}
}

func TestBandsDeterministic(t *testing.T) {
	from := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)
	to := from.Add(48 * time.Hour)
	assert.Equal(t, Bands(poole, from, to), Bands(poole, from, to))
}

func TestMidnight(t *testing.T) {
	at := time.Date(2026, 8, 23, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC), Midnight(at))
}
