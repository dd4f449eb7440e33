// Package daylight derives sunrise/sunset-bounded intervals per calendar day
// for a fixed location. It is pure and deterministic: the astronomy comes
// from the NOAA solar calculation in go-sunrise, keyed only by coordinates
// and civil date.
package daylight

import (
	"time"

	"github.com/nathan-osman/go-sunrise"

	"meteogram/internal/types"
)

// BandFor returns the daylight band for the calendar day containing the
// given instant (UTC). The second return is false during polar day or polar
// night, when the sun neither rises nor sets and no band exists.
func BandFor(loc types.Location, at time.Time) (types.DaylightBand, bool) {
	at = at.UTC()
	rise, set := sunrise.SunriseSunset(loc.Latitude, loc.Longitude, at.Year(), at.Month(), at.Day())
	if rise.IsZero() || set.IsZero() {
		return types.DaylightBand{}, false
	}
	return types.DaylightBand{
		Date:    Midnight(at),
		Sunrise: rise,
		Sunset:  set,
	}, true
}

// Bands returns one band per calendar day touched by [from, to]. Days only
// partially inside the range still get full-day bounds; the renderer clips
// visually. Polar days and nights are skipped.
func Bands(loc types.Location, from, to time.Time) []types.DaylightBand {
	var out []types.DaylightBand
	for day := Midnight(from); !day.After(to); day = day.AddDate(0, 0, 1) {
		if band, ok := BandFor(loc, day); ok {
			out = append(out, band)
		}
	}
	return out
}

// Midnight truncates an instant to 00:00 UTC of its calendar day.
func Midnight(at time.Time) time.Time {
	at = at.UTC()
	return time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)
}
