package conditions

import (
	"time"

	"meteogram/internal/timeline"
	"meteogram/internal/types"
)

// LaundryWarnings evaluates the good-laundry-day rule for each daylight
// band. A day qualifies when the drying window — from the later of sunrise
// and the configured hang-out hour, until sunset — is long enough, and the
// windowed means of temperature, humidity, and precipitation probability
// all pass their thresholds.
//
// A day whose window holds no qualifying samples is silently non-qualifying:
// partial forecast data must never abort the derivation.
func LaundryWarnings(tl types.Timeline, bands []types.DaylightBand, th types.Thresholds) []types.Warning {
	var out []types.Warning
	for _, band := range bands {
		if qualifies(tl, band, th) {
			out = append(out, types.Warning{
				Kind:  types.WarningLaundry,
				Start: band.Sunrise,
				End:   band.Sunset,
			})
		}
	}
	return out
}

func qualifies(tl types.Timeline, band types.DaylightBand, th types.Thresholds) bool {
	hangOut := band.Date.Add(time.Duration(th.Laundry.HangOutHour) * time.Hour)
	start := band.Sunrise
	if hangOut.After(start) {
		start = hangOut
	}
	end := band.Sunset

	minDaylight := time.Duration(th.Laundry.MinHoursDaylight * float64(time.Hour))
	if end.Sub(start) < minDaylight {
		return false
	}

	meanTemp, err := timeline.MeanBetween(tl, start, end, types.FieldTemperature)
	if err != nil {
		return false
	}
	meanHumidity, err := timeline.MeanBetween(tl, start, end, types.FieldHumidity)
	if err != nil {
		return false
	}
	meanPrecip, err := timeline.MeanBetween(tl, start, end, types.FieldPrecipProb)
	if err != nil {
		return false
	}

	return meanTemp >= th.Laundry.MinAverageTempC &&
		meanHumidity < th.Laundry.MaxAverageHumidity &&
		meanPrecip < th.Laundry.MaxPrecipProb
}
