package conditions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meteogram/internal/types"
)

func laundryThresholds() types.Thresholds {
	return types.Thresholds{
		Laundry: types.LaundryThresholds{
			HangOutHour:        10,
			MinHoursDaylight:   6,
			MinAverageTempC:    12,
			MaxAverageHumidity: 70,
			MaxPrecipProb:      20,
		},
	}
}

func summerBand() types.DaylightBand {
	return types.DaylightBand{
		Date:    base,
		Sunrise: base.Add(5 * time.Hour),
		Sunset:  base.Add(20 * time.Hour),
	}
}

// dryingDay builds an hourly timeline across the whole day with the given
// constant field values.
func dryingDay(temp, humidity, precip float64) types.Timeline {
	tl := make(types.Timeline, 24)
	for i := range tl {
		tl[i] = types.Sample{
			Time:              at(i),
			TemperatureC:      types.Float64(temp),
			HumidityPercent:   types.Float64(humidity),
			PrecipProbability: types.Float64(precip),
		}
	}
	return tl
}

func TestLaundryQualifyingDay(t *testing.T) {
	got := LaundryWarnings(dryingDay(18, 55, 5), []types.DaylightBand{summerBand()}, laundryThresholds())
	require.Len(t, got, 1)

	w := got[0]
	assert.Equal(t, types.WarningLaundry, w.Kind)
	// The warning spans the full daylight band, not just the drying window.
	assert.Equal(t, summerBand().Sunrise, w.Start)
	assert.Equal(t, summerBand().Sunset, w.End)
}

func TestLaundryRejectsEachThreshold(t *testing.T) {
	th := laundryThresholds()
	band := []types.DaylightBand{summerBand()}

	tests := []struct {
		name string
		tl   types.Timeline
	}{
		{"too cold", dryingDay(8, 55, 5)},
		{"too humid", dryingDay(18, 85, 5)},
		{"too rainy", dryingDay(18, 55, 45)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, LaundryWarnings(tt.tl, band, th))
		})
	}
}

func TestLaundryWindowStartsAtHangOutTime(t *testing.T) {
	// Morning is cold and wet; from the 10:00 hang-out time onward the day
	// is fine. The pre-hang-out samples must not drag the means down.
	tl := dryingDay(18, 55, 5)
	for i := 0; i < 10; i++ {
		tl[i].TemperatureC = types.Float64(-5)
		tl[i].PrecipProbability = types.Float64(100)
	}
	got := LaundryWarnings(tl, []types.DaylightBand{summerBand()}, laundryThresholds())
	assert.Len(t, got, 1)
}

func TestLaundryShortDayDisqualifies(t *testing.T) {
	// Sunset at 14:00 leaves only 4 hours after the 10:00 hang-out time.
	band := types.DaylightBand{
		Date:    base,
		Sunrise: base.Add(7 * time.Hour),
		Sunset:  base.Add(14 * time.Hour),
	}
	got := LaundryWarnings(dryingDay(18, 55, 5), []types.DaylightBand{band}, laundryThresholds())
	assert.Empty(t, got)
}

func TestLaundryEmptyWindowIsNotAnError(t *testing.T) {
	// No samples at all within [10:00, sunset): the day silently fails to
	// qualify and derivation continues for other days.
	var tl types.Timeline
	for i := 0; i < 8; i++ {
		tl = append(tl, types.Sample{
			Time:              at(i),
			TemperatureC:      types.Float64(18),
			HumidityPercent:   types.Float64(50),
			PrecipProbability: types.Float64(5),
		})
	}
	nextDay := types.DaylightBand{
		Date:    base.AddDate(0, 0, 1),
		Sunrise: base.Add(29 * time.Hour),
		Sunset:  base.Add(44 * time.Hour),
	}

	assert.NotPanics(t, func() {
		got := LaundryWarnings(tl, []types.DaylightBand{summerBand(), nextDay}, laundryThresholds())
		assert.Empty(t, got)
	})
}

func TestLaundryMissingFieldSuppressesDay(t *testing.T) {
	// Humidity absent across the window: the mean cannot be computed, so
	// the day does not qualify.
	tl := dryingDay(18, 55, 5)
	for i := range tl {
		tl[i].HumidityPercent = nil
	}
	got := LaundryWarnings(tl, []types.DaylightBand{summerBand()}, laundryThresholds())
	assert.Empty(t, got)
}
