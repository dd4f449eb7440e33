package conditions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meteogram/internal/types"
)

var base = time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)

func at(h int) time.Time { return base.Add(time.Duration(h) * time.Hour) }

func hourlyTimeline(temps ...float64) types.Timeline {
	tl := make(types.Timeline, len(temps))
	for i, temp := range temps {
		tl[i] = types.Sample{Time: at(i), TemperatureC: types.Float64(temp)}
	}
	return tl
}

func TestFrostExampleFromDocs(t *testing.T) {
	tl := types.Timeline{
		{Time: base.Add(9 * time.Hour), TemperatureC: types.Float64(2)},
		{Time: base.Add(10 * time.Hour), TemperatureC: types.Float64(5)},
	}
	th := types.Thresholds{FrostTempC: 4}

	got := FrostWarnings(tl, th)
	require.Len(t, got, 1)
	assert.Equal(t, types.WarningFrost, got[0].Kind)
	assert.Equal(t, base.Add(9*time.Hour), got[0].Start)
	assert.True(t, got[0].Instant())
}

func TestFrostHoldsIffBelowThreshold(t *testing.T) {
	tl := hourlyTimeline(-3, -1, 0, 2.5, 4, 7, 12)
	for _, threshold := range []float64{-5, -1, 0, 3, 4.5, 20} {
		th := types.Thresholds{FrostTempC: threshold}
		warned := make(map[time.Time]bool)
		for _, w := range FrostWarnings(tl, th) {
			warned[w.Start] = true
		}
		for _, s := range tl {
			assert.Equal(t, *s.TemperatureC < threshold, warned[s.Time],
				"threshold=%v temp=%v", threshold, *s.TemperatureC)
		}
	}
}

func TestFrostMissingTemperature(t *testing.T) {
	tl := types.Timeline{{Time: at(0)}, {Time: at(1), TemperatureC: types.Float64(-5)}}
	got := FrostWarnings(tl, types.Thresholds{FrostTempC: 0})
	require.Len(t, got, 1)
	assert.Equal(t, at(1), got[0].Start)
}

func TestFrostIceEscalation(t *testing.T) {
	// Frosty from 00:00 through 03:00 (3h run), again at 06:00 alone.
	tl := hourlyTimeline(-2, -2, -3, -1, 5, 5, -2)
	th := types.Thresholds{FrostTempC: 0, IceMinDuration: 3 * time.Hour}

	got := FrostWarnings(tl, th)
	require.Len(t, got, 5)
	for _, w := range got[:4] {
		assert.True(t, w.Ice, "long run escalates to ice at %v", w.Start)
	}
	assert.False(t, got[4].Ice, "isolated frost instant is not ice")
}

func TestStormRule(t *testing.T) {
	th := types.Thresholds{StormGustKnots: 30, StormPrecipProb: 50, ThunderProb: 20}

	tests := []struct {
		name   string
		sample types.Sample
		want   bool
	}{
		{
			name: "gust and precip above thresholds",
			sample: types.Sample{
				WindGustKnots:     types.Float64(35),
				PrecipProbability: types.Float64(60),
			},
			want: true,
		},
		{
			name: "gust alone is not a storm",
			sample: types.Sample{
				WindGustKnots:     types.Float64(45),
				PrecipProbability: types.Float64(10),
			},
			want: false,
		},
		{
			name:   "thunder alone is a storm",
			sample: types.Sample{ThunderProbability: types.Float64(30)},
			want:   true,
		},
		{
			name: "threshold is exclusive",
			sample: types.Sample{
				WindGustKnots:     types.Float64(30),
				PrecipProbability: types.Float64(50),
			},
			want: false,
		},
		{
			name:   "missing operands degrade to no warning",
			sample: types.Sample{WindGustKnots: types.Float64(40)},
			want:   false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Stormy(tt.sample, th))
		})
	}
}

func TestFrostAndStormCoexist(t *testing.T) {
	// Cold, gusty, wet instant triggers both rules independently.
	tl := types.Timeline{{
		Time:              at(0),
		TemperatureC:      types.Float64(-1),
		WindGustKnots:     types.Float64(40),
		PrecipProbability: types.Float64(80),
	}, {
		Time:         at(1),
		TemperatureC: types.Float64(10),
	}}
	th := types.Thresholds{FrostTempC: 0, StormGustKnots: 30, StormPrecipProb: 50, ThunderProb: 20}

	got := DeriveWarnings(tl, nil, th)
	require.Len(t, got, 2)
	kinds := []types.WarningKind{got[0].Kind, got[1].Kind}
	assert.Contains(t, kinds, types.WarningFrost)
	assert.Contains(t, kinds, types.WarningStorm)
	assert.Equal(t, got[0].Start, got[1].Start)
}

func TestDeriveWarningsTotalAndOrdered(t *testing.T) {
	// Sparse timeline with assorted missing fields must never panic or error.
	tl := types.Timeline{
		{Time: at(0)},
		{Time: at(1), TemperatureC: types.Float64(-4)},
		{Time: at(2), ThunderProbability: types.Float64(90)},
		{Time: at(5), HumidityPercent: types.Float64(50)},
	}
	th := types.Thresholds{FrostTempC: 0, StormGustKnots: 30, StormPrecipProb: 50, ThunderProb: 20}

	got := DeriveWarnings(tl, nil, th)
	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].Start.Before(got[i-1].Start), "warnings must be timestamp-ordered")
	}
}

func TestClusterHalfStepExtension(t *testing.T) {
	// Hourly samples 0..11; instants at indices 1,2,3 and 7,8,9 cluster
	// into [0:30, 3:30) and [6:30, 9:30).
	tl := hourlyTimeline(0, -1, -1, -1, 0, 0, 0, -1, -1, -1, 0, 0)
	th := types.Thresholds{FrostTempC: -0.5}

	bars := Cluster(tl, FrostWarnings(tl, th))
	require.Len(t, bars, 2)
	assert.Equal(t, base.Add(30*time.Minute), bars[0].Start)
	assert.Equal(t, base.Add(3*time.Hour+30*time.Minute), bars[0].End)
	assert.Equal(t, base.Add(6*time.Hour+30*time.Minute), bars[1].Start)
	assert.Equal(t, base.Add(9*time.Hour+30*time.Minute), bars[1].End)
}

func TestClusterTimelineEdges(t *testing.T) {
	// A run touching the first sample gets no backward extension.
	tl := hourlyTimeline(-1, -1, 5)
	bars := Cluster(tl, FrostWarnings(tl, types.Thresholds{FrostTempC: 0}))
	require.Len(t, bars, 1)
	assert.Equal(t, at(0), bars[0].Start)
	assert.Equal(t, at(1).Add(30*time.Minute), bars[0].End)
}

func TestClusterKeepsKindsSeparate(t *testing.T) {
	// Frost at indices 0-1, storm at indices 1-2: adjacent instants of
	// different kinds must not merge into one bar.
	tl := hourlyTimeline(-1, -1, 5)
	warnings := []types.Warning{
		{Kind: types.WarningFrost, Start: at(0)},
		{Kind: types.WarningFrost, Start: at(1)},
		{Kind: types.WarningStorm, Start: at(1)},
		{Kind: types.WarningStorm, Start: at(2)},
	}

	bars := Cluster(tl, warnings)
	require.Len(t, bars, 2)
	assert.Equal(t, types.WarningFrost, bars[0].Kind)
	assert.Equal(t, at(0), bars[0].Start)
	assert.Equal(t, at(1).Add(30*time.Minute), bars[0].End)
	assert.Equal(t, types.WarningStorm, bars[1].Kind)
	assert.Equal(t, at(0).Add(30*time.Minute), bars[1].Start)
	assert.Equal(t, at(2), bars[1].End)
}

func TestClusterPassesIntervalsThrough(t *testing.T) {
	tl := hourlyTimeline(5, 5)
	laundry := types.Warning{Kind: types.WarningLaundry, Start: at(6), End: at(20)}
	bars := Cluster(tl, []types.Warning{laundry})
	require.Len(t, bars, 1)
	assert.Equal(t, laundry, bars[0])
}
