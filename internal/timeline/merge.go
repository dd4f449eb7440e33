// Package timeline builds and queries the merged forecast series. It merges
// the hourly and three-hourly upstream streams into one strictly ascending
// Timeline, and provides the rolling-window aggregates the condition rules
// are built on. Everything here is a pure transformation: no I/O, no clock
// reads, no shared state.
package timeline

import (
	"sort"
	"time"

	"meteogram/internal/types"
)

// MinHorizon is the minimum forward coverage a merged timeline must reach.
// A shorter series is useless to the renderer, so merging fails outright.
const MinHorizon = 24 * time.Hour

// Merge combines the hourly and three-hourly sample streams into a single
// timeline covering [now, horizonEnd).
//
// Hourly samples are higher fidelity and win outright: every in-range hourly
// sample is kept, and three-hourly samples are used only from the end of
// hourly coverage onward. A three-hourly sample sharing the exact timestamp
// of the last hourly sample is a duplicate and is discarded. With no hourly
// coverage at all, the three-hourly stream stands alone.
//
// Returns insufficient_data if the merged series is empty or ends before
// now+MinHorizon.
func Merge(hourly, threeHourly []types.Sample, now, horizonEnd time.Time) (types.Timeline, error) {
	h := inRange(hourly, now, horizonEnd)
	th := inRange(threeHourly, now, horizonEnd)

	merged := make(types.Timeline, 0, len(h)+len(th))
	merged = append(merged, h...)

	if len(h) == 0 {
		merged = append(merged, th...)
	} else {
		lastHourly := h[len(h)-1].Time
		for _, s := range th {
			// Strictly after: an exact tie is already covered by the
			// hourly sample.
			if s.Time.After(lastHourly) {
				merged = append(merged, s)
			}
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Time.Before(merged[j].Time)
	})

	if len(merged) == 0 {
		return nil, types.NewInsufficientData("no forecast samples within horizon")
	}
	if merged.End().Before(now.Add(MinHorizon)) {
		return nil, types.NewInsufficientData("merged timeline ends before one full day forward").
			WithDetails(map[string]any{
				"timeline_end": merged.End(),
				"required_end": now.Add(MinHorizon),
			})
	}
	return merged, nil
}

// inRange returns the samples within [from, to), sorted ascending with
// duplicate timestamps within the stream collapsed to the first occurrence.
func inRange(samples []types.Sample, from, to time.Time) []types.Sample {
	out := make([]types.Sample, 0, len(samples))
	for _, s := range samples {
		if s.Time.Before(from) || !s.Time.Before(to) {
			continue
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time.Before(out[j].Time)
	})
	dedup := out[:0]
	for i, s := range out {
		if i > 0 && s.Time.Equal(out[i-1].Time) {
			continue
		}
		dedup = append(dedup, s)
	}
	return dedup
}
