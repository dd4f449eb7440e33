// Package conditions derives warning flags from a merged forecast timeline.
// Each rule is an independent pure function over the timeline and a
// caller-supplied Thresholds value; no rule knows about any other, and
// missing forecast fields degrade to "no warning" rather than failing.
// The only fatal input is an unusable timeline, which the merger has
// already rejected before this package runs.
package conditions

import (
	"sort"
	"time"

	"meteogram/internal/types"
)

// Frosty reports whether the sample's temperature is below the frost
// threshold. A sample without a temperature is never frosty.
func Frosty(s types.Sample, th types.Thresholds) bool {
	v, ok := s.Value(types.FieldTemperature)
	return ok && v < th.FrostTempC
}

// Stormy reports whether the sample meets the storm disjunction:
// gusts and precipitation probability both above threshold, or thunder
// probability above threshold on its own. Missing operands make their
// clause false.
func Stormy(s types.Sample, th types.Thresholds) bool {
	gust, gustOK := s.Value(types.FieldWindGust)
	precip, precipOK := s.Value(types.FieldPrecipProb)
	if gustOK && precipOK && gust > th.StormGustKnots && precip > th.StormPrecipProb {
		return true
	}
	thunder, thunderOK := s.Value(types.FieldThunderProb)
	return thunderOK && thunder > th.ThunderProb
}

// FrostWarnings returns one instant warning per frosty sample. Samples in a
// contiguous frosty run lasting at least IceMinDuration additionally carry
// the Ice escalation flag.
func FrostWarnings(tl types.Timeline, th types.Thresholds) []types.Warning {
	var out []types.Warning
	i := 0
	for i < len(tl) {
		if !Frosty(tl[i], th) {
			i++
			continue
		}
		// Extend the contiguous frosty run.
		j := i
		for j+1 < len(tl) && Frosty(tl[j+1], th) {
			j++
		}
		ice := th.IceMinDuration > 0 && tl[j].Time.Sub(tl[i].Time) >= th.IceMinDuration
		for k := i; k <= j; k++ {
			out = append(out, types.Warning{
				Kind:  types.WarningFrost,
				Start: tl[k].Time,
				Ice:   ice,
			})
		}
		i = j + 1
	}
	return out
}

// StormWarnings returns one instant warning per stormy sample. Storm is a
// pure per-instant rule; no windowing is involved.
func StormWarnings(tl types.Timeline, th types.Thresholds) []types.Warning {
	var out []types.Warning
	for _, s := range tl {
		if Stormy(s, th) {
			out = append(out, types.Warning{Kind: types.WarningStorm, Start: s.Time})
		}
	}
	return out
}

// DeriveWarnings evaluates every rule against the timeline and returns the
// combined, timestamp-ordered warning sequence. Warnings of different kinds
// may coexist at the same instant. The function is total over any valid
// timeline: data sparsity only ever suppresses individual warnings.
func DeriveWarnings(tl types.Timeline, bands []types.DaylightBand, th types.Thresholds) []types.Warning {
	var out []types.Warning
	out = append(out, FrostWarnings(tl, th)...)
	out = append(out, StormWarnings(tl, th)...)
	out = append(out, LaundryWarnings(tl, bands, th)...)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out
}

// Cluster coalesces instant warnings into display intervals, independently
// per kind. Consecutive timeline samples flagged together form one interval,
// extended half a step toward each neighbouring sample so bars visually
// cover the flagged region; at the timeline edges no extension is applied.
// Interval warnings pass through unchanged.
func Cluster(tl types.Timeline, warnings []types.Warning) []types.Warning {
	index := make(map[time.Time]int, len(tl))
	for i, s := range tl {
		index[s.Time] = i
	}

	type group struct {
		instants []int
		ice      map[int]bool
	}
	groups := make(map[types.WarningKind]*group)
	var out []types.Warning
	for _, w := range warnings {
		if !w.Instant() {
			out = append(out, w)
			continue
		}
		i, ok := index[w.Start]
		if !ok {
			continue
		}
		g := groups[w.Kind]
		if g == nil {
			g = &group{ice: make(map[int]bool)}
			groups[w.Kind] = g
		}
		g.instants = append(g.instants, i)
		if w.Ice {
			g.ice[i] = true
		}
	}

	for kind, g := range groups {
		sort.Ints(g.instants)
		start := 0
		for pos := 1; pos <= len(g.instants); pos++ {
			if pos < len(g.instants) && g.instants[pos]-g.instants[pos-1] <= 1 {
				continue
			}
			first, last := g.instants[start], g.instants[pos-1]
			out = append(out, types.Warning{
				Kind:  kind,
				Start: extendedStart(tl, first),
				End:   extendedEnd(tl, last),
				Ice:   g.ice[first] || g.ice[last],
			})
			start = pos
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].Kind < out[j].Kind
	})
	return out
}

// extendedStart moves the interval start halfway toward the preceding
// sample, or leaves it at the sample time for the first sample.
func extendedStart(tl types.Timeline, i int) time.Time {
	if i == 0 {
		return tl[0].Time
	}
	step := tl[i].Time.Sub(tl[i-1].Time)
	return tl[i].Time.Add(-step / 2)
}

// extendedEnd moves the interval end halfway toward the following sample,
// or leaves it at the sample time for the last sample.
func extendedEnd(tl types.Timeline, i int) time.Time {
	if i == len(tl)-1 {
		return tl[i].Time
	}
	step := tl[i+1].Time.Sub(tl[i].Time)
	return tl[i].Time.Add(step / 2)
}
