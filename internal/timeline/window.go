package timeline

import (
	"time"

	"meteogram/internal/types"
)

// Between returns the samples whose timestamp lies in [start, end).
// The returned slice aliases the timeline; callers must not mutate it.
func Between(tl types.Timeline, start, end time.Time) []types.Sample {
	lo := 0
	for lo < len(tl) && tl[lo].Time.Before(start) {
		lo++
	}
	hi := lo
	for hi < len(tl) && tl[hi].Time.Before(end) {
		hi++
	}
	return tl[lo:hi]
}

// MeanBetween averages the given field over samples in [start, end).
// Samples lacking the field are ignored rather than treated as zero; if no
// sample in the window carries the field the query fails with empty_window.
func MeanBetween(tl types.Timeline, start, end time.Time, field types.Field) (float64, error) {
	var sum float64
	var n int
	for _, s := range Between(tl, start, end) {
		if v, ok := s.Value(field); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, types.NewEmptyWindow("no samples carry " + string(field) + " in window")
	}
	return sum / float64(n), nil
}

// MaxBetween returns the maximum of the given field over samples in
// [start, end), with the same absence semantics as MeanBetween.
func MaxBetween(tl types.Timeline, start, end time.Time, field types.Field) (float64, error) {
	var max float64
	var n int
	for _, s := range Between(tl, start, end) {
		v, ok := s.Value(field)
		if !ok {
			continue
		}
		if n == 0 || v > max {
			max = v
		}
		n++
	}
	if n == 0 {
		return 0, types.NewEmptyWindow("no samples carry " + string(field) + " in window")
	}
	return max, nil
}

// AnyTrueBetween reports whether pred holds for any sample in [start, end).
// An empty window fails with empty_window so callers can distinguish "no
// data" from "no match".
func AnyTrueBetween(tl types.Timeline, start, end time.Time, pred func(types.Sample) bool) (bool, error) {
	samples := Between(tl, start, end)
	if len(samples) == 0 {
		return false, types.NewEmptyWindow("no samples in window")
	}
	for _, s := range samples {
		if pred(s) {
			return true, nil
		}
	}
	return false, nil
}

// Mean is the offset form of MeanBetween: the window is
// [now+startOffset, now+startOffset+span).
func Mean(tl types.Timeline, now time.Time, startOffset, span time.Duration, field types.Field) (float64, error) {
	start := now.Add(startOffset)
	return MeanBetween(tl, start, start.Add(span), field)
}

// Max is the offset form of MaxBetween.
func Max(tl types.Timeline, now time.Time, startOffset, span time.Duration, field types.Field) (float64, error) {
	start := now.Add(startOffset)
	return MaxBetween(tl, start, start.Add(span), field)
}

// AnyTrue is the offset form of AnyTrueBetween.
func AnyTrue(tl types.Timeline, now time.Time, startOffset, span time.Duration, pred func(types.Sample) bool) (bool, error) {
	start := now.Add(startOffset)
	return AnyTrueBetween(tl, start, start.Add(span), pred)
}
