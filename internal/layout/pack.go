// Package layout assigns calendar-style events to bounded display rows and
// computes the vertical geometry of the meteogram figure. Like the rest of
// the core it is pure: identical input always yields an identical layout.
package layout

import (
	"fmt"
	"sort"
	"time"

	"meteogram/internal/types"
)

// PackOptions configures PackRows.
type PackOptions struct {
	// MaxRows bounds the number of display rows; must be at least 1.
	MaxRows int

	// SplitMultiDayAtMidnight splits events spanning multiple calendar days
	// into one sub-event per day before packing, keeping row decisions
	// local to a single day's overlap set.
	SplitMultiDayAtMidnight bool

	// Strict makes overflow an error instead of silently dropping the
	// events that do not fit.
	Strict bool
}

// PackRows assigns events to rows such that no two events in the same row
// overlap, using greedy first-fit interval coloring:
//
//  1. Optionally split multi-day events at midnight.
//  2. Sort by start ascending; ties go to the longer event, then to
//     original input order. The whole pass is therefore deterministic.
//  3. Place each event on the lowest-indexed row that is free at its start.
//
// Events that fit on no row are dropped under the default policy and
// reported in the assignment; with Strict set they fail the call with
// too_many_overlaps instead.
func PackRows(events []types.CalendarEvent, opts PackOptions) (types.RowAssignment, error) {
	if opts.MaxRows < 1 {
		return types.RowAssignment{}, types.NewAppError(
			types.ErrCodeValidationInvalidRows,
			fmt.Sprintf("max rows must be at least 1, got %d", opts.MaxRows),
			nil,
		)
	}

	work := make([]types.CalendarEvent, 0, len(events))
	for _, ev := range events {
		if opts.SplitMultiDayAtMidnight {
			work = append(work, splitAtMidnight(ev)...)
		} else {
			work = append(work, ev)
		}
	}

	sort.SliceStable(work, func(i, j int) bool {
		if !work[i].Start.Equal(work[j].Start) {
			return work[i].Start.Before(work[j].Start)
		}
		// Longer events first: they claim the earliest free row, which
		// reduces fragmentation across the day.
		return work[i].End.Sub(work[i].Start) > work[j].End.Sub(work[j].Start)
	})

	freeAt := make([]time.Time, opts.MaxRows) // zero time is free for any start
	rows := make([][]types.CalendarEvent, opts.MaxRows)
	var dropped []types.CalendarEvent

	for _, ev := range work {
		placed := false
		for row := range freeAt {
			if !freeAt[row].After(ev.Start) {
				rows[row] = append(rows[row], ev)
				freeAt[row] = ev.End
				placed = true
				break
			}
		}
		if !placed {
			dropped = append(dropped, ev)
		}
	}

	if opts.Strict && len(dropped) > 0 {
		ids := make([]string, len(dropped))
		for i, ev := range dropped {
			ids[i] = ev.ID
		}
		return types.RowAssignment{}, types.NewAppError(
			types.ErrCodeTooManyOverlaps,
			fmt.Sprintf("%d events do not fit within %d rows", len(dropped), opts.MaxRows),
			nil,
		).WithDetails(map[string]any{"dropped": ids})
	}

	// Trim trailing unoccupied rows.
	occupied := 0
	for i, row := range rows {
		if len(row) > 0 {
			occupied = i + 1
		}
	}
	return types.RowAssignment{Rows: rows[:occupied], Dropped: dropped}, nil
}

// splitAtMidnight breaks an event spanning multiple calendar days into one
// sub-event per day. Sub-events inherit title, color, and calendar; IDs get
// a date suffix so each stays addressable. An event ending exactly at
// midnight does not spill into the next day.
func splitAtMidnight(ev types.CalendarEvent) []types.CalendarEvent {
	start := ev.Start.UTC()
	end := ev.End.UTC()
	if !end.After(start) {
		return []types.CalendarEvent{ev}
	}

	var out []types.CalendarEvent
	for cur := start; cur.Before(end); {
		next := midnightAfter(cur)
		segEnd := end
		if next.Before(end) {
			segEnd = next
		}
		seg := ev
		seg.Start = cur
		seg.End = segEnd
		if !cur.Equal(start) || segEnd.Before(end) {
			seg.ID = fmt.Sprintf("%s:%s", ev.ID, cur.Format("2006-01-02"))
		}
		out = append(out, seg)
		cur = next
	}
	return out
}

func midnightAfter(t time.Time) time.Time {
	next := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	return next
}
