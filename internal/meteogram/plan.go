package meteogram

import (
	"time"

	"meteogram/internal/icons"
	"meteogram/internal/layout"
	"meteogram/internal/types"
)

// Plan is the fully assembled meteogram, ready for a renderer. It carries
// everything the figure needs and nothing about how to draw it: the merged
// series, derived condition bars, daylight bands, packed calendar rows, icon
// placements, and the vertical geometry. Feature groups the run produced no
// content for are omitted from the JSON.
type Plan struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Location    types.Location `json:"location"`

	// XStart/XEnd bound the chart x-axis; NowLine marks the current time.
	XStart  time.Time `json:"x_start"`
	XEnd    time.Time `json:"x_end"`
	NowLine time.Time `json:"now_line"`

	// Series is the merged forecast timeline the chart traces are drawn
	// from. TemperatureField names the field the temperature trace should
	// plot, honouring the feels-like toggle.
	Series           types.Timeline `json:"series"`
	TemperatureField types.Field    `json:"temperature_field"`

	DaylightBands []types.DaylightBand    `json:"daylight_bands,omitempty"`
	ConditionBars []types.Warning         `json:"condition_bars,omitempty"`
	EventRows     [][]types.CalendarEvent `json:"event_rows,omitempty"`
	DroppedEvents []string                `json:"dropped_events,omitempty"`
	IconMarks     []icons.Mark            `json:"icon_marks,omitempty"`

	Geometry layout.Geometry `json:"geometry"`
}
