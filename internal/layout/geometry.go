package layout

// Vertical layout constants, expressed as fractions of figure height below
// the plot area. Each enabled overlay lifts the plot bottom and everything
// beneath it by a fixed amount.
const (
	iconBandHeight     = 0.08
	conditionRowHeight = 0.12
	eventRowHeight     = 0.12

	iconBaseY     = 0.07
	overlayBaseY0 = -0.03
	overlayBaseY1 = 0.07
)

// Geometry describes where each horizontal band of the figure sits. The
// renderer consumes these fractions directly; they carry no pixel units.
type Geometry struct {
	// PlotBottomY is the bottom of the chart plot area.
	PlotBottomY float64 `json:"plot_bottom_y"`

	// WeatherIconY is the centerline of the weather icon strip.
	WeatherIconY float64 `json:"weather_icon_y"`

	// ConditionY0/Y1 bound the condition-bar strip.
	ConditionY0 float64 `json:"condition_y0"`
	ConditionY1 float64 `json:"condition_y1"`

	// EventsY0/Y1 bound the first calendar-event row; subsequent rows
	// stack downward in EventRowHeight steps.
	EventsY0 float64 `json:"events_y0"`
	EventsY1 float64 `json:"events_y1"`

	// EventRows is the number of occupied calendar rows accounted for.
	EventRows int `json:"event_rows"`
}

// ComputeGeometry lays out the figure's vertical bands for the enabled
// overlays. eventRows is the number of occupied calendar rows; zero disables
// the events strip.
func ComputeGeometry(showIcons, showConditions bool, eventRows int) Geometry {
	g := Geometry{
		WeatherIconY: iconBaseY,
		ConditionY0:  overlayBaseY0,
		ConditionY1:  overlayBaseY1,
		EventsY0:     overlayBaseY0,
		EventsY1:     overlayBaseY1,
		EventRows:    eventRows,
	}
	if showIcons {
		g.PlotBottomY += iconBandHeight
	}
	if showConditions {
		g.PlotBottomY += conditionRowHeight
		g.WeatherIconY += conditionRowHeight
	}
	if eventRows > 0 {
		lift := eventRowHeight * float64(eventRows)
		g.PlotBottomY += lift
		g.WeatherIconY += lift
		g.ConditionY0 += lift
		g.ConditionY1 += lift
	}
	return g
}
