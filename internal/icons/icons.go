// Package icons maps significant-weather codes to display icon names and
// places icon marks along a timeline for the renderer.
package icons

import (
	"time"

	"meteogram/internal/types"
)

// weatherIconLookup maps a significant weather code (0-30) to the icon file
// used to display it. Code 4 is unused by the upstream forecast model.
var weatherIconLookup = [...]string{
	"weather-clear-night.png",       // 0
	"weather-clear.png",             // 1
	"weather-few-clouds-night.png",  // 2
	"weather-few-clouds.png",        // 3
	"",                              // 4 (unused)
	"weather-fog.png",               // 5
	"weather-fog.png",               // 6
	"weather-overcast.png",          // 7
	"weather-overcast.png",          // 8
	"weather-showers-scattered.png", // 9
	"weather-showers-scattered.png", // 10
	"weather-showers-scattered.png", // 11
	"weather-showers-scattered.png", // 12
	"weather-showers.png",           // 13
	"weather-showers.png",           // 14
	"weather-showers.png",           // 15
	"weather-showers-scattered.png", // 16
	"weather-showers-scattered.png", // 17
	"weather-showers.png",           // 18
	"weather-storm.png",             // 19
	"weather-storm.png",             // 20
	"weather-storm.png",             // 21
	"weather-snow.png",              // 22
	"weather-snow.png",              // 23
	"weather-snow.png",              // 24
	"weather-snow.png",              // 25
	"weather-snow.png",              // 26
	"weather-snow.png",              // 27
	"weather-storm.png",             // 28
	"weather-storm.png",             // 29
	"weather-storm.png",             // 30
}

// ForCode returns the icon file for a significant weather code. The second
// return is false for out-of-range or unused codes.
func ForCode(code int) (string, bool) {
	if code < 0 || code >= len(weatherIconLookup) {
		return "", false
	}
	icon := weatherIconLookup[code]
	return icon, icon != ""
}

// Mark is one icon placement along the timeline x-axis.
type Mark struct {
	Time time.Time `json:"time"`
	Icon string    `json:"icon"`
}

// Marks places an icon every stride samples, skipping samples without a
// usable weather code. A stride below 1 is treated as 1.
func Marks(tl types.Timeline, stride int) []Mark {
	if stride < 1 {
		stride = 1
	}
	var out []Mark
	for i := 0; i < len(tl); i += stride {
		s := tl[i]
		if s.WeatherCode == nil {
			continue
		}
		if icon, ok := ForCode(*s.WeatherCode); ok {
			out = append(out, Mark{Time: s.Time, Icon: icon})
		}
	}
	return out
}
