package timing

import (
	"fmt"
	"math"
)

// TicksToSeconds converts an edit-rate tick count to seconds. A
// non-positive edit rate yields 0.
func TicksToSeconds(ticks float64, editRate int64) float64 {
	if editRate <= 0 {
		return 0
	}
	return ticks / float64(editRate)
}

// SecondsToTicks converts seconds to the nearest edit-rate tick.
func SecondsToTicks(seconds float64, editRate int64) int64 {
	return int64(math.Round(seconds * float64(editRate)))
}

// FormatTicks renders a tick count as "HH:MM:SS.mmm".
func FormatTicks(ticks float64, editRate int64) string {
	return FormatSeconds(TicksToSeconds(ticks, editRate))
}

// FormatSeconds renders seconds as "HH:MM:SS.mmm". Negative values get a
// leading minus sign.
func FormatSeconds(seconds float64) string {
	sign := ""
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	ms := int64(math.Round(seconds * 1000))
	h := ms / 3_600_000
	m := ms / 60_000 % 60
	s := ms / 1000 % 60
	return fmt.Sprintf("%s%02d:%02d:%02d.%03d", sign, h, m, s, ms%1000)
}
