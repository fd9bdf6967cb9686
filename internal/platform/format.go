package platform

import "fmt"

// Byte units in ascending order. Values past the last entry are reported in UnitTB.
var byteUnits = []string{"B", "KB", "MB", "GB"}

const (
	UnitTB      = "TB"
	UnitDivisor = 1024.0

	SecondsPerHour   = 3600
	SecondsPerMinute = 60

	// UnknownTime is shown for a negative (unknown) duration
	UnknownTime = "--:--:--"
)

// FormatBytes formats a byte count (or rate) as a value with one decimal
// place followed by a binary unit, e.g. "1.5 KB".
func FormatBytes(n float64) string {
	for _, unit := range byteUnits {
		if n < UnitDivisor {
			return fmt.Sprintf("%.1f %s", n, unit)
		}
		n /= UnitDivisor
	}
	return fmt.Sprintf("%.1f %s", n, UnitTB)
}

// FormatTime formats seconds as HH:MM:SS. Hours are not wrapped, so 100 hours
// or more widen the first field.
func FormatTime(seconds int) string {
	if seconds < 0 {
		return UnknownTime
	}
	hours := seconds / SecondsPerHour
	minutes := (seconds % SecondsPerHour) / SecondsPerMinute
	secs := seconds % SecondsPerMinute
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}
