package util

import "time"

const (
	mbPerGB       = 1024
	millisPerHour = float64(time.Hour / time.Millisecond)
)

// MBToGB converts megabytes to gigabytes. No rounding: display precision is
// applied by the Format helpers.
func MBToGB(mb float64) float64 {
	return mb / mbPerGB
}

// MillisToHours converts milliseconds to hours.
func MillisToHours(ms float64) float64 {
	return ms / millisPerHour
}

// MBMillisToGBHours converts a memory-time product in MB·ms to GB·h.
func MBMillisToGBHours(v float64) float64 {
	return MillisToHours(MBToGB(v))
}
