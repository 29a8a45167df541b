package util

// Percent returns part as a percentage of whole, or 0 when whole is not positive.
func Percent(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole * 100
}

// Remaining returns total - used, floored at zero.
func Remaining(total, used float64) float64 {
	if used > total {
		return 0
	}
	return total - used
}
