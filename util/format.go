package util

import "fmt"

// FormatPercent renders a percentage value with two decimals, e.g. "37.50%".
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

// FormatGB renders a gigabyte value with two decimals, e.g. "4.00GB".
func FormatGB(v float64) string {
	return fmt.Sprintf("%.2fGB", v)
}

// FormatMBAsGB converts megabytes and renders them as gigabytes.
func FormatMBAsGB(mb float64) string {
	return FormatGB(MBToGB(mb))
}

// FormatGBHours renders a memory-time value, e.g. "12.50GB·h".
func FormatGBHours(v float64) string {
	return fmt.Sprintf("%.2fGB·h", v)
}

// FormatHours renders a duration in hours, e.g. "3.25h".
func FormatHours(v float64) string {
	return fmt.Sprintf("%.2fh", v)
}
