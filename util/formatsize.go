package util

import (
	"fmt"
	"math"
)

// sizeUnits are the units tried after bytes, in order. Anything that is still
// 1024 or more after the last one is reported in TB.
var sizeUnits = []string{"KB", "MB", "GB"}

// FormatSize returns a human-readable string representation of a size in
// bytes, using 1024-based units up to TB.
//
// The value is divided with its sign, so negative sizes keep their sign and
// shrink toward zero exactly like positive ones grow.
func FormatSize(size int64) string {
	if size > -1024 && size < 1024 {
		return fmt.Sprintf("%dB", size)
	}
	f := float64(size) / 1024
	for _, unit := range sizeUnits {
		if math.Abs(f) < 1024 {
			return fmt.Sprintf("%.1f%s", f, unit)
		}
		f /= 1024
	}
	return fmt.Sprintf("%.1fTB", f)
}

// FormatPercent formats a percentage with one decimal place. A leading "+" is
// added only when diff is positive; negative percentages carry their own sign.
func FormatPercent(percent float64, diff int64) string {
	if diff > 0 {
		return fmt.Sprintf("+%.1f%%", percent)
	}
	return fmt.Sprintf("%.1f%%", percent)
}
