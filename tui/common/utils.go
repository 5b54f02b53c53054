package common

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Truncate cuts s to width terminal cells, adding an ellipsis when cut.
// Wide characters count as two cells.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}

// FirstLine returns the first non-empty line of s.
func FirstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

// CompactCount renders counts the way the mobile app does: 1.2万 above ten
// thousand.
func CompactCount(n int) string {
	if n < 10000 {
		return strconv.Itoa(n)
	}
	whole, frac := n/10000, (n%10000)/1000
	if frac == 0 {
		return strconv.Itoa(whole) + "万"
	}
	return strconv.Itoa(whole) + "." + strconv.Itoa(frac) + "万"
}
