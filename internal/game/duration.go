package game

import (
	"fmt"
	"time"
)

// FormatDuration renders d as a compact "1h 2m 5s" string truncated to whole seconds.
// Hours appear only when non-zero, minutes when non-zero or hours are shown; seconds always appear.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	total := int64(d / time.Second)
	h := total / 3600
	m := total % 3600 / 60
	s := total % 60

	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
