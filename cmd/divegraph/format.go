package main

import (
	"fmt"
	"time"
)

const displayTimeLayout = "2006-01-02 15:04:05"

func formatStart(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(displayTimeLayout)
}

// formatDuration renders whole seconds as m:ss, or h:mm:ss past an hour.
func formatDuration(d time.Duration) string {
	total := int(d.Round(time.Second).Seconds())
	if total < 0 {
		total = 0
	}
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func formatDepth(metres float64) string {
	return fmt.Sprintf("%.1f m", metres)
}

func formatRate(mps float64) string {
	return fmt.Sprintf("%.2f m/s", mps)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
