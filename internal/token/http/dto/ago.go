package dto

import (
	"strconv"
	"strings"
)

// pluralize renders n with unit, adding "s" unless n is 1.
func pluralize(n int64, unit string) string {
	if n == 1 {
		return strconv.FormatInt(n, 10) + " " + unit
	}
	return strconv.FormatInt(n, 10) + " " + unit + "s"
}

// AgoDifference describes ts relative to now, e.g. "In 2 hours" or "3 days 4 hours ago".
// Seconds are only shown when the difference has no hours component. A nil ts or a zero
// difference renders as "".
func AgoDifference(ts *int64, now int64) string {
	if ts == nil {
		return ""
	}

	delta := *ts - now
	future := true
	if delta < 0 {
		future = false
		delta = -delta
	}

	days, remainder := delta/86400, delta%86400
	hours, remainder := remainder/3600, remainder%3600
	minutes, seconds := remainder/60, remainder%60

	var parts []string
	if days > 0 {
		parts = append(parts, pluralize(days, "day"))
	}
	if hours > 0 {
		parts = append(parts, pluralize(hours, "hour"))
	}
	if minutes > 0 {
		parts = append(parts, pluralize(minutes, "min"))
	}
	if hours == 0 && seconds > 0 {
		parts = append(parts, pluralize(seconds, "sec"))
	}

	if len(parts) == 0 {
		return ""
	}
	combined := strings.Join(parts, " ")
	if future {
		return "In " + combined
	}
	return combined + " ago"
}
