package ingest

import (
	"time"

	"github.com/wheretodine/hotspot-cli/internal/config"
)

// InDiningHours reports whether a drop-off time falls in a dining period:
// breakfast 07-10, lunch 11-14, dinner 17-22, or late night 22-01.
func InDiningHours(t time.Time) bool {
	h := t.Hour()
	switch {
	case h >= 7 && h < 10:
		return true
	case h >= 11 && h < 14:
		return true
	case h >= 17 && h < 22:
		return true
	case h >= 22 || h < 1:
		return true
	}
	return false
}

// isWeekend treats Friday through Sunday as weekend for demand purposes.
func isWeekend(t time.Time) bool {
	switch t.Weekday() {
	case time.Friday, time.Saturday, time.Sunday:
		return true
	}
	return false
}

// TemporalWeight scores a drop-off time by expected dining demand. Note the
// weighting slots are narrower than the dining-hours filter: a 17:30 dinner
// drop-off passes the filter but only earns the off-peak weight.
func TemporalWeight(t time.Time, w config.WeightConfig) float64 {
	h := t.Hour()
	weekend := isWeekend(t)
	switch {
	case weekend && h >= 18 && h < 22:
		return w.WeekendDinner
	case h >= 18 && h < 22:
		return w.WeekdayDinner
	case !weekend && h >= 12 && h < 14:
		return w.WeekdayLunch
	case h >= 7 && h < 10:
		return w.Breakfast
	case weekend && (h >= 22 || h < 1):
		return w.LateNightWeekend
	case h >= 22 || h < 1:
		return w.LateNightWeekday
	}
	return w.OffPeak
}
