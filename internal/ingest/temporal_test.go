package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wheretodine/hotspot-cli/internal/config"
)

var testWeights = config.WeightConfig{
	WeekendDinner:    1.5,
	WeekdayDinner:    1.0,
	WeekdayLunch:     0.8,
	Breakfast:        0.5,
	LateNightWeekend: 0.7,
	LateNightWeekday: 0.4,
	OffPeak:          0.3,
}

func at(day time.Weekday, hour int) time.Time {
	// 2024-01-01 is a Monday.
	base := time.Date(2024, 1, 1, hour, 30, 0, 0, time.UTC)
	return base.AddDate(0, 0, int(day-time.Monday+7)%7)
}

func TestInDiningHours(t *testing.T) {
	cases := []struct {
		hour int
		want bool
	}{
		{0, true},  // late night tail
		{1, false}, // early morning gap
		{5, false},
		{7, true}, // breakfast
		{9, true},
		{10, false},
		{11, true}, // lunch
		{13, true},
		{14, false},
		{16, false},
		{17, true}, // dinner
		{21, true},
		{22, true}, // late night
		{23, true},
	}
	for _, c := range cases {
		got := InDiningHours(at(time.Wednesday, c.hour))
		assert.Equal(t, c.want, got, "hour %d", c.hour)
	}
}

func TestTemporalWeight_Slots(t *testing.T) {
	assert.InDelta(t, 1.5, TemporalWeight(at(time.Saturday, 19), testWeights), 1e-9)
	assert.InDelta(t, 1.5, TemporalWeight(at(time.Friday, 18), testWeights), 1e-9)
	assert.InDelta(t, 1.0, TemporalWeight(at(time.Tuesday, 19), testWeights), 1e-9)
	assert.InDelta(t, 0.8, TemporalWeight(at(time.Tuesday, 12), testWeights), 1e-9)
	assert.InDelta(t, 0.5, TemporalWeight(at(time.Tuesday, 8), testWeights), 1e-9)
	assert.InDelta(t, 0.5, TemporalWeight(at(time.Sunday, 8), testWeights), 1e-9)
	assert.InDelta(t, 0.7, TemporalWeight(at(time.Saturday, 23), testWeights), 1e-9)
	assert.InDelta(t, 0.4, TemporalWeight(at(time.Tuesday, 23), testWeights), 1e-9)
	assert.InDelta(t, 0.4, TemporalWeight(at(time.Tuesday, 0), testWeights), 1e-9)
}

func TestTemporalWeight_OffPeak(t *testing.T) {
	// Early dinner hour passes the dining filter but earns only off-peak.
	assert.InDelta(t, 0.3, TemporalWeight(at(time.Tuesday, 17), testWeights), 1e-9)
	// Weekend lunch has no dedicated slot.
	assert.InDelta(t, 0.3, TemporalWeight(at(time.Saturday, 12), testWeights), 1e-9)
	assert.InDelta(t, 0.3, TemporalWeight(at(time.Tuesday, 15), testWeights), 1e-9)
}

func TestIsWeekend(t *testing.T) {
	assert.True(t, isWeekend(at(time.Friday, 12)))
	assert.True(t, isWeekend(at(time.Sunday, 12)))
	assert.False(t, isWeekend(at(time.Thursday, 12)))
}
