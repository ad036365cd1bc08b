package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qashsolutions/myhealthguide/pkg/core/model"
)

func TestExpandDates_Daily(t *testing.T) {
	dates, err := ExpandDates(model.RepeatRule{Frequency: model.RepeatDaily}, "2025-01-01", 28)
	require.NoError(t, err)

	assert.Len(t, dates, 28)
	assert.Equal(t, "2025-01-01", dates[0])
	assert.Equal(t, "2025-01-28", dates[27])
}

func TestExpandDates_Weekdays(t *testing.T) {
	// 2025-01-06 is a Monday; a 7-day horizon covers Mon-Sun
	dates, err := ExpandDates(model.RepeatRule{Frequency: model.RepeatWeekdays}, "2025-01-06", 7)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"2025-01-06", "2025-01-07", "2025-01-08", "2025-01-09", "2025-01-10",
	}, dates)

	for _, d := range dates {
		day, err := time.Parse("2006-01-02", d)
		require.NoError(t, err)
		assert.NotEqual(t, time.Saturday, day.Weekday())
		assert.NotEqual(t, time.Sunday, day.Weekday())
	}
}

func TestExpandDates_CustomDays(t *testing.T) {
	// Mondays and Thursdays over 4 weeks starting Wednesday 2025-01-01
	rule := model.RepeatRule{
		Frequency: model.RepeatCustom,
		ByWeekday: []int{1, 4},
	}
	dates, err := ExpandDates(rule, "2025-01-01", 28)
	require.NoError(t, err)

	// 2025-01-01 is a Wednesday, so the first occurrence is Thursday the 2nd
	assert.Equal(t, "2025-01-02", dates[0])
	assert.Len(t, dates, 8)

	for _, d := range dates {
		day, err := time.Parse("2006-01-02", d)
		require.NoError(t, err)
		wd := day.Weekday()
		assert.True(t, wd == time.Monday || wd == time.Thursday, "unexpected weekday %s for %s", wd, d)
	}
}

func TestExpandDates_DefaultHorizon(t *testing.T) {
	dates, err := ExpandDates(model.RepeatRule{Frequency: model.RepeatDaily}, "2025-01-01", 0)
	require.NoError(t, err)
	assert.Len(t, dates, DefaultHorizonDays)
}

func TestExpandDates_Errors(t *testing.T) {
	_, err := ExpandDates(model.RepeatRule{Frequency: "monthly"}, "2025-01-01", 28)
	assert.Error(t, err)

	_, err = ExpandDates(model.RepeatRule{Frequency: model.RepeatDaily}, "01/01/2025", 28)
	assert.Error(t, err)

	_, err = ExpandDates(model.RepeatRule{Frequency: model.RepeatCustom}, "2025-01-01", 28)
	assert.Error(t, err, "custom rule without weekdays should fail")

	_, err = ExpandDates(model.RepeatRule{Frequency: model.RepeatCustom, ByWeekday: []int{7}}, "2025-01-01", 28)
	assert.Error(t, err, "out-of-range weekday should fail")
}
