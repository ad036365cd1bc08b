package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qashsolutions/myhealthguide/pkg/core/model"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:00", 540, false},
		{"12:30", 750, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"9:00", 0, true}, // not zero-padded
		{"12-30", 0, true},
		{"", 0, true},
		{"ab:cd", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseClock(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.input)
		} else {
			require.NoError(t, err, "input %q", tt.input)
			assert.Equal(t, tt.want, got, "input %q", tt.input)
		}
	}
}

func TestFormatClock_RoundTrip(t *testing.T) {
	for _, s := range []string{"00:00", "09:05", "14:30", "23:59"} {
		minutes, err := ParseClock(s)
		require.NoError(t, err)
		assert.Equal(t, s, FormatClock(minutes))
	}
}

func TestParseWindow(t *testing.T) {
	w, err := ParseWindow("09:00", "17:00")
	require.NoError(t, err)
	assert.Equal(t, Interval{Start: 540, End: 1020}, w)

	_, err = ParseWindow("17:00", "09:00")
	assert.Error(t, err, "inverted window should be rejected")

	_, err = ParseWindow("09:00", "09:00")
	assert.Error(t, err, "empty window should be rejected")
}

func TestInterval_Overlaps(t *testing.T) {
	a := Interval{Start: 600, End: 840}  // 10:00-14:00
	b := Interval{Start: 780, End: 900}  // 13:00-15:00
	c := Interval{Start: 840, End: 960}  // 14:00-16:00
	d := Interval{Start: 900, End: 1020} // 15:00-17:00

	assert.True(t, a.Overlaps(b))
	assert.True(t, b.Overlaps(a), "overlap should be symmetric")

	// Touching boundary is not an overlap (half-open intervals)
	assert.False(t, a.Overlaps(c))
	assert.False(t, c.Overlaps(a))

	assert.False(t, a.Overlaps(d))
}

func mustWindow(t *testing.T, start, end string) Interval {
	t.Helper()
	w, err := ParseWindow(start, end)
	require.NoError(t, err)
	return w
}

func TestIsRangeCovered(t *testing.T) {
	window := mustWindow(t, "09:00", "17:00")

	// Two adjacent shifts fully cover 09:00-17:00
	covered := []Interval{
		mustWindow(t, "09:00", "12:00"),
		mustWindow(t, "12:00", "17:00"),
	}
	assert.True(t, IsRangeCovered(covered, window))

	// Gap 11:00-13:00 breaks coverage
	gapped := []Interval{
		mustWindow(t, "09:00", "11:00"),
		mustWindow(t, "13:00", "17:00"),
	}
	assert.False(t, IsRangeCovered(gapped, window))

	// Overlapping intervals still cover
	overlapping := []Interval{
		mustWindow(t, "08:00", "13:00"),
		mustWindow(t, "11:00", "18:00"),
	}
	assert.True(t, IsRangeCovered(overlapping, window))

	// Unsorted input is handled
	unsorted := []Interval{
		mustWindow(t, "12:00", "17:00"),
		mustWindow(t, "09:00", "12:00"),
	}
	assert.True(t, IsRangeCovered(unsorted, window))

	// Coverage starting before and ending after the window
	wide := []Interval{mustWindow(t, "08:00", "18:00")}
	assert.True(t, IsRangeCovered(wide, window))

	assert.False(t, IsRangeCovered(nil, window))
}

func TestGaps(t *testing.T) {
	window := mustWindow(t, "09:00", "17:00")

	gaps := Gaps([]Interval{
		mustWindow(t, "09:00", "11:00"),
		mustWindow(t, "13:00", "17:00"),
	}, window)
	require.Len(t, gaps, 1)
	assert.Equal(t, mustWindow(t, "11:00", "13:00"), gaps[0])

	// No shifts: the whole window is a gap
	gaps = Gaps(nil, window)
	require.Len(t, gaps, 1)
	assert.Equal(t, window, gaps[0])

	// Full coverage: no gaps
	gaps = Gaps([]Interval{mustWindow(t, "08:00", "18:00")}, window)
	assert.Empty(t, gaps)

	// Leading and trailing gaps
	gaps = Gaps([]Interval{mustWindow(t, "10:00", "12:00")}, window)
	require.Len(t, gaps, 2)
	assert.Equal(t, mustWindow(t, "09:00", "10:00"), gaps[0])
	assert.Equal(t, mustWindow(t, "12:00", "17:00"), gaps[1])
}

func TestHasCaregiverConflict(t *testing.T) {
	existing := []model.ScheduledShift{
		{
			ID:          "shift-1",
			Date:        "2025-01-01",
			StartTime:   "10:00",
			EndTime:     "14:00",
			CaregiverID: "cg-1",
			Status:      model.StatusScheduled,
		},
	}

	candidate := model.ScheduledShift{
		Date:      "2025-01-01",
		StartTime: "13:00",
		EndTime:   "15:00",
	}
	assert.True(t, HasCaregiverConflict("cg-1", candidate, existing))

	// Touching boundary does not conflict
	adjacent := model.ScheduledShift{
		Date:      "2025-01-01",
		StartTime: "14:00",
		EndTime:   "16:00",
	}
	assert.False(t, HasCaregiverConflict("cg-1", adjacent, existing))

	// Different date does not conflict
	otherDate := candidate
	otherDate.Date = "2025-01-02"
	assert.False(t, HasCaregiverConflict("cg-1", otherDate, existing))

	// Different caregiver does not conflict
	assert.False(t, HasCaregiverConflict("cg-2", candidate, existing))
}

func TestHasCaregiverConflict_NonBlockingStatuses(t *testing.T) {
	candidate := model.ScheduledShift{
		Date:      "2025-01-01",
		StartTime: "10:00",
		EndTime:   "12:00",
	}

	for _, status := range []model.ShiftStatus{
		model.StatusCancelled,
		model.StatusDeclined,
		model.StatusExpired,
		model.StatusUnfilled,
	} {
		existing := []model.ScheduledShift{{
			ID:          "shift-1",
			Date:        "2025-01-01",
			StartTime:   "09:00",
			EndTime:     "17:00",
			CaregiverID: "cg-1",
			Status:      status,
		}}
		assert.False(t, HasCaregiverConflict("cg-1", candidate, existing),
			"status %s should not block", status)
	}
}

func TestHasCaregiverConflict_IgnoresSelfOnEdit(t *testing.T) {
	existing := []model.ScheduledShift{{
		ID:          "shift-1",
		Date:        "2025-01-01",
		StartTime:   "10:00",
		EndTime:     "14:00",
		CaregiverID: "cg-1",
		Status:      model.StatusScheduled,
	}}

	// Editing shift-1 to a window overlapping its own old window is fine
	edited := model.ScheduledShift{
		ID:        "shift-1",
		Date:      "2025-01-01",
		StartTime: "11:00",
		EndTime:   "15:00",
	}
	assert.False(t, HasCaregiverConflict("cg-1", edited, existing))
}
