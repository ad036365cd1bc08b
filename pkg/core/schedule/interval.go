// Package schedule holds the pure shift-time computations: clock parsing,
// interval coverage, and caregiver conflict detection. All intervals are
// half-open [start, end) over minutes since midnight.
package schedule

import (
	"fmt"
	"sort"

	"github.com/qashsolutions/myhealthguide/pkg/core/model"
)

// Interval is a half-open [Start, End) time range in minutes since midnight
type Interval struct {
	Start int
	End   int
}

// Overlaps reports whether two half-open intervals share any time.
// Touching boundaries (a.End == b.Start) do not overlap.
func (a Interval) Overlaps(b Interval) bool {
	return a.Start < b.End && b.Start < a.End
}

// ParseClock converts a zero-padded "HH:mm" wall-clock string to minutes
// since midnight. Malformed input is an error rather than a silent bad
// comparison downstream.
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("invalid clock time %q: want HH:mm", s)
	}
	var h, m int
	if _, err := fmt.Sscanf(s, "%02d:%02d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid clock time %q: out of range", s)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes since midnight as a zero-padded "HH:mm" string
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseWindow parses a (start, end) clock pair and checks start < end
func ParseWindow(start, end string) (Interval, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Interval{}, err
	}
	if s >= e {
		return Interval{}, fmt.Errorf("invalid window: start %s is not before end %s", start, end)
	}
	return Interval{Start: s, End: e}, nil
}

// shiftInterval extracts the interval from a shift, ignoring shifts with
// malformed times (they cannot occupy well-defined time)
func shiftInterval(shift model.ScheduledShift) (Interval, bool) {
	s, err := ParseClock(shift.StartTime)
	if err != nil {
		return Interval{}, false
	}
	e, err := ParseClock(shift.EndTime)
	if err != nil {
		return Interval{}, false
	}
	return Interval{Start: s, End: e}, true
}

// IsRangeCovered reports whether the union of the given intervals covers the
// whole target window. Sorts by start and greedily extends a covered-until
// pointer; coverage holds once the pointer reaches the window end.
func IsRangeCovered(intervals []Interval, window Interval) bool {
	if window.Start >= window.End {
		return true
	}

	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	coveredUntil := window.Start
	for _, iv := range sorted {
		if iv.Start > coveredUntil {
			// Gap before the next interval starts
			return false
		}
		if iv.End > coveredUntil {
			coveredUntil = iv.End
		}
		if coveredUntil >= window.End {
			return true
		}
	}
	return false
}

// Gaps returns the sub-windows of the target window not covered by any of
// the given intervals, in chronological order.
func Gaps(intervals []Interval, window Interval) []Interval {
	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	var gaps []Interval
	coveredUntil := window.Start
	for _, iv := range sorted {
		if iv.End <= coveredUntil {
			continue
		}
		if iv.Start > coveredUntil {
			gapEnd := iv.Start
			if gapEnd > window.End {
				gapEnd = window.End
			}
			if coveredUntil < gapEnd {
				gaps = append(gaps, Interval{Start: coveredUntil, End: gapEnd})
			}
		}
		coveredUntil = iv.End
		if coveredUntil >= window.End {
			return gaps
		}
	}
	if coveredUntil < window.End {
		gaps = append(gaps, Interval{Start: coveredUntil, End: window.End})
	}
	return gaps
}

// HasCaregiverConflict reports whether the candidate shift overlaps any of
// the caregiver's existing shifts on the same date. Shifts whose status does
// not block time (cancelled, declined, expired, unfilled) are skipped, as is
// the candidate itself when editing.
func HasCaregiverConflict(caregiverID string, candidate model.ScheduledShift, all []model.ScheduledShift) bool {
	target, ok := shiftInterval(candidate)
	if !ok {
		return false
	}

	for _, shift := range all {
		if shift.CaregiverID != caregiverID || shift.Date != candidate.Date {
			continue
		}
		if shift.ID != "" && shift.ID == candidate.ID {
			continue
		}
		if !shift.Status.Blocks() {
			continue
		}
		iv, ok := shiftInterval(shift)
		if !ok {
			continue
		}
		if target.Overlaps(iv) {
			return true
		}
	}
	return false
}
