package schedule

import (
	"github.com/qashsolutions/myhealthguide/pkg/core/model"
)

// ElderCoverage summarizes how well a single elder's care window is covered
// by existing shifts on a date.
type ElderCoverage struct {
	Elder        model.Elder
	FullyCovered bool
	Gaps         []Interval
}

// elderIntervals collects the blocking shift intervals for one elder on one date
func elderIntervals(elderID, date string, shifts []model.ScheduledShift) []Interval {
	var intervals []Interval
	for _, shift := range shifts {
		if shift.ElderID != elderID || shift.Date != date {
			continue
		}
		if !shift.Status.Blocks() {
			continue
		}
		iv, ok := shiftInterval(shift)
		if !ok {
			continue
		}
		intervals = append(intervals, iv)
	}
	return intervals
}

// UncoveredElders filters elders to those not yet fully covered over the
// target window on the given date. Archived elders are never candidates.
func UncoveredElders(elders []model.Elder, shifts []model.ScheduledShift, date string, window Interval) []model.Elder {
	uncovered := make([]model.Elder, 0)
	for _, elder := range elders {
		if elder.Archived {
			continue
		}
		if !IsRangeCovered(elderIntervals(elder.ID, date, shifts), window) {
			uncovered = append(uncovered, elder)
		}
	}
	return uncovered
}

// CoverageReport computes per-elder coverage of the target window on the
// given date, including the exact uncovered gaps.
func CoverageReport(elders []model.Elder, shifts []model.ScheduledShift, date string, window Interval) []ElderCoverage {
	report := make([]ElderCoverage, 0, len(elders))
	for _, elder := range elders {
		if elder.Archived {
			continue
		}
		gaps := Gaps(elderIntervals(elder.ID, date, shifts), window)
		report = append(report, ElderCoverage{
			Elder:        elder,
			FullyCovered: len(gaps) == 0,
			Gaps:         gaps,
		})
	}
	return report
}
