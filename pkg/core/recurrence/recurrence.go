// Package recurrence expands repeating-shift rules into concrete dates.
package recurrence

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/qashsolutions/myhealthguide/pkg/core/model"
)

// DefaultHorizonDays bounds how far ahead a repeating shift expands.
// Repeats are rolled forward in 4-week batches rather than open-ended.
const DefaultHorizonDays = 28

const dateLayout = "2006-01-02"

// rruleWeekdays maps time.Weekday values (Sunday = 0) to rrule weekdays
var rruleWeekdays = []rrule.Weekday{
	rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA,
}

// ExpandDates expands a repeat rule into the concrete dates it produces,
// starting from firstDate (inclusive) and bounded by horizonDays. The first
// date itself is only included if it matches the rule's weekday filter.
func ExpandDates(rule model.RepeatRule, firstDate string, horizonDays int) ([]string, error) {
	if !rule.Frequency.IsValid() {
		return nil, fmt.Errorf("invalid repeat frequency %q", rule.Frequency)
	}
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}

	start, err := time.ParseInLocation(dateLayout, firstDate, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid first date %q: %w", firstDate, err)
	}

	opt := rrule.ROption{
		Freq:    rrule.DAILY,
		Dtstart: start,
		Until:   start.AddDate(0, 0, horizonDays-1),
	}

	switch rule.Frequency {
	case model.RepeatDaily:
		// No weekday filter
	case model.RepeatWeekdays:
		opt.Byweekday = []rrule.Weekday{rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR}
	case model.RepeatCustom:
		if len(rule.ByWeekday) == 0 {
			return nil, fmt.Errorf("custom repeat rule needs at least one weekday")
		}
		for _, wd := range rule.ByWeekday {
			if wd < 0 || wd > 6 {
				return nil, fmt.Errorf("invalid weekday %d: want 0 (Sunday) through 6 (Saturday)", wd)
			}
			opt.Byweekday = append(opt.Byweekday, rruleWeekdays[wd])
		}
	}

	r, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, fmt.Errorf("failed to build recurrence rule: %w", err)
	}

	occurrences := r.All()
	dates := make([]string, 0, len(occurrences))
	for _, occ := range occurrences {
		dates = append(dates, occ.Format(dateLayout))
	}
	if len(dates) == 0 {
		return nil, fmt.Errorf("repeat rule produces no dates within %d days of %s", horizonDays, firstDate)
	}
	return dates, nil
}
