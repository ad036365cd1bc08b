package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/qashsolutions/myhealthguide/pkg/core/model"
	"github.com/qashsolutions/myhealthguide/pkg/core/recurrence"
)

// RepeatingShiftsInput expands one shift definition across a repeat rule
type RepeatingShiftsInput struct {
	CreateShiftInput
	Rule        model.RepeatRule
	HorizonDays int
}

// DateFailure records one date whose shift creation failed
type DateFailure struct {
	Date  string
	Error string
}

// RepeatingShiftsResult reports the outcome of a repeating batch. Each date
// is attempted independently; there is no atomicity across the batch.
type RepeatingShiftsResult struct {
	Created  []model.ScheduledShift
	Failures []DateFailure
}

// CreateRepeatingShifts expands the repeat rule into concrete dates bounded
// by the horizon and creates one shift per date. A per-date failure (usually
// a conflict on that date) does not stop the rest of the batch; the result
// reports every failed date with its error.
func CreateRepeatingShifts(ctx context.Context, store CreateShiftStore, notifier Notifier, logger *zap.Logger, input RepeatingShiftsInput) (*RepeatingShiftsResult, error) {
	dates, err := recurrence.ExpandDates(input.Rule, input.Date, input.HorizonDays)
	if err != nil {
		return nil, fmt.Errorf("failed to expand repeat rule: %w", err)
	}

	logger.Info("Creating repeating shifts",
		zap.String("frequency", string(input.Rule.Frequency)),
		zap.String("first_date", input.Date),
		zap.Int("date_count", len(dates)))

	result := &RepeatingShiftsResult{
		Created:  []model.ScheduledShift{},
		Failures: []DateFailure{},
	}

	for _, date := range dates {
		perDate := input.CreateShiftInput
		perDate.Date = date

		shift, err := CreateShift(ctx, store, notifier, logger, perDate)
		if err != nil {
			logger.Warn("Failed to create shift for date",
				zap.String("date", date),
				zap.Error(err))
			result.Failures = append(result.Failures, DateFailure{Date: date, Error: err.Error()})
			continue
		}
		result.Created = append(result.Created, shift)
	}

	logger.Info("Repeating shifts batch finished",
		zap.Int("created", len(result.Created)),
		zap.Int("failed", len(result.Failures)))

	if len(result.Created) == 0 {
		return result, fmt.Errorf("all %d dates failed; first error: %s", len(result.Failures), result.Failures[0].Error)
	}
	return result, nil
}
