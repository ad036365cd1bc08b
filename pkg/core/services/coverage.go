package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/qashsolutions/myhealthguide/pkg/core/model"
	"github.com/qashsolutions/myhealthguide/pkg/core/schedule"
)

// CoverageStore defines the database operations needed for coverage reports
type CoverageStore interface {
	GetGroup(ctx context.Context, id string) (model.CareGroup, error)
	ListEldersByGroup(ctx context.Context, groupID string) ([]model.Elder, error)
	ListShiftsByGroup(ctx context.Context, groupID, fromDate, toDate string) ([]model.ScheduledShift, error)
}

// CoverageInput selects a group, a date and a care window
type CoverageInput struct {
	GroupID   string `validate:"required"`
	Date      string `validate:"required,datetime=2006-01-02"`
	StartTime string `validate:"required"`
	EndTime   string `validate:"required"`
}

// CoverageResult is the per-elder coverage of the requested window
type CoverageResult struct {
	Group  model.CareGroup
	Date   string
	Window schedule.Interval
	Elders []schedule.ElderCoverage
}

// GroupCoverage reports, for every active elder in a group, whether existing
// shifts fully cover the requested window on the given date and where the
// gaps are.
func GroupCoverage(ctx context.Context, store CoverageStore, logger *zap.Logger, input CoverageInput) (*CoverageResult, error) {
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("invalid coverage input: %w", err)
	}

	window, err := schedule.ParseWindow(input.StartTime, input.EndTime)
	if err != nil {
		return nil, fmt.Errorf("invalid coverage window: %w", err)
	}

	group, err := store.GetGroup(ctx, input.GroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch care group: %w", err)
	}

	elders, err := store.ListEldersByGroup(ctx, group.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list elders: %w", err)
	}

	shifts, err := store.ListShiftsByGroup(ctx, group.ID, input.Date, input.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}

	report := schedule.CoverageReport(elders, shifts, input.Date, window)

	uncovered := 0
	for _, ec := range report {
		if !ec.FullyCovered {
			uncovered++
		}
	}
	logger.Debug("Coverage report computed",
		zap.String("group_id", group.ID),
		zap.String("date", input.Date),
		zap.Int("elders", len(report)),
		zap.Int("uncovered", uncovered))

	return &CoverageResult{
		Group:  group,
		Date:   input.Date,
		Window: window,
		Elders: report,
	}, nil
}
