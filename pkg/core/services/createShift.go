package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/qashsolutions/myhealthguide/pkg/core/model"
	"github.com/qashsolutions/myhealthguide/pkg/core/schedule"
)

// ErrInvalidTransition is returned when a status change is not allowed by
// the shift lifecycle
var ErrInvalidTransition = errors.New("invalid shift status transition")

// CreateShiftInput carries the fields for a direct shift assignment
type CreateShiftInput struct {
	Date        string `validate:"required,datetime=2006-01-02"`
	StartTime   string `validate:"required"`
	EndTime     string `validate:"required"`
	ElderID     string `validate:"required"`
	CaregiverID string `validate:"required"`
	Notes       string
}

// CreateShiftStore defines the database operations needed for direct shift creation
type CreateShiftStore interface {
	GetElder(ctx context.Context, id string) (model.Elder, error)
	GetCaregiver(ctx context.Context, id string) (model.Caregiver, error)
	GetGroup(ctx context.Context, id string) (model.CareGroup, error)
	InsertShift(ctx context.Context, shift model.ScheduledShift) error
}

// CreateShift creates a directly assigned shift. The overlap invariant is
// enforced by the store inside a transaction; a violation surfaces as
// db.ErrShiftConflict.
func CreateShift(ctx context.Context, store CreateShiftStore, notifier Notifier, logger *zap.Logger, input CreateShiftInput) (model.ScheduledShift, error) {
	if err := validate.Struct(input); err != nil {
		return model.ScheduledShift{}, fmt.Errorf("invalid shift input: %w", err)
	}

	window, err := schedule.ParseWindow(input.StartTime, input.EndTime)
	if err != nil {
		return model.ScheduledShift{}, fmt.Errorf("invalid shift times: %w", err)
	}

	elder, err := store.GetElder(ctx, input.ElderID)
	if err != nil {
		return model.ScheduledShift{}, fmt.Errorf("failed to fetch elder: %w", err)
	}
	if elder.Archived {
		return model.ScheduledShift{}, fmt.Errorf("elder %s is archived", elder.ID)
	}

	caregiver, err := store.GetCaregiver(ctx, input.CaregiverID)
	if err != nil {
		return model.ScheduledShift{}, fmt.Errorf("failed to fetch caregiver: %w", err)
	}
	if !caregiver.Active {
		return model.ScheduledShift{}, fmt.Errorf("caregiver %s is not active", caregiver.ID)
	}

	group, err := store.GetGroup(ctx, elder.GroupID)
	if err != nil {
		return model.ScheduledShift{}, fmt.Errorf("failed to fetch care group: %w", err)
	}

	shift := model.ScheduledShift{
		ID:              uuid.New().String(),
		Date:            input.Date,
		StartTime:       input.StartTime,
		EndTime:         input.EndTime,
		ElderID:         elder.ID,
		ElderName:       elder.Name,
		CaregiverID:     caregiver.ID,
		CaregiverName:   caregiver.FullName(),
		Status:          model.StatusScheduled,
		GroupID:         group.ID,
		AgencyID:        group.AgencyID,
		Notes:           input.Notes,
		DurationMinutes: window.End - window.Start,
	}

	logger.Info("Creating shift",
		zap.String("shift_id", shift.ID),
		zap.String("date", shift.Date),
		zap.String("caregiver_id", caregiver.ID),
		zap.String("elder_id", elder.ID))

	if err := store.InsertShift(ctx, shift); err != nil {
		return model.ScheduledShift{}, fmt.Errorf("failed to insert shift: %w", err)
	}

	if err := notifier.SendShiftAssigned(ctx, caregiver, shift); err != nil {
		logger.Warn("Failed to send assignment notification",
			zap.String("shift_id", shift.ID),
			zap.String("caregiver_id", caregiver.ID),
			zap.Error(err))
	}

	return shift, nil
}

// EditShiftInput carries the mutable fields of a shift edit. Empty fields
// keep their current value.
type EditShiftInput struct {
	ShiftID   string `validate:"required"`
	Date      string `validate:"omitempty,datetime=2006-01-02"`
	StartTime string
	EndTime   string
	Notes     *string
}

// EditShiftStore defines the database operations needed for shift edits
type EditShiftStore interface {
	GetShift(ctx context.Context, id string) (model.ScheduledShift, error)
	UpdateShiftTimes(ctx context.Context, shift model.ScheduledShift) error
}

// EditShift updates a shift's date, times or notes. Time changes re-run the
// transactional conflict check against the shift's caregiver.
func EditShift(ctx context.Context, store EditShiftStore, logger *zap.Logger, input EditShiftInput) (model.ScheduledShift, error) {
	if err := validate.Struct(input); err != nil {
		return model.ScheduledShift{}, fmt.Errorf("invalid edit input: %w", err)
	}

	shift, err := store.GetShift(ctx, input.ShiftID)
	if err != nil {
		return model.ScheduledShift{}, fmt.Errorf("failed to fetch shift: %w", err)
	}
	if shift.Status.IsTerminal() {
		return model.ScheduledShift{}, fmt.Errorf("cannot edit shift in terminal status %s", shift.Status)
	}

	if input.Date != "" {
		shift.Date = input.Date
	}
	if input.StartTime != "" {
		shift.StartTime = input.StartTime
	}
	if input.EndTime != "" {
		shift.EndTime = input.EndTime
	}
	if input.Notes != nil {
		shift.Notes = *input.Notes
	}

	window, err := schedule.ParseWindow(shift.StartTime, shift.EndTime)
	if err != nil {
		return model.ScheduledShift{}, fmt.Errorf("invalid shift times: %w", err)
	}
	shift.DurationMinutes = window.End - window.Start

	logger.Info("Updating shift",
		zap.String("shift_id", shift.ID),
		zap.String("date", shift.Date),
		zap.String("start", shift.StartTime),
		zap.String("end", shift.EndTime))

	if err := store.UpdateShiftTimes(ctx, shift); err != nil {
		return model.ScheduledShift{}, fmt.Errorf("failed to update shift: %w", err)
	}

	return shift, nil
}

// CancelShiftStore defines the database operations needed for cancellation
type CancelShiftStore interface {
	GetShift(ctx context.Context, id string) (model.ScheduledShift, error)
	GetCaregiver(ctx context.Context, id string) (model.Caregiver, error)
	UpdateShiftStatus(ctx context.Context, id string, status model.ShiftStatus) error
	CancelOpenOffersForShift(ctx context.Context, shiftID string) error
}

// CancelShift soft-deletes a shift by moving it to cancelled and closes any
// open cascade offer chain attached to it.
func CancelShift(ctx context.Context, store CancelShiftStore, notifier Notifier, logger *zap.Logger, shiftID string) error {
	shift, err := store.GetShift(ctx, shiftID)
	if err != nil {
		return fmt.Errorf("failed to fetch shift: %w", err)
	}
	if !shift.Status.CanTransitionTo(model.StatusCancelled) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, shift.Status, model.StatusCancelled)
	}

	logger.Info("Cancelling shift", zap.String("shift_id", shiftID), zap.String("status", string(shift.Status)))

	if err := store.CancelOpenOffersForShift(ctx, shiftID); err != nil {
		return fmt.Errorf("failed to cancel open offers: %w", err)
	}
	if err := store.UpdateShiftStatus(ctx, shiftID, model.StatusCancelled); err != nil {
		return fmt.Errorf("failed to update shift status: %w", err)
	}

	if shift.CaregiverID != "" {
		caregiver, err := store.GetCaregiver(ctx, shift.CaregiverID)
		if err != nil {
			logger.Warn("Failed to fetch caregiver for cancellation notice",
				zap.String("caregiver_id", shift.CaregiverID), zap.Error(err))
			return nil
		}
		if err := notifier.SendShiftCancelled(ctx, caregiver, shift); err != nil {
			logger.Warn("Failed to send cancellation notification",
				zap.String("shift_id", shiftID), zap.Error(err))
		}
	}

	return nil
}

// ConfirmShiftStore defines the database operations needed for confirmation
type ConfirmShiftStore interface {
	GetShift(ctx context.Context, id string) (model.ScheduledShift, error)
	UpdateShiftStatus(ctx context.Context, id string, status model.ShiftStatus) error
}

// ConfirmShift moves a pending_confirmation shift to confirmed. Only the
// assigned caregiver may confirm.
func ConfirmShift(ctx context.Context, store ConfirmShiftStore, logger *zap.Logger, shiftID, caregiverID string) error {
	shift, err := store.GetShift(ctx, shiftID)
	if err != nil {
		return fmt.Errorf("failed to fetch shift: %w", err)
	}
	if shift.CaregiverID != caregiverID {
		return fmt.Errorf("shift %s is not assigned to caregiver %s", shiftID, caregiverID)
	}
	if !shift.Status.CanTransitionTo(model.StatusConfirmed) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, shift.Status, model.StatusConfirmed)
	}

	logger.Info("Confirming shift", zap.String("shift_id", shiftID), zap.String("caregiver_id", caregiverID))
	if err := store.UpdateShiftStatus(ctx, shiftID, model.StatusConfirmed); err != nil {
		return fmt.Errorf("failed to update shift status: %w", err)
	}
	return nil
}
