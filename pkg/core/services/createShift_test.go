package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/qashsolutions/myhealthguide/pkg/core/model"
	"github.com/qashsolutions/myhealthguide/pkg/db"
)

func TestCreateShift(t *testing.T) {
	store := fixtureStore()
	notifier := &recordingNotifier{}

	shift, err := CreateShift(context.Background(), store, notifier, zap.NewNop(), CreateShiftInput{
		Date:        "2025-01-01",
		StartTime:   "09:00",
		EndTime:     "13:00",
		ElderID:     "elder-1",
		CaregiverID: "cg-1",
		Notes:       "morning care",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, shift.ID)
	assert.Equal(t, model.StatusScheduled, shift.Status)
	assert.Equal(t, "Alma Reyes", shift.ElderName)
	assert.Equal(t, "Dana Okafor", shift.CaregiverName)
	assert.Equal(t, "group-1", shift.GroupID)
	assert.Equal(t, "agency-1", shift.AgencyID)
	assert.Equal(t, 240, shift.DurationMinutes)

	require.Len(t, store.insertedShifts, 1)
	assert.Equal(t, []string{"cg-1"}, notifier.assigned)
}

func TestCreateShift_Conflict(t *testing.T) {
	store := fixtureStore()
	store.shifts["existing"] = model.ScheduledShift{
		ID: "existing", Date: "2025-01-01", StartTime: "10:00", EndTime: "14:00",
		CaregiverID: "cg-1", Status: model.StatusConfirmed,
	}

	_, err := CreateShift(context.Background(), store, NopNotifier{}, zap.NewNop(), CreateShiftInput{
		Date:        "2025-01-01",
		StartTime:   "13:00",
		EndTime:     "15:00",
		ElderID:     "elder-1",
		CaregiverID: "cg-1",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, db.ErrShiftConflict)
}

func TestCreateShift_AdjacentShiftsAllowed(t *testing.T) {
	store := fixtureStore()
	store.shifts["existing"] = model.ScheduledShift{
		ID: "existing", Date: "2025-01-01", StartTime: "10:00", EndTime: "14:00",
		CaregiverID: "cg-1", Status: model.StatusConfirmed,
	}

	// 14:00-16:00 touches but does not overlap 10:00-14:00
	_, err := CreateShift(context.Background(), store, NopNotifier{}, zap.NewNop(), CreateShiftInput{
		Date:        "2025-01-01",
		StartTime:   "14:00",
		EndTime:     "16:00",
		ElderID:     "elder-1",
		CaregiverID: "cg-1",
	})
	assert.NoError(t, err)
}

func TestCreateShift_InvalidInput(t *testing.T) {
	store := fixtureStore()

	_, err := CreateShift(context.Background(), store, NopNotifier{}, zap.NewNop(), CreateShiftInput{
		Date: "2025-01-01", StartTime: "17:00", EndTime: "09:00",
		ElderID: "elder-1", CaregiverID: "cg-1",
	})
	assert.Error(t, err, "inverted window should be rejected")

	_, err = CreateShift(context.Background(), store, NopNotifier{}, zap.NewNop(), CreateShiftInput{
		Date: "2025-01-01", StartTime: "09:00", EndTime: "13:00",
		ElderID: "missing", CaregiverID: "cg-1",
	})
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestCreateShift_ArchivedElderRejected(t *testing.T) {
	store := fixtureStore()
	elder := store.elders["elder-1"]
	elder.Archived = true
	store.elders["elder-1"] = elder

	_, err := CreateShift(context.Background(), store, NopNotifier{}, zap.NewNop(), CreateShiftInput{
		Date: "2025-01-01", StartTime: "09:00", EndTime: "13:00",
		ElderID: "elder-1", CaregiverID: "cg-1",
	})
	assert.ErrorContains(t, err, "archived")
}

func TestCreateShift_InactiveCaregiverRejected(t *testing.T) {
	store := fixtureStore()
	cg := store.caregivers["cg-1"]
	cg.Active = false
	store.caregivers["cg-1"] = cg

	_, err := CreateShift(context.Background(), store, NopNotifier{}, zap.NewNop(), CreateShiftInput{
		Date: "2025-01-01", StartTime: "09:00", EndTime: "13:00",
		ElderID: "elder-1", CaregiverID: "cg-1",
	})
	assert.ErrorContains(t, err, "not active")
}

func TestEditShift_TimesRecheckConflict(t *testing.T) {
	store := fixtureStore()
	store.shifts["shift-a"] = model.ScheduledShift{
		ID: "shift-a", Date: "2025-01-01", StartTime: "09:00", EndTime: "11:00",
		CaregiverID: "cg-1", Status: model.StatusScheduled, DurationMinutes: 120,
	}
	store.shifts["shift-b"] = model.ScheduledShift{
		ID: "shift-b", Date: "2025-01-01", StartTime: "12:00", EndTime: "14:00",
		CaregiverID: "cg-1", Status: model.StatusScheduled, DurationMinutes: 120,
	}

	// Stretching shift-a over shift-b must be refused
	_, err := EditShift(context.Background(), store, zap.NewNop(), EditShiftInput{
		ShiftID: "shift-a", EndTime: "13:00",
	})
	assert.ErrorIs(t, err, db.ErrShiftConflict)

	// Moving within free time succeeds and updates duration
	updated, err := EditShift(context.Background(), store, zap.NewNop(), EditShiftInput{
		ShiftID: "shift-a", StartTime: "08:00", EndTime: "11:30",
	})
	require.NoError(t, err)
	assert.Equal(t, 210, updated.DurationMinutes)
}

func TestEditShift_TerminalStatusRejected(t *testing.T) {
	store := fixtureStore()
	store.shifts["shift-a"] = model.ScheduledShift{
		ID: "shift-a", Date: "2025-01-01", StartTime: "09:00", EndTime: "11:00",
		CaregiverID: "cg-1", Status: model.StatusCompleted,
	}

	_, err := EditShift(context.Background(), store, zap.NewNop(), EditShiftInput{
		ShiftID: "shift-a", EndTime: "12:00",
	})
	assert.ErrorContains(t, err, "terminal")
}

func TestCancelShift(t *testing.T) {
	store := fixtureStore()
	notifier := &recordingNotifier{}
	store.shifts["shift-a"] = model.ScheduledShift{
		ID: "shift-a", Date: "2025-01-01", StartTime: "09:00", EndTime: "11:00",
		CaregiverID: "cg-1", Status: model.StatusScheduled,
	}
	store.offers["offer-1"] = model.ShiftOffer{
		ID: "offer-1", ShiftID: "shift-a", CaregiverID: "cg-2", Position: 0, Status: model.OfferActive,
	}

	err := CancelShift(context.Background(), store, notifier, zap.NewNop(), "shift-a")
	require.NoError(t, err)

	assert.Equal(t, model.StatusCancelled, store.shifts["shift-a"].Status)
	assert.Equal(t, model.OfferCancelled, store.offers["offer-1"].Status)
	assert.Equal(t, []string{"cg-1"}, notifier.cancelled)
}

func TestCancelShift_CompletedRejected(t *testing.T) {
	store := fixtureStore()
	store.shifts["shift-a"] = model.ScheduledShift{
		ID: "shift-a", CaregiverID: "cg-1", Status: model.StatusCompleted,
	}

	err := CancelShift(context.Background(), store, NopNotifier{}, zap.NewNop(), "shift-a")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestConfirmShift(t *testing.T) {
	store := fixtureStore()
	store.shifts["shift-a"] = model.ScheduledShift{
		ID: "shift-a", CaregiverID: "cg-1", Status: model.StatusPendingConfirmation,
	}

	// Wrong caregiver cannot confirm
	err := ConfirmShift(context.Background(), store, zap.NewNop(), "shift-a", "cg-2")
	assert.Error(t, err)

	err = ConfirmShift(context.Background(), store, zap.NewNop(), "shift-a", "cg-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, store.shifts["shift-a"].Status)

	// Confirming twice is an invalid transition
	err = ConfirmShift(context.Background(), store, zap.NewNop(), "shift-a", "cg-1")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}
