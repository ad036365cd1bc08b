// Package db defines the storage contracts the core services depend on and
// the sentinel errors stores report. The Postgres implementation lives in
// pkg/postgres; tests substitute hand-written mocks.
package db

import (
	"context"
	"time"

	"github.com/qashsolutions/myhealthguide/pkg/core/model"
)

// ShiftStore defines scheduled-shift persistence.
//
// InsertShift, AssignShift and UpdateShiftTimes are the assigning writes:
// whenever the written shift has a caregiver and a blocking status, the
// implementation must enforce the no-overlap invariant transactionally and
// return ErrShiftConflict on violation.
type ShiftStore interface {
	GetShift(ctx context.Context, id string) (model.ScheduledShift, error)
	ListShiftsByGroup(ctx context.Context, groupID, fromDate, toDate string) ([]model.ScheduledShift, error)
	ListShiftsByCaregiverDate(ctx context.Context, caregiverID, date string) ([]model.ScheduledShift, error)
	InsertShift(ctx context.Context, shift model.ScheduledShift) error
	UpdateShiftTimes(ctx context.Context, shift model.ScheduledShift) error
	UpdateShiftStatus(ctx context.Context, id string, status model.ShiftStatus) error
	AssignShift(ctx context.Context, shiftID, caregiverID, caregiverName string, status model.ShiftStatus) error

	// SumAssignedMinutes totals the caregiver's blocking shift minutes over
	// [fromDate, toDate], for cascade fairness ranking
	SumAssignedMinutes(ctx context.Context, caregiverID, fromDate, toDate string) (int, error)
}

// OfferStore defines cascade offer-chain persistence
type OfferStore interface {
	GetOffer(ctx context.Context, id string) (model.ShiftOffer, error)
	ListOffersByShift(ctx context.Context, shiftID string) ([]model.ShiftOffer, error)
	ListExpiredActiveOffers(ctx context.Context, now time.Time) ([]model.ShiftOffer, error)
	InsertOffers(ctx context.Context, offers []model.ShiftOffer) error
	ActivateOffer(ctx context.Context, id string, deadline time.Time) error
	UpdateOfferStatus(ctx context.Context, id string, status model.OfferStatus) error
	CancelOpenOffersForShift(ctx context.Context, shiftID string) error

	// CountRecentDeclines counts the caregiver's declined and expired offers
	// since the given time, for cascade ranking
	CountRecentDeclines(ctx context.Context, caregiverID string, since time.Time) (int, error)
}

// ElderStore defines elder persistence
type ElderStore interface {
	GetElder(ctx context.Context, id string) (model.Elder, error)
	ListEldersByGroup(ctx context.Context, groupID string) ([]model.Elder, error)
	InsertElder(ctx context.Context, elder model.Elder) error
	ArchiveElder(ctx context.Context, id string) error
}

// CaregiverStore defines caregiver account persistence
type CaregiverStore interface {
	GetCaregiver(ctx context.Context, id string) (model.Caregiver, error)
	GetCaregiverByEmail(ctx context.Context, email string) (model.Caregiver, error)
	ListActiveCaregiversByAgency(ctx context.Context, agencyID string) ([]model.Caregiver, error)
	InsertCaregiver(ctx context.Context, caregiver model.Caregiver) error
}

// GroupStore defines care-group persistence.
//
// SetPrimaryCaregiver is a compare-and-swap: it only writes if the stored
// primary caregiver still equals expectedCurrent (empty for a fresh grant),
// returning ErrPrimaryConflict otherwise.
type GroupStore interface {
	GetGroup(ctx context.Context, id string) (model.CareGroup, error)
	InsertGroup(ctx context.Context, group model.CareGroup) error
	SetPrimaryCaregiver(ctx context.Context, groupID, caregiverID, expectedCurrent string) error
}
