package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/qashsolutions/myhealthguide/pkg/core/model"
	"github.com/qashsolutions/myhealthguide/pkg/db"
)

// ErrOfferNotActive is returned when responding to an offer that is not the
// chain's active offer
var (
	ErrOfferNotActive = errors.New("offer is not active")
	ErrNotOfferOwner  = errors.New("offer does not belong to caller")
)

// OfferStore defines the database operations needed for offer responses and
// chain advancement
type OfferStore interface {
	GetOffer(ctx context.Context, id string) (model.ShiftOffer, error)
	GetShift(ctx context.Context, id string) (model.ScheduledShift, error)
	GetCaregiver(ctx context.Context, id string) (model.Caregiver, error)
	ListOffersByShift(ctx context.Context, shiftID string) ([]model.ShiftOffer, error)
	UpdateOfferStatus(ctx context.Context, id string, status model.OfferStatus) error
	ActivateOffer(ctx context.Context, id string, deadline time.Time) error
	CancelOpenOffersForShift(ctx context.Context, shiftID string) error
	UpdateShiftStatus(ctx context.Context, id string, status model.ShiftStatus) error
	AssignShift(ctx context.Context, shiftID, caregiverID, caregiverName string, status model.ShiftStatus) error
}

// AcceptOffer accepts an active offer on behalf of its caregiver. The
// assignment re-runs the transactional conflict check: if the caregiver
// picked up an overlapping shift since the offer went out, the accept fails
// with db.ErrShiftConflict, the offer is declined, and the chain advances.
func AcceptOffer(ctx context.Context, store OfferStore, notifier Notifier, logger *zap.Logger, now time.Time, offerTTL time.Duration, offerID, caregiverID string) (model.ScheduledShift, error) {
	offer, err := store.GetOffer(ctx, offerID)
	if err != nil {
		return model.ScheduledShift{}, fmt.Errorf("failed to fetch offer: %w", err)
	}
	if offer.CaregiverID != caregiverID {
		return model.ScheduledShift{}, fmt.Errorf("%w: offer %s does not belong to caregiver %s", ErrNotOfferOwner, offerID, caregiverID)
	}
	if offer.Status != model.OfferActive {
		return model.ScheduledShift{}, fmt.Errorf("%w: offer %s is %s", ErrOfferNotActive, offerID, offer.Status)
	}

	caregiver, err := store.GetCaregiver(ctx, caregiverID)
	if err != nil {
		return model.ScheduledShift{}, fmt.Errorf("failed to fetch caregiver: %w", err)
	}

	logger.Info("Accepting offer",
		zap.String("offer_id", offerID),
		zap.String("shift_id", offer.ShiftID),
		zap.String("caregiver_id", caregiverID))

	err = store.AssignShift(ctx, offer.ShiftID, caregiver.ID, caregiver.FullName(), model.StatusPendingConfirmation)
	if errors.Is(err, db.ErrShiftConflict) {
		// The caregiver became double-booked since the offer went out.
		// Treat as a decline and move on to the next caregiver.
		logger.Warn("Accept rejected by conflict check, advancing chain",
			zap.String("offer_id", offerID),
			zap.String("caregiver_id", caregiverID))
		if updateErr := store.UpdateOfferStatus(ctx, offerID, model.OfferDeclined); updateErr != nil {
			return model.ScheduledShift{}, fmt.Errorf("failed to decline conflicting offer: %w", updateErr)
		}
		if advErr := advanceChain(ctx, store, notifier, logger, now, offerTTL, offer.ShiftID); advErr != nil {
			return model.ScheduledShift{}, advErr
		}
		return model.ScheduledShift{}, err
	}
	if err != nil {
		return model.ScheduledShift{}, fmt.Errorf("failed to assign shift: %w", err)
	}

	if err := store.UpdateOfferStatus(ctx, offerID, model.OfferAccepted); err != nil {
		return model.ScheduledShift{}, fmt.Errorf("failed to mark offer accepted: %w", err)
	}
	// The rest of the chain is no longer needed
	if err := store.CancelOpenOffersForShift(ctx, offer.ShiftID); err != nil {
		return model.ScheduledShift{}, fmt.Errorf("failed to cancel remaining offers: %w", err)
	}

	shift, err := store.GetShift(ctx, offer.ShiftID)
	if err != nil {
		return model.ScheduledShift{}, fmt.Errorf("failed to fetch assigned shift: %w", err)
	}

	if err := notifier.SendShiftAssigned(ctx, caregiver, shift); err != nil {
		logger.Warn("Failed to send assignment notification",
			zap.String("shift_id", shift.ID), zap.Error(err))
	}

	return shift, nil
}

// DeclineOffer declines an active offer and advances the chain
func DeclineOffer(ctx context.Context, store OfferStore, notifier Notifier, logger *zap.Logger, now time.Time, offerTTL time.Duration, offerID, caregiverID string) error {
	offer, err := store.GetOffer(ctx, offerID)
	if err != nil {
		return fmt.Errorf("failed to fetch offer: %w", err)
	}
	if offer.CaregiverID != caregiverID {
		return fmt.Errorf("%w: offer %s does not belong to caregiver %s", ErrNotOfferOwner, offerID, caregiverID)
	}
	if offer.Status != model.OfferActive {
		return fmt.Errorf("%w: offer %s is %s", ErrOfferNotActive, offerID, offer.Status)
	}

	logger.Info("Declining offer",
		zap.String("offer_id", offerID),
		zap.String("shift_id", offer.ShiftID),
		zap.String("caregiver_id", caregiverID))

	if err := store.UpdateOfferStatus(ctx, offerID, model.OfferDeclined); err != nil {
		return fmt.Errorf("failed to mark offer declined: %w", err)
	}

	return advanceChain(ctx, store, notifier, logger, now, offerTTL, offer.ShiftID)
}

// advanceChain activates the next pending offer for a shift, or marks the
// shift unfilled when the chain is exhausted.
func advanceChain(ctx context.Context, store OfferStore, notifier Notifier, logger *zap.Logger, now time.Time, offerTTL time.Duration, shiftID string) error {
	offers, err := store.ListOffersByShift(ctx, shiftID)
	if err != nil {
		return fmt.Errorf("failed to list offers: %w", err)
	}

	var next *model.ShiftOffer
	for i := range offers {
		if offers[i].Status != model.OfferPending {
			continue
		}
		if next == nil || offers[i].Position < next.Position {
			next = &offers[i]
		}
	}

	if next == nil {
		logger.Info("Offer chain exhausted, marking shift unfilled", zap.String("shift_id", shiftID))
		if err := store.UpdateShiftStatus(ctx, shiftID, model.StatusUnfilled); err != nil {
			return fmt.Errorf("failed to mark shift unfilled: %w", err)
		}
		return nil
	}

	deadline := now.Add(offerTTL)
	if err := store.ActivateOffer(ctx, next.ID, deadline); err != nil {
		return fmt.Errorf("failed to activate next offer: %w", err)
	}

	logger.Info("Advanced offer chain",
		zap.String("shift_id", shiftID),
		zap.String("offer_id", next.ID),
		zap.String("caregiver_id", next.CaregiverID),
		zap.Int("position", next.Position))

	caregiver, err := store.GetCaregiver(ctx, next.CaregiverID)
	if err != nil {
		logger.Warn("Failed to fetch caregiver for offer notification",
			zap.String("caregiver_id", next.CaregiverID), zap.Error(err))
		return nil
	}
	shift, err := store.GetShift(ctx, shiftID)
	if err != nil {
		logger.Warn("Failed to fetch shift for offer notification",
			zap.String("shift_id", shiftID), zap.Error(err))
		return nil
	}
	if err := notifier.SendShiftOffer(ctx, caregiver, shift, deadline); err != nil {
		logger.Warn("Failed to send offer notification",
			zap.String("offer_id", next.ID), zap.Error(err))
	}

	return nil
}
