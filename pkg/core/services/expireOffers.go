package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/qashsolutions/myhealthguide/pkg/core/model"
)

// ExpireOffersStore defines the database operations needed for the expiry sweep
type ExpireOffersStore interface {
	OfferStore
	ListExpiredActiveOffers(ctx context.Context, now time.Time) ([]model.ShiftOffer, error)
}

// ExpireOffersResult reports one sweep of the offer expiry job
type ExpireOffersResult struct {
	Expired  int
	Advanced int
	Unfilled int
}

// ExpireOffers marks active offers past their deadline as expired and
// advances each affected chain. Run periodically from cron.
func ExpireOffers(ctx context.Context, store ExpireOffersStore, notifier Notifier, logger *zap.Logger, now time.Time, offerTTL time.Duration) (*ExpireOffersResult, error) {
	expired, err := store.ListExpiredActiveOffers(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list expired offers: %w", err)
	}

	logger.Info("Offer expiry sweep", zap.Int("expired_count", len(expired)), zap.Time("now", now))

	result := &ExpireOffersResult{}
	for _, offer := range expired {
		logger.Info("Expiring offer",
			zap.String("offer_id", offer.ID),
			zap.String("shift_id", offer.ShiftID),
			zap.String("caregiver_id", offer.CaregiverID),
			zap.String("deadline", offer.Deadline))

		if err := store.UpdateOfferStatus(ctx, offer.ID, model.OfferExpired); err != nil {
			return result, fmt.Errorf("failed to expire offer %s: %w", offer.ID, err)
		}
		result.Expired++

		if err := advanceChain(ctx, store, notifier, logger, now, offerTTL, offer.ShiftID); err != nil {
			return result, fmt.Errorf("failed to advance chain for shift %s: %w", offer.ShiftID, err)
		}

		shift, err := store.GetShift(ctx, offer.ShiftID)
		if err != nil {
			return result, fmt.Errorf("failed to fetch shift %s: %w", offer.ShiftID, err)
		}
		if shift.Status == model.StatusUnfilled {
			result.Unfilled++
		} else {
			result.Advanced++
		}
	}

	return result, nil
}
