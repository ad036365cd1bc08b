package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/qashsolutions/myhealthguide/pkg/core/model"
	"github.com/qashsolutions/myhealthguide/pkg/db"
)

const offerColumns = `id, shift_id, caregiver_id, position, status, deadline`

func scanOffer(row pgx.Row) (model.ShiftOffer, error) {
	var o model.ShiftOffer
	var status string
	var deadline *time.Time
	err := row.Scan(&o.ID, &o.ShiftID, &o.CaregiverID, &o.Position, &status, &deadline)
	if err != nil {
		return model.ShiftOffer{}, err
	}
	o.Status = model.OfferStatus(status)
	if deadline != nil {
		o.Deadline = deadline.UTC().Format(time.RFC3339)
	}
	return o, nil
}

// GetOffer retrieves a single offer by id
func (d *DB) GetOffer(ctx context.Context, id string) (model.ShiftOffer, error) {
	row := d.pool.QueryRow(ctx, `SELECT `+offerColumns+` FROM shift_offer WHERE id = $1`, id)
	offer, err := scanOffer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ShiftOffer{}, db.ErrNotFound
	}
	if err != nil {
		return model.ShiftOffer{}, fmt.Errorf("failed to query offer: %w", err)
	}
	return offer, nil
}

// ListOffersByShift retrieves a shift's offer chain in position order
func (d *DB) ListOffersByShift(ctx context.Context, shiftID string) ([]model.ShiftOffer, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+offerColumns+`
		FROM shift_offer
		WHERE shift_id = $1
		ORDER BY position
	`, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to query offers: %w", err)
	}
	defer rows.Close()

	var offers []model.ShiftOffer
	for rows.Next() {
		offer, err := scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan offer: %w", err)
		}
		offers = append(offers, offer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating offers: %w", err)
	}
	return offers, nil
}

// ListExpiredActiveOffers retrieves active offers whose deadline has passed
func (d *DB) ListExpiredActiveOffers(ctx context.Context, now time.Time) ([]model.ShiftOffer, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+offerColumns+`
		FROM shift_offer
		WHERE status = 'active' AND deadline < $1
		ORDER BY deadline
	`, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query expired offers: %w", err)
	}
	defer rows.Close()

	var offers []model.ShiftOffer
	for rows.Next() {
		offer, err := scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan offer: %w", err)
		}
		offers = append(offers, offer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating offers: %w", err)
	}
	return offers, nil
}

// InsertOffers inserts a full offer chain in one transaction
func (d *DB) InsertOffers(ctx context.Context, offers []model.ShiftOffer) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, offer := range offers {
		_, err := tx.Exec(ctx, `
			INSERT INTO shift_offer (id, shift_id, caregiver_id, position, status)
			VALUES ($1, $2, $3, $4, $5)
		`, offer.ID, offer.ShiftID, offer.CaregiverID, offer.Position, string(offer.Status))
		if err != nil {
			return fmt.Errorf("failed to insert offer: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ActivateOffer marks an offer active with the given response deadline
func (d *DB) ActivateOffer(ctx context.Context, id string, deadline time.Time) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE shift_offer SET status = 'active', deadline = $2 WHERE id = $1
	`, id, deadline)
	if err != nil {
		return fmt.Errorf("failed to activate offer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

// UpdateOfferStatus sets an offer's status
func (d *DB) UpdateOfferStatus(ctx context.Context, id string, status model.OfferStatus) error {
	tag, err := d.pool.Exec(ctx, `UPDATE shift_offer SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("failed to update offer status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

// CancelOpenOffersForShift cancels every pending and active offer on a shift
func (d *DB) CancelOpenOffersForShift(ctx context.Context, shiftID string) error {
	_, err := d.pool.Exec(ctx, `
		UPDATE shift_offer
		SET status = 'cancelled'
		WHERE shift_id = $1 AND status IN ('pending', 'active')
	`, shiftID)
	if err != nil {
		return fmt.Errorf("failed to cancel open offers: %w", err)
	}
	return nil
}

// CountRecentDeclines counts a caregiver's declined and expired offers since
// the given time, using the offer deadline as the response timestamp
func (d *DB) CountRecentDeclines(ctx context.Context, caregiverID string, since time.Time) (int, error) {
	var count int
	err := d.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM shift_offer
		WHERE caregiver_id = $1
		  AND status IN ('declined', 'expired')
		  AND deadline >= $2
	`, caregiverID, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count recent declines: %w", err)
	}
	return count, nil
}
