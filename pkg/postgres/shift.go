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

const dateLayout = "2006-01-02"

const shiftColumns = `id, date, start_time, end_time, elder_id, elder_name,
	caregiver_id, caregiver_name, status, group_id, agency_id, notes, duration_minutes`

func scanShift(row pgx.Row) (model.ScheduledShift, error) {
	var s model.ScheduledShift
	var date time.Time
	var caregiverID, caregiverName *string
	var status string
	err := row.Scan(&s.ID, &date, &s.StartTime, &s.EndTime, &s.ElderID, &s.ElderName,
		&caregiverID, &caregiverName, &status, &s.GroupID, &s.AgencyID, &s.Notes, &s.DurationMinutes)
	if err != nil {
		return model.ScheduledShift{}, err
	}
	s.Date = date.Format(dateLayout)
	if caregiverID != nil {
		s.CaregiverID = *caregiverID
	}
	if caregiverName != nil {
		s.CaregiverName = *caregiverName
	}
	s.Status = model.ShiftStatus(status)
	return s, nil
}

// GetShift retrieves a single shift by id
func (d *DB) GetShift(ctx context.Context, id string) (model.ScheduledShift, error) {
	row := d.pool.QueryRow(ctx, `SELECT `+shiftColumns+` FROM scheduled_shift WHERE id = $1`, id)
	shift, err := scanShift(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ScheduledShift{}, db.ErrNotFound
	}
	if err != nil {
		return model.ScheduledShift{}, fmt.Errorf("failed to query shift: %w", err)
	}
	return shift, nil
}

// ListShiftsByGroup retrieves a group's shifts over a date range (inclusive)
func (d *DB) ListShiftsByGroup(ctx context.Context, groupID, fromDate, toDate string) ([]model.ScheduledShift, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+shiftColumns+`
		FROM scheduled_shift
		WHERE group_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date, start_time
	`, groupID, fromDate, toDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	var shifts []model.ScheduledShift
	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, shift)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shifts: %w", err)
	}
	return shifts, nil
}

// ListShiftsByCaregiverDate retrieves a caregiver's shifts on one date
func (d *DB) ListShiftsByCaregiverDate(ctx context.Context, caregiverID, date string) ([]model.ScheduledShift, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+shiftColumns+`
		FROM scheduled_shift
		WHERE caregiver_id = $1 AND date = $2
		ORDER BY start_time
	`, caregiverID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	var shifts []model.ScheduledShift
	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, shift)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shifts: %w", err)
	}
	return shifts, nil
}

// lockCaregiverDate serializes assigning writes per (caregiver, date) so the
// overlap check and the write happen atomically with respect to concurrent
// admins. The lock is transaction-scoped and released on commit/rollback.
func lockCaregiverDate(ctx context.Context, tx pgx.Tx, caregiverID, date string) error {
	_, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, caregiverID+"@"+date)
	if err != nil {
		return fmt.Errorf("failed to take advisory lock: %w", err)
	}
	return nil
}

// hasOverlap reports whether the caregiver already holds a blocking shift
// overlapping [startTime, endTime) on the date, excluding excludeID.
// Zero-padded HH:mm strings compare lexicographically in time order.
func hasOverlap(ctx context.Context, tx pgx.Tx, caregiverID, date, startTime, endTime, excludeID string) (bool, error) {
	var overlap bool
	err := tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM scheduled_shift
			WHERE caregiver_id = $1
			  AND date = $2
			  AND id <> $3
			  AND status NOT IN ('cancelled', 'declined', 'expired', 'unfilled')
			  AND start_time < $5
			  AND $4 < end_time
		)
	`, caregiverID, date, excludeID, startTime, endTime).Scan(&overlap)
	if err != nil {
		return false, fmt.Errorf("failed to run overlap check: %w", err)
	}
	return overlap, nil
}

// InsertShift inserts a shift. When the shift is assigned with a blocking
// status the no-overlap invariant is enforced inside the transaction and a
// violation returns db.ErrShiftConflict.
func (d *DB) InsertShift(ctx context.Context, shift model.ScheduledShift) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if shift.CaregiverID != "" && shift.Status.Blocks() {
		if err := lockCaregiverDate(ctx, tx, shift.CaregiverID, shift.Date); err != nil {
			return err
		}
		overlap, err := hasOverlap(ctx, tx, shift.CaregiverID, shift.Date, shift.StartTime, shift.EndTime, shift.ID)
		if err != nil {
			return err
		}
		if overlap {
			return db.ErrShiftConflict
		}
	}

	var caregiverID, caregiverName *string
	if shift.CaregiverID != "" {
		caregiverID = &shift.CaregiverID
		caregiverName = &shift.CaregiverName
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO scheduled_shift
			(id, date, start_time, end_time, elder_id, elder_name,
			 caregiver_id, caregiver_name, status, group_id, agency_id, notes, duration_minutes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, shift.ID, shift.Date, shift.StartTime, shift.EndTime, shift.ElderID, shift.ElderName,
		caregiverID, caregiverName, string(shift.Status), shift.GroupID, shift.AgencyID,
		shift.Notes, shift.DurationMinutes)
	if err != nil {
		return fmt.Errorf("failed to insert shift: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateShiftTimes updates a shift's date, times, notes and duration,
// re-running the transactional conflict check for assigned shifts.
func (d *DB) UpdateShiftTimes(ctx context.Context, shift model.ScheduledShift) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if shift.CaregiverID != "" && shift.Status.Blocks() {
		if err := lockCaregiverDate(ctx, tx, shift.CaregiverID, shift.Date); err != nil {
			return err
		}
		overlap, err := hasOverlap(ctx, tx, shift.CaregiverID, shift.Date, shift.StartTime, shift.EndTime, shift.ID)
		if err != nil {
			return err
		}
		if overlap {
			return db.ErrShiftConflict
		}
	}

	tag, err := tx.Exec(ctx, `
		UPDATE scheduled_shift
		SET date = $2, start_time = $3, end_time = $4, notes = $5, duration_minutes = $6
		WHERE id = $1
	`, shift.ID, shift.Date, shift.StartTime, shift.EndTime, shift.Notes, shift.DurationMinutes)
	if err != nil {
		return fmt.Errorf("failed to update shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateShiftStatus sets a shift's status
func (d *DB) UpdateShiftStatus(ctx context.Context, id string, status model.ShiftStatus) error {
	tag, err := d.pool.Exec(ctx, `UPDATE scheduled_shift SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("failed to update shift status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

// AssignShift assigns a caregiver to an existing shift, enforcing the
// no-overlap invariant inside the transaction.
func (d *DB) AssignShift(ctx context.Context, shiftID, caregiverID, caregiverName string, status model.ShiftStatus) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var date time.Time
	var startTime, endTime string
	err = tx.QueryRow(ctx, `
		SELECT date, start_time, end_time FROM scheduled_shift WHERE id = $1 FOR UPDATE
	`, shiftID).Scan(&date, &startTime, &endTime)
	if errors.Is(err, pgx.ErrNoRows) {
		return db.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to query shift for assignment: %w", err)
	}
	dateStr := date.Format(dateLayout)

	if status.Blocks() {
		if err := lockCaregiverDate(ctx, tx, caregiverID, dateStr); err != nil {
			return err
		}
		overlap, err := hasOverlap(ctx, tx, caregiverID, dateStr, startTime, endTime, shiftID)
		if err != nil {
			return err
		}
		if overlap {
			return db.ErrShiftConflict
		}
	}

	_, err = tx.Exec(ctx, `
		UPDATE scheduled_shift
		SET caregiver_id = $2, caregiver_name = $3, status = $4
		WHERE id = $1
	`, shiftID, caregiverID, caregiverName, string(status))
	if err != nil {
		return fmt.Errorf("failed to assign shift: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// SumAssignedMinutes totals a caregiver's blocking shift minutes over a date
// range (inclusive)
func (d *DB) SumAssignedMinutes(ctx context.Context, caregiverID, fromDate, toDate string) (int, error) {
	var total int
	err := d.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(duration_minutes), 0)
		FROM scheduled_shift
		WHERE caregiver_id = $1
		  AND date >= $2 AND date <= $3
		  AND status NOT IN ('cancelled', 'declined', 'expired', 'unfilled')
	`, caregiverID, fromDate, toDate).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum assigned minutes: %w", err)
	}
	return total, nil
}
