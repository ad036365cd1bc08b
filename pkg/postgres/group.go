package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/qashsolutions/myhealthguide/pkg/core/model"
	"github.com/qashsolutions/myhealthguide/pkg/db"
)

// GetGroup retrieves a single care group by id
func (d *DB) GetGroup(ctx context.Context, id string) (model.CareGroup, error) {
	var g model.CareGroup
	var primary *string
	err := d.pool.QueryRow(ctx, `
		SELECT id, name, agency_id, primary_caregiver_id FROM care_group WHERE id = $1
	`, id).Scan(&g.ID, &g.Name, &g.AgencyID, &primary)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.CareGroup{}, db.ErrNotFound
	}
	if err != nil {
		return model.CareGroup{}, fmt.Errorf("failed to query group: %w", err)
	}
	if primary != nil {
		g.PrimaryCaregiverID = *primary
	}
	return g, nil
}

// InsertGroup inserts a new care group
func (d *DB) InsertGroup(ctx context.Context, group model.CareGroup) error {
	var primary *string
	if group.PrimaryCaregiverID != "" {
		primary = &group.PrimaryCaregiverID
	}
	_, err := d.pool.Exec(ctx, `
		INSERT INTO care_group (id, name, agency_id, primary_caregiver_id)
		VALUES ($1, $2, $3, $4)
	`, group.ID, group.Name, group.AgencyID, primary)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}
	return nil
}

// SetPrimaryCaregiver transfers the primary caregiver role with a
// compare-and-swap on the current holder. A stale expectedCurrent returns
// db.ErrPrimaryConflict so concurrent transfers cannot both win.
func (d *DB) SetPrimaryCaregiver(ctx context.Context, groupID, caregiverID, expectedCurrent string) error {
	var tagQuery string
	args := []any{groupID, caregiverID}
	if expectedCurrent == "" {
		tagQuery = `
			UPDATE care_group
			SET primary_caregiver_id = $2
			WHERE id = $1 AND primary_caregiver_id IS NULL
		`
	} else {
		tagQuery = `
			UPDATE care_group
			SET primary_caregiver_id = $2
			WHERE id = $1 AND primary_caregiver_id = $3
		`
		args = append(args, expectedCurrent)
	}

	tag, err := d.pool.Exec(ctx, tagQuery, args...)
	if err != nil {
		return fmt.Errorf("failed to set primary caregiver: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a missing group from a lost race
		if _, err := d.GetGroup(ctx, groupID); err != nil {
			return err
		}
		return db.ErrPrimaryConflict
	}
	return nil
}
