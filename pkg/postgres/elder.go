package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/qashsolutions/myhealthguide/pkg/core/model"
	"github.com/qashsolutions/myhealthguide/pkg/db"
)

// GetElder retrieves a single elder by id
func (d *DB) GetElder(ctx context.Context, id string) (model.Elder, error) {
	var e model.Elder
	err := d.pool.QueryRow(ctx, `
		SELECT id, name, group_id, archived FROM elder WHERE id = $1
	`, id).Scan(&e.ID, &e.Name, &e.GroupID, &e.Archived)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Elder{}, db.ErrNotFound
	}
	if err != nil {
		return model.Elder{}, fmt.Errorf("failed to query elder: %w", err)
	}
	return e, nil
}

// ListEldersByGroup retrieves every elder in a group, archived included
func (d *DB) ListEldersByGroup(ctx context.Context, groupID string) ([]model.Elder, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name, group_id, archived FROM elder WHERE group_id = $1 ORDER BY name
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query elders: %w", err)
	}
	defer rows.Close()

	var elders []model.Elder
	for rows.Next() {
		var e model.Elder
		if err := rows.Scan(&e.ID, &e.Name, &e.GroupID, &e.Archived); err != nil {
			return nil, fmt.Errorf("failed to scan elder: %w", err)
		}
		elders = append(elders, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating elders: %w", err)
	}
	return elders, nil
}

// InsertElder inserts a new elder
func (d *DB) InsertElder(ctx context.Context, elder model.Elder) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO elder (id, name, group_id, archived) VALUES ($1, $2, $3, $4)
	`, elder.ID, elder.Name, elder.GroupID, elder.Archived)
	if err != nil {
		return fmt.Errorf("failed to insert elder: %w", err)
	}
	return nil
}

// ArchiveElder marks an elder archived
func (d *DB) ArchiveElder(ctx context.Context, id string) error {
	tag, err := d.pool.Exec(ctx, `UPDATE elder SET archived = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to archive elder: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}
