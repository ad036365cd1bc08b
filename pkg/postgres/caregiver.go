package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/qashsolutions/myhealthguide/pkg/core/model"
	"github.com/qashsolutions/myhealthguide/pkg/db"
)

const caregiverColumns = `id, first_name, last_name, email, agency_id, role, active, password_hash`

func scanCaregiver(row pgx.Row) (model.Caregiver, error) {
	var c model.Caregiver
	var role string
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.AgencyID, &role, &c.Active, &c.PasswordHash)
	if err != nil {
		return model.Caregiver{}, err
	}
	c.Role = model.Role(role)
	return c, nil
}

// GetCaregiver retrieves a single caregiver by id
func (d *DB) GetCaregiver(ctx context.Context, id string) (model.Caregiver, error) {
	row := d.pool.QueryRow(ctx, `SELECT `+caregiverColumns+` FROM caregiver WHERE id = $1`, id)
	caregiver, err := scanCaregiver(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Caregiver{}, db.ErrNotFound
	}
	if err != nil {
		return model.Caregiver{}, fmt.Errorf("failed to query caregiver: %w", err)
	}
	return caregiver, nil
}

// GetCaregiverByEmail retrieves a caregiver by email for login
func (d *DB) GetCaregiverByEmail(ctx context.Context, email string) (model.Caregiver, error) {
	row := d.pool.QueryRow(ctx, `SELECT `+caregiverColumns+` FROM caregiver WHERE email = $1`, email)
	caregiver, err := scanCaregiver(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Caregiver{}, db.ErrNotFound
	}
	if err != nil {
		return model.Caregiver{}, fmt.Errorf("failed to query caregiver by email: %w", err)
	}
	return caregiver, nil
}

// ListActiveCaregiversByAgency retrieves an agency's active caregivers
func (d *DB) ListActiveCaregiversByAgency(ctx context.Context, agencyID string) ([]model.Caregiver, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+caregiverColumns+`
		FROM caregiver
		WHERE agency_id = $1 AND active = TRUE
		ORDER BY last_name, first_name
	`, agencyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query caregivers: %w", err)
	}
	defer rows.Close()

	var caregivers []model.Caregiver
	for rows.Next() {
		caregiver, err := scanCaregiver(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan caregiver: %w", err)
		}
		caregivers = append(caregivers, caregiver)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating caregivers: %w", err)
	}
	return caregivers, nil
}

// InsertCaregiver inserts a new caregiver account. A duplicate email returns
// db.ErrDuplicateEmail.
func (d *DB) InsertCaregiver(ctx context.Context, caregiver model.Caregiver) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO caregiver (id, first_name, last_name, email, agency_id, role, active, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, caregiver.ID, caregiver.FirstName, caregiver.LastName, caregiver.Email,
		caregiver.AgencyID, string(caregiver.Role), caregiver.Active, caregiver.PasswordHash)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505 unique_violation
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return db.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to insert caregiver: %w", err)
	}
	return nil
}
