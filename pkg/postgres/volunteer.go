package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/volunteer-roster/pkg/core/model"
	"github.com/jakechorley/volunteer-roster/pkg/db"
)

var _ db.VolunteerMirror = (*DB)(nil)

var volunteerColumns = []string{
	"id", "position", "first_name", "last_name", "contact_number", "email",
	"role", "skills", "active", "date_of_birth", "date_joined",
}

// LoadVolunteers returns every volunteer in roster order
func (d *DB) LoadVolunteers(ctx context.Context) ([]model.Volunteer, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, first_name, last_name, contact_number, email, role, skills, active,
			date_of_birth, date_joined
		FROM volunteer
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query volunteers: %w", err)
	}
	defer rows.Close()

	volunteers := []model.Volunteer{}
	for rows.Next() {
		var v model.Volunteer
		var dateOfBirth, dateJoined *time.Time
		if err := rows.Scan(&v.ID, &v.FirstName, &v.LastName, &v.ContactNumber, &v.Email,
			&v.Role, &v.Skills, &v.Active, &dateOfBirth, &dateJoined); err != nil {
			return nil, fmt.Errorf("failed to scan volunteer: %w", err)
		}
		v.DateOfBirth = formatDate(dateOfBirth)
		v.DateJoined = formatDate(dateJoined)
		volunteers = append(volunteers, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating volunteers: %w", err)
	}

	return volunteers, nil
}

// ReplaceVolunteers swaps the table contents for the given roster in one
// transaction. Slice order is kept in the position column.
func (d *DB) ReplaceVolunteers(ctx context.Context, volunteers []model.Volunteer) error {
	rows := make([][]any, 0, len(volunteers))
	for i, v := range volunteers {
		row, err := volunteerRow(i, v)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}

	return pgx.BeginFunc(ctx, d.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM volunteer`); err != nil {
			return fmt.Errorf("failed to clear volunteers: %w", err)
		}

		if len(rows) == 0 {
			return nil
		}

		if _, err := tx.CopyFrom(ctx, pgx.Identifier{"volunteer"}, volunteerColumns, pgx.CopyFromRows(rows)); err != nil {
			return fmt.Errorf("failed to insert volunteers: %w", err)
		}
		return nil
	})
}

func volunteerRow(position int, v model.Volunteer) ([]any, error) {
	dateOfBirth, err := parseDate(v.DateOfBirth)
	if err != nil {
		return nil, fmt.Errorf("volunteer %s has invalid dateOfBirth: %w", v.ID, err)
	}
	dateJoined, err := parseDate(v.DateJoined)
	if err != nil {
		return nil, fmt.Errorf("volunteer %s has invalid dateJoined: %w", v.ID, err)
	}

	skills := v.Skills
	if skills == nil {
		skills = []string{}
	}

	return []any{
		v.ID, position, v.FirstName, v.LastName, v.ContactNumber, v.Email,
		v.Role, skills, v.Active, dateOfBirth, dateJoined,
	}, nil
}

// parseDate returns nil for an empty date
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(model.DateLayout)
}
