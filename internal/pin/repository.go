package pin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

const selectColumns = `id, latitude, longitude, residence_type, answer_status, response_type, timestamp, notes, team_id, created_by`

// Repository is the durable pin store.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a pin repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert persists a new pin.
func (r *Repository) Insert(ctx context.Context, p *Pin) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO pins (id, latitude, longitude, residence_type, answer_status, response_type, timestamp, notes, team_id, created_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID.String(), p.Latitude, p.Longitude,
		string(p.ResidenceType), string(p.AnswerStatus), string(p.ResponseType),
		p.Timestamp.UTC(), p.Notes, p.TeamID, p.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("inserting pin: %w", err)
	}
	return nil
}

// GetByID returns a pin by its ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Pin, error) {
	row := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM pins WHERE id = ?", selectColumns), id.String())

	p, err := scanPin(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("pin %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying pin %s: %w", id, err)
	}
	return p, nil
}

// List returns every pin, most recent first.
func (r *Repository) List(ctx context.Context) ([]*Pin, error) {
	return r.query(ctx,
		fmt.Sprintf("SELECT %s FROM pins ORDER BY timestamp DESC, id DESC", selectColumns))
}

// ListByTeam returns the pins dropped by one team, most recent first.
func (r *Repository) ListByTeam(ctx context.Context, teamID string) ([]*Pin, error) {
	return r.query(ctx,
		fmt.Sprintf("SELECT %s FROM pins WHERE team_id = ? ORDER BY timestamp DESC, id DESC", selectColumns),
		teamID)
}

// Delete removes a pin by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM pins WHERE id = ?", id.String())
	if err != nil {
		return fmt.Errorf("deleting pin: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("pin %s: %w", id, ErrNotFound)
	}

	return nil
}

func (r *Repository) query(ctx context.Context, query string, args ...interface{}) ([]*Pin, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing pins: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			slog.Warn("closing rows", "error", cerr)
		}
	}()

	pins := []*Pin{}
	for rows.Next() {
		p, err := scanPin(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning pin: %w", err)
		}
		pins = append(pins, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pins: %w", err)
	}

	return pins, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanPin reads one row. Enum columns decode with the fallback parsers so
// values written by older schemas never fail the read.
func scanPin(s scanner) (*Pin, error) {
	var p Pin
	var id, residence, answer, response string
	if err := s.Scan(&id, &p.Latitude, &p.Longitude, &residence, &answer, &response,
		&p.Timestamp, &p.Notes, &p.TeamID, &p.CreatedBy); err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parsing pin id %q: %w", id, err)
	}
	p.ID = parsed
	p.ResidenceType = ParseResidenceType(residence)
	p.AnswerStatus = ParseAnswerStatus(answer)
	p.ResponseType = ParseResponseType(response)

	return &p, nil
}
