// Package repository provides postgres persistence for pricebook overrides.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"renoquote_backend/platform/apperr"
)

const overrideNotFoundMessage = "override not found"

// Override is a stored contractor rate override. Position records registration
// order; lower positions win substring ties during estimate computation.
type Override struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Key       string
	Rate      float64
	Unit      string
	Position  int
	CreatedAt string
	UpdatedAt string
}

// CreateOverrideParams holds the fields for registering an override.
type CreateOverrideParams struct {
	UserID uuid.UUID
	Key    string
	Rate   float64
	Unit   string
}

// UpdateOverrideParams holds the mutable fields of an override.
type UpdateOverrideParams struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Rate   *float64
	Unit   *string
}

// Repository defines pricebook persistence operations.
type Repository interface {
	Create(ctx context.Context, params CreateOverrideParams) (Override, error)
	Update(ctx context.Context, params UpdateOverrideParams) (Override, error)
	Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error
	GetByID(ctx context.Context, userID uuid.UUID, id uuid.UUID) (Override, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Override, error)
}

// Repo implements the pricebook repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new pricebook repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// Create registers an override. Re-registering an existing key updates the
// rate and unit in place and keeps the original position.
func (r *Repo) Create(ctx context.Context, params CreateOverrideParams) (Override, error) {
	query := `
		INSERT INTO pricebook_overrides (user_id, key, rate, unit, position)
		VALUES ($1, $2, $3, $4,
			(SELECT COALESCE(MAX(position), 0) + 1 FROM pricebook_overrides WHERE user_id = $1))
		ON CONFLICT (user_id, key) DO UPDATE
			SET rate = EXCLUDED.rate, unit = EXCLUDED.unit, updated_at = now()
		RETURNING id, user_id, key, rate, unit, position, created_at, updated_at`

	override, err := r.scanOverride(r.pool.QueryRow(ctx, query, params.UserID, params.Key, params.Rate, params.Unit))
	if err != nil {
		return Override{}, fmt.Errorf("create override: %w", err)
	}
	return override, nil
}

// Update changes the rate or unit of an override, preserving key and position.
func (r *Repo) Update(ctx context.Context, params UpdateOverrideParams) (Override, error) {
	query := `
		UPDATE pricebook_overrides
		SET rate = COALESCE($3, rate),
			unit = COALESCE($4, unit),
			updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, key, rate, unit, position, created_at, updated_at`

	override, err := r.scanOverride(r.pool.QueryRow(ctx, query, params.ID, params.UserID, params.Rate, params.Unit))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Override{}, apperr.NotFound(overrideNotFoundMessage)
		}
		return Override{}, fmt.Errorf("update override: %w", err)
	}
	return override, nil
}

// Delete removes an override.
func (r *Repo) Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	query := `DELETE FROM pricebook_overrides WHERE id = $1 AND user_id = $2`
	result, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete override: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(overrideNotFoundMessage)
	}
	return nil
}

// GetByID retrieves an override by ID.
func (r *Repo) GetByID(ctx context.Context, userID uuid.UUID, id uuid.UUID) (Override, error) {
	query := `
		SELECT id, user_id, key, rate, unit, position, created_at, updated_at
		FROM pricebook_overrides
		WHERE id = $1 AND user_id = $2`

	override, err := r.scanOverride(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Override{}, apperr.NotFound(overrideNotFoundMessage)
		}
		return Override{}, fmt.Errorf("get override by id: %w", err)
	}
	return override, nil
}

// ListByUser lists a user's overrides in registration order.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID) ([]Override, error) {
	query := `
		SELECT id, user_id, key, rate, unit, position, created_at, updated_at
		FROM pricebook_overrides
		WHERE user_id = $1
		ORDER BY position ASC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list overrides: %w", err)
	}
	defer rows.Close()

	var overrides []Override
	for rows.Next() {
		override, err := r.scanOverride(rows)
		if err != nil {
			return nil, fmt.Errorf("scan override: %w", err)
		}
		overrides = append(overrides, override)
	}
	return overrides, rows.Err()
}

func (r *Repo) scanOverride(row pgx.Row) (Override, error) {
	var override Override
	var createdAt, updatedAt time.Time
	if err := row.Scan(
		&override.ID, &override.UserID, &override.Key, &override.Rate,
		&override.Unit, &override.Position, &createdAt, &updatedAt,
	); err != nil {
		return Override{}, err
	}
	override.CreatedAt = createdAt.Format(time.RFC3339)
	override.UpdatedAt = updatedAt.Format(time.RFC3339)
	return override, nil
}
