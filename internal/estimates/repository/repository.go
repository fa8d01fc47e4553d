// Package repository provides postgres persistence for computed estimates.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"renoquote_backend/platform/apperr"
)

const estimateNotFoundMessage = "estimate not found"

// Estimate is a persisted pricing run. Request and Result hold the full
// input and output payloads as JSON so an estimate can be replayed or
// re-rendered without recomputation.
type Estimate struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Jurisdiction   string
	Request        json.RawMessage
	Result         json.RawMessage
	GrandTotal     float64
	ShareToken     *string
	CustomerName   string
	CustomerEmail  string
	ProjectSummary string
	CreatedAt      time.Time
}

// CreateEstimateParams holds the fields for persisting an estimate.
type CreateEstimateParams struct {
	UserID         uuid.UUID
	Jurisdiction   string
	Request        json.RawMessage
	Result         json.RawMessage
	GrandTotal     float64
	CustomerName   string
	CustomerEmail  string
	ProjectSummary string
}

// Repository defines estimate persistence operations.
type Repository interface {
	Create(ctx context.Context, params CreateEstimateParams) (Estimate, error)
	GetByID(ctx context.Context, userID uuid.UUID, id uuid.UUID) (Estimate, error)
	GetByShareToken(ctx context.Context, token string) (Estimate, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Estimate, int, error)
	Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error
	SetShareToken(ctx context.Context, userID uuid.UUID, id uuid.UUID, token string) (Estimate, error)
}

// Repo implements the estimates repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new estimates repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// Create persists a computed estimate.
func (r *Repo) Create(ctx context.Context, params CreateEstimateParams) (Estimate, error) {
	query := `
		INSERT INTO estimates (user_id, jurisdiction, request, result, grand_total, customer_name, customer_email, project_summary)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, user_id, jurisdiction, request, result, grand_total, share_token,
			customer_name, customer_email, project_summary, created_at`

	estimate, err := r.scanEstimate(r.pool.QueryRow(ctx, query,
		params.UserID, params.Jurisdiction, params.Request, params.Result,
		params.GrandTotal, params.CustomerName, params.CustomerEmail, params.ProjectSummary,
	))
	if err != nil {
		return Estimate{}, fmt.Errorf("create estimate: %w", err)
	}
	return estimate, nil
}

// GetByID retrieves an estimate owned by the user.
func (r *Repo) GetByID(ctx context.Context, userID uuid.UUID, id uuid.UUID) (Estimate, error) {
	query := `
		SELECT id, user_id, jurisdiction, request, result, grand_total, share_token,
			customer_name, customer_email, project_summary, created_at
		FROM estimates
		WHERE id = $1 AND user_id = $2`

	estimate, err := r.scanEstimate(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Estimate{}, apperr.NotFound(estimateNotFoundMessage)
		}
		return Estimate{}, fmt.Errorf("get estimate by id: %w", err)
	}
	return estimate, nil
}

// GetByShareToken retrieves an estimate by its public share token.
func (r *Repo) GetByShareToken(ctx context.Context, token string) (Estimate, error) {
	query := `
		SELECT id, user_id, jurisdiction, request, result, grand_total, share_token,
			customer_name, customer_email, project_summary, created_at
		FROM estimates
		WHERE share_token = $1`

	estimate, err := r.scanEstimate(r.pool.QueryRow(ctx, query, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Estimate{}, apperr.NotFound(estimateNotFoundMessage)
		}
		return Estimate{}, fmt.Errorf("get estimate by share token: %w", err)
	}
	return estimate, nil
}

// ListByUser lists a user's estimates, newest first.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Estimate, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM estimates WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count estimates: %w", err)
	}

	query := `
		SELECT id, user_id, jurisdiction, request, result, grand_total, share_token,
			customer_name, customer_email, project_summary, created_at
		FROM estimates
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list estimates: %w", err)
	}
	defer rows.Close()

	var estimates []Estimate
	for rows.Next() {
		estimate, err := r.scanEstimate(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan estimate: %w", err)
		}
		estimates = append(estimates, estimate)
	}
	return estimates, total, rows.Err()
}

// Delete removes an estimate owned by the user.
func (r *Repo) Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM estimates WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete estimate: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(estimateNotFoundMessage)
	}
	return nil
}

// SetShareToken records the public share token for an estimate.
func (r *Repo) SetShareToken(ctx context.Context, userID uuid.UUID, id uuid.UUID, token string) (Estimate, error) {
	query := `
		UPDATE estimates
		SET share_token = $3
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, jurisdiction, request, result, grand_total, share_token,
			customer_name, customer_email, project_summary, created_at`

	estimate, err := r.scanEstimate(r.pool.QueryRow(ctx, query, id, userID, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Estimate{}, apperr.NotFound(estimateNotFoundMessage)
		}
		return Estimate{}, fmt.Errorf("set share token: %w", err)
	}
	return estimate, nil
}

func (r *Repo) scanEstimate(row pgx.Row) (Estimate, error) {
	var estimate Estimate
	if err := row.Scan(
		&estimate.ID, &estimate.UserID, &estimate.Jurisdiction, &estimate.Request,
		&estimate.Result, &estimate.GrandTotal, &estimate.ShareToken,
		&estimate.CustomerName, &estimate.CustomerEmail, &estimate.ProjectSummary,
		&estimate.CreatedAt,
	); err != nil {
		return Estimate{}, err
	}
	return estimate, nil
}
