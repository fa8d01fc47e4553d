// Package repository provides postgres persistence for flyers and their items.
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

const flyerNotFoundMessage = "flyer not found"

// Flyer is a stored retail flyer.
type Flyer struct {
	ID            uuid.UUID
	Retailer      string
	ValidUntil    time.Time
	ScanObjectKey *string
	CapturedAt    *time.Time
	CreatedBy     uuid.UUID
	CreatedAt     time.Time
	Items         []Item
}

// Item is one priced entry on a flyer. Tokens holds the precomputed
// normalized token list used by the matcher. Retailer is populated only by
// ListActiveItems, which joins the parent flyer.
type Item struct {
	ID         uuid.UUID
	FlyerID    uuid.UUID
	Retailer   string
	Name       string
	UnitLabel  string
	Price      float64
	PromoNotes string
	Tokens     []string
}

// CreateFlyerParams holds the fields for registering a flyer.
type CreateFlyerParams struct {
	Retailer      string
	ValidUntil    time.Time
	ScanObjectKey *string
	CapturedAt    *time.Time
	CreatedBy     uuid.UUID
	Items         []CreateItemParams
}

// CreateItemParams holds the fields for one flyer item.
type CreateItemParams struct {
	Name       string
	UnitLabel  string
	Price      float64
	PromoNotes string
	Tokens     []string
}

// Repository defines flyer persistence operations.
type Repository interface {
	Create(ctx context.Context, params CreateFlyerParams) (Flyer, error)
	GetByID(ctx context.Context, id uuid.UUID) (Flyer, error)
	List(ctx context.Context, activeOnly bool, now time.Time) ([]Flyer, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListActiveItems(ctx context.Context, now time.Time) ([]Item, error)
	DeleteExpired(ctx context.Context, cutoff time.Time) ([]Flyer, error)
	AttachScan(ctx context.Context, id uuid.UUID, objectKey string, capturedAt *time.Time) (Flyer, error)
}

// Repo implements the flyers repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new flyers repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// Create stores a flyer and its items in a single transaction.
func (r *Repo) Create(ctx context.Context, params CreateFlyerParams) (Flyer, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Flyer{}, fmt.Errorf("begin create flyer: %w", err)
	}
	defer tx.Rollback(ctx)

	flyerQuery := `
		INSERT INTO flyers (retailer, valid_until, scan_object_key, captured_at, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, retailer, valid_until, scan_object_key, captured_at, created_by, created_at`

	var flyer Flyer
	if err := tx.QueryRow(ctx, flyerQuery,
		params.Retailer, params.ValidUntil, params.ScanObjectKey, params.CapturedAt, params.CreatedBy,
	).Scan(
		&flyer.ID, &flyer.Retailer, &flyer.ValidUntil, &flyer.ScanObjectKey,
		&flyer.CapturedAt, &flyer.CreatedBy, &flyer.CreatedAt,
	); err != nil {
		return Flyer{}, fmt.Errorf("create flyer: %w", err)
	}

	itemQuery := `
		INSERT INTO flyer_items (flyer_id, name, unit_label, price, promo_notes, tokens)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	flyer.Items = make([]Item, 0, len(params.Items))
	for _, item := range params.Items {
		stored := Item{
			FlyerID:    flyer.ID,
			Name:       item.Name,
			UnitLabel:  item.UnitLabel,
			Price:      item.Price,
			PromoNotes: item.PromoNotes,
			Tokens:     item.Tokens,
		}
		if err := tx.QueryRow(ctx, itemQuery,
			flyer.ID, item.Name, item.UnitLabel, item.Price, item.PromoNotes, item.Tokens,
		).Scan(&stored.ID); err != nil {
			return Flyer{}, fmt.Errorf("create flyer item: %w", err)
		}
		flyer.Items = append(flyer.Items, stored)
	}

	if err := tx.Commit(ctx); err != nil {
		return Flyer{}, fmt.Errorf("commit create flyer: %w", err)
	}
	return flyer, nil
}

// GetByID retrieves a flyer with its items.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Flyer, error) {
	query := `
		SELECT id, retailer, valid_until, scan_object_key, captured_at, created_by, created_at
		FROM flyers
		WHERE id = $1`

	var flyer Flyer
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&flyer.ID, &flyer.Retailer, &flyer.ValidUntil, &flyer.ScanObjectKey,
		&flyer.CapturedAt, &flyer.CreatedBy, &flyer.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Flyer{}, apperr.NotFound(flyerNotFoundMessage)
		}
		return Flyer{}, fmt.Errorf("get flyer by id: %w", err)
	}

	items, err := r.listItems(ctx, id)
	if err != nil {
		return Flyer{}, err
	}
	flyer.Items = items
	return flyer, nil
}

// List lists flyers, optionally only those still valid at now.
func (r *Repo) List(ctx context.Context, activeOnly bool, now time.Time) ([]Flyer, error) {
	query := `
		SELECT id, retailer, valid_until, scan_object_key, captured_at, created_by, created_at
		FROM flyers`
	args := []interface{}{}
	if activeOnly {
		query += ` WHERE valid_until > $1`
		args = append(args, now)
	}
	query += ` ORDER BY valid_until DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list flyers: %w", err)
	}
	defer rows.Close()

	var flyers []Flyer
	for rows.Next() {
		var flyer Flyer
		if err := rows.Scan(
			&flyer.ID, &flyer.Retailer, &flyer.ValidUntil, &flyer.ScanObjectKey,
			&flyer.CapturedAt, &flyer.CreatedBy, &flyer.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan flyer: %w", err)
		}
		flyers = append(flyers, flyer)
	}
	return flyers, rows.Err()
}

// Delete removes a flyer; its items cascade.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM flyers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete flyer: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(flyerNotFoundMessage)
	}
	return nil
}

// ListActiveItems returns every item from flyers still valid at now.
func (r *Repo) ListActiveItems(ctx context.Context, now time.Time) ([]Item, error) {
	query := `
		SELECT i.id, i.flyer_id, f.retailer, i.name, i.unit_label, i.price, i.promo_notes, i.tokens
		FROM flyer_items i
		JOIN flyers f ON f.id = i.flyer_id
		WHERE f.valid_until > $1
		ORDER BY f.valid_until DESC, i.name ASC`

	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("list active flyer items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var item Item
		if err := rows.Scan(
			&item.ID, &item.FlyerID, &item.Retailer, &item.Name, &item.UnitLabel,
			&item.Price, &item.PromoNotes, &item.Tokens,
		); err != nil {
			return nil, fmt.Errorf("scan flyer item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// DeleteExpired removes flyers whose validity ended before cutoff and returns
// the removed rows so callers can clean up attached scan objects.
func (r *Repo) DeleteExpired(ctx context.Context, cutoff time.Time) ([]Flyer, error) {
	query := `
		DELETE FROM flyers
		WHERE valid_until < $1
		RETURNING id, retailer, valid_until, scan_object_key, captured_at, created_by, created_at`

	rows, err := r.pool.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("delete expired flyers: %w", err)
	}
	defer rows.Close()

	var removed []Flyer
	for rows.Next() {
		var flyer Flyer
		if err := rows.Scan(
			&flyer.ID, &flyer.Retailer, &flyer.ValidUntil, &flyer.ScanObjectKey,
			&flyer.CapturedAt, &flyer.CreatedBy, &flyer.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan expired flyer: %w", err)
		}
		removed = append(removed, flyer)
	}
	return removed, rows.Err()
}

// AttachScan records the uploaded scan object and its capture date on a flyer.
func (r *Repo) AttachScan(ctx context.Context, id uuid.UUID, objectKey string, capturedAt *time.Time) (Flyer, error) {
	query := `
		UPDATE flyers
		SET scan_object_key = $2, captured_at = $3, updated_at = now()
		WHERE id = $1
		RETURNING id, retailer, valid_until, scan_object_key, captured_at, created_by, created_at`

	var flyer Flyer
	if err := r.pool.QueryRow(ctx, query, id, objectKey, capturedAt).Scan(
		&flyer.ID, &flyer.Retailer, &flyer.ValidUntil, &flyer.ScanObjectKey,
		&flyer.CapturedAt, &flyer.CreatedBy, &flyer.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Flyer{}, apperr.NotFound(flyerNotFoundMessage)
		}
		return Flyer{}, fmt.Errorf("attach flyer scan: %w", err)
	}

	items, err := r.listItems(ctx, id)
	if err != nil {
		return Flyer{}, err
	}
	flyer.Items = items
	return flyer, nil
}

func (r *Repo) listItems(ctx context.Context, flyerID uuid.UUID) ([]Item, error) {
	query := `
		SELECT id, flyer_id, name, unit_label, price, promo_notes, tokens
		FROM flyer_items
		WHERE flyer_id = $1
		ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query, flyerID)
	if err != nil {
		return nil, fmt.Errorf("list flyer items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var item Item
		if err := rows.Scan(
			&item.ID, &item.FlyerID, &item.Name, &item.UnitLabel,
			&item.Price, &item.PromoNotes, &item.Tokens,
		); err != nil {
			return nil, fmt.Errorf("scan flyer item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
