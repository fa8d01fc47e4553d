package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"renoquote_backend/internal/pricebook/repository"
	"renoquote_backend/internal/pricebook/transport"
	"renoquote_backend/platform/apperr"
	"renoquote_backend/platform/logger"
)

type fakeRepo struct {
	overrides []repository.Override
	nextPos   int
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateOverrideParams) (repository.Override, error) {
	now := time.Now().Format(time.RFC3339)
	for i, existing := range f.overrides {
		if existing.UserID == params.UserID && existing.Key == params.Key {
			f.overrides[i].Rate = params.Rate
			f.overrides[i].Unit = params.Unit
			f.overrides[i].UpdatedAt = now
			return f.overrides[i], nil
		}
	}

	f.nextPos++
	override := repository.Override{
		ID:        uuid.New(),
		UserID:    params.UserID,
		Key:       params.Key,
		Rate:      params.Rate,
		Unit:      params.Unit,
		Position:  f.nextPos,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.overrides = append(f.overrides, override)
	return override, nil
}

func (f *fakeRepo) Update(_ context.Context, params repository.UpdateOverrideParams) (repository.Override, error) {
	for i, existing := range f.overrides {
		if existing.ID == params.ID && existing.UserID == params.UserID {
			if params.Rate != nil {
				f.overrides[i].Rate = *params.Rate
			}
			if params.Unit != nil {
				f.overrides[i].Unit = *params.Unit
			}
			return f.overrides[i], nil
		}
	}
	return repository.Override{}, apperr.NotFound("override not found")
}

func (f *fakeRepo) Delete(_ context.Context, userID uuid.UUID, id uuid.UUID) error {
	for i, existing := range f.overrides {
		if existing.ID == id && existing.UserID == userID {
			f.overrides = append(f.overrides[:i], f.overrides[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("override not found")
}

func (f *fakeRepo) GetByID(_ context.Context, userID uuid.UUID, id uuid.UUID) (repository.Override, error) {
	for _, existing := range f.overrides {
		if existing.ID == id && existing.UserID == userID {
			return existing, nil
		}
	}
	return repository.Override{}, apperr.NotFound("override not found")
}

func (f *fakeRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]repository.Override, error) {
	var out []repository.Override
	for _, existing := range f.overrides {
		if existing.UserID == userID {
			out = append(out, existing)
		}
	}
	return out, nil
}

func newTestService() (*Service, *fakeRepo) {
	repo := &fakeRepo{}
	return New(repo, logger.New("test")), repo
}

func TestCreateOverride_NormalizesKey(t *testing.T) {
	svc, _ := newTestService()
	userID := uuid.New()

	created, err := svc.CreateOverride(context.Background(), userID, transport.CreateOverrideRequest{
		Key:  "  Flooring_SQFT  ",
		Rate: 6.5,
		Unit: "SQFT",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Key != "flooring_sqft" {
		t.Fatalf("expected normalized key flooring_sqft, got %q", created.Key)
	}
	if created.Unit != "sqft" {
		t.Fatalf("expected normalized unit sqft, got %q", created.Unit)
	}
	if created.Position != 1 {
		t.Fatalf("expected position 1, got %d", created.Position)
	}
}

func TestCreateOverride_RejectsEmptyKey(t *testing.T) {
	svc, _ := newTestService()
	userID := uuid.New()

	for _, key := range []string{"", "   ", "mat:"} {
		if _, err := svc.CreateOverride(context.Background(), userID, transport.CreateOverrideRequest{
			Key:  key,
			Rate: 10,
			Unit: "sqft",
		}); err == nil {
			t.Fatalf("expected validation error for key %q", key)
		}
	}
}

func TestCreateOverride_ReregisterKeepsPosition(t *testing.T) {
	svc, _ := newTestService()
	userID := uuid.New()
	ctx := context.Background()

	first, err := svc.CreateOverride(ctx, userID, transport.CreateOverrideRequest{Key: "plumbing_hour", Rate: 100, Unit: "hour"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.CreateOverride(ctx, userID, transport.CreateOverrideRequest{Key: "electrical_hour", Rate: 110, Unit: "hour"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	replaced, err := svc.CreateOverride(ctx, userID, transport.CreateOverrideRequest{Key: "plumbing_hour", Rate: 125, Unit: "hour"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if replaced.Position != first.Position {
		t.Fatalf("expected re-registration to keep position %d, got %d", first.Position, replaced.Position)
	}
	if replaced.Rate != 125 {
		t.Fatalf("expected rate 125, got %v", replaced.Rate)
	}
}

func TestOverrideSetForUser_PreservesRegistrationOrder(t *testing.T) {
	svc, _ := newTestService()
	userID := uuid.New()
	ctx := context.Background()

	keys := []string{"mat:vinyl plank", "flooring_sqft", "mat:vinyl"}
	for i, key := range keys {
		if _, err := svc.CreateOverride(ctx, userID, transport.CreateOverrideRequest{Key: key, Rate: float64(i + 1), Unit: "sqft"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	set, err := svc.OverrideSetForUser(ctx, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := set.Entries()
	if len(entries) != len(keys) {
		t.Fatalf("expected %d entries, got %d", len(keys), len(entries))
	}
	for i, key := range keys {
		if entries[i].Key != key {
			t.Fatalf("expected entry %d to be %q, got %q", i, key, entries[i].Key)
		}
	}
}

func TestListJurisdictions(t *testing.T) {
	svc, _ := newTestService()

	items := svc.ListJurisdictions()
	if len(items) == 0 {
		t.Fatal("expected at least one jurisdiction")
	}

	seen := make(map[string]bool)
	for _, item := range items {
		if item.Code == "" {
			t.Fatal("expected jurisdiction code to be set")
		}
		if item.LaborRatePerHour <= 0 {
			t.Fatalf("expected positive labor rate for %s, got %v", item.Code, item.LaborRatePerHour)
		}
		seen[item.Code] = true
	}
	if !seen["ON"] {
		t.Fatal("expected ON to be a supported jurisdiction")
	}
}
