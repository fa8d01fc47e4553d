// Package service provides business logic for the pricebook.
package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"renoquote_backend/internal/pricebook/repository"
	"renoquote_backend/internal/pricebook/transport"
	"renoquote_backend/internal/pricing"
	"renoquote_backend/platform/apperr"
	"renoquote_backend/platform/logger"
)

// Service provides business logic for pricebook overrides.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new pricebook service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// CreateOverride registers a contractor rate override. Keys are normalized to
// lowercase; re-registering a key replaces its rate without changing its
// precedence position.
func (s *Service) CreateOverride(ctx context.Context, userID uuid.UUID, req transport.CreateOverrideRequest) (transport.OverrideResponse, error) {
	key := normalizeKey(req.Key)
	if key == "" || key == pricing.MaterialOverridePrefix {
		return transport.OverrideResponse{}, apperr.Validation("override key must not be empty")
	}

	override, err := s.repo.Create(ctx, repository.CreateOverrideParams{
		UserID: userID,
		Key:    key,
		Rate:   req.Rate,
		Unit:   strings.ToLower(strings.TrimSpace(req.Unit)),
	})
	if err != nil {
		return transport.OverrideResponse{}, err
	}

	s.log.Info("override registered", "userId", userID, "key", override.Key, "position", override.Position)
	return toOverrideResponse(override), nil
}

// UpdateOverride changes the rate or unit of an existing override.
func (s *Service) UpdateOverride(ctx context.Context, userID uuid.UUID, id uuid.UUID, req transport.UpdateOverrideRequest) (transport.OverrideResponse, error) {
	unit := req.Unit
	if unit != nil {
		normalized := strings.ToLower(strings.TrimSpace(*unit))
		unit = &normalized
	}

	override, err := s.repo.Update(ctx, repository.UpdateOverrideParams{
		ID:     id,
		UserID: userID,
		Rate:   req.Rate,
		Unit:   unit,
	})
	if err != nil {
		return transport.OverrideResponse{}, err
	}

	s.log.Info("override updated", "userId", userID, "key", override.Key)
	return toOverrideResponse(override), nil
}

// DeleteOverride removes an override.
func (s *Service) DeleteOverride(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.log.Info("override deleted", "userId", userID, "id", id)
	return nil
}

// GetOverride retrieves a single override.
func (s *Service) GetOverride(ctx context.Context, userID uuid.UUID, id uuid.UUID) (transport.OverrideResponse, error) {
	override, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return transport.OverrideResponse{}, err
	}
	return toOverrideResponse(override), nil
}

// ListOverrides lists a user's overrides in precedence order.
func (s *Service) ListOverrides(ctx context.Context, userID uuid.UUID) (transport.OverrideListResponse, error) {
	overrides, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return transport.OverrideListResponse{}, err
	}

	items := make([]transport.OverrideResponse, len(overrides))
	for i, override := range overrides {
		items[i] = toOverrideResponse(override)
	}
	return transport.OverrideListResponse{Items: items, Total: len(items)}, nil
}

// OverrideSetForUser loads a user's overrides into the engine's ordered set.
// Registration order is preserved so substring ties resolve to the earliest
// registered override.
func (s *Service) OverrideSetForUser(ctx context.Context, userID uuid.UUID) (*pricing.OverrideSet, error) {
	overrides, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	set := &pricing.OverrideSet{}
	for _, override := range overrides {
		set.Add(override.Key, pricing.OverrideRate{Rate: override.Rate, Unit: override.Unit})
	}
	return set, nil
}

// ListJurisdictions returns the supported pricing regions and their rates.
func (s *Service) ListJurisdictions() []transport.JurisdictionResponse {
	codes := pricing.SupportedJurisdictions()
	items := make([]transport.JurisdictionResponse, len(codes))
	for i, code := range codes {
		rate := pricing.RateFor(code)
		items[i] = transport.JurisdictionResponse{
			Code:               rate.Code,
			LaborRatePerHour:   rate.LaborRatePerHour,
			MaterialMultiplier: rate.MaterialMultiplier,
			TaxRate:            rate.TaxRate,
			TaxName:            rate.TaxName,
		}
	}
	return items
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

func toOverrideResponse(override repository.Override) transport.OverrideResponse {
	return transport.OverrideResponse{
		ID:        override.ID,
		Key:       override.Key,
		Rate:      override.Rate,
		Unit:      override.Unit,
		Position:  override.Position,
		CreatedAt: override.CreatedAt,
		UpdatedAt: override.UpdatedAt,
	}
}
