// Package service provides business logic for estimate computation and
// persistence. All pricing math lives in the pricing package; this layer
// assembles inputs, persists results, and publishes domain events.
package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"renoquote_backend/internal/estimates/repository"
	"renoquote_backend/internal/estimates/transport"
	"renoquote_backend/internal/events"
	"renoquote_backend/internal/pricing"
	"renoquote_backend/platform/apperr"
	"renoquote_backend/platform/logger"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	qrImageSize     = 256
)

// OverrideProvider supplies a user's saved pricebook overrides in
// registration order.
type OverrideProvider interface {
	OverrideSetForUser(ctx context.Context, userID uuid.UUID) (*pricing.OverrideSet, error)
}

// Service provides business logic for estimates.
type Service struct {
	repo      repository.Repository
	overrides OverrideProvider
	bus       events.Bus
	log       *logger.Logger
	baseURL   string
}

// New creates a new estimates service.
func New(repo repository.Repository, overrides OverrideProvider, bus events.Bus, log *logger.Logger, baseURL string) *Service {
	return &Service{
		repo:      repo,
		overrides: overrides,
		bus:       bus,
		log:       log,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
}

// Compute prices the request without persisting anything.
func (s *Service) Compute(ctx context.Context, userID uuid.UUID, req transport.ComputeEstimateRequest) (transport.EstimateResponse, error) {
	overrideSet, err := s.buildOverrideSet(ctx, userID, req)
	if err != nil {
		return transport.EstimateResponse{}, err
	}

	lines := toScopeLines(req.Lines)
	result := pricing.ComputeEstimate(req.Jurisdiction, lines, overrideSet)
	scenario := pricing.ComputeScenarioRange(lines)

	response := toEstimateResponse(result, scenario)
	response.CustomerName = req.CustomerName
	response.CustomerEmail = req.CustomerEmail
	response.ProjectSummary = req.ProjectSummary
	return response, nil
}

// Create computes and persists an estimate, then publishes
// estimates.computed for downstream consumers.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req transport.ComputeEstimateRequest) (transport.EstimateResponse, error) {
	response, err := s.Compute(ctx, userID, req)
	if err != nil {
		return transport.EstimateResponse{}, err
	}

	requestJSON, err := json.Marshal(req)
	if err != nil {
		return transport.EstimateResponse{}, apperr.Internal("failed to encode estimate request")
	}
	resultJSON, err := json.Marshal(response)
	if err != nil {
		return transport.EstimateResponse{}, apperr.Internal("failed to encode estimate result")
	}

	stored, err := s.repo.Create(ctx, repository.CreateEstimateParams{
		UserID:         userID,
		Jurisdiction:   response.Assumptions.JurisdictionCode,
		Request:        requestJSON,
		Result:         resultJSON,
		GrandTotal:     response.GrandTotal,
		CustomerName:   req.CustomerName,
		CustomerEmail:  req.CustomerEmail,
		ProjectSummary: req.ProjectSummary,
	})
	if err != nil {
		return transport.EstimateResponse{}, err
	}

	response.ID = stored.ID
	response.CreatedAt = stored.CreatedAt.Format(time.RFC3339)

	s.bus.Publish(ctx, events.EstimateComputed{
		BaseEvent:      events.NewBaseEvent(),
		EstimateID:     stored.ID,
		UserID:         userID,
		Jurisdiction:   response.Assumptions.JurisdictionCode,
		LineItemCount:  len(response.Lines),
		GrandTotal:     response.GrandTotal,
		CustomerEmail:  req.CustomerEmail,
		CustomerName:   req.CustomerName,
		ProjectSummary: req.ProjectSummary,
	})
	s.log.EstimateComputed(response.Assumptions.JurisdictionCode, len(response.Lines), response.GrandTotal)

	return response, nil
}

// Get retrieves a stored estimate.
func (s *Service) Get(ctx context.Context, userID uuid.UUID, id uuid.UUID) (transport.EstimateResponse, error) {
	stored, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return transport.EstimateResponse{}, err
	}
	return fromStored(stored)
}

// List lists a user's estimates, newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID, page, pageSize int) (transport.EstimateListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	stored, total, err := s.repo.ListByUser(ctx, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return transport.EstimateListResponse{}, err
	}

	items := make([]transport.EstimateResponse, 0, len(stored))
	for _, estimate := range stored {
		response, err := fromStored(estimate)
		if err != nil {
			return transport.EstimateListResponse{}, err
		}
		items = append(items, response)
	}
	return transport.EstimateListResponse{Items: items, Total: total}, nil
}

// Delete removes a stored estimate.
func (s *Service) Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.log.Info("estimate deleted", "userId", userID, "id", id)
	return nil
}

// ScenarioRange computes a low/medium/high what-if total from the tiered
// fallback tables only, independent of overrides and jurisdiction.
func (s *Service) ScenarioRange(req transport.ScenarioRangeRequest) transport.ScenarioRangeResponse {
	scenario := pricing.ComputeScenarioRange(toScopeLines(req.Lines))
	return transport.ScenarioRangeResponse{Low: scenario.Low, Medium: scenario.Medium, High: scenario.High}
}

// InferKey reports the pricing key for a scope line, empty when none applies.
func (s *Service) InferKey(task, material, unit string) transport.InferKeyResponse {
	return transport.InferKeyResponse{Key: pricing.InferPricingKey(task, material, unit)}
}

// ResolveMaterialText resolves a free-text material against the baseline
// table only. Saved overrides are not consulted here; this is a lookup aid.
func (s *Service) ResolveMaterialText(material string) transport.ResolveMaterialResponse {
	resolved := pricing.ResolveMaterial(material, nil)
	return transport.ResolveMaterialResponse{
		MatchedName: resolved.MatchedName,
		UnitCost:    resolved.UnitCost,
		Source:      string(resolved.Source),
	}
}

// Share generates (or regenerates) the public share link for an estimate.
func (s *Service) Share(ctx context.Context, userID uuid.UUID, id uuid.UUID) (transport.ShareResponse, error) {
	token := strings.ReplaceAll(uuid.New().String()+uuid.New().String(), "-", "")
	stored, err := s.repo.SetShareToken(ctx, userID, id, token)
	if err != nil {
		return transport.ShareResponse{}, err
	}

	s.bus.Publish(ctx, events.EstimateShared{
		BaseEvent:  events.NewBaseEvent(),
		EstimateID: stored.ID,
		ShareToken: token,
	})
	s.log.Info("estimate shared", "id", stored.ID)

	return transport.ShareResponse{ShareToken: token, URL: s.shareURL(token)}, nil
}

// GetShared retrieves the public view of a shared estimate. The customer
// email is withheld from the public payload.
func (s *Service) GetShared(ctx context.Context, token string) (transport.EstimateResponse, error) {
	stored, err := s.repo.GetByShareToken(ctx, token)
	if err != nil {
		return transport.EstimateResponse{}, err
	}
	response, err := fromStored(stored)
	if err != nil {
		return transport.EstimateResponse{}, err
	}
	response.CustomerEmail = ""
	return response, nil
}

// ShareQRCode renders the share link of an estimate as a PNG QR code.
func (s *Service) ShareQRCode(ctx context.Context, token string) ([]byte, error) {
	if _, err := s.repo.GetByShareToken(ctx, token); err != nil {
		return nil, err
	}

	png, err := qrcode.Encode(s.shareURL(token), qrcode.Medium, qrImageSize)
	if err != nil {
		return nil, apperr.Internal("failed to render QR code")
	}
	return png, nil
}

func (s *Service) shareURL(token string) string {
	return s.baseURL + "/public/estimates/" + token
}

// buildOverrideSet layers request overrides on top of the user's saved
// pricebook. Pricebook entries register first, so they keep precedence on
// substring ties; a request override with the same key replaces the saved
// rate for this request only.
func (s *Service) buildOverrideSet(ctx context.Context, userID uuid.UUID, req transport.ComputeEstimateRequest) (*pricing.OverrideSet, error) {
	set := &pricing.OverrideSet{}

	if req.UsePricebook && s.overrides != nil && userID != uuid.Nil {
		saved, err := s.overrides.OverrideSetForUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		for _, entry := range saved.Entries() {
			set.Add(entry.Key, entry.Rate)
		}
	}

	for _, entry := range req.Overrides {
		key := strings.ToLower(strings.TrimSpace(entry.Key))
		if key == "" {
			continue
		}
		set.Add(key, pricing.OverrideRate{Rate: entry.Rate, Unit: strings.ToLower(strings.TrimSpace(entry.Unit))})
	}
	return set, nil
}

func toScopeLines(requests []transport.ScopeLineItemRequest) []pricing.ScopeLineItem {
	lines := make([]pricing.ScopeLineItem, len(requests))
	for i, req := range requests {
		lines[i] = pricing.ScopeLineItem{
			ID:         req.ID,
			Segment:    req.Segment,
			Task:       req.Task,
			Material:   req.Material,
			Quantity:   req.Quantity,
			Unit:       req.Unit,
			LaborHours: req.LaborHours,
		}
	}
	return lines
}

func toEstimateResponse(result pricing.EstimateResult, scenario pricing.ScenarioRange) transport.EstimateResponse {
	lines := make([]transport.LineItemCostResponse, len(result.Lines))
	for i, line := range result.Lines {
		lines[i] = transport.LineItemCostResponse{
			ID:               line.ID,
			Segment:          line.Segment,
			Task:             line.Task,
			Material:         line.Material,
			Quantity:         line.Quantity,
			Unit:             line.Unit,
			LaborHours:       line.LaborHours,
			LaborRate:        line.LaborRate,
			LaborCost:        line.LaborCost,
			MaterialUnitCost: line.MaterialUnitCost,
			MaterialName:     line.MaterialName,
			MaterialCost:     line.MaterialCost,
			PricingSource:    string(line.PricingSource),
			Subtotal:         line.Subtotal,
			Markup:           line.Markup,
			Tax:              line.Tax,
			Total:            line.Total,
		}
	}

	return transport.EstimateResponse{
		Jurisdiction:   result.Assumptions.JurisdictionCode,
		Lines:          lines,
		TotalLabor:     result.TotalLabor,
		TotalMaterial:  result.TotalMaterial,
		Subtotal:       result.Subtotal,
		Markup:         result.Markup,
		TotalBeforeTax: result.TotalBeforeTax,
		Tax:            result.Tax,
		GrandTotal:     result.GrandTotal,
		Assumptions: transport.AssumptionsResponse{
			JurisdictionCode:   result.Assumptions.JurisdictionCode,
			LaborRatePerHour:   result.Assumptions.LaborRatePerHour,
			MaterialMultiplier: result.Assumptions.MaterialMultiplier,
			TaxRate:            result.Assumptions.TaxRate,
			TaxName:            result.Assumptions.TaxName,
			MarkupRate:         result.Assumptions.MarkupRate,
		},
		ScenarioRange: transport.ScenarioRangeResponse{Low: scenario.Low, Medium: scenario.Medium, High: scenario.High},
	}
}

func fromStored(stored repository.Estimate) (transport.EstimateResponse, error) {
	var response transport.EstimateResponse
	if err := json.Unmarshal(stored.Result, &response); err != nil {
		return transport.EstimateResponse{}, apperr.Internal("failed to decode stored estimate")
	}
	response.ID = stored.ID
	response.CreatedAt = stored.CreatedAt.Format(time.RFC3339)
	return response, nil
}
