// Package service provides business logic for flyer management and matching.
package service

import (
	"bytes"
	"context"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/sync/errgroup"

	"renoquote_backend/internal/adapters/storage"
	"renoquote_backend/internal/events"
	"renoquote_backend/internal/flyers/repository"
	"renoquote_backend/internal/flyers/transport"
	"renoquote_backend/internal/pricing"
	"renoquote_backend/platform/apperr"
	"renoquote_backend/platform/logger"
)

// Service provides business logic for flyers.
type Service struct {
	repo    repository.Repository
	storage storage.StorageService
	bucket  string
	bus     events.Bus
	log     *logger.Logger
	now     func() time.Time
}

// New creates a new flyers service.
func New(repo repository.Repository, storageSvc storage.StorageService, bucket string, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:    repo,
		storage: storageSvc,
		bucket:  bucket,
		bus:     bus,
		log:     log,
		now:     time.Now,
	}
}

// CreateFlyer registers a flyer. Item tokens are normalized once at write
// time so matching never re-tokenizes stored items.
func (s *Service) CreateFlyer(ctx context.Context, userID uuid.UUID, req transport.CreateFlyerRequest) (transport.FlyerResponse, error) {
	if !req.ValidUntil.After(s.now()) {
		return transport.FlyerResponse{}, apperr.Validation("validUntil must be in the future")
	}

	items := make([]repository.CreateItemParams, len(req.Items))
	for i, item := range req.Items {
		items[i] = repository.CreateItemParams{
			Name:       strings.TrimSpace(item.Name),
			UnitLabel:  strings.TrimSpace(item.UnitLabel),
			Price:      item.Price,
			PromoNotes: strings.TrimSpace(item.PromoNotes),
			Tokens:     pricing.NormalizeTokens(item.Name, item.PromoNotes),
		}
	}

	flyer, err := s.repo.Create(ctx, repository.CreateFlyerParams{
		Retailer:   strings.TrimSpace(req.Retailer),
		ValidUntil: req.ValidUntil,
		CreatedBy:  userID,
		Items:      items,
	})
	if err != nil {
		return transport.FlyerResponse{}, err
	}

	s.log.Info("flyer created", "id", flyer.ID, "retailer", flyer.Retailer, "items", len(flyer.Items))
	return toFlyerResponse(flyer), nil
}

// GetFlyer retrieves a flyer with its items.
func (s *Service) GetFlyer(ctx context.Context, id uuid.UUID) (transport.FlyerResponse, error) {
	flyer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.FlyerResponse{}, err
	}
	return toFlyerResponse(flyer), nil
}

// ListFlyers lists flyers, optionally only those still valid.
func (s *Service) ListFlyers(ctx context.Context, activeOnly bool) (transport.FlyerListResponse, error) {
	flyers, err := s.repo.List(ctx, activeOnly, s.now())
	if err != nil {
		return transport.FlyerListResponse{}, err
	}

	items := make([]transport.FlyerResponse, len(flyers))
	for i, flyer := range flyers {
		items[i] = toFlyerResponse(flyer)
	}
	return transport.FlyerListResponse{Items: items, Total: len(items)}, nil
}

// DeleteFlyer removes a flyer and its attached scan object, if any.
func (s *Service) DeleteFlyer(ctx context.Context, id uuid.UUID) error {
	flyer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if flyer.ScanObjectKey != nil && s.storage != nil {
		if err := s.storage.DeleteObject(ctx, s.bucket, *flyer.ScanObjectKey); err != nil {
			s.log.Warn("failed to delete flyer scan object", "flyerId", id, "error", err)
		}
	}

	s.log.Info("flyer deleted", "id", id)
	return nil
}

// MatchLineItem ranks active flyer items against one scope line. Expired
// flyers never participate.
func (s *Service) MatchLineItem(ctx context.Context, req transport.MatchRequest) (transport.MatchResponse, error) {
	stored, err := s.repo.ListActiveItems(ctx, s.now())
	if err != nil {
		return transport.MatchResponse{}, err
	}

	candidates := make([]pricing.FlyerItem, len(stored))
	for i, item := range stored {
		candidates[i] = pricing.FlyerItem{
			Name:             item.Name,
			UnitLabel:        item.UnitLabel,
			Price:            item.Price,
			PromoNotes:       item.PromoNotes,
			NormalizedTokens: item.Tokens,
		}
	}

	limit := req.Limit
	if limit <= 0 {
		limit = pricing.DefaultMatchLimit
	}

	line := pricing.ScopeLineItem{
		Task:     req.Task,
		Material: req.Material,
		Quantity: req.Quantity,
		Unit:     req.Unit,
	}
	matches := pricing.MatchFlyerItems(candidates, line, limit)

	results := make([]transport.MatchResult, len(matches))
	for i, match := range matches {
		source := stored[indexOfCandidate(candidates, match.Item)]
		results[i] = transport.MatchResult{
			FlyerID:    source.FlyerID,
			Retailer:   source.Retailer,
			Name:       match.Item.Name,
			UnitLabel:  match.Item.UnitLabel,
			Price:      match.Item.Price,
			PromoNotes: match.Item.PromoNotes,
			MatchScore: match.MatchScore,
		}
	}
	return transport.MatchResponse{Matches: results}, nil
}

// ImportScan uploads a flyer scan image, extracts its EXIF capture date when
// present, and attaches both to the flyer.
func (s *Service) ImportScan(ctx context.Context, userID uuid.UUID, flyerID uuid.UUID, fileName, contentType string, reader io.Reader, size int64) (transport.ScanImportResponse, error) {
	if s.storage == nil {
		return transport.ScanImportResponse{}, apperr.Internal("object storage is not configured")
	}
	if err := s.storage.ValidateContentType(contentType); err != nil {
		return transport.ScanImportResponse{}, apperr.Validation(err.Error())
	}
	if err := s.storage.ValidateFileSize(size); err != nil {
		return transport.ScanImportResponse{}, apperr.Validation(err.Error())
	}

	flyer, err := s.repo.GetByID(ctx, flyerID)
	if err != nil {
		return transport.ScanImportResponse{}, err
	}

	// Buffer the upload so the EXIF decoder and the storage client can each
	// read the full stream.
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(reader, size)); err != nil {
		return transport.ScanImportResponse{}, apperr.Validation("failed to read upload")
	}

	capturedAt := extractCaptureDate(buf.Bytes(), contentType)

	objectKey, err := s.storage.UploadFile(ctx, s.bucket, "scans/"+flyerID.String(), fileName, contentType, bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		return transport.ScanImportResponse{}, err
	}

	flyer, err = s.repo.AttachScan(ctx, flyerID, objectKey, capturedAt)
	if err != nil {
		return transport.ScanImportResponse{}, err
	}

	s.bus.Publish(ctx, events.FlyerScanImported{
		BaseEvent:   events.NewBaseEvent(),
		FlyerID:     flyer.ID,
		Retailer:    flyer.Retailer,
		ItemCount:   len(flyer.Items),
		ObjectKey:   objectKey,
		CapturedAt:  capturedAt,
		UploadedBy:  userID,
		ContentType: contentType,
	})
	s.log.Info("flyer scan imported", "flyerId", flyer.ID, "objectKey", objectKey)

	response := transport.ScanImportResponse{
		FlyerID:    flyer.ID,
		ObjectKey:  objectKey,
		CapturedAt: capturedAt,
	}
	if presigned, err := s.storage.GenerateDownloadURL(ctx, s.bucket, objectKey); err == nil {
		response.DownloadURL = presigned.URL
	}
	return response, nil
}

// ExpireStale removes flyers whose validity ended before the retention
// window and cleans up their scan objects. Returns the number removed.
func (s *Service) ExpireStale(ctx context.Context, retention time.Duration) (int, error) {
	cutoff := s.now().Add(-retention)
	removed, err := s.repo.DeleteExpired(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, flyer := range removed {
		if flyer.ScanObjectKey == nil || s.storage == nil {
			continue
		}
		id, key := flyer.ID, *flyer.ScanObjectKey
		g.Go(func() error {
			if err := s.storage.DeleteObject(gctx, s.bucket, key); err != nil {
				s.log.Warn("failed to delete expired scan object", "flyerId", id, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(removed) > 0 {
		s.bus.Publish(ctx, events.FlyersExpired{
			BaseEvent:    events.NewBaseEvent(),
			RemovedCount: len(removed),
			Cutoff:       cutoff,
		})
		s.log.Info("expired flyers removed", "count", len(removed), "cutoff", cutoff)
	}
	return len(removed), nil
}

// extractCaptureDate reads the EXIF DateTimeOriginal from jpeg/tiff scans.
// Other formats, and images without EXIF, yield nil.
func extractCaptureDate(data []byte, contentType string) *time.Time {
	switch strings.ToLower(strings.Split(contentType, ";")[0]) {
	case "image/jpeg", "image/tiff":
	default:
		return nil
	}

	meta, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	taken, err := meta.DateTime()
	if err != nil {
		return nil
	}
	return &taken
}

func indexOfCandidate(candidates []pricing.FlyerItem, item pricing.FlyerItem) int {
	for i := range candidates {
		if candidates[i].Name == item.Name && candidates[i].Price == item.Price && candidates[i].UnitLabel == item.UnitLabel {
			return i
		}
	}
	return 0
}

func toFlyerResponse(flyer repository.Flyer) transport.FlyerResponse {
	items := make([]transport.FlyerItemResponse, len(flyer.Items))
	for i, item := range flyer.Items {
		items[i] = transport.FlyerItemResponse{
			ID:         item.ID,
			Name:       item.Name,
			UnitLabel:  item.UnitLabel,
			Price:      item.Price,
			PromoNotes: item.PromoNotes,
			Tokens:     item.Tokens,
		}
	}
	return transport.FlyerResponse{
		ID:            flyer.ID,
		Retailer:      flyer.Retailer,
		ValidUntil:    flyer.ValidUntil,
		ScanObjectKey: flyer.ScanObjectKey,
		CapturedAt:    flyer.CapturedAt,
		Items:         items,
		CreatedAt:     flyer.CreatedAt.Format(time.RFC3339),
	}
}
