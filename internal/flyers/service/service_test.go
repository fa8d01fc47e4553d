package service

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"

	"renoquote_backend/internal/adapters/storage"
	"renoquote_backend/internal/events"
	"renoquote_backend/internal/flyers/repository"
	"renoquote_backend/internal/flyers/transport"
	"renoquote_backend/platform/apperr"
	"renoquote_backend/platform/logger"
)

type fakeRepo struct {
	flyers map[uuid.UUID]repository.Flyer
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{flyers: make(map[uuid.UUID]repository.Flyer)}
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateFlyerParams) (repository.Flyer, error) {
	flyer := repository.Flyer{
		ID:         uuid.New(),
		Retailer:   params.Retailer,
		ValidUntil: params.ValidUntil,
		CreatedBy:  params.CreatedBy,
		CreatedAt:  time.Now(),
	}
	for _, item := range params.Items {
		flyer.Items = append(flyer.Items, repository.Item{
			ID:         uuid.New(),
			FlyerID:    flyer.ID,
			Name:       item.Name,
			UnitLabel:  item.UnitLabel,
			Price:      item.Price,
			PromoNotes: item.PromoNotes,
			Tokens:     item.Tokens,
		})
	}
	f.flyers[flyer.ID] = flyer
	return flyer, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Flyer, error) {
	flyer, ok := f.flyers[id]
	if !ok {
		return repository.Flyer{}, apperr.NotFound("flyer not found")
	}
	return flyer, nil
}

func (f *fakeRepo) List(_ context.Context, activeOnly bool, now time.Time) ([]repository.Flyer, error) {
	var out []repository.Flyer
	for _, flyer := range f.flyers {
		if activeOnly && !flyer.ValidUntil.After(now) {
			continue
		}
		out = append(out, flyer)
	}
	return out, nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.flyers[id]; !ok {
		return apperr.NotFound("flyer not found")
	}
	delete(f.flyers, id)
	return nil
}

func (f *fakeRepo) ListActiveItems(_ context.Context, now time.Time) ([]repository.Item, error) {
	var out []repository.Item
	for _, flyer := range f.flyers {
		if !flyer.ValidUntil.After(now) {
			continue
		}
		for _, item := range flyer.Items {
			item.Retailer = flyer.Retailer
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeRepo) DeleteExpired(_ context.Context, cutoff time.Time) ([]repository.Flyer, error) {
	var removed []repository.Flyer
	for id, flyer := range f.flyers {
		if flyer.ValidUntil.Before(cutoff) {
			removed = append(removed, flyer)
			delete(f.flyers, id)
		}
	}
	return removed, nil
}

func (f *fakeRepo) AttachScan(_ context.Context, id uuid.UUID, objectKey string, capturedAt *time.Time) (repository.Flyer, error) {
	flyer, ok := f.flyers[id]
	if !ok {
		return repository.Flyer{}, apperr.NotFound("flyer not found")
	}
	flyer.ScanObjectKey = &objectKey
	flyer.CapturedAt = capturedAt
	f.flyers[id] = flyer
	return flyer, nil
}

type fakeStorage struct {
	uploaded []string
	deleted  []string
}

func (f *fakeStorage) GenerateDownloadURL(_ context.Context, bucket, fileKey string) (*storage.PresignedURL, error) {
	return &storage.PresignedURL{URL: "https://storage.test/" + bucket + "/" + fileKey, FileKey: fileKey}, nil
}

func (f *fakeStorage) DownloadFile(context.Context, string, string) (io.ReadCloser, error) {
	return nil, apperr.NotFound("object not found")
}

func (f *fakeStorage) DeleteObject(_ context.Context, _ string, fileKey string) error {
	f.deleted = append(f.deleted, fileKey)
	return nil
}

func (f *fakeStorage) UploadFile(_ context.Context, _ string, folder, fileName, _ string, _ io.Reader, _ int64) (string, error) {
	key := folder + "/" + fileName
	f.uploaded = append(f.uploaded, key)
	return key, nil
}

func (f *fakeStorage) EnsureBucketExists(context.Context, string) error { return nil }
func (f *fakeStorage) ValidateContentType(string) error                 { return nil }
func (f *fakeStorage) ValidateFileSize(int64) error                     { return nil }

type captureBus struct {
	published []events.Event
}

func (b *captureBus) Publish(_ context.Context, event events.Event) {
	b.published = append(b.published, event)
}

func (b *captureBus) PublishSync(_ context.Context, event events.Event) error {
	b.published = append(b.published, event)
	return nil
}

func (b *captureBus) Subscribe(string, events.Handler) {}

func newTestService() (*Service, *fakeRepo, *fakeStorage, *captureBus) {
	repo := newFakeRepo()
	store := &fakeStorage{}
	bus := &captureBus{}
	svc := New(repo, store, "flyer-scans", bus, logger.New("test"))
	return svc, repo, store, bus
}

func TestCreateFlyer_TokenizesItems(t *testing.T) {
	svc, _, _, _ := newTestService()

	created, err := svc.CreateFlyer(context.Background(), uuid.New(), transport.CreateFlyerRequest{
		Retailer:   " BuildMart ",
		ValidUntil: time.Now().Add(7 * 24 * time.Hour),
		Items: []transport.CreateFlyerItemRequest{{
			Name:       "Vinyl Plank Flooring 12mm",
			UnitLabel:  "per sqft",
			Price:      2.99,
			PromoNotes: "Clearance sale",
		}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Retailer != "BuildMart" {
		t.Fatalf("expected trimmed retailer, got %q", created.Retailer)
	}
	if len(created.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(created.Items))
	}

	tokens := created.Items[0].Tokens
	want := map[string]bool{"vinyl": false, "plank": false, "flooring": false, "clearance": false}
	for _, token := range tokens {
		if _, ok := want[token]; ok {
			want[token] = true
		}
		if token == "sale" {
			t.Fatalf("expected stop word %q to be dropped", token)
		}
	}
	for token, found := range want {
		if !found {
			t.Fatalf("expected token %q in %v", token, tokens)
		}
	}
}

func TestCreateFlyer_RejectsPastValidity(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.CreateFlyer(context.Background(), uuid.New(), transport.CreateFlyerRequest{
		Retailer:   "BuildMart",
		ValidUntil: time.Now().Add(-time.Hour),
		Items: []transport.CreateFlyerItemRequest{{
			Name:  "Vinyl Plank",
			Price: 2.99,
		}},
	})
	if err == nil {
		t.Fatal("expected validation error for past validUntil")
	}
}

func TestMatchLineItem_RanksActiveItems(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()
	userID := uuid.New()

	active, err := svc.CreateFlyer(ctx, userID, transport.CreateFlyerRequest{
		Retailer:   "BuildMart",
		ValidUntil: time.Now().Add(7 * 24 * time.Hour),
		Items: []transport.CreateFlyerItemRequest{
			{Name: "Vinyl Plank Flooring", UnitLabel: "per sqft", Price: 2.99},
			{Name: "Ceramic Wall Tile", UnitLabel: "per sqft", Price: 4.49},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	response, err := svc.MatchLineItem(ctx, transport.MatchRequest{
		Task:     "Install vinyl plank flooring",
		Material: "vinyl plank",
		Quantity: 300,
		Unit:     "sqft",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(response.Matches) == 0 {
		t.Fatal("expected at least one match")
	}

	top := response.Matches[0]
	if top.Name != "Vinyl Plank Flooring" {
		t.Fatalf("expected vinyl plank to rank first, got %q", top.Name)
	}
	if top.Retailer != "BuildMart" {
		t.Fatalf("expected retailer BuildMart, got %q", top.Retailer)
	}
	if top.FlyerID != active.ID {
		t.Fatalf("expected flyer ID %s, got %s", active.ID, top.FlyerID)
	}
	for i := 1; i < len(response.Matches); i++ {
		if response.Matches[i].MatchScore > response.Matches[i-1].MatchScore {
			t.Fatal("expected matches in descending score order")
		}
	}
}

func TestMatchLineItem_ExcludesExpiredFlyers(t *testing.T) {
	svc, repo, _, _ := newTestService()
	ctx := context.Background()

	expired, err := repo.Create(ctx, repository.CreateFlyerParams{
		Retailer:   "OldMart",
		ValidUntil: time.Now().Add(-time.Hour),
		CreatedBy:  uuid.New(),
		Items: []repository.CreateItemParams{{
			Name:   "Vinyl Plank Flooring",
			Price:  1.99,
			Tokens: []string{"vinyl", "plank", "flooring"},
		}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	response, err := svc.MatchLineItem(ctx, transport.MatchRequest{
		Task:     "Install vinyl plank flooring",
		Material: "vinyl plank",
		Quantity: 300,
		Unit:     "sqft",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, match := range response.Matches {
		if match.FlyerID == expired.ID {
			t.Fatal("expected expired flyer to be excluded from matching")
		}
	}
}

func TestMatchLineItem_RespectsLimit(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	items := make([]transport.CreateFlyerItemRequest, 6)
	for i := range items {
		items[i] = transport.CreateFlyerItemRequest{
			Name:  "Vinyl Plank Flooring",
			Price: float64(i) + 1,
		}
	}
	if _, err := svc.CreateFlyer(ctx, uuid.New(), transport.CreateFlyerRequest{
		Retailer:   "BuildMart",
		ValidUntil: time.Now().Add(24 * time.Hour),
		Items:      items,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	response, err := svc.MatchLineItem(ctx, transport.MatchRequest{
		Task:     "Install vinyl plank flooring",
		Material: "vinyl plank",
		Quantity: 300,
		Unit:     "sqft",
		Limit:    2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(response.Matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(response.Matches))
	}
}

func TestExpireStale_RemovesFlyersAndScans(t *testing.T) {
	svc, repo, store, bus := newTestService()
	ctx := context.Background()

	objectKey := "scans/old-flyer/scan.jpg"
	stale := repository.CreateFlyerParams{
		Retailer:      "OldMart",
		ValidUntil:    time.Now().Add(-60 * 24 * time.Hour),
		ScanObjectKey: &objectKey,
		CreatedBy:     uuid.New(),
	}
	flyer, err := repo.Create(ctx, stale)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := repo.AttachScan(ctx, flyer.ID, objectKey, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fresh := repository.CreateFlyerParams{
		Retailer:   "BuildMart",
		ValidUntil: time.Now().Add(24 * time.Hour),
		CreatedBy:  uuid.New(),
	}
	if _, err := repo.Create(ctx, fresh); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	removed, err := svc.ExpireStale(ctx, 30*24*time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed flyer, got %d", removed)
	}
	if len(repo.flyers) != 1 {
		t.Fatalf("expected 1 remaining flyer, got %d", len(repo.flyers))
	}
	if len(store.deleted) != 1 || store.deleted[0] != objectKey {
		t.Fatalf("expected scan object %q deleted, got %v", objectKey, store.deleted)
	}

	if len(bus.published) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(bus.published))
	}
	event, ok := bus.published[0].(events.FlyersExpired)
	if !ok {
		t.Fatalf("expected FlyersExpired event, got %T", bus.published[0])
	}
	if event.RemovedCount != 1 {
		t.Fatalf("expected removed count 1, got %d", event.RemovedCount)
	}
}

func TestExpireStale_NothingToRemove(t *testing.T) {
	svc, _, _, bus := newTestService()

	removed, err := svc.ExpireStale(context.Background(), 30*24*time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed != 0 {
		t.Fatalf("expected 0 removed, got %d", removed)
	}
	if len(bus.published) != 0 {
		t.Fatalf("expected no events, got %d", len(bus.published))
	}
}

func TestImportScan_AttachesObjectAndPublishes(t *testing.T) {
	svc, repo, store, bus := newTestService()
	ctx := context.Background()
	userID := uuid.New()

	flyer, err := repo.Create(ctx, repository.CreateFlyerParams{
		Retailer:   "BuildMart",
		ValidUntil: time.Now().Add(24 * time.Hour),
		CreatedBy:  userID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	payload := []byte("not a real image, no exif")
	response, err := svc.ImportScan(ctx, userID, flyer.ID, "scan.png", "image/png", bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if response.ObjectKey == "" {
		t.Fatal("expected object key to be set")
	}
	if response.CapturedAt != nil {
		t.Fatal("expected nil capture date for png upload")
	}
	if len(store.uploaded) == 0 {
		t.Fatal("expected upload to storage")
	}

	stored, err := repo.GetByID(ctx, flyer.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.ScanObjectKey == nil || *stored.ScanObjectKey != response.ObjectKey {
		t.Fatal("expected scan object key attached to flyer")
	}

	var imported bool
	for _, event := range bus.published {
		if _, ok := event.(events.FlyerScanImported); ok {
			imported = true
		}
	}
	if !imported {
		t.Fatal("expected FlyerScanImported event")
	}
}

func TestImportScan_WithoutStorage(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, nil, "", &captureBus{}, logger.New("test"))

	_, err := svc.ImportScan(context.Background(), uuid.New(), uuid.New(), "scan.png", "image/png", bytes.NewReader(nil), 0)
	if err == nil {
		t.Fatal("expected error when storage is not configured")
	}
}
