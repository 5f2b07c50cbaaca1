//go:build e2e
// +build e2e

package e2e_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	redis_a "github.com/retailtools/item-inspector/internal/adapters/redis_adapter"
	"github.com/retailtools/item-inspector/internal/core/domain"
	"github.com/retailtools/item-inspector/internal/core/services"
	"github.com/retailtools/item-inspector/internal/handlers"
	"github.com/retailtools/item-inspector/internal/render"
	"github.com/retailtools/item-inspector/test/helpers"
)

// fakeSnapshotService serves canned snapshots and counts composition calls
// so tests can observe whether the cache absorbed a request.
type fakeSnapshotService struct {
	mu        sync.Mutex
	snapshots map[string]*domain.Snapshot
	calls     int
}

func (f *fakeSnapshotService) GetSnapshot(ctx context.Context, itemCode string) (*domain.Snapshot, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	snap, ok := f.snapshots[itemCode]
	if !ok {
		return nil, fmt.Errorf("%w: %s", services.ErrItemNotFound, itemCode)
	}
	return snap, nil
}

func (f *fakeSnapshotService) ResolveBarcode(ctx context.Context, barcode string) (*domain.Resolution, error) {
	if barcode == "" {
		return &domain.Resolution{Message: "barcode is required"}, nil
	}
	for code, snap := range f.snapshots {
		for _, bc := range snap.Barcodes {
			if bc == barcode {
				return &domain.Resolution{OK: true, ItemCode: code}, nil
			}
		}
	}
	return &domain.Resolution{Message: "No item found for barcode"}, nil
}

func (f *fakeSnapshotService) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type InspectorE2ESuite struct {
	suite.Suite
	server  *httptest.Server
	client  *http.Client
	service *fakeSnapshotService
	redis   *helpers.TestRedis
}

func (s *InspectorE2ESuite) SetupTest() {
	logger := helpers.TestLogger()

	s.service = &fakeSnapshotService{
		snapshots: map[string]*domain.Snapshot{
			"WIDGET-01": helpers.CreateTestSnapshot(),
		},
	}

	s.redis = helpers.SetupTestRedis(s.T())
	cache := redis_a.NewCache(s.redis.Client, time.Minute, logger)

	engine, err := render.NewEngine()
	s.Require().NoError(err)
	formatter := render.NewFormatter("en", "USD")

	inspectorHandler := handlers.NewInspectorHandler(s.service, cache, logger)
	pageHandler := handlers.NewPageHandler(s.service, engine, formatter, logger)
	exportHandler := handlers.NewExportHandler(s.service, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/items/{item_code}/snapshot", inspectorHandler.GetSnapshot)
	mux.HandleFunc("GET /api/v1/barcode/resolve", inspectorHandler.ResolveBarcode)
	mux.HandleFunc("GET /api/v1/items/{item_code}/export/excel", exportHandler.ExportExcel)
	mux.HandleFunc("GET /inspector/{item_code}", pageHandler.Inspector)
	mux.HandleFunc("GET /inspector/{item_code}/light", pageHandler.InspectorLight)
	mux.HandleFunc("GET /inspector/{item_code}/price-section", pageHandler.PriceSection)

	s.server = httptest.NewServer(mux)
	s.T().Cleanup(s.server.Close)
	s.client = &http.Client{Timeout: 10 * time.Second}
}

func (s *InspectorE2ESuite) TestLookupWorkflow() {
	// 1. Resolve a scanned barcode to an item code
	var resolution domain.Resolution
	resp := s.get("/api/v1/barcode/resolve?barcode=5901234123457")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.decode(resp, &resolution)
	s.True(resolution.OK)
	s.Equal("WIDGET-01", resolution.ItemCode)

	// 2. Fetch the snapshot for the resolved item
	var envelope struct {
		OK   bool             `json:"ok"`
		Data *domain.Snapshot `json:"data"`
	}
	resp = s.get("/api/v1/items/WIDGET-01/snapshot")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.decode(resp, &envelope)
	s.True(envelope.OK)
	s.Equal("Standard Widget", envelope.Data.Item.ItemName)
	s.Len(envelope.Data.Bins, 2)

	// 3. Render the full inspector page
	resp = s.get("/inspector/WIDGET-01")
	s.Equal(http.StatusOK, resp.StatusCode)
	body := s.readBody(resp)
	s.Contains(resp.Header.Get("Content-Type"), "text/html")
	s.Contains(body, "Standard Widget")
	s.Contains(body, "Main - WH")

	// 4. Switch the price list via the price-section fragment
	resp = s.get("/inspector/WIDGET-01/price-section?price_list=Wholesale")
	s.Equal(http.StatusOK, resp.StatusCode)
	body = s.readBody(resp)
	s.Contains(body, "Wholesale")

	// 5. Export the item to Excel
	resp = s.get("/api/v1/items/WIDGET-01/export/excel")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		resp.Header.Get("Content-Type"))
	s.Contains(resp.Header.Get("Content-Disposition"), "WIDGET-01")
	resp.Body.Close()
}

func (s *InspectorE2ESuite) TestUnknownItemReturns404() {
	resp := s.get("/api/v1/items/NOPE-99/snapshot")
	s.Equal(http.StatusNotFound, resp.StatusCode)

	var envelope struct {
		OK      bool   `json:"ok"`
		Message string `json:"message"`
	}
	s.decode(resp, &envelope)
	s.False(envelope.OK)
	s.Contains(envelope.Message, "NOPE-99")
}

func (s *InspectorE2ESuite) TestSnapshotServedFromCacheOnRepeat() {
	resp := s.get("/api/v1/items/WIDGET-01/snapshot")
	s.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	s.Equal(1, s.service.callCount())

	resp = s.get("/api/v1/items/WIDGET-01/snapshot")
	s.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	s.Equal(1, s.service.callCount(), "repeat lookup should hit the cache")

	// Expire the cached entry and confirm composition runs again
	s.redis.Server.FastForward(2 * time.Minute)
	resp = s.get("/api/v1/items/WIDGET-01/snapshot")
	s.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	s.Equal(2, s.service.callCount())
}

func (s *InspectorE2ESuite) TestUnresolvedBarcodeIsLogicalFailure() {
	var resolution domain.Resolution
	resp := s.get("/api/v1/barcode/resolve?barcode=0000000000000")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.decode(resp, &resolution)
	s.False(resolution.OK)
	s.NotEmpty(resolution.Message)
}

func (s *InspectorE2ESuite) TestConcurrentSnapshotRequests() {
	var wg sync.WaitGroup
	errs := make(chan error, 10)

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := s.client.Get(s.server.URL + "/api/v1/items/WIDGET-01/snapshot")
			if err != nil {
				errs <- err
				return
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				errs <- fmt.Errorf("unexpected status %d", resp.StatusCode)
			}
		}()
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		s.NoError(err)
	}
}

// Helper methods

func (s *InspectorE2ESuite) get(path string) *http.Response {
	resp, err := s.client.Get(s.server.URL + path)
	s.Require().NoError(err)
	return resp
}

func (s *InspectorE2ESuite) decode(resp *http.Response, v interface{}) {
	defer resp.Body.Close()
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(v))
}

func (s *InspectorE2ESuite) readBody(resp *http.Response) string {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return string(body)
}

func TestInspectorE2ESuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E tests in short mode")
	}
	suite.Run(t, new(InspectorE2ESuite))
}
