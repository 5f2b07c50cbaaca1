// internal/core/services/snapshot.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/retailtools/item-inspector/internal/core/domain"
	"github.com/retailtools/item-inspector/internal/core/ports"
)

// ErrItemNotFound is returned when a snapshot is requested for an unknown
// item code.
var ErrItemNotFound = errors.New("item not found")

// Number of recent transactions included per section.
const recentTransactionLimit = 10

// salesWindow is the trailing period covered by the sales summary KPI.
const salesWindow = 30 * 24 * time.Hour

// SnapshotService composes item snapshots from the repository.
type SnapshotService struct {
	repo   ports.SnapshotRepository
	images ports.ImageResolver
	logger *slog.Logger
	now    func() time.Time
}

// Statically assert that *SnapshotService implements the service port.
var _ ports.SnapshotService = (*SnapshotService)(nil)

// Option configures the snapshot service.
type Option func(*SnapshotService)

// WithImageResolver makes the service rewrite stored image references into
// servable URLs.
func WithImageResolver(r ports.ImageResolver) Option {
	return func(s *SnapshotService) {
		s.images = r
	}
}

// NewSnapshotService creates a new snapshot service.
func NewSnapshotService(repo ports.SnapshotRepository, logger *slog.Logger, opts ...Option) *SnapshotService {
	s := &SnapshotService{
		repo:   repo,
		logger: logger.With(slog.String("service", "snapshot")),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetSnapshot composes the full snapshot for an item in one pass. The
// snapshot is an atomic unit: either every section loads or the call fails.
func (s *SnapshotService) GetSnapshot(ctx context.Context, itemCode string) (*domain.Snapshot, error) {
	exists, err := s.repo.ItemExists(ctx, itemCode)
	if err != nil {
		return nil, fmt.Errorf("failed to check item existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrItemNotFound, itemCode)
	}

	item, err := s.repo.GetItem(ctx, itemCode)
	if err != nil {
		return nil, fmt.Errorf("failed to load item master: %w", err)
	}
	if item == nil {
		// The item vanished between the existence check and the load;
		// the seeder reloads the replica with TRUNCATE, so this happens.
		return nil, fmt.Errorf("%w: %s", ErrItemNotFound, itemCode)
	}
	item.Image = s.resolveImage(ctx, item.Image)

	barcodes, err := s.repo.GetBarcodes(ctx, itemCode)
	if err != nil {
		return nil, fmt.Errorf("failed to load barcodes: %w", err)
	}

	bins, err := s.loadBins(ctx, itemCode)
	if err != nil {
		return nil, err
	}

	priceHistory, err := s.repo.GetPriceHistory(ctx, itemCode)
	if err != nil {
		return nil, fmt.Errorf("failed to load price history: %w", err)
	}

	recentSales, err := s.repo.GetRecentSales(ctx, itemCode, recentTransactionLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent sales: %w", err)
	}

	recentPurchases, err := s.repo.GetRecentPurchases(ctx, itemCode, recentTransactionLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent purchases: %w", err)
	}

	now := s.now()
	salesSummary, err := s.repo.GetSalesSince(ctx, itemCode, now.Add(-salesWindow))
	if err != nil {
		return nil, fmt.Errorf("failed to load sales summary: %w", err)
	}

	sellingPrice, err := s.repo.GetDefaultSellingPrice(ctx, itemCode)
	if err != nil {
		return nil, fmt.Errorf("failed to load selling price: %w", err)
	}

	daysSinceLastSale, err := s.daysSinceLastSale(ctx, itemCode, now)
	if err != nil {
		return nil, err
	}

	snap := &domain.Snapshot{
		Item:              *item,
		Barcodes:          barcodes,
		Bins:              bins,
		PriceHistory:      priceHistory,
		RecentSales:       recentSales,
		RecentPurchases:   recentPurchases,
		SellingPrice:      sellingPrice,
		SalesLast30Days:   salesSummary,
		DaysSinceLastSale: daysSinceLastSale,
		FetchedAt:         now,
	}

	s.logger.DebugContext(ctx, "snapshot composed",
		slog.String("item_code", itemCode),
		slog.Int("bins", len(bins)),
		slog.Int("price_rows", len(priceHistory)))

	return snap, nil
}

// loadBins enriches raw bin rows with the latest valuation rate per
// warehouse and the estimated stock value derived from it.
func (s *SnapshotService) loadBins(ctx context.Context, itemCode string) ([]domain.Bin, error) {
	bins, err := s.repo.GetBins(ctx, itemCode)
	if err != nil {
		return nil, fmt.Errorf("failed to load bins: %w", err)
	}
	if len(bins) == 0 {
		return bins, nil
	}

	rates, err := s.repo.GetValuationRates(ctx, itemCode)
	if err != nil {
		return nil, fmt.Errorf("failed to load valuation rates: %w", err)
	}

	for i := range bins {
		rate, ok := rates[bins[i].Warehouse]
		if !ok {
			continue
		}
		bins[i].ValuationRate = domain.NewFlex(rate)
		bins[i].StockValueEst = domain.NewFlex(bins[i].ActualQty.Decimal().Mul(rate))
	}
	return bins, nil
}

// resolveImage rewrites an image reference through the configured resolver.
// Resolution failures fall back to the raw reference; a broken image link
// must not fail the whole snapshot.
func (s *SnapshotService) resolveImage(ctx context.Context, ref string) string {
	if s.images == nil || ref == "" {
		return ref
	}
	url, err := s.images.ResolveImageURL(ctx, ref)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to resolve image URL",
			slog.String("ref", ref),
			slog.String("error", err.Error()))
		return ref
	}
	return url
}

func (s *SnapshotService) daysSinceLastSale(ctx context.Context, itemCode string, now time.Time) (*int, error) {
	lastSale, err := s.repo.GetLastSaleDate(ctx, itemCode)
	if err != nil {
		return nil, fmt.Errorf("failed to load last sale date: %w", err)
	}
	if lastSale == nil {
		return nil, nil
	}
	days := int(now.Sub(*lastSale).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return &days, nil
}
