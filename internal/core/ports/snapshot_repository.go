// internal/core/ports/snapshot_repository.go
package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/retailtools/item-inspector/internal/core/domain"
)

// SnapshotRepository defines the persistence port backing snapshot
// composition. This interface is implemented by the database adapter.
type SnapshotRepository interface {
	ItemExists(ctx context.Context, itemCode string) (bool, error)

	// GetItem loads the item master record. An unknown item code returns
	// (nil, nil); callers must treat a nil item as not found.
	GetItem(ctx context.Context, itemCode string) (*domain.Item, error)
	GetBarcodes(ctx context.Context, itemCode string) ([]string, error)
	GetBins(ctx context.Context, itemCode string) ([]domain.Bin, error)
	GetValuationRates(ctx context.Context, itemCode string) (map[string]decimal.Decimal, error)
	GetPriceHistory(ctx context.Context, itemCode string) ([]domain.PriceRecord, error)
	GetRecentSales(ctx context.Context, itemCode string, limit int) ([]domain.SaleRecord, error)
	GetRecentPurchases(ctx context.Context, itemCode string, limit int) ([]domain.PurchaseRecord, error)
	GetSalesSince(ctx context.Context, itemCode string, since time.Time) (domain.SalesSummary, error)
	GetDefaultSellingPrice(ctx context.Context, itemCode string) (*domain.SellingPrice, error)
	GetLastSaleDate(ctx context.Context, itemCode string) (*time.Time, error)

	// Barcode resolution sources, searched in order.
	FindByBarcode(ctx context.Context, barcode string) ([]string, error)
	GetBarcodeMatches(ctx context.Context, itemCodes []string) ([]domain.BarcodeMatch, error)

	// GetTopSellingItems lists item codes by sold quantity since the
	// given date, best sellers first. Used by the cache warmup worker.
	GetTopSellingItems(ctx context.Context, since time.Time, limit int) ([]string, error)
}
