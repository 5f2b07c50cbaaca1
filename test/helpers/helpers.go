// test/helpers/helpers.go
package helpers

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/retailtools/item-inspector/internal/core/domain"
)

// TestLogger returns a test logger
func TestLogger() *slog.Logger {
	if testing.Verbose() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// TestRedis represents a test Redis instance
type TestRedis struct {
	Client *redis.Client
	Server *miniredis.Miniredis
}

// SetupTestRedis creates an in-memory Redis for cache tests
func SetupTestRedis(t *testing.T) *TestRedis {
	t.Helper()

	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	return &TestRedis{Client: client, Server: server}
}

// IntPtr returns a pointer to n, for optional snapshot fields.
func IntPtr(n int) *int {
	return &n
}

// CreateTestSnapshot builds a representative snapshot fixture: two
// warehouses, two price lists, recent activity on both sides.
func CreateTestSnapshot() *domain.Snapshot {
	return &domain.Snapshot{
		Item: domain.Item{
			ItemCode:     "WIDGET-01",
			ItemName:     "Standard Widget",
			ItemGroup:    "Widgets",
			Brand:        "Acme",
			StockUOM:     "Nos",
			IsStockItem:  true,
			ReorderLevel: domain.FlexFromFloat(10),
		},
		Barcodes: []string{"5901234123457"},
		Bins: []domain.Bin{
			{
				Warehouse:     "Main - WH",
				ActualQty:     domain.FlexFromFloat(15),
				ReservedQty:   domain.FlexFromFloat(2),
				ProjectedQty:  domain.FlexFromFloat(13),
				ValuationRate: domain.FlexFromFloat(10),
				StockValueEst: domain.FlexFromFloat(150),
			},
			{
				Warehouse:     "Outlet - WH",
				ActualQty:     domain.FlexFromFloat(5),
				ValuationRate: domain.FlexFromFloat(10),
				StockValueEst: domain.FlexFromFloat(50),
			},
		},
		PriceHistory: []domain.PriceRecord{
			{PriceList: "Standard Selling", PriceListRate: domain.FlexFromFloat(18), ValidFrom: "2024-01-01", Currency: "USD"},
			{PriceList: "Wholesale", PriceListRate: domain.FlexFromFloat(14), ValidFrom: "2024-01-01", Currency: "USD"},
			{PriceList: "Standard Selling", PriceListRate: domain.FlexFromFloat(20), ValidFrom: "2024-06-01", Currency: "USD"},
		},
		RecentSales: []domain.SaleRecord{
			{SalesInvoice: "SINV-0042", PostingDate: "2024-08-20", Customer: "Corner Shop", Qty: domain.FlexFromFloat(3), Rate: domain.FlexFromFloat(20), Amount: domain.FlexFromFloat(60)},
		},
		RecentPurchases: []domain.PurchaseRecord{
			{PurchaseInvoice: "PINV-0007", PostingDate: "2024-07-01", Supplier: "Widget Mill", Qty: domain.FlexFromFloat(50), Rate: domain.FlexFromFloat(10), Amount: domain.FlexFromFloat(500)},
		},
		SellingPrice: &domain.SellingPrice{
			Price:     domain.FlexFromFloat(20),
			PriceList: "Standard Selling",
			Currency:  "USD",
		},
		SalesLast30Days: domain.SalesSummary{
			Qty:    domain.FlexFromFloat(12),
			Amount: domain.FlexFromFloat(240),
			Count:  4,
		},
		DaysSinceLastSale: IntPtr(12),
		FetchedAt:         time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC),
	}
}
