// test/benchmarks/helpers.go
package benchmarks

import (
	"fmt"
	"time"

	"github.com/retailtools/item-inspector/internal/core/domain"
)

// largeSnapshot builds a snapshot with enough history to make the render
// path representative: priceRows revisions across two price lists plus a
// full set of warehouses and recent documents.
func largeSnapshot(priceRows int) *domain.Snapshot {
	snap := &domain.Snapshot{
		Item: domain.Item{
			ItemCode:     "BENCH-0001",
			ItemName:     "Benchmark Widget",
			ItemGroup:    "Widgets",
			Brand:        "Acme",
			StockUOM:     "Nos",
			IsStockItem:  true,
			ReorderLevel: domain.FlexFromFloat(10),
		},
		Barcodes: []string{"5901234123457", "5901234123464"},
		SellingPrice: &domain.SellingPrice{
			Price:     domain.FlexFromFloat(20),
			PriceList: "Standard Selling",
			Currency:  "USD",
		},
		SalesLast30Days: domain.SalesSummary{
			Qty:    domain.FlexFromFloat(42),
			Amount: domain.FlexFromFloat(840),
			Count:  14,
		},
		FetchedAt: time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC),
	}

	for i, wh := range []string{"Main - WH", "Outlet - WH", "Transit - WH"} {
		snap.Bins = append(snap.Bins, domain.Bin{
			Warehouse:     wh,
			ActualQty:     domain.FlexFromFloat(float64(10 + i)),
			ValuationRate: domain.FlexFromFloat(10),
			StockValueEst: domain.FlexFromFloat(float64((10 + i) * 10)),
		})
	}

	lists := []string{"Standard Selling", "Wholesale"}
	for i := 0; i < priceRows; i++ {
		snap.PriceHistory = append(snap.PriceHistory, domain.PriceRecord{
			PriceList:     lists[i%len(lists)],
			PriceListRate: domain.FlexFromFloat(15 + float64(i)*0.25),
			Currency:      "USD",
			ValidFrom:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i).Format("2006-01-02"),
		})
	}

	for i := 0; i < 10; i++ {
		snap.RecentSales = append(snap.RecentSales, domain.SaleRecord{
			SalesInvoice: fmt.Sprintf("SINV-%04d", i),
			PostingDate:  "2024-08-20",
			Customer:     "Corner Shop",
			Qty:          domain.FlexFromFloat(3),
			Rate:         domain.FlexFromFloat(20),
			Amount:       domain.FlexFromFloat(60),
		})
		snap.RecentPurchases = append(snap.RecentPurchases, domain.PurchaseRecord{
			PurchaseInvoice: fmt.Sprintf("PINV-%04d", i),
			PostingDate:     "2024-07-01",
			Supplier:        "Widget Mill",
			Qty:             domain.FlexFromFloat(50),
			Rate:            domain.FlexFromFloat(10),
			Amount:          domain.FlexFromFloat(500),
		})
	}

	return snap
}
