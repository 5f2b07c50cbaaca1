// internal/core/domain/snapshot.go
package domain

import (
	"strings"
	"time"
)

// Item holds the master-data slice of a snapshot header.
type Item struct {
	ItemCode     string `json:"item_code"`
	ItemName     string `json:"item_name"`
	ItemGroup    string `json:"item_group,omitempty"`
	Brand        string `json:"brand,omitempty"`
	StockUOM     string `json:"stock_uom,omitempty"`
	Description  string `json:"description,omitempty"`
	Image        string `json:"image,omitempty"`
	Disabled     bool   `json:"disabled"`
	IsStockItem  bool   `json:"is_stock_item"`
	ReorderLevel Flex   `json:"reorder_level"`
}

// Bin is the per-warehouse stock record, enriched with the latest valuation
// rate from the stock ledger.
type Bin struct {
	Warehouse     string `json:"warehouse"`
	ActualQty     Flex   `json:"actual_qty"`
	ReservedQty   Flex   `json:"reserved_qty"`
	OrderedQty    Flex   `json:"ordered_qty"`
	ProjectedQty  Flex   `json:"projected_qty"`
	ValuationRate Flex   `json:"valuation_rate"`
	StockValueEst Flex   `json:"stock_value_est"`
}

// PriceRecord is one row of the append-only price log. Rows are not
// guaranteed to be date-sorted; consumers must preserve slice order.
type PriceRecord struct {
	Name          string `json:"name,omitempty"`
	PriceList     string `json:"price_list"`
	PriceListRate Flex   `json:"price_list_rate"`
	Currency      string `json:"currency,omitempty"`
	ValidFrom     string `json:"valid_from,omitempty"`
	Creation      string `json:"creation,omitempty"`
	Modified      string `json:"modified,omitempty"`
}

// SaleRecord is one recent sales-invoice line.
type SaleRecord struct {
	SalesInvoice string `json:"sales_invoice"`
	PostingDate  string `json:"posting_date"`
	Customer     string `json:"customer"`
	Qty          Flex   `json:"qty"`
	Rate         Flex   `json:"rate"`
	Amount       Flex   `json:"amount"`
	Currency     string `json:"currency,omitempty"`
}

// PurchaseRecord is one recent purchase-invoice line.
type PurchaseRecord struct {
	PurchaseInvoice string `json:"purchase_invoice"`
	PostingDate     string `json:"posting_date"`
	Supplier        string `json:"supplier"`
	Qty             Flex   `json:"qty"`
	Rate            Flex   `json:"rate"`
	Amount          Flex   `json:"amount"`
	Currency        string `json:"currency,omitempty"`
}

// SellingPrice is the current default selling price, independent of the
// inspector's price-list selection.
type SellingPrice struct {
	Price     Flex   `json:"price"`
	PriceList string `json:"price_list,omitempty"`
	Currency  string `json:"currency,omitempty"`
}

// SalesSummary aggregates the trailing 30 days of sales.
type SalesSummary struct {
	Qty    Flex `json:"qty"`
	Amount Flex `json:"amount"`
	Count  int  `json:"count"`
}

// Snapshot is the full set of item facts returned by one lookup. It is
// treated as an atomic, immutable unit: a new search replaces it wholesale.
type Snapshot struct {
	Item              Item             `json:"item"`
	Barcodes          []string         `json:"barcodes"`
	Bins              []Bin            `json:"bins"`
	PriceHistory      []PriceRecord    `json:"price_history"`
	RecentSales       []SaleRecord     `json:"recent_sales"`
	RecentPurchases   []PurchaseRecord `json:"recent_purchases"`
	SellingPrice      *SellingPrice    `json:"selling_price,omitempty"`
	SalesLast30Days   SalesSummary     `json:"sales_last_30_days"`
	DaysSinceLastSale *int             `json:"days_since_last_sale,omitempty"`
	FetchedAt         time.Time        `json:"fetched_at,omitempty"`
}

// BarcodeMatch is one candidate from barcode resolution.
type BarcodeMatch struct {
	ItemCode string `json:"item_code"`
	ItemName string `json:"item_name,omitempty"`
	Image    string `json:"image,omitempty"`
	Disabled bool   `json:"disabled,omitempty"`
}

// Resolution is the outcome of resolving a barcode: exactly one of ItemCode
// or Matches is populated when OK, Message otherwise.
type Resolution struct {
	OK       bool           `json:"ok"`
	ItemCode string         `json:"item_code,omitempty"`
	Matches  []BarcodeMatch `json:"matches,omitempty"`
	Message  string         `json:"message,omitempty"`
}

// PriceLists returns the distinct price-list names in the history, in order
// of first occurrence.
func (s *Snapshot) PriceLists() []string {
	seen := make(map[string]struct{}, len(s.PriceHistory))
	var lists []string
	for _, row := range s.PriceHistory {
		if row.PriceList == "" {
			continue
		}
		if _, ok := seen[row.PriceList]; ok {
			continue
		}
		seen[row.PriceList] = struct{}{}
		lists = append(lists, row.PriceList)
	}
	return lists
}

// PriceRows returns the subsequence of the price history belonging to the
// given list, preserving snapshot order.
func (s *Snapshot) PriceRows(priceList string) []PriceRecord {
	var rows []PriceRecord
	for _, row := range s.PriceHistory {
		if row.PriceList == priceList {
			rows = append(rows, row)
		}
	}
	return rows
}

// DateLabel returns the row's chart label: the first non-empty of valid_from,
// creation, modified, truncated to the date prefix.
func (r PriceRecord) DateLabel() string {
	for _, candidate := range []string{r.ValidFrom, r.Creation, r.Modified} {
		if s := strings.TrimSpace(candidate); s != "" {
			if len(s) > 10 {
				return s[:10]
			}
			return s
		}
	}
	return ""
}
