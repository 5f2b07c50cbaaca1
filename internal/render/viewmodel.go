// internal/render/viewmodel.go
package render

import (
	"html/template"
	"strings"
	"unicode/utf8"

	"github.com/retailtools/item-inspector/internal/core/domain"
)

// Tag is an advisory badge on the item header.
type Tag struct {
	Label string
	Band  domain.Band
}

// HeaderView is the item identity block at the top of the page.
type HeaderView struct {
	Title        string
	Code         string
	ImageURL     string
	AvatarLetter string
	Meta         []string
	Tags         []Tag
}

// KPI is one tile on the dashboard.
type KPI struct {
	Label string
	Value string
	Band  domain.Band
	Hint  string
}

// PageView is the fully derived inspector page for one snapshot. It is a
// pure function of the snapshot and the price-list selection.
type PageView struct {
	Header       HeaderView
	KPIs         []KPI
	Price        PriceSectionView
	StockTable   template.HTML
	SalesTable   template.HTML
	BuyTable     template.HTML
	BarcodeTable template.HTML
	Light        bool
}

var (
	stockColumns = []Column{
		{Field: "warehouse", Label: "Warehouse", Kind: KindText},
		{Field: "actual_qty", Label: "Actual Qty", Kind: KindFloat},
		{Field: "reserved_qty", Label: "Reserved", Kind: KindFloat},
		{Field: "ordered_qty", Label: "Ordered", Kind: KindFloat},
		{Field: "projected_qty", Label: "Projected", Kind: KindFloat},
		{Field: "valuation_rate", Label: "Valuation Rate", Kind: KindCurrency},
		{Field: "stock_value", Label: "Stock Value", Kind: KindCurrency},
	}
	salesColumns = []Column{
		{Field: "invoice", Label: "Invoice", Kind: KindLink, LinkBase: "/invoices/sales/"},
		{Field: "posting_date", Label: "Date", Kind: KindText},
		{Field: "customer", Label: "Customer", Kind: KindText},
		{Field: "qty", Label: "Qty", Kind: KindFloat},
		{Field: "rate", Label: "Rate", Kind: KindCurrency},
		{Field: "amount", Label: "Amount", Kind: KindCurrency},
	}
	buyColumns = []Column{
		{Field: "invoice", Label: "Invoice", Kind: KindLink, LinkBase: "/invoices/purchase/"},
		{Field: "posting_date", Label: "Date", Kind: KindText},
		{Field: "supplier", Label: "Supplier", Kind: KindText},
		{Field: "qty", Label: "Qty", Kind: KindFloat},
		{Field: "rate", Label: "Rate", Kind: KindCurrency},
		{Field: "amount", Label: "Amount", Kind: KindCurrency},
	}
	barcodeColumns = []Column{
		{Field: "barcode", Label: "Barcode", Kind: KindText},
	}
)

// Page derives the full inspector view: header, all eight KPI tiles, the
// price section for the given selection, and the section tables.
func (f *Formatter) Page(snap *domain.Snapshot, priceList string) PageView {
	return PageView{
		Header:       f.header(snap),
		KPIs:         f.kpis(snap, false),
		Price:        f.PriceSection(snap, priceList),
		StockTable:   f.RenderTable(stockColumns, stockRows(snap.Bins)),
		SalesTable:   f.RenderTable(salesColumns, salesRows(snap.RecentSales)),
		BuyTable:     f.RenderTable(buyColumns, purchaseRows(snap.RecentPurchases)),
		BarcodeTable: f.RenderTable(barcodeColumns, barcodeRows(snap.Barcodes)),
	}
}

// LightPage derives the reduced variant: header plus the three headline
// tiles, no tables.
func (f *Formatter) LightPage(snap *domain.Snapshot) PageView {
	return PageView{
		Header: f.header(snap),
		KPIs:   f.kpis(snap, true),
		Light:  true,
	}
}

func (f *Formatter) header(snap *domain.Snapshot) HeaderView {
	h := HeaderView{
		Title:    snap.Item.ItemName,
		Code:     snap.Item.ItemCode,
		ImageURL: snap.Item.Image,
	}
	if h.Title == "" {
		h.Title = snap.Item.ItemCode
	}
	h.AvatarLetter = avatarLetter(h.Title)

	for _, m := range []string{snap.Item.ItemGroup, snap.Item.Brand, snap.Item.StockUOM} {
		if m != "" {
			h.Meta = append(h.Meta, m)
		}
	}

	if snap.Item.Disabled {
		h.Tags = append(h.Tags, Tag{Label: "Disabled", Band: domain.BandNegative})
	}
	if snap.LowStock() {
		h.Tags = append(h.Tags, Tag{Label: "Low stock", Band: domain.BandCaution})
	}
	if snap.Stale() {
		h.Tags = append(h.Tags, Tag{Label: "No recent sales", Band: domain.BandCaution})
	}
	return h
}

func (f *Formatter) kpis(snap *domain.Snapshot, light bool) []KPI {
	totals := snap.Totals()

	kpis := []KPI{
		{
			Label: "Total Stock",
			Value: f.Float(domain.NewFlex(totals.TotalQty)),
			Band:  domain.BandNeutral,
			Hint:  snap.Item.StockUOM,
		},
		{
			Label: "Stock Value",
			Value: f.Currency(domain.NewFlex(totals.TotalValue)),
			Band:  domain.BandNeutral,
		},
		{
			Label: "Current Price",
			Value: Placeholder,
			Band:  domain.BandNeutral,
		},
	}
	// Upstream emits price 0 when no price row exists; that is "no price",
	// not a free item.
	if snap.SellingPrice != nil && snap.SellingPrice.Price.IsPositive() {
		kpis[2].Value = f.CurrencyIn(snap.SellingPrice.Price, snap.SellingPrice.Currency)
		kpis[2].Hint = snap.SellingPrice.PriceList
	}
	if light {
		return kpis
	}

	margin := KPI{Label: "Margin", Value: Placeholder, Band: domain.BandNeutral}
	if snap.SellingPrice != nil {
		if pct, ok := domain.Margin(snap.SellingPrice.Price.Decimal(), totals.AvgValuation); ok {
			margin.Value = f.Percent(pct.InexactFloat64())
			margin.Band = domain.MarginBand(pct)
		}
	}

	movement := KPI{Label: "Days Without Sale", Value: Placeholder, Band: domain.BandNeutral}
	if snap.DaysSinceLastSale != nil {
		movement.Value = f.Float(domain.FlexFromFloat(float64(*snap.DaysSinceLastSale)))
		movement.Band = domain.MovementBand(*snap.DaysSinceLastSale)
	}

	lastSale := KPI{Label: "Last Sale", Value: Placeholder, Band: domain.BandNeutral}
	if len(snap.RecentSales) > 0 {
		lastSale.Value = snap.RecentSales[0].PostingDate
		lastSale.Hint = snap.RecentSales[0].Customer
	}

	lastBuy := KPI{Label: "Last Purchase", Value: Placeholder, Band: domain.BandNeutral}
	if len(snap.RecentPurchases) > 0 {
		lastBuy.Value = snap.RecentPurchases[0].PostingDate
		lastBuy.Hint = snap.RecentPurchases[0].Supplier
	}

	kpis = append(kpis,
		KPI{
			Label: "Sales (30d)",
			Value: f.Currency(snap.SalesLast30Days.Amount),
			Band:  domain.BandNeutral,
			Hint:  f.Float(snap.SalesLast30Days.Qty) + " units",
		},
		margin,
		movement,
		lastSale,
		lastBuy,
	)
	return kpis
}

func stockRows(bins []domain.Bin) []Row {
	rows := make([]Row, 0, len(bins))
	for _, b := range bins {
		rows = append(rows, Row{
			"warehouse":      b.Warehouse,
			"actual_qty":     b.ActualQty,
			"reserved_qty":   b.ReservedQty,
			"ordered_qty":    b.OrderedQty,
			"projected_qty":  b.ProjectedQty,
			"valuation_rate": b.ValuationRate,
			"stock_value":    b.StockValueEst,
		})
	}
	return rows
}

func salesRows(sales []domain.SaleRecord) []Row {
	rows := make([]Row, 0, len(sales))
	for _, s := range sales {
		rows = append(rows, Row{
			"invoice":      s.SalesInvoice,
			"posting_date": s.PostingDate,
			"customer":     s.Customer,
			"qty":          s.Qty,
			"rate":         s.Rate,
			"amount":       s.Amount,
		})
	}
	return rows
}

func purchaseRows(purchases []domain.PurchaseRecord) []Row {
	rows := make([]Row, 0, len(purchases))
	for _, p := range purchases {
		rows = append(rows, Row{
			"invoice":      p.PurchaseInvoice,
			"posting_date": p.PostingDate,
			"supplier":     p.Supplier,
			"qty":          p.Qty,
			"rate":         p.Rate,
			"amount":       p.Amount,
		})
	}
	return rows
}

func barcodeRows(barcodes []string) []Row {
	rows := make([]Row, 0, len(barcodes))
	for _, b := range barcodes {
		rows = append(rows, Row{"barcode": b})
	}
	return rows
}

func avatarLetter(title string) string {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "?"
	}
	r, _ := utf8.DecodeRuneInString(trimmed)
	return strings.ToUpper(string(r))
}
