// internal/handlers/export.go
package handlers

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tealeg/xlsx/v3"

	"github.com/retailtools/item-inspector/internal/core/domain"
	"github.com/retailtools/item-inspector/internal/core/ports"
)

// ExportHandler produces downloadable copies of an item snapshot.
type ExportHandler struct {
	service ports.SnapshotService
	logger  *slog.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(service ports.SnapshotService, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "export")),
	}
}

// ExportExcel handles GET /api/v1/items/{item_code}/export/excel
func (h *ExportHandler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	itemCode := strings.TrimSpace(r.PathValue("item_code"))
	if itemCode == "" {
		http.Error(w, "item code is required", http.StatusBadRequest)
		return
	}

	snap, err := h.service.GetSnapshot(ctx, itemCode)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load snapshot for export",
			slog.String("item_code", itemCode),
			slog.String("error", err.Error()))
		http.Error(w, "Failed to load item", http.StatusInternalServerError)
		return
	}

	excelData, err := h.generateExcelFile(snap)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate Excel file", slog.String("error", err.Error()))
		http.Error(w, "Failed to generate Excel file", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("item_%s_%s.xlsx", sanitizeFilename(itemCode), time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(excelData)))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

	if _, err := w.Write(excelData); err != nil {
		h.logger.ErrorContext(ctx, "failed to write Excel response", slog.String("error", err.Error()))
		return
	}

	h.logger.InfoContext(ctx, "Excel export completed",
		slog.String("item_code", itemCode),
		slog.String("filename", filename))
}

// generateExcelFile renders the snapshot as a workbook, one sheet per
// section.
func (h *ExportHandler) generateExcelFile(snap *domain.Snapshot) ([]byte, error) {
	file := xlsx.NewFile()

	if err := h.addSummarySheet(file, snap); err != nil {
		return nil, err
	}
	if err := h.addStockSheet(file, snap); err != nil {
		return nil, err
	}
	if err := h.addPriceSheet(file, snap); err != nil {
		return nil, err
	}
	if err := h.addTransactionSheets(file, snap); err != nil {
		return nil, err
	}

	var buffer bytes.Buffer
	if err := file.Write(&buffer); err != nil {
		return nil, fmt.Errorf("failed to write Excel file to buffer: %w", err)
	}
	return buffer.Bytes(), nil
}

func (h *ExportHandler) addSummarySheet(file *xlsx.File, snap *domain.Snapshot) error {
	sheet, err := file.AddSheet("Summary")
	if err != nil {
		return fmt.Errorf("failed to add worksheet: %w", err)
	}

	totals := snap.Totals()
	rows := [][]string{
		{"Item Code", snap.Item.ItemCode},
		{"Item Name", snap.Item.ItemName},
		{"Item Group", snap.Item.ItemGroup},
		{"Brand", snap.Item.Brand},
		{"Stock UOM", snap.Item.StockUOM},
		{"Total Stock", totals.TotalQty.String()},
		{"Stock Value", totals.TotalValue.String()},
		{"Avg Valuation", totals.AvgValuation.StringFixed(2)},
		{"Sales Qty (30d)", snap.SalesLast30Days.Qty.Decimal().String()},
		{"Sales Amount (30d)", snap.SalesLast30Days.Amount.Decimal().String()},
		{"Invoices (30d)", strconv.Itoa(snap.SalesLast30Days.Count)},
	}
	if snap.SellingPrice != nil {
		rows = append(rows, []string{"Selling Price", snap.SellingPrice.Price.Decimal().String()})
	}
	if snap.DaysSinceLastSale != nil {
		rows = append(rows, []string{"Days Since Last Sale", strconv.Itoa(*snap.DaysSinceLastSale)})
	}
	rows = append(rows, []string{"Barcodes", strings.Join(snap.Barcodes, ", ")})

	for _, pair := range rows {
		row := sheet.AddRow()
		label := row.AddCell()
		label.Value = pair[0]
		label.GetStyle().Font.Bold = true
		row.AddCell().Value = pair[1]
	}
	// tealeg column ranges are 1-based.
	sheet.SetColWidth(1, 2, 24)
	return nil
}

func (h *ExportHandler) addStockSheet(file *xlsx.File, snap *domain.Snapshot) error {
	sheet, err := file.AddSheet("Stock")
	if err != nil {
		return fmt.Errorf("failed to add worksheet: %w", err)
	}

	addHeaderRow(sheet, "Warehouse", "Actual Qty", "Reserved", "Ordered", "Projected", "Valuation Rate", "Stock Value")
	for _, b := range snap.Bins {
		row := sheet.AddRow()
		row.AddCell().Value = b.Warehouse
		row.AddCell().Value = b.ActualQty.Decimal().String()
		row.AddCell().Value = b.ReservedQty.Decimal().String()
		row.AddCell().Value = b.OrderedQty.Decimal().String()
		row.AddCell().Value = b.ProjectedQty.Decimal().String()
		row.AddCell().Value = b.ValuationRate.Decimal().String()
		row.AddCell().Value = b.StockValueEst.Decimal().String()
	}
	sheet.SetColWidth(1, 7, 15)
	return nil
}

func (h *ExportHandler) addPriceSheet(file *xlsx.File, snap *domain.Snapshot) error {
	sheet, err := file.AddSheet("Price History")
	if err != nil {
		return fmt.Errorf("failed to add worksheet: %w", err)
	}

	addHeaderRow(sheet, "Price List", "Rate", "Currency", "Valid From", "Created")
	for _, p := range snap.PriceHistory {
		row := sheet.AddRow()
		row.AddCell().Value = p.PriceList
		row.AddCell().Value = p.PriceListRate.Decimal().String()
		row.AddCell().Value = p.Currency
		row.AddCell().Value = p.ValidFrom
		row.AddCell().Value = p.Creation
	}
	sheet.SetColWidth(1, 5, 18)
	return nil
}

func (h *ExportHandler) addTransactionSheets(file *xlsx.File, snap *domain.Snapshot) error {
	sales, err := file.AddSheet("Recent Sales")
	if err != nil {
		return fmt.Errorf("failed to add worksheet: %w", err)
	}
	addHeaderRow(sales, "Invoice", "Date", "Customer", "Qty", "Rate", "Amount")
	for _, s := range snap.RecentSales {
		row := sales.AddRow()
		row.AddCell().Value = s.SalesInvoice
		row.AddCell().Value = s.PostingDate
		row.AddCell().Value = s.Customer
		row.AddCell().Value = s.Qty.Decimal().String()
		row.AddCell().Value = s.Rate.Decimal().String()
		row.AddCell().Value = s.Amount.Decimal().String()
	}
	sales.SetColWidth(1, 6, 16)

	purchases, err := file.AddSheet("Recent Purchases")
	if err != nil {
		return fmt.Errorf("failed to add worksheet: %w", err)
	}
	addHeaderRow(purchases, "Invoice", "Date", "Supplier", "Qty", "Rate", "Amount")
	for _, p := range snap.RecentPurchases {
		row := purchases.AddRow()
		row.AddCell().Value = p.PurchaseInvoice
		row.AddCell().Value = p.PostingDate
		row.AddCell().Value = p.Supplier
		row.AddCell().Value = p.Qty.Decimal().String()
		row.AddCell().Value = p.Rate.Decimal().String()
		row.AddCell().Value = p.Amount.Decimal().String()
	}
	purchases.SetColWidth(1, 6, 16)
	return nil
}

func addHeaderRow(sheet *xlsx.Sheet, headers ...string) {
	row := sheet.AddRow()
	for _, header := range headers {
		cell := row.AddCell()
		cell.Value = header
		cell.GetStyle().Font.Bold = true
		cell.GetStyle().Fill.PatternType = "solid"
		cell.GetStyle().Fill.FgColor = "CCCCCC"
	}
}

func sanitizeFilename(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, s)
}
