// internal/adapters/db/snapshot_repository.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/retailtools/item-inspector/internal/core/domain"
	"github.com/retailtools/item-inspector/internal/core/ports"
)

// snapshotRepository implements ports.SnapshotRepository
type snapshotRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *Database, logger *slog.Logger) ports.SnapshotRepository {
	return &snapshotRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "snapshot")),
	}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// ItemExists checks whether an item code is known.
func (r *snapshotRepository) ItemExists(ctx context.Context, itemCode string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM items WHERE item_code = $1)`
	if err := r.db.QueryRow(ctx, query, itemCode).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check item existence: %w", err)
	}
	return exists, nil
}

// GetItem loads the item master record.
func (r *snapshotRepository) GetItem(ctx context.Context, itemCode string) (*domain.Item, error) {
	query := `
		SELECT item_code, item_name, item_group, brand, stock_uom,
		       description, image, disabled, is_stock_item, reorder_level
		FROM items
		WHERE item_code = $1`

	item := &domain.Item{}
	var itemGroup, brand, stockUOM, description, image sql.NullString
	var reorderLevel pgtype.Numeric

	err := r.db.QueryRow(ctx, query, itemCode).Scan(
		&item.ItemCode, &item.ItemName, &itemGroup, &brand, &stockUOM,
		&description, &image, &item.Disabled, &item.IsStockItem, &reorderLevel,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load item: %w", err)
	}

	item.ItemGroup = itemGroup.String
	item.Brand = brand.String
	item.StockUOM = stockUOM.String
	item.Description = description.String
	item.Image = image.String
	item.ReorderLevel = flexFromNumeric(reorderLevel)

	return item, nil
}

// GetBarcodes returns all barcodes registered for the item, in row order.
func (r *snapshotRepository) GetBarcodes(ctx context.Context, itemCode string) ([]string, error) {
	query := `SELECT barcode FROM item_barcodes WHERE item_code = $1 ORDER BY idx ASC`

	rows, err := r.db.Query(ctx, query, itemCode)
	if err != nil {
		return nil, fmt.Errorf("failed to query barcodes: %w", err)
	}
	defer rows.Close()

	var barcodes []string
	for rows.Next() {
		var barcode string
		if err := rows.Scan(&barcode); err != nil {
			return nil, fmt.Errorf("failed to scan barcode: %w", err)
		}
		if barcode != "" {
			barcodes = append(barcodes, barcode)
		}
	}
	return barcodes, rows.Err()
}

// GetBins returns per-warehouse stock rows, largest holdings first.
// Valuation enrichment happens in the service layer.
func (r *snapshotRepository) GetBins(ctx context.Context, itemCode string) ([]domain.Bin, error) {
	query, args, err := psql.
		Select("warehouse", "actual_qty", "reserved_qty", "ordered_qty", "projected_qty").
		From("bins").
		Where(squirrel.Eq{"item_code": itemCode}).
		OrderBy("actual_qty DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build bins query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bins: %w", err)
	}
	defer rows.Close()

	var bins []domain.Bin
	for rows.Next() {
		var bin domain.Bin
		var actual, reserved, ordered, projected pgtype.Numeric
		if err := rows.Scan(&bin.Warehouse, &actual, &reserved, &ordered, &projected); err != nil {
			return nil, fmt.Errorf("failed to scan bin: %w", err)
		}
		bin.ActualQty = flexFromNumeric(actual)
		bin.ReservedQty = flexFromNumeric(reserved)
		bin.OrderedQty = flexFromNumeric(ordered)
		bin.ProjectedQty = flexFromNumeric(projected)
		bins = append(bins, bin)
	}
	return bins, rows.Err()
}

// GetValuationRates returns the latest valuation rate per warehouse from the
// stock ledger, skipping cancelled entries.
func (r *snapshotRepository) GetValuationRates(ctx context.Context, itemCode string) (map[string]decimal.Decimal, error) {
	query := `
		SELECT warehouse, valuation_rate
		FROM (
			SELECT
				warehouse,
				valuation_rate,
				ROW_NUMBER() OVER (
					PARTITION BY warehouse
					ORDER BY posting_date DESC, posting_time DESC, creation DESC
				) AS rn
			FROM stock_ledger_entries
			WHERE item_code = $1
			  AND is_cancelled = FALSE
			  AND warehouse IS NOT NULL
		) ranked
		WHERE rn = 1`

	rows, err := r.db.Query(ctx, query, itemCode)
	if err != nil {
		return nil, fmt.Errorf("failed to query valuation rates: %w", err)
	}
	defer rows.Close()

	rates := make(map[string]decimal.Decimal)
	for rows.Next() {
		var warehouse string
		var rate pgtype.Numeric
		if err := rows.Scan(&warehouse, &rate); err != nil {
			return nil, fmt.Errorf("failed to scan valuation rate: %w", err)
		}
		rates[warehouse] = flexFromNumeric(rate).Decimal()
	}
	return rates, rows.Err()
}

// GetPriceHistory returns the price log ordered by effective date, earliest
// first. Rows missing a valid_from fall back to their creation timestamp.
func (r *snapshotRepository) GetPriceHistory(ctx context.Context, itemCode string) ([]domain.PriceRecord, error) {
	query := `
		SELECT name, price_list, price_list_rate, currency,
		       valid_from, creation, modified
		FROM item_prices
		WHERE item_code = $1
		ORDER BY COALESCE(valid_from, creation::date) ASC, creation ASC`

	rows, err := r.db.Query(ctx, query, itemCode)
	if err != nil {
		return nil, fmt.Errorf("failed to query price history: %w", err)
	}
	defer rows.Close()

	var records []domain.PriceRecord
	for rows.Next() {
		var rec domain.PriceRecord
		var rate pgtype.Numeric
		var currency sql.NullString
		var validFrom sql.NullTime
		var creation, modified time.Time
		if err := rows.Scan(&rec.Name, &rec.PriceList, &rate, &currency, &validFrom, &creation, &modified); err != nil {
			return nil, fmt.Errorf("failed to scan price record: %w", err)
		}
		rec.PriceListRate = flexFromNumeric(rate)
		rec.Currency = currency.String
		if validFrom.Valid {
			rec.ValidFrom = validFrom.Time.Format("2006-01-02")
		}
		rec.Creation = creation.Format("2006-01-02 15:04:05")
		rec.Modified = modified.Format("2006-01-02 15:04:05")
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetRecentSales returns the latest submitted sales-invoice lines for the
// item. Quantities are in stock UOM and amounts in base currency.
func (r *snapshotRepository) GetRecentSales(ctx context.Context, itemCode string, limit int) ([]domain.SaleRecord, error) {
	query := `
		SELECT
			sii.parent AS sales_invoice,
			si.posting_date,
			sii.stock_qty AS qty,
			(sii.rate * si.conversion_rate) AS rate,
			sii.base_net_amount AS amount,
			si.customer,
			si.currency
		FROM sales_invoice_items sii
		INNER JOIN sales_invoices si ON si.name = sii.parent
		WHERE sii.item_code = $1 AND si.docstatus = 1
		ORDER BY si.posting_date DESC, si.modified DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, itemCode, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent sales: %w", err)
	}
	defer rows.Close()

	var sales []domain.SaleRecord
	for rows.Next() {
		var rec domain.SaleRecord
		var postingDate time.Time
		var qty, rate, amount pgtype.Numeric
		var currency sql.NullString
		if err := rows.Scan(&rec.SalesInvoice, &postingDate, &qty, &rate, &amount, &rec.Customer, &currency); err != nil {
			return nil, fmt.Errorf("failed to scan sale record: %w", err)
		}
		rec.PostingDate = postingDate.Format("2006-01-02")
		rec.Qty = flexFromNumeric(qty)
		rec.Rate = flexFromNumeric(rate)
		rec.Amount = flexFromNumeric(amount)
		rec.Currency = currency.String
		sales = append(sales, rec)
	}
	return sales, rows.Err()
}

// GetRecentPurchases returns the latest submitted purchase-invoice lines.
func (r *snapshotRepository) GetRecentPurchases(ctx context.Context, itemCode string, limit int) ([]domain.PurchaseRecord, error) {
	query := `
		SELECT
			pii.parent AS purchase_invoice,
			pi.posting_date,
			pii.stock_qty AS qty,
			(pii.stock_uom_rate * pi.conversion_rate) AS rate,
			pii.base_net_amount AS amount,
			pi.supplier,
			pi.currency
		FROM purchase_invoice_items pii
		INNER JOIN purchase_invoices pi ON pi.name = pii.parent
		WHERE pii.item_code = $1 AND pi.docstatus = 1
		ORDER BY pi.posting_date DESC, pi.modified DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, itemCode, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent purchases: %w", err)
	}
	defer rows.Close()

	var purchases []domain.PurchaseRecord
	for rows.Next() {
		var rec domain.PurchaseRecord
		var postingDate time.Time
		var qty, rate, amount pgtype.Numeric
		var currency sql.NullString
		if err := rows.Scan(&rec.PurchaseInvoice, &postingDate, &qty, &rate, &amount, &rec.Supplier, &currency); err != nil {
			return nil, fmt.Errorf("failed to scan purchase record: %w", err)
		}
		rec.PostingDate = postingDate.Format("2006-01-02")
		rec.Qty = flexFromNumeric(qty)
		rec.Rate = flexFromNumeric(rate)
		rec.Amount = flexFromNumeric(amount)
		rec.Currency = currency.String
		purchases = append(purchases, rec)
	}
	return purchases, rows.Err()
}

// GetSalesSince aggregates sales of the item from the given date onwards.
func (r *snapshotRepository) GetSalesSince(ctx context.Context, itemCode string, since time.Time) (domain.SalesSummary, error) {
	query := `
		SELECT
			COALESCE(SUM(sii.stock_qty), 0) AS qty,
			COALESCE(SUM(sii.base_net_amount), 0) AS amount,
			COUNT(DISTINCT sii.parent) AS count
		FROM sales_invoice_items sii
		INNER JOIN sales_invoices si ON si.name = sii.parent
		WHERE sii.item_code = $1
		  AND si.docstatus = 1
		  AND si.posting_date >= $2`

	var summary domain.SalesSummary
	var qty, amount pgtype.Numeric
	err := r.db.QueryRow(ctx, query, itemCode, since).Scan(&qty, &amount, &summary.Count)
	if err != nil {
		return domain.SalesSummary{}, fmt.Errorf("failed to query sales summary: %w", err)
	}
	summary.Qty = flexFromNumeric(qty)
	summary.Amount = flexFromNumeric(amount)
	return summary, nil
}

// GetDefaultSellingPrice returns the current selling price: the configured
// default price list when set, otherwise the most recently modified selling
// price row.
func (r *snapshotRepository) GetDefaultSellingPrice(ctx context.Context, itemCode string) (*domain.SellingPrice, error) {
	var defaultList sql.NullString
	err := r.db.QueryRow(ctx, `SELECT value FROM settings WHERE key = 'default_selling_price_list'`).Scan(&defaultList)
	if err != nil && err != pgx.ErrNoRows {
		return nil, fmt.Errorf("failed to load default price list: %w", err)
	}

	builder := psql.
		Select("price_list_rate", "price_list", "currency").
		From("item_prices").
		Where(squirrel.Eq{"item_code": itemCode, "selling": true}).
		OrderBy("modified DESC").
		Limit(1)
	if defaultList.Valid && defaultList.String != "" {
		builder = builder.Where(squirrel.Eq{"price_list": defaultList.String})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build selling price query: %w", err)
	}

	var rate pgtype.Numeric
	var priceList, currency sql.NullString
	err = r.db.QueryRow(ctx, query, args...).Scan(&rate, &priceList, &currency)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load selling price: %w", err)
	}

	return &domain.SellingPrice{
		Price:     flexFromNumeric(rate),
		PriceList: priceList.String,
		Currency:  currency.String,
	}, nil
}

// GetLastSaleDate returns the posting date of the item's most recent
// submitted sale, or nil if never sold.
func (r *snapshotRepository) GetLastSaleDate(ctx context.Context, itemCode string) (*time.Time, error) {
	query := `
		SELECT MAX(si.posting_date)
		FROM sales_invoice_items sii
		INNER JOIN sales_invoices si ON si.name = sii.parent
		WHERE sii.item_code = $1 AND si.docstatus = 1`

	var lastSale sql.NullTime
	if err := r.db.QueryRow(ctx, query, itemCode).Scan(&lastSale); err != nil {
		return nil, fmt.Errorf("failed to query last sale date: %w", err)
	}
	if !lastSale.Valid {
		return nil, nil
	}
	return &lastSale.Time, nil
}

// FindByBarcode searches the barcode table first, then the legacy barcode
// column on the item master, mirroring how older datasets store barcodes.
func (r *snapshotRepository) FindByBarcode(ctx context.Context, barcode string) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT item_code FROM item_barcodes WHERE barcode = $1 ORDER BY idx ASC LIMIT 20`, barcode)
	if err != nil {
		return nil, fmt.Errorf("failed to query barcode table: %w", err)
	}
	defer rows.Close()

	var matches []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("failed to scan barcode match: %w", err)
		}
		matches = append(matches, code)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(matches) > 0 {
		return matches, nil
	}

	// Legacy setups keep a single barcode on the item row itself.
	var code string
	err = r.db.QueryRow(ctx, `SELECT item_code FROM items WHERE barcode = $1 LIMIT 1`, barcode).Scan(&code)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query legacy barcode: %w", err)
	}
	return []string{code}, nil
}

// GetBarcodeMatches loads candidate rows for disambiguation prompts.
func (r *snapshotRepository) GetBarcodeMatches(ctx context.Context, itemCodes []string) ([]domain.BarcodeMatch, error) {
	if len(itemCodes) == 0 {
		return nil, nil
	}

	query, args, err := psql.
		Select("item_code", "item_name", "image", "disabled").
		From("items").
		Where(squirrel.Eq{"item_code": itemCodes}).
		Limit(50).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build matches query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query barcode matches: %w", err)
	}
	defer rows.Close()

	byCode := make(map[string]domain.BarcodeMatch, len(itemCodes))
	for rows.Next() {
		var match domain.BarcodeMatch
		var image sql.NullString
		if err := rows.Scan(&match.ItemCode, &match.ItemName, &image, &match.Disabled); err != nil {
			return nil, fmt.Errorf("failed to scan barcode match: %w", err)
		}
		match.Image = image.String
		byCode[match.ItemCode] = match
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Preserve resolution order.
	matches := make([]domain.BarcodeMatch, 0, len(byCode))
	for _, code := range itemCodes {
		if match, ok := byCode[code]; ok {
			matches = append(matches, match)
		}
	}
	return matches, nil
}

// GetTopSellingItems lists item codes by sold quantity since the given
// date, best sellers first.
func (r *snapshotRepository) GetTopSellingItems(ctx context.Context, since time.Time, limit int) ([]string, error) {
	query, args, err := psql.
		Select("sii.item_code").
		From("sales_invoice_items sii").
		InnerJoin("sales_invoices si ON si.name = sii.parent").
		Where(squirrel.Eq{"si.docstatus": 1}).
		Where(squirrel.GtOrEq{"si.posting_date": since}).
		GroupBy("sii.item_code").
		OrderBy("SUM(sii.stock_qty) DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build top sellers query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query top sellers: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

// flexFromNumeric converts a scanned pgtype.Numeric into a lenient Flex,
// treating NULL and conversion failures as zero.
func flexFromNumeric(n pgtype.Numeric) domain.Flex {
	if !n.Valid {
		return domain.Flex{}
	}
	v, err := n.Value()
	if err != nil || v == nil {
		return domain.Flex{}
	}
	switch t := v.(type) {
	case string:
		return domain.FlexFromString(t)
	case []byte:
		return domain.FlexFromString(string(t))
	case float64:
		return domain.FlexFromFloat(t)
	case int64:
		return domain.NewFlex(decimal.NewFromInt(t))
	default:
		return domain.FlexFromString(fmt.Sprint(v))
	}
}
