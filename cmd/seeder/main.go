// cmd/seeder/main.go
//
// Seeds the replica database with ERP-shaped sample data so the inspector
// can be exercised locally without a live ERP sync.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/retailtools/item-inspector/internal/adapters/db"
)

var itemGroups = []string{"Electronics", "Apparel", "Homeware", "Toys", "Stationery"}

var brands = []string{"Acme", "Northwind", "Contoso", "Globex", ""}

var warehouses = []string{"Main - WH", "Outlet - WH"}

var priceLists = []string{"Standard Selling", "Wholesale"}

func main() {
	var (
		itemCount = flag.Int("items", 50, "Number of sample items to create")
		days      = flag.Int("days", 90, "Trailing window of invoice history to generate")
		seed      = flag.Int64("seed", 42, "Random seed, fixed for reproducible datasets")
		dryRun    = flag.Bool("dry-run", false, "Generate data without writing to the database")
		logLevel  = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	)
	flag.Parse()

	slogger := setupLogger(*logLevel)
	rng := rand.New(rand.NewSource(*seed))

	ctx := context.Background()

	dbURL := fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		getEnv("DB_USER", "inspector"),
		getEnv("DB_PASSWORD", "inspector_dev"),
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_NAME", "erp_replica"),
		getEnv("DB_SSL_MODE", "disable"),
	)

	dataset := generate(rng, *itemCount, *days)
	slogger.Info("sample dataset generated",
		slog.Int("items", len(dataset.items)),
		slog.Int("sales_invoices", len(dataset.salesInvoices)),
		slog.Int("purchase_invoices", len(dataset.purchaseInvoices)))

	if *dryRun {
		fmt.Println("[DRY RUN] no changes were made to the database")
		return
	}

	if err := db.RunMigrationsWithRetry(ctx, &db.MigrationConfig{DatabaseURL: dbURL}, slogger, 3); err != nil {
		slogger.Error("failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbConfig := db.DefaultConfig()
	dbConfig.Host = getEnv("DB_HOST", dbConfig.Host)
	dbConfig.Port = getEnv("DB_PORT", dbConfig.Port)
	dbConfig.User = getEnv("DB_USER", dbConfig.User)
	dbConfig.Password = getEnv("DB_PASSWORD", dbConfig.Password)
	dbConfig.Database = getEnv("DB_NAME", dbConfig.Database)
	dbConfig.ReadOnly = false // the seeder is the one writer

	database, err := db.NewDatabase(ctx, dbConfig, slogger)
	if err != nil {
		slogger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.Close()

	if err := insert(ctx, database, dataset); err != nil {
		slogger.Error("failed to seed database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slogger.Info("seed completed",
		slog.Int("items", len(dataset.items)),
		slog.Int("price_rows", len(dataset.prices)))
}

type dataset struct {
	items            [][]interface{}
	barcodes         [][]interface{}
	bins             [][]interface{}
	ledger           [][]interface{}
	prices           [][]interface{}
	salesInvoices    [][]interface{}
	salesItems       [][]interface{}
	purchaseInvoices [][]interface{}
	purchaseItems    [][]interface{}
	settings         [][]interface{}
}

func generate(rng *rand.Rand, itemCount, days int) *dataset {
	d := &dataset{}
	now := time.Now()

	for i := 1; i <= itemCount; i++ {
		code := fmt.Sprintf("ITEM-%04d", i)
		group := itemGroups[rng.Intn(len(itemGroups))]
		brand := brands[rng.Intn(len(brands))]
		disabled := rng.Intn(20) == 0

		d.items = append(d.items, []interface{}{
			code,
			fmt.Sprintf("%s Sample %d", group, i),
			group,
			brand,
			"Nos",
			fmt.Sprintf("Sample %s item seeded for development.", group),
			"",
			fmt.Sprintf("2%012d", i), // legacy barcode column
			disabled,
			true,
			float64(5 + rng.Intn(20)),
			now,
			now,
		})

		// One or two extra barcodes in the child table
		for b := 0; b < 1+rng.Intn(2); b++ {
			d.barcodes = append(d.barcodes, []interface{}{
				fmt.Sprintf("BC-%04d-%d", i, b),
				code,
				fmt.Sprintf("5%09d%03d", i, b),
				b,
			})
		}

		valuation := 5 + rng.Float64()*45

		for _, wh := range warehouses {
			qty := float64(rng.Intn(40))
			d.bins = append(d.bins, []interface{}{
				fmt.Sprintf("BIN-%04d-%s", i, wh[:4]),
				code,
				wh,
				qty,
				float64(rng.Intn(5)),
				float64(rng.Intn(10)),
				qty,
			})

			d.ledger = append(d.ledger, []interface{}{
				fmt.Sprintf("SLE-%04d-%s", i, wh[:4]),
				code,
				wh,
				now.AddDate(0, 0, -rng.Intn(days)),
				pgtype.Time{Microseconds: 12 * int64(time.Hour/time.Microsecond), Valid: true},
				qty,
				qty,
				valuation,
				false,
				now,
			})
		}

		// Price history: a few revisions per list, oldest first
		for li, list := range priceLists {
			revisions := 1 + rng.Intn(3)
			base := valuation * (1.5 - 0.2*float64(li))
			for r := 0; r < revisions; r++ {
				effective := now.AddDate(0, 0, -days+(r*days)/revisions)
				d.prices = append(d.prices, []interface{}{
					fmt.Sprintf("PRC-%04d-%d-%d", i, li, r),
					code,
					list,
					base * (1 + 0.05*float64(r)),
					"USD",
					true,
					false,
					effective,
					effective,
					effective,
				})
			}
		}
	}

	// Invoices spread over the trailing window
	for day := 0; day < days; day++ {
		date := now.AddDate(0, 0, -day)

		for n := 0; n < 1+rng.Intn(3); n++ {
			invoice := fmt.Sprintf("SINV-%03d-%d", day, n)
			d.salesInvoices = append(d.salesInvoices, []interface{}{
				invoice,
				date,
				fmt.Sprintf("Customer %d", 1+rng.Intn(15)),
				"USD",
				1.0,
				1, // submitted
				date,
			})

			for line := 0; line < 1+rng.Intn(3); line++ {
				item := 1 + rng.Intn(len(d.items))
				qty := float64(1 + rng.Intn(5))
				rate := 10 + rng.Float64()*50
				d.salesItems = append(d.salesItems, []interface{}{
					fmt.Sprintf("%s-%d", invoice, line),
					invoice,
					fmt.Sprintf("ITEM-%04d", item),
					qty,
					rate,
					qty * rate,
				})
			}
		}

		if day%3 == 0 {
			invoice := fmt.Sprintf("PINV-%03d", day)
			d.purchaseInvoices = append(d.purchaseInvoices, []interface{}{
				invoice,
				date,
				fmt.Sprintf("Supplier %d", 1+rng.Intn(5)),
				"USD",
				1.0,
				1,
				date,
			})

			for line := 0; line < 1+rng.Intn(2); line++ {
				item := 1 + rng.Intn(len(d.items))
				qty := float64(5 + rng.Intn(20))
				rate := 5 + rng.Float64()*25
				d.purchaseItems = append(d.purchaseItems, []interface{}{
					fmt.Sprintf("%s-%d", invoice, line),
					invoice,
					fmt.Sprintf("ITEM-%04d", item),
					qty,
					rate,
					qty * rate,
				})
			}
		}
	}

	d.settings = append(d.settings, []interface{}{"default_selling_price_list", "Standard Selling"})

	return d
}

func insert(ctx context.Context, database *db.Database, d *dataset) error {
	tables := []struct {
		name    string
		columns []string
		rows    [][]interface{}
	}{
		{"items", []string{"item_code", "item_name", "item_group", "brand", "stock_uom",
			"description", "image", "barcode", "disabled", "is_stock_item", "reorder_level",
			"creation", "modified"}, d.items},
		{"item_barcodes", []string{"name", "item_code", "barcode", "idx"}, d.barcodes},
		{"bins", []string{"name", "item_code", "warehouse", "actual_qty", "reserved_qty",
			"ordered_qty", "projected_qty"}, d.bins},
		{"stock_ledger_entries", []string{"name", "item_code", "warehouse", "posting_date",
			"posting_time", "actual_qty", "qty_after_transaction", "valuation_rate",
			"is_cancelled", "creation"}, d.ledger},
		{"item_prices", []string{"name", "item_code", "price_list", "price_list_rate",
			"currency", "selling", "buying", "valid_from", "creation", "modified"}, d.prices},
		{"sales_invoices", []string{"name", "posting_date", "customer", "currency",
			"conversion_rate", "docstatus", "modified"}, d.salesInvoices},
		{"sales_invoice_items", []string{"name", "parent", "item_code", "stock_qty",
			"rate", "base_net_amount"}, d.salesItems},
		{"purchase_invoices", []string{"name", "posting_date", "supplier", "currency",
			"conversion_rate", "docstatus", "modified"}, d.purchaseInvoices},
		{"purchase_invoice_items", []string{"name", "parent", "item_code", "stock_qty",
			"stock_uom_rate", "base_net_amount"}, d.purchaseItems},
		{"settings", []string{"key", "value"}, d.settings},
	}

	for _, table := range tables {
		// Re-seeding replaces the table wholesale.
		if _, err := database.Exec(ctx, "TRUNCATE "+table.name+" CASCADE"); err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table.name, err)
		}

		count, err := database.CopyFrom(ctx,
			pgx.Identifier{table.name},
			table.columns,
			pgx.CopyFromRows(table.rows),
		)
		if err != nil {
			return fmt.Errorf("failed to copy into %s: %w", table.name, err)
		}

		slog.Info("table seeded", slog.String("table", table.name), slog.Int64("rows", count))
	}

	return nil
}

func setupLogger(level string) *slog.Logger {
	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slogLevel}))
	slog.SetDefault(logger)
	return logger
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
