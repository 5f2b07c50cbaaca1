// internal/render/price_section.go
package render

import (
	"fmt"
	"html/template"
	"time"

	"github.com/retailtools/item-inspector/internal/core/domain"
	"github.com/retailtools/item-inspector/internal/render/svg"
)

// Price-table depth: the most recent rows shown, newest first.
const priceTableLimit = 10

// Chart geometry for the price trend.
const (
	priceChartWidth  = 640
	priceChartHeight = 220
)

// PriceSectionView is everything the price section of the page needs,
// derived from a snapshot and a price-list selection. Deriving it twice
// from the same inputs yields the same view.
type PriceSectionView struct {
	PriceLists   []string
	Selected     string
	Empty        bool
	CurrentPrice string
	Margin       string
	MarginBand   domain.Band
	Table        template.HTML
	Chart        template.HTML
}

var priceColumns = []Column{
	{Field: "date", Label: "Date", Kind: KindText},
	{Field: "rate", Label: "Rate", Kind: KindCurrency},
	{Field: "valid_from", Label: "Valid From", Kind: KindText},
}

// PriceSection derives the price-section view for the given selection.
// A blank or unknown selection falls back to the first price list seen in
// the history. When the selection has no rows the section renders its
// empty state: placeholder KPIs, the empty table row, and no chart.
func (f *Formatter) PriceSection(snap *domain.Snapshot, selected string) PriceSectionView {
	view := PriceSectionView{
		PriceLists:   snap.PriceLists(),
		CurrentPrice: Placeholder,
		Margin:       Placeholder,
		MarginBand:   domain.BandNeutral,
	}
	view.Selected = resolveSelection(view.PriceLists, selected)

	rows := snap.PriceRows(view.Selected)
	if len(rows) == 0 {
		view.Empty = true
		view.Table = f.RenderTable(priceColumns, nil)
		return view
	}

	// The history is ordered oldest first; "current" is the last row by
	// position, not by parsing its dates.
	latest := rows[len(rows)-1]
	view.CurrentPrice = f.CurrencyIn(latest.PriceListRate, latest.Currency)

	totals := snap.Totals()
	if pct, ok := domain.Margin(latest.PriceListRate.Decimal(), totals.AvgValuation); ok {
		view.Margin = f.Percent(pct.InexactFloat64())
		view.MarginBand = domain.MarginBand(pct)
	}

	view.Table = f.RenderTable(priceColumns, priceTableRows(rows))
	view.Chart = f.priceChart(rows, view.Selected)
	return view
}

func resolveSelection(lists []string, selected string) string {
	for _, l := range lists {
		if l == selected {
			return selected
		}
	}
	if len(lists) > 0 {
		return lists[0]
	}
	return selected
}

// priceTableRows takes the trailing rows of the history and reverses them
// so the newest price sits on top.
func priceTableRows(records []domain.PriceRecord) []Row {
	start := 0
	if len(records) > priceTableLimit {
		start = len(records) - priceTableLimit
	}
	tail := records[start:]

	rows := make([]Row, 0, len(tail))
	for i := len(tail) - 1; i >= 0; i-- {
		r := tail[i]
		rows = append(rows, Row{
			"date":       r.DateLabel(),
			"rate":       r.PriceListRate,
			"valid_from": truncateDate(r.ValidFrom),
		})
	}
	return rows
}

// priceChart renders the trend line for the selected list. A single price
// row still yields a flat two-point line so the trend reads as a line, not
// a dot: the point is duplicated one day later, or under a label the SVG
// layer treats as distinct when the date cannot be parsed.
func (f *Formatter) priceChart(records []domain.PriceRecord, selected string) template.HTML {
	series := make([]float64, 0, len(records))
	labels := make([]string, 0, len(records))
	for _, r := range records {
		series = append(series, r.PriceListRate.Float64())
		labels = append(labels, r.DateLabel())
	}

	if len(series) == 1 {
		series = append(series, series[0])
		labels = append(labels, nextDayLabel(labels[0]))
	}

	chart, err := svg.Line(priceChartWidth, priceChartHeight, series, labels, svg.LineOpts{
		Title:       fmt.Sprintf("Price trend: %s", selected),
		Description: fmt.Sprintf("Price history for the %s price list", selected),
		ShowDots:    len(series) <= 12,
		MaxLabels:   8,
	})
	if err != nil {
		return ""
	}
	return chart
}

// nextDayLabel returns the calendar day after a yyyy-mm-dd label. Labels
// that are not parseable dates get a trailing space instead, keeping the
// duplicated point's label distinct from the original.
func nextDayLabel(label string) string {
	t, err := time.Parse("2006-01-02", label)
	if err != nil {
		return label + " "
	}
	return t.AddDate(0, 0, 1).Format("2006-01-02")
}

func truncateDate(s string) string {
	if len(s) > 10 {
		return s[:10]
	}
	return s
}
