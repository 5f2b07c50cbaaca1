// test/benchmarks/render_bench_test.go
package benchmarks

import (
	"fmt"
	"testing"

	"github.com/retailtools/item-inspector/internal/render"
	"github.com/retailtools/item-inspector/internal/render/svg"
)

func BenchmarkRenderPipeline(b *testing.B) {
	formatter := render.NewFormatter("en", "USD")
	snap := largeSnapshot(60)

	b.Run("Page", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_ = formatter.Page(snap, "")
		}
	})

	b.Run("LightPage", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_ = formatter.LightPage(snap)
		}
	})

	b.Run("PriceSection", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_ = formatter.PriceSection(snap, "Standard Selling")
		}
	})
}

func BenchmarkRenderTable(b *testing.B) {
	formatter := render.NewFormatter("en", "USD")

	columns := []render.Column{
		{Field: "invoice", Label: "Invoice", Kind: render.KindLink, LinkBase: "/inspector/"},
		{Field: "qty", Label: "Qty", Kind: render.KindFloat},
		{Field: "amount", Label: "Amount", Kind: render.KindCurrency},
	}
	rows := make([]render.Row, 50)
	for i := range rows {
		rows[i] = render.Row{
			"invoice": fmt.Sprintf("SINV-%04d", i),
			"qty":     float64(i % 9),
			"amount":  float64(i) * 12.5,
		}
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = formatter.RenderTable(columns, rows)
	}
}

func BenchmarkLineChart(b *testing.B) {
	for _, points := range []int{2, 30, 120} {
		series := make([]float64, points)
		labels := make([]string, points)
		for i := range series {
			series[i] = 10 + float64(i)*0.5
			labels[i] = fmt.Sprintf("2024-01-%02d", i%28+1)
		}

		b.Run(fmt.Sprintf("points_%d", points), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_, _ = svg.Line(0, 0, series, labels, svg.LineOpts{MaxLabels: 8})
			}
		})
	}
}

func BenchmarkFormatter(b *testing.B) {
	formatter := render.NewFormatter("en", "USD")
	snap := largeSnapshot(1)
	value := snap.SalesLast30Days.Amount

	b.Run("Currency", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = formatter.Currency(value)
		}
	})

	b.Run("Float", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = formatter.Float(value)
		}
	})
}
