// internal/render/table.go
package render

import (
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"github.com/retailtools/item-inspector/internal/core/domain"
)

// Kind selects per-column cell formatting. Formatting is a pure function of
// column identity, never of the runtime value.
type Kind int

const (
	KindText Kind = iota
	KindFloat
	KindCurrency
	KindLink
)

// Column describes one table column: the record field it reads, its display
// label, and how cells format.
type Column struct {
	Field string
	Label string
	Kind  Kind
	// LinkBase is the URL prefix for KindLink columns; the cell value is
	// appended as an escaped path element.
	LinkBase string
}

// Row is one table record keyed by column field.
type Row map[string]any

// RenderTable builds an HTML table for the given columns and rows. Empty
// rows collapse to a single placeholder row spanning all columns. All text
// is escaped; only markup produced here is marked safe.
func (f *Formatter) RenderTable(columns []Column, rows []Row) template.HTML {
	var b strings.Builder
	b.WriteString(`<table class="ii-table"><thead><tr>`)
	for _, col := range columns {
		fmt.Fprintf(&b, "<th>%s</th>", template.HTMLEscapeString(col.Label))
	}
	b.WriteString("</tr></thead><tbody>")

	if len(rows) == 0 {
		fmt.Fprintf(&b, `<tr><td colspan="%d" class="ii-empty">No data</td></tr>`, len(columns))
	}

	for _, row := range rows {
		b.WriteString("<tr>")
		for _, col := range columns {
			b.WriteString("<td>")
			b.WriteString(f.renderCell(col, row[col.Field]))
			b.WriteString("</td>")
		}
		b.WriteString("</tr>")
	}

	b.WriteString("</tbody></table>")
	return template.HTML(b.String())
}

func (f *Formatter) renderCell(col Column, value any) string {
	if value == nil {
		return Placeholder
	}

	switch col.Kind {
	case KindFloat:
		return template.HTMLEscapeString(f.Float(coerceFlex(value)))
	case KindCurrency:
		return template.HTMLEscapeString(f.Currency(coerceFlex(value)))
	case KindLink:
		s := coerceString(value)
		if s == "" {
			return Placeholder
		}
		href := col.LinkBase + url.PathEscape(s)
		return fmt.Sprintf(`<a href="%s">%s</a>`,
			template.HTMLEscapeString(href), template.HTMLEscapeString(s))
	default:
		s := coerceString(value)
		if s == "" {
			return Placeholder
		}
		return template.HTMLEscapeString(s)
	}
}

// coerceFlex accepts the value shapes rows are built from. Anything else is
// treated as zero, matching the lenient-ingress rule.
func coerceFlex(value any) domain.Flex {
	switch v := value.(type) {
	case domain.Flex:
		return v
	case float64:
		return domain.FlexFromFloat(v)
	case int:
		return domain.FlexFromFloat(float64(v))
	case string:
		return domain.FlexFromString(v)
	default:
		return domain.Flex{}
	}
}

func coerceString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
