package utils

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"retail-analytics/models"
)

// NoDataHTML is rendered in place of a table when a result has no rows.
const NoDataHTML = `<div class="text-muted">No data</div>`

// TableClasses are the CSS classes put on every formatted table.
const TableClasses = "table table-sm table-striped data-table"

// ColumnFormat is how a column's values are displayed.
type ColumnFormat int

const (
	FormatText ColumnFormat = iota
	FormatInteger
	FormatFractional
	FormatPercent
)

func (f ColumnFormat) String() string {
	switch f {
	case FormatInteger:
		return "integer"
	case FormatFractional:
		return "fractional"
	case FormatPercent:
		return "percent"
	default:
		return "text"
	}
}

// percentTokens mark a text column as a rate-like measure.
var percentTokens = []string{"rate", "reorder", "pct", "percent"}

var errNotNumeric = errors.New("value is not numeric")

// printer groups thousands with commas.
var printer = message.NewPrinter(language.English)

// ClassifyColumn decides how column idx of t is displayed.
func ClassifyColumn(t *models.Table, idx int) ColumnFormat {
	col := t.Columns[idx]
	if col.Type.IsNumeric() {
		for _, row := range t.Rows {
			f, ok := models.CellFloat(row[idx])
			if !ok {
				continue
			}
			if f != math.Trunc(f) {
				return FormatFractional
			}
		}
		return FormatInteger
	}

	lowered := strings.ToLower(col.Name)
	for _, token := range percentTokens {
		if strings.Contains(lowered, token) {
			return FormatPercent
		}
	}
	return FormatText
}

// FormatColumn renders every value of column idx as display text. A column
// that fails to format is returned in its plain string form instead.
func FormatColumn(t *models.Table, idx int) []string {
	format := ClassifyColumn(t, idx)
	out, err := formatColumnAs(t, idx, format)
	if err != nil {
		return stringifyColumn(t, idx)
	}
	return out
}

func formatColumnAs(t *models.Table, idx int, format ColumnFormat) ([]string, error) {
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		v := row[idx]
		if v == nil {
			continue
		}
		switch format {
		case FormatInteger:
			if n, ok := v.(int64); ok {
				out[i] = FormatThousands(n)
				continue
			}
			f, ok := numericCell(v)
			if !ok {
				return nil, fmt.Errorf("row %d: %w", i, errNotNumeric)
			}
			out[i] = FormatWhole(f)
		case FormatFractional:
			f, ok := numericCell(v)
			if !ok {
				return nil, fmt.Errorf("row %d: %w", i, errNotNumeric)
			}
			out[i] = FormatDecimal(f)
		case FormatPercent:
			out[i] = FormatPercentValue(v)
		default:
			out[i] = models.CellString(v)
		}
	}
	return out, nil
}

// numericCell accepts only real numbers; text in a numeric column is an error.
func numericCell(v any) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, false
		}
		return x, true
	default:
		return 0, false
	}
}

func stringifyColumn(t *models.Table, idx int) []string {
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = models.CellString(row[idx])
	}
	return out
}

// FormatThousands renders n with comma thousands separators.
func FormatThousands(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatWhole renders a whole float with comma thousands separators. It
// never converts to int64, so values beyond that range keep their digits.
func FormatWhole(f float64) string {
	return printer.Sprintf("%.0f", f)
}

// FormatDecimal renders f with comma thousands separators and two decimals.
func FormatDecimal(f float64) string {
	return printer.Sprintf("%.2f", f)
}

// FormatPercentValue renders a rate-like value. Values within [-1, 1] are
// treated as fractions and scaled by 100. Non-numeric values are returned
// as-is.
func FormatPercentValue(v any) string {
	if v == nil {
		return ""
	}
	n, ok := percentNumber(v)
	if !ok {
		return models.CellString(v)
	}
	if math.Abs(n) <= 1 {
		return fmt.Sprintf("%.1f%%", n*100)
	}
	return fmt.Sprintf("%.1f%%", n)
}

func percentNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case float64:
		return x, true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// TableHTML renders t as an HTML table fragment. Cell values are written
// verbatim; callers must only pass trusted content.
func TableHTML(t *models.Table) string {
	if t.Empty() {
		return NoDataHTML
	}

	columns := make([][]string, len(t.Columns))
	for i := range t.Columns {
		columns[i] = FormatColumn(t, i)
	}

	var b strings.Builder
	b.WriteString(`<table class="` + TableClasses + `">` + "\n")
	b.WriteString("  <thead>\n    <tr style=\"text-align: right;\">\n")
	for _, c := range t.Columns {
		b.WriteString("      <th>" + c.Name + "</th>\n")
	}
	b.WriteString("    </tr>\n  </thead>\n  <tbody>\n")
	for r := range t.Rows {
		b.WriteString("    <tr>\n")
		for c := range t.Columns {
			b.WriteString("      <td>" + columns[c][r] + "</td>\n")
		}
		b.WriteString("    </tr>\n")
	}
	b.WriteString("  </tbody>\n</table>")
	return b.String()
}
