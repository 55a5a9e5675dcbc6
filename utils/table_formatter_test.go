package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retail-analytics/models"
)

func TestTableHTML_EmptyInput(t *testing.T) {
	assert.Equal(t, NoDataHTML, TableHTML(nil))

	empty := models.NewTable(models.Column{Name: "total_items", Type: models.ColumnInteger})
	assert.Equal(t, NoDataHTML, TableHTML(empty))
	assert.NotContains(t, TableHTML(empty), "<table")
}

func TestFormatColumn_WholeNumbersGetThousandsSeparators(t *testing.T) {
	table := models.NewTable(models.Column{Name: "total_items", Type: models.ColumnInteger})
	require.NoError(t, table.Append(int64(1234567)))
	require.NoError(t, table.Append(int64(12345)))
	require.NoError(t, table.Append(nil))
	require.NoError(t, table.Append(int64(7)))

	assert.Equal(t, FormatInteger, ClassifyColumn(table, 0))
	got := FormatColumn(table, 0)
	assert.Equal(t, []string{"1,234,567", "12,345", "", "7"}, got)
	for _, v := range got {
		assert.NotContains(t, v, ".")
	}
}

func TestFormatColumn_WholeFloatsAreIntegers(t *testing.T) {
	table := models.NewTable(models.Column{Name: "avg_days", Type: models.ColumnFloat})
	require.NoError(t, table.Append(7.0))
	require.NoError(t, table.Append(2000.0))

	assert.Equal(t, FormatInteger, ClassifyColumn(table, 0))
	assert.Equal(t, []string{"7", "2,000"}, FormatColumn(table, 0))
}

func TestFormatColumn_FractionalValuesGetTwoDecimals(t *testing.T) {
	table := models.NewTable(models.Column{Name: "reorder_rate", Type: models.ColumnFloat})
	require.NoError(t, table.Append(0.3))
	require.NoError(t, table.Append(1234.5))
	require.NoError(t, table.Append(2.0))
	require.NoError(t, table.Append(nil))

	assert.Equal(t, FormatFractional, ClassifyColumn(table, 0))
	got := FormatColumn(table, 0)
	assert.Equal(t, []string{"0.30", "1,234.50", "2.00", ""}, got)
	for _, v := range got[:3] {
		parts := strings.Split(v, ".")
		require.Len(t, parts, 2)
		assert.Len(t, parts[1], 2)
	}
}

func TestFormatColumn_PercentLikeTextColumns(t *testing.T) {
	table := models.NewTable(models.Column{Name: "Reorder_Rate", Type: models.ColumnText})
	require.NoError(t, table.Append("0.255"))
	require.NoError(t, table.Append("55.0"))
	require.NoError(t, table.Append(nil))
	require.NoError(t, table.Append("n/a"))
	require.NoError(t, table.Append("1"))

	assert.Equal(t, FormatPercent, ClassifyColumn(table, 0))
	assert.Equal(t, []string{"25.5%", "55.0%", "", "n/a", "100.0%"}, FormatColumn(table, 0))
}

func TestFormatPercentValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{0.255, "25.5%"},
		{55.0, "55.0%"},
		{-0.5, "-50.0%"},
		{int64(3), "3.0%"},
		{"abc", "abc"},
		{nil, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPercentValue(tt.in), "input %v", tt.in)
	}
}

func TestClassifyColumn_PercentTokens(t *testing.T) {
	for _, name := range []string{"avg_reorder_rate", "PCT_change", "percent_done", "reordered"} {
		table := models.NewTable(models.Column{Name: name, Type: models.ColumnText})
		assert.Equal(t, FormatPercent, ClassifyColumn(table, 0), name)
	}
	table := models.NewTable(models.Column{Name: "department", Type: models.ColumnText})
	assert.Equal(t, FormatText, ClassifyColumn(table, 0))
}

func TestFormatColumn_TextNullsAreEmpty(t *testing.T) {
	table := models.NewTable(models.Column{Name: "product_name", Type: models.ColumnText})
	require.NoError(t, table.Append("Banana"))
	require.NoError(t, table.Append(nil))

	assert.Equal(t, []string{"Banana", ""}, FormatColumn(table, 0))
}

func TestFormatColumn_MismatchedCellsFallBackToStrings(t *testing.T) {
	// declared numeric but holding text: the whole column is stringified
	table := models.NewTable(models.Column{Name: "total_items", Type: models.ColumnInteger})
	require.NoError(t, table.Append(int64(1500)))
	require.NoError(t, table.Append("oops"))

	assert.Equal(t, []string{"1500", "oops"}, FormatColumn(table, 0))
}

func TestTableHTML_Structure(t *testing.T) {
	table := models.NewTable(
		models.Column{Name: "product_name", Type: models.ColumnText},
		models.Column{Name: "total_items", Type: models.ColumnInteger},
	)
	require.NoError(t, table.Append("<b>Banana</b>", int64(4500)))

	html := TableHTML(table)
	assert.True(t, strings.HasPrefix(html, `<table class="table table-sm table-striped data-table">`))
	assert.Contains(t, html, "<th>product_name</th>")
	assert.Contains(t, html, "<td>4,500</td>")
	// values are not re-escaped
	assert.Contains(t, html, "<td><b>Banana</b></td>")
	assert.NotContains(t, html, "border=")
}

func TestIsTruthy(t *testing.T) {
	for _, v := range []string{"1", "true", "TRUE", "True", "yes", "YES"} {
		assert.True(t, IsTruthy(v), v)
	}
	for _, v := range []string{"", "0", "false", "no", "on", "y", " 1", "truthy"} {
		assert.False(t, IsTruthy(v), v)
	}
}

func TestFormatColumn_WholeFloatsBeyondInt64(t *testing.T) {
	table := models.NewTable(models.Column{Name: "total_items", Type: models.ColumnFloat})
	require.NoError(t, table.Append(1e19))
	require.NoError(t, table.Append(2.0))
	require.NoError(t, table.Append(nil))

	assert.Equal(t, FormatInteger, ClassifyColumn(table, 0))
	assert.Equal(t, []string{"10,000,000,000,000,000,000", "2", ""}, FormatColumn(table, 0))
	assert.Equal(t, "-1,234,567", FormatWhole(-1234567))
}

func TestFormatColumn_LargeIntegersKeepEveryDigit(t *testing.T) {
	table := models.NewTable(models.Column{Name: "total_items", Type: models.ColumnInteger})
	require.NoError(t, table.Append(int64(9007199254740993)))

	assert.Equal(t, []string{"9,007,199,254,740,993"}, FormatColumn(table, 0))
}
