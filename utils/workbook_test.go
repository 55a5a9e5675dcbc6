package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"retail-analytics/models"
)

func TestTableWorkbook(t *testing.T) {
	table := models.NewTable(
		models.Column{Name: "slice", Type: models.ColumnText},
		models.Column{Name: "avg_days", Type: models.ColumnFloat},
		models.Column{Name: "median_days", Type: models.ColumnFloat},
	)
	require.NoError(t, table.Append("overall", 11.25, 10.0))
	require.NoError(t, table.Append("by_dow:0", 9.5, nil))

	buf, err := TableWorkbook(table, "q5")
	require.NoError(t, err)

	book, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer book.Close()

	assert.Equal(t, []string{"q5"}, book.GetSheetList())
	rows, err := book.GetRows("q5")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"slice", "avg_days", "median_days"}, rows[0])
	assert.Equal(t, "11.25", rows[1][1])
	// trailing null cells are dropped by GetRows
	assert.Equal(t, []string{"by_dow:0", "9.5"}, rows[2])

	styleID, err := book.GetCellStyle("q5", "B1")
	require.NoError(t, err)
	style, err := book.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
}

func TestTableWorkbook_EmptyTable(t *testing.T) {
	table := models.NewTable(models.Column{Name: "segment", Type: models.ColumnText})

	buf, err := TableWorkbook(table, "")
	require.NoError(t, err)

	book, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer book.Close()
	rows, err := book.GetRows("Sheet1")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"segment"}}, rows)
}
