package models

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
)

// ColumnType is the declared storage type of a result column.
type ColumnType int

const (
	ColumnText ColumnType = iota
	ColumnInteger
	ColumnFloat
)

func (t ColumnType) String() string {
	switch t {
	case ColumnInteger:
		return "integer"
	case ColumnFloat:
		return "float"
	default:
		return "text"
	}
}

// IsNumeric reports whether values of this column are numbers.
func (t ColumnType) IsNumeric() bool {
	return t == ColumnInteger || t == ColumnFloat
}

// Column is a named, typed result column.
type Column struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type"`
}

// Table is a tabular query result: ordered columns and ordered rows.
// Cells are nil (NULL), int64, float64 or string.
type Table struct {
	Columns []Column
	Rows    [][]any
}

// NewTable creates an empty table with the given columns.
func NewTable(columns ...Column) *Table {
	return &Table{Columns: columns, Rows: make([][]any, 0)}
}

// Empty reports whether the table is absent or has no rows.
func (t *Table) Empty() bool {
	return t == nil || len(t.Rows) == 0
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	if t == nil {
		return []string{}
	}
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Index returns the position of the named column, or -1.
func (t *Table) Index(name string) int {
	if t == nil {
		return -1
	}
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Append adds a row. The row must have one cell per column.
func (t *Table) Append(cells ...any) error {
	if len(cells) != len(t.Columns) {
		return fmt.Errorf("row has %d cells, table has %d columns", len(cells), len(t.Columns))
	}
	t.Rows = append(t.Rows, cells)
	return nil
}

// Head returns a table holding at most the first n rows.
func (t *Table) Head(n int) *Table {
	if t == nil {
		return nil
	}
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	return &Table{Columns: t.Columns, Rows: t.Rows[:n]}
}

// Strings returns the named column as strings, nulls as "".
func (t *Table) Strings(name string) []string {
	idx := t.Index(name)
	if idx < 0 {
		return nil
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = CellString(row[idx])
	}
	return out
}

// Floats returns the named column as float64 values, nulls and text as 0.
func (t *Table) Floats(name string) []float64 {
	idx := t.Index(name)
	if idx < 0 {
		return nil
	}
	out := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		if f, ok := CellFloat(row[idx]); ok {
			out[i] = f
		}
	}
	return out
}

// Records returns each row as a column-name keyed map. Null cells are
// replaced by nullValue.
func (t *Table) Records(nullValue any) []map[string]any {
	if t == nil {
		return []map[string]any{}
	}
	records := make([]map[string]any, len(t.Rows))
	for i, row := range t.Rows {
		rec := make(map[string]any, len(t.Columns))
		for j, c := range t.Columns {
			if row[j] == nil {
				rec[c.Name] = nullValue
				continue
			}
			rec[c.Name] = row[j]
		}
		records[i] = rec
	}
	return records
}

// CellString returns the string form of a cell, "" for NULL.
func CellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

// CellFloat converts a numeric cell, or a text cell holding a number,
// to float64.
func CellFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// ScanTable reads all rows into a Table. Column types are inferred from the
// scanned values; the driver's type names only decide how byte payloads are
// decoded.
func ScanTable(rows *sql.Rows) (*Table, error) {
	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("column types: %w", err)
	}

	table := &Table{Columns: make([]Column, len(colTypes)), Rows: make([][]any, 0)}
	for i, ct := range colTypes {
		table.Columns[i] = Column{Name: ct.Name()}
	}

	for rows.Next() {
		raw := make([]any, len(colTypes))
		dest := make([]any, len(colTypes))
		for i := range raw {
			dest[i] = &raw[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		row := make([]any, len(raw))
		for i, v := range raw {
			row[i] = normalizeCell(v, colTypes[i].DatabaseTypeName())
		}
		table.Rows = append(table.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	for i := range table.Columns {
		table.Columns[i].Type = inferColumnType(table.Rows, i)
	}
	return table, nil
}

func normalizeCell(v any, dbType string) any {
	switch x := v.(type) {
	case nil:
		return nil
	case int64:
		return x
	case int32:
		return int64(x)
	case int:
		return int64(x)
	case int16:
		return int64(x)
	case int8:
		return int64(x)
	case uint64:
		return int64(x)
	case uint32:
		return int64(x)
	case float64:
		return x
	case float32:
		return float64(x)
	case bool:
		if x {
			return int64(1)
		}
		return int64(0)
	case []byte:
		return decodeText(string(x), dbType)
	case string:
		return decodeText(x, dbType)
	default:
		return fmt.Sprint(x)
	}
}

// decodeText turns textual driver payloads into numbers when the driver
// declares an integer or floating point column. Exact decimals stay text.
func decodeText(s, dbType string) any {
	t := strings.ToUpper(dbType)
	switch {
	case strings.Contains(t, "INT"):
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
	case strings.Contains(t, "FLOAT"), strings.Contains(t, "DOUBLE"), t == "REAL":
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}

func inferColumnType(rows [][]any, idx int) ColumnType {
	seen := false
	sawFloat := false
	for _, row := range rows {
		switch row[idx].(type) {
		case nil:
			continue
		case int64:
			seen = true
		case float64:
			seen = true
			sawFloat = true
		default:
			return ColumnText
		}
	}
	switch {
	case !seen:
		return ColumnText
	case sawFloat:
		return ColumnFloat
	default:
		return ColumnInteger
	}
}

// WithColumn returns a copy of t with one more column computed per row.
func (t *Table) WithColumn(col Column, compute func(row []any) any) *Table {
	if t == nil {
		return nil
	}
	out := &Table{
		Columns: append(append([]Column{}, t.Columns...), col),
		Rows:    make([][]any, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = append(append([]any{}, row...), compute(row))
	}
	return out
}
