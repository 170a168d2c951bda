package sheets

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrWorksheetNotFound is returned when a worksheet is missing and cannot
	// be created.
	ErrWorksheetNotFound = errors.New("sheets: worksheet not found")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("sheets: workbook closed")
)

// Store is a single worksheet.
type Store interface {
	// Header returns the column names from the first row.
	Header(ctx context.Context) ([]string, error)
	// AppendRow adds a row after the last one.
	AppendRow(ctx context.Context, row []any) error
	// ReadAllRecords returns every data row keyed by header name.
	ReadAllRecords(ctx context.Context) ([]map[string]any, error)
}

// Workbook opens worksheets by name.
type Workbook interface {
	// Worksheet returns the named worksheet, creating it with header when it
	// does not exist or is empty.
	Worksheet(ctx context.Context, name string, header []string) (Store, error)
	Close() error
}

// Table is a header-ordered view of a worksheet used for display.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Empty reports whether the table has no data rows.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// ReadTable reads a worksheet into a Table with columns in header order.
func ReadTable(ctx context.Context, store Store) (Table, error) {
	header, err := store.Header(ctx)
	if err != nil {
		return Table{}, err
	}
	records, err := store.ReadAllRecords(ctx)
	if err != nil {
		return Table{}, err
	}
	table := Table{
		Columns: append([]string(nil), header...),
		Rows:    make([][]string, 0, len(records)),
	}
	for _, record := range records {
		row := make([]string, len(header))
		for i, column := range header {
			row[i] = CellString(record[column])
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// CellString formats a scalar the way it is stored in a worksheet cell.
func CellString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// Numericise converts integer and decimal looking cells into numbers, leaving
// everything else as text.
func Numericise(cell string) any {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return cell
	}
	if n, err := strconv.Atoi(trimmed); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil && !strings.ContainsAny(trimmed, "eEnN") {
		return f
	}
	return cell
}

func cellsOf(row []any) []string {
	out := make([]string, len(row))
	for i, value := range row {
		out[i] = CellString(value)
	}
	return out
}

// recordsFromGrid applies the first-row-is-header convention. Missing trailing
// cells read as empty strings; cells beyond the header are dropped.
func recordsFromGrid(grid [][]string) []map[string]any {
	if len(grid) < 2 {
		return []map[string]any{}
	}
	header := grid[0]
	out := make([]map[string]any, 0, len(grid)-1)
	for _, row := range grid[1:] {
		record := make(map[string]any, len(header))
		for i, column := range header {
			if i < len(row) {
				record[column] = Numericise(row[i])
			} else {
				record[column] = ""
			}
		}
		out = append(out, record)
	}
	return out
}

func headerOf(grid [][]string) []string {
	if len(grid) == 0 {
		return nil
	}
	return append([]string(nil), grid[0]...)
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("sheets: worksheet name is required")
	}
	return nil
}
