// Package csvexport writes tabular exports in the format the back office
// downloads: a fixed header row, string cells always double-quoted with
// embedded quotes doubled, and numeric cells written bare so spreadsheets and
// scripts can parse them without stripping currency symbols or separators.
package csvexport

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Field is one cell of an export row.
type Field struct {
	Text    string
	Numeric bool
	number  float64
}

// String builds a quoted text cell.
func String(v string) Field {
	return Field{Text: v}
}

// Number builds a bare numeric cell from a decimal amount.
func Number(d decimal.Decimal) Field {
	return Field{Text: d.String(), Numeric: true, number: d.InexactFloat64()}
}

// Int builds a bare integer cell.
func Int(n int) Field {
	return Field{Text: strconv.Itoa(n), Numeric: true, number: float64(n)}
}

// Float builds a bare numeric cell from a float, using the shortest
// representation that round-trips.
func Float(f float64) Field {
	return Field{Text: strconv.FormatFloat(f, 'f', -1, 64), Numeric: true, number: f}
}

// Table is a header plus the rows to export.
type Table struct {
	Header []string
	Rows   [][]Field
}

// AddRow appends a row. The caller keeps the column order of the header.
func (t *Table) AddRow(fields ...Field) {
	t.Rows = append(t.Rows, fields)
}

// Write encodes the table as CSV.
func Write(w io.Writer, t Table) error {
	bw := bufio.NewWriter(w)

	header := make([]Field, len(t.Header))
	for i, h := range t.Header {
		header[i] = String(h)
	}
	if err := writeRow(bw, header); err != nil {
		return err
	}

	for i, row := range t.Rows {
		if len(row) != len(t.Header) {
			return fmt.Errorf("csvexport: row %d has %d fields, header has %d", i+1, len(row), len(t.Header))
		}
		if err := writeRow(bw, row); err != nil {
			return err
		}
	}

	return bw.Flush()
}

func writeRow(w *bufio.Writer, row []Field) error {
	for i, f := range row {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		if _, err := w.WriteString(encodeField(f)); err != nil {
			return err
		}
	}
	return w.WriteByte('\n')
}

func encodeField(f Field) string {
	if f.Numeric {
		return f.Text
	}
	return `"` + strings.ReplaceAll(f.Text, `"`, `""`) + `"`
}

// Parse reads an export back into its header and raw cell values.
func Parse(r io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 0

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("csvexport: parse: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("csvexport: parse: missing header row")
	}

	return records[0], records[1:], nil
}
