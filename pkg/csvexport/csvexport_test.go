package csvexport

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func sampleTable() Table {
	t := Table{Header: []string{"Invoice Number", "Customer", "Total", "Items"}}
	t.AddRow(String("INV-0001"), String(`Jane "JJ" Doe`), Number(decimal.RequireFromString("60.5")), Int(3))
	t.AddRow(String("INV-0002"), String("Smith, Bob"), Number(decimal.RequireFromString("1234.75")), Int(1))
	t.AddRow(String("INV-0003"), String(""), Number(decimal.Zero), Int(0))
	return t
}

func TestWriteQuotesStringsAndLeavesNumbersBare(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleTable()); err != nil {
		t.Fatalf("write: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	want := []string{
		`"Invoice Number","Customer","Total","Items"`,
		`"INV-0001","Jane ""JJ"" Doe",60.5,3`,
		`"INV-0002","Smith, Bob",1234.75,1`,
		`"INV-0003","",0,0`,
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %q", len(want), len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: expected %s, got %s", i, want[i], lines[i])
		}
	}
}

func TestExportRoundTrip(t *testing.T) {
	table := sampleTable()

	var buf bytes.Buffer
	if err := Write(&buf, table); err != nil {
		t.Fatalf("write: %v", err)
	}

	header, rows, err := Parse(&buf)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if strings.Join(header, "|") != strings.Join(table.Header, "|") {
		t.Fatalf("header mismatch: %v", header)
	}
	if len(rows) != len(table.Rows) {
		t.Fatalf("expected %d rows, got %d", len(table.Rows), len(rows))
	}
	for i, row := range rows {
		for j, cell := range row {
			if cell != table.Rows[i][j].Text {
				t.Fatalf("row %d col %d: expected %q, got %q", i, j, table.Rows[i][j].Text, cell)
			}
		}
	}
}

func TestWriteRejectsRaggedRows(t *testing.T) {
	table := Table{Header: []string{"a", "b"}}
	table.AddRow(String("only one"))
	if err := Write(&bytes.Buffer{}, table); err == nil {
		t.Fatalf("expected error for ragged row")
	}
}

func TestParseRequiresHeader(t *testing.T) {
	if _, _, err := Parse(strings.NewReader("")); err == nil {
		t.Fatalf("expected error for empty input")
	}
}

func TestXLSXRoundTrip(t *testing.T) {
	table := sampleTable()

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, "Invoices", table); err != nil {
		t.Fatalf("write xlsx: %v", err)
	}

	rows, err := ReadXLSX(&buf)
	if err != nil {
		t.Fatalf("read xlsx: %v", err)
	}
	if len(rows) != len(table.Rows)+1 {
		t.Fatalf("expected %d rows, got %d", len(table.Rows)+1, len(rows))
	}
	if rows[0][0] != "Invoice Number" || rows[1][1] != `Jane "JJ" Doe` || rows[2][2] != "1234.75" {
		t.Fatalf("unexpected workbook content: %v", rows)
	}
}
