package ingest

import (
	"errors"
	"testing"

	"github.com/aeroaudit/flightcheck/internal/domain"
)

func TestParseTableCSV(t *testing.T) {
	payload := []byte("Date,Flight No,Block Off Fuel\n01-02-2024,BA100,1000\n01-02-2024,BA101,950\n")
	table, err := ParseTable("upload.csv", payload)
	if err != nil {
		t.Fatalf("ParseTable failed: %v", err)
	}
	if len(table.Headers) != 3 || table.Headers[1] != "Flight No" {
		t.Fatalf("unexpected headers: %v", table.Headers)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 data rows, got %d", len(table.Rows))
	}
}

func TestParseTableCSVWithBOMAndBlankRows(t *testing.T) {
	payload := append([]byte{0xEF, 0xBB, 0xBF}, []byte(",,\nDate,Flight No\n01-02-2024,BA100\n,,\n")...)
	table, err := ParseTable("upload.csv", payload)
	if err != nil {
		t.Fatalf("ParseTable failed: %v", err)
	}
	if table.Headers[0] != "Date" {
		t.Fatalf("BOM or blank leading row leaked into headers: %v", table.Headers)
	}
	if len(table.Rows) != 1 {
		t.Fatalf("expected blank rows dropped, got %d rows", len(table.Rows))
	}
}

func TestParseTableShortRowsArePadded(t *testing.T) {
	payload := []byte("Date,Flight No,Block Off Fuel\n01-02-2024,BA100\n")
	table, err := ParseTable("upload.csv", payload)
	if err != nil {
		t.Fatalf("ParseTable failed: %v", err)
	}
	if len(table.Rows[0]) != 3 || table.Rows[0][2] != "" {
		t.Fatalf("expected padded row, got %v", table.Rows[0])
	}
}

func TestParseTableUnsupportedExtension(t *testing.T) {
	_, err := ParseTable("upload.pdf", []byte("x"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestBuildRowsCoercesFuelColumns(t *testing.T) {
	table := Table{
		Headers: []string{domain.ColFlightNo, domain.ColBlockOffFuel, domain.ColBlockOnFuel},
		Rows: [][]string{
			{"007", "1000.5", "lots"},
			{"BA100", "", "300"},
		},
	}

	rows := BuildRows(table)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	if got := rows[0].Value(domain.ColFlightNo); got != "007" {
		t.Fatalf("flight numbers must stay strings, got %v", got)
	}
	if got := rows[0].Value(domain.ColBlockOffFuel); got != 1000.5 {
		t.Fatalf("expected coerced float, got %v", got)
	}
	if got := rows[0].Value(domain.ColBlockOnFuel); got != "lots" {
		t.Fatalf("unparseable fuel cells keep their source text, got %v", got)
	}
	if got := rows[1].Value(domain.ColBlockOffFuel); got != nil {
		t.Fatalf("blank cells coerce to nil, got %v", got)
	}
	if rows[1].OriginalIndex != 1 {
		t.Fatalf("expected upload position as original index, got %d", rows[1].OriginalIndex)
	}
}

func TestParseReference(t *testing.T) {
	table := Table{
		Headers: []string{"ICAO", "Country"},
		Rows: [][]string{
			{"egll", "United Kingdom"},
			{"EHAM", "Netherlands"},
			{"", "Nowhere"},
		},
	}

	reference := ParseReference(table)
	if len(reference) != 2 {
		t.Fatalf("expected 2 entries, got %v", reference)
	}
	if reference["EGLL"] != "United Kingdom" {
		t.Fatalf("expected upper cased codes, got %v", reference)
	}

	if got := ParseReference(Table{Headers: []string{"Code", "Country"}}); got != nil {
		t.Fatalf("missing ICAO column must yield no reference, got %v", got)
	}
}

func TestFilterRowsPrefix(t *testing.T) {
	rows := []domain.FlightRow{
		{OriginalIndex: 0, Values: map[string]any{domain.ColFlightNo: "BA100"}},
		{OriginalIndex: 1, Values: map[string]any{domain.ColFlightNo: "ba200"}},
		{OriginalIndex: 2, Values: map[string]any{domain.ColFlightNo: "LH44"}},
	}

	filtered := FilterRows(rows, domain.RunParams{FlightPrefix: "ba"})
	if len(filtered) != 2 {
		t.Fatalf("expected case insensitive prefix match, got %d rows", len(filtered))
	}
	if filtered[1].OriginalIndex != 1 {
		t.Fatalf("original indices must survive filtering, got %d", filtered[1].OriginalIndex)
	}

	if got := FilterRows(rows, domain.RunParams{}); len(got) != 3 {
		t.Fatalf("empty prefix must pass everything, got %d", len(got))
	}
}
