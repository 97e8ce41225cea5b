package domain

import "testing"

func TestColumnAbbreviationRoundTrip(t *testing.T) {
	for _, column := range RequiredColumns(FuelMethodBlockBalance) {
		short := AbbreviateColumn(column)
		if short == column {
			t.Fatalf("expected an abbreviation for %q", column)
		}
		if got := ExpandColumn(short); got != column {
			t.Fatalf("expand(abbreviate(%q)) = %q", column, got)
		}
	}
	for _, column := range FuelColumns(FuelMethodUpliftBalance) {
		if got := ExpandColumn(AbbreviateColumn(column)); got != column {
			t.Fatalf("expand(abbreviate(%q)) = %q", column, got)
		}
	}
}

func TestColumnAbbreviationUnknownPassThrough(t *testing.T) {
	if got := AbbreviateColumn("Crew Names"); got != "Crew Names" {
		t.Fatalf("unknown column must pass through, got %q", got)
	}
	if got := ExpandColumn("xy"); got != "xy" {
		t.Fatalf("unknown short form must pass through, got %q", got)
	}
}

func TestReportCompactExpandRoundTrip(t *testing.T) {
	report := ErrorReport{
		Summary:  ReportSummary{TotalErrors: 1, ErrorRows: 1, Categories: map[string]int{"Fuel": 1}},
		RowsData: map[int]map[string]any{0: {ColDate: "01-02-2024", ColFuelConsumption: 700.0, "Notes": "ok"}},
	}

	compact := report.Compact()
	fields := compact.RowsData[0]
	if _, ok := fields["d"]; !ok {
		t.Fatalf("expected Date abbreviated to d, got %v", fields)
	}
	if _, ok := fields["fc"]; !ok {
		t.Fatalf("expected Fuel Consumption abbreviated to fc, got %v", fields)
	}
	if _, ok := fields["Notes"]; !ok {
		t.Fatalf("expected unmapped column to pass through, got %v", fields)
	}

	expanded := compact.Expand()
	restored := expanded.RowsData[0]
	for column, value := range report.RowsData[0] {
		if restored[column] != value {
			t.Fatalf("round trip lost %q: %v != %v", column, restored[column], value)
		}
	}
}

func TestTrackerResetClearsState(t *testing.T) {
	tracker := NewErrorTracker()
	tracker.Add(CategoryFuel, 3, "Fuel Consumption deviates", 650.0, ColFuelConsumption)
	tracker.AddFileError(CategoryColumnMissing, `required column "Date" is missing`, ColDate)

	if tracker.TotalErrors() != 2 || !tracker.RowHasError(3) {
		t.Fatalf("tracker did not record findings: %d", tracker.TotalErrors())
	}

	tracker.Reset()

	if tracker.TotalErrors() != 0 || tracker.RowHasError(3) || len(tracker.Categories()) != 0 {
		t.Fatalf("expected a clean tracker after reset")
	}
}

func TestTrackerCategoriesDeterministicOrder(t *testing.T) {
	tracker := NewErrorTracker()
	tracker.Add(CategoryTime, 0, "ATD (UTC) Block Off cannot convert to HH:MM format", "noon", ColBlockOff)
	tracker.Add(CategoryFuel, 1, "Fuel Consumption deviates", 650.0, ColFuelConsumption)
	tracker.Add(CategoryDate, 2, "cannot parse date", "x", ColDate)

	got := tracker.Categories()
	want := []ErrorCategory{CategoryDate, CategoryFuel, CategoryTime}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
