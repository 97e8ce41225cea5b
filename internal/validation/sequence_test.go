package validation

import (
	"strings"
	"testing"

	"github.com/aeroaudit/flightcheck/internal/domain"
)

func legRow(index int, registration, origin, destination string) domain.FlightRow {
	return newRow(index, map[string]any{
		domain.ColRegistration:    registration,
		domain.ColOriginICAO:      origin,
		domain.ColDestinationICAO: destination,
	})
}

func TestCheckSequenceBreakBetweenTwoFlights(t *testing.T) {
	rows := []domain.FlightRow{
		legRow(0, "N1", "EGLL", "EHAM"),
		legRow(1, "N1", "LFPG", "EDDF"),
	}
	tracker := domain.NewErrorTracker()

	CheckSequence(rows, tracker)

	entries := tracker.Entries(domain.CategorySequence)
	if len(entries) != 3 {
		t.Fatalf("expected 3 sequence entries, got %d: %+v", len(entries), entries)
	}
	for _, entry := range entries {
		if !strings.Contains(entry.Reason, "EHAM → LFPG") {
			t.Fatalf("expected reason to carry the break pair, got %q", entry.Reason)
		}
	}
	if *entries[0].RowIndex != 0 || *entries[1].RowIndex != 0 || *entries[2].RowIndex != 1 {
		t.Fatalf("unexpected row attribution: %+v", entries)
	}
	if len(entries[1].Columns) != 1 || entries[1].Columns[0] != domain.ColDestinationICAO {
		t.Fatalf("expected first flight flagged on its destination, got %v", entries[1].Columns)
	}
	if len(entries[2].Columns) != 1 || entries[2].Columns[0] != domain.ColOriginICAO {
		t.Fatalf("expected second flight flagged on its origin, got %v", entries[2].Columns)
	}
}

func TestCheckSequenceContextFlights(t *testing.T) {
	rows := []domain.FlightRow{
		legRow(0, "N1", "EGLL", "EHAM"),
		legRow(1, "N1", "EHAM", "LFPG"),
		legRow(2, "N1", "EDDF", "LOWW"), // break: LFPG -> EDDF
		legRow(3, "N1", "LOWW", "EGLL"),
	}
	tracker := domain.NewErrorTracker()

	CheckSequence(rows, tracker)

	flagged := tracker.RowsInCategories(domain.CategorySequence)
	for _, want := range []int{0, 1, 2, 3} {
		if _, ok := flagged[want]; !ok {
			t.Fatalf("expected row %d implicated, flagged set %v", want, flagged)
		}
	}
	entries := tracker.Entries(domain.CategorySequence)
	if len(entries) != 5 {
		t.Fatalf("expected 5 entries for a mid-chain break, got %d", len(entries))
	}
}

func TestCheckSequenceSkipsTemporalErrorRows(t *testing.T) {
	rows := []domain.FlightRow{
		legRow(0, "N1", "EGLL", "EHAM"),
		legRow(1, "N1", "LFPG", "EDDF"), // bad clock, excluded from the walk
		legRow(2, "N1", "EHAM", "EGLL"),
	}
	tracker := domain.NewErrorTracker()
	tracker.Add(domain.CategoryTime, 1, "ATD (UTC) Block Off cannot convert to HH:MM format", "noon", domain.ColBlockOff)

	CheckSequence(rows, tracker)

	if tracker.HasCategory(domain.CategorySequence) {
		t.Fatalf("expected chain 0->2 to hold once row 1 is excluded, got %+v", tracker.Entries(domain.CategorySequence))
	}
}

func TestCheckSequenceIgnoresOtherAircraftAndBlanks(t *testing.T) {
	rows := []domain.FlightRow{
		legRow(0, "N1", "EGLL", "EHAM"),
		legRow(1, "N2", "LFPG", "EDDF"),
		legRow(2, "N1", "EHAM", "EGLL"),
		legRow(3, "N3", "LOWW", ""),
		legRow(4, "N3", "LSZH", "EGLL"), // prior destination blank, not a break
	}
	tracker := domain.NewErrorTracker()

	CheckSequence(rows, tracker)

	if tracker.HasCategory(domain.CategorySequence) {
		t.Fatalf("expected no sequence findings, got %+v", tracker.Entries(domain.CategorySequence))
	}
}

func TestCheckSequenceCaseInsensitiveMatch(t *testing.T) {
	rows := []domain.FlightRow{
		legRow(0, "N1", "EGLL", "eham"),
		legRow(1, "N1", "EHAM", "EGLL"),
	}
	tracker := domain.NewErrorTracker()

	CheckSequence(rows, tracker)

	if tracker.HasCategory(domain.CategorySequence) {
		t.Fatalf("expected case insensitive continuity, got %+v", tracker.Entries(domain.CategorySequence))
	}
}
