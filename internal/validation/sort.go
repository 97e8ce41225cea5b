package validation

import (
	"sort"
	"time"

	"github.com/aeroaudit/flightcheck/internal/domain"
)

// SortRows orders rows by aircraft registration, date, then block-off time,
// and assigns the post-sort Index while preserving OriginalIndex. Cells that
// do not parse sort as zero values; the temporal pass reports them.
func SortRows(rows []domain.FlightRow, convention domain.DateConvention) []domain.FlightRow {
	sorted := make([]domain.FlightRow, len(rows))
	copy(sorted, rows)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]

		regA := a.Text(domain.ColRegistration)
		regB := b.Text(domain.ColRegistration)
		if regA != regB {
			return regA < regB
		}

		dateA := sortableDate(a, convention)
		dateB := sortableDate(b, convention)
		if !dateA.Equal(dateB) {
			return dateA.Before(dateB)
		}

		return sortableTime(a) < sortableTime(b)
	})

	for i := range sorted {
		sorted[i].Index = i
	}
	return sorted
}

func sortableDate(row domain.FlightRow, convention domain.DateConvention) time.Time {
	parsed, err := ParseDate(row.Text(domain.ColDate), convention)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

func sortableTime(row domain.FlightRow) string {
	normalized, ok := NormalizeTime(row.Text(domain.ColBlockOff))
	if !ok {
		return ""
	}
	return normalized
}
