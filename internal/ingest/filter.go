package ingest

import (
	"strings"

	"github.com/aeroaudit/flightcheck/internal/domain"
)

// FilterRows applies the optional flight-number prefix route filter ahead of
// validation. Rows not matching the accepted prefix are excluded entirely;
// they keep no presence in the run. Original indices are untouched.
func FilterRows(rows []domain.FlightRow, params domain.RunParams) []domain.FlightRow {
	prefix := strings.ToUpper(strings.TrimSpace(params.FlightPrefix))
	if prefix == "" {
		return rows
	}

	filtered := make([]domain.FlightRow, 0, len(rows))
	for _, row := range rows {
		flightNo := strings.ToUpper(row.Text(domain.ColFlightNo))
		if strings.HasPrefix(flightNo, prefix) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}
