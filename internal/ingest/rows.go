package ingest

import (
	"strconv"
	"strings"

	"github.com/aeroaudit/flightcheck/internal/domain"
)

// numericColumns lists the cells coerced to float64 at ingest time. All
// other cells stay strings; the temporal pass rewrites dates and times in
// place.
var numericColumns = map[string]struct{}{
	domain.ColUpliftVolume:    {},
	domain.ColUpliftDensity:   {},
	domain.ColUpliftWeight:    {},
	domain.ColRemainingFuel:   {},
	domain.ColBlockOffFuel:    {},
	domain.ColBlockOnFuel:     {},
	domain.ColFuelConsumption: {},
}

// BuildRows converts a parsed table into flight rows. OriginalIndex is the
// zero based position in the upload, fixed before any filtering or sorting.
func BuildRows(table Table) []domain.FlightRow {
	rows := make([]domain.FlightRow, 0, len(table.Rows))
	for idx, record := range table.Rows {
		values := make(map[string]any, len(table.Headers))
		for col, header := range table.Headers {
			if header == "" {
				continue
			}
			values[header] = coerceCell(header, record[col])
		}
		rows = append(rows, domain.FlightRow{
			OriginalIndex: idx,
			Index:         idx,
			Values:        values,
		})
	}
	return rows
}

// coerceCell coerces fuel quantities to float64 when they parse cleanly.
// Unparseable values stay strings so the fuel pass can flag them with the
// source text intact.
func coerceCell(header, raw string) any {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	if _, numeric := numericColumns[header]; numeric {
		if value, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return value
		}
	}
	return trimmed
}

// ParseReference reads an optional ICAO to country reference table from a
// second parsed sheet with "ICAO" and "Country" columns.
func ParseReference(table Table) map[string]string {
	icaoCol, countryCol := -1, -1
	for idx, header := range table.Headers {
		switch strings.ToLower(strings.TrimSpace(header)) {
		case "icao":
			icaoCol = idx
		case "country", "member state":
			countryCol = idx
		}
	}
	if icaoCol < 0 || countryCol < 0 {
		return nil
	}

	reference := make(map[string]string)
	for _, row := range table.Rows {
		if icaoCol >= len(row) || countryCol >= len(row) {
			continue
		}
		code := strings.ToUpper(strings.TrimSpace(row[icaoCol]))
		country := strings.TrimSpace(row[countryCol])
		if code == "" || country == "" {
			continue
		}
		reference[code] = country
	}
	return reference
}
