package validation

import (
	"fmt"

	"github.com/aeroaudit/flightcheck/internal/domain"
)

// CheckSchema verifies that every required column for the selected fuel
// accounting method is present in the upload headers. Each miss is recorded
// as a file level ColumnMissing finding. Returns false when the run must
// halt.
func CheckSchema(headers []string, method domain.FuelMethod, tracker *domain.ErrorTracker) bool {
	present := make(map[string]struct{}, len(headers))
	for _, header := range headers {
		present[header] = struct{}{}
	}

	ok := true
	for _, column := range domain.RequiredColumns(method) {
		if _, found := present[column]; !found {
			tracker.AddFileError(domain.CategoryColumnMissing, fmt.Sprintf("required column %q is missing", column), column)
			ok = false
		}
	}
	return ok
}

// CheckMissing records a Missing finding for every required cell that is
// null or blank after trimming. Runs once per (row, column) and never halts
// later passes.
func CheckMissing(rows []domain.FlightRow, method domain.FuelMethod, tracker *domain.ErrorTracker) {
	required := domain.RequiredColumns(method)
	for _, row := range rows {
		for _, column := range required {
			if row.Missing(column) {
				tracker.Add(domain.CategoryMissing, row.OriginalIndex, fmt.Sprintf("%s is missing", column), nil, column)
			}
		}
	}
}
