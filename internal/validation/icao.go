package validation

import (
	"context"

	"github.com/aeroaudit/flightcheck/internal/domain"
	"github.com/aeroaudit/flightcheck/internal/icao"
)

// CodeResolver validates a single airport code. Satisfied by *icao.Resolver.
type CodeResolver interface {
	Resolve(ctx context.Context, code string) icao.Resolution
}

// CheckICAO resolves the origin and destination code of every row. Blank
// cells are left to the missing-value pass.
func CheckICAO(ctx context.Context, rows []domain.FlightRow, resolver CodeResolver, tracker *domain.ErrorTracker) {
	for _, row := range rows {
		checkCode(ctx, row, domain.ColOriginICAO, resolver, tracker)
		checkCode(ctx, row, domain.ColDestinationICAO, resolver, tracker)
	}
}

func checkCode(ctx context.Context, row domain.FlightRow, column string, resolver CodeResolver, tracker *domain.ErrorTracker) {
	if row.Missing(column) {
		return
	}
	code := row.Text(column)
	resolution := resolver.Resolve(ctx, code)
	if !resolution.Valid {
		tracker.Add(domain.CategoryICAO, row.OriginalIndex, resolution.Reason, code, column)
	}
}
