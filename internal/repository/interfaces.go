package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/aeroaudit/flightcheck/internal/domain"
)

// InvalidCodeRepository persists the set of airport codes known to be
// invalid. A code present in the set is authoritative and short-circuits
// external lookup.
type InvalidCodeRepository interface {
	Load(ctx context.Context) (map[string]struct{}, error)
	Add(ctx context.Context, code string) error
}

// CountryAliasRepository persists the mapping from official state name to
// its known alternate names. The table grows monotonically.
type CountryAliasRepository interface {
	Load(ctx context.Context) (map[string][]string, error)
	Add(ctx context.Context, official, alias string) error
}

// AirportRepository persists the reference airport table feeding the
// run-local ICAO map.
type AirportRepository interface {
	LoadReference(ctx context.Context) (map[string]string, error)
	Append(ctx context.Context, airport domain.Airport) error
}

// ValidationLogRepository records findings for audit. A run's findings are
// written as one batch so the audit trail never holds a partial run.
type ValidationLogRepository interface {
	RecordBatch(ctx context.Context, entries []domain.ValidationLogEntry) error
	List(ctx context.Context, uploadID uuid.UUID, limit, offset int) ([]domain.ValidationLogEntry, error)
}
