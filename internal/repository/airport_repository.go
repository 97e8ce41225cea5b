package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aeroaudit/flightcheck/internal/domain"
)

type airportRepository struct {
	pool *pgxpool.Pool
}

// NewAirportRepository wires a repository backed by pgxpool.
func NewAirportRepository(pool *pgxpool.Pool) AirportRepository {
	return &airportRepository{pool: pool}
}

func (r *airportRepository) LoadReference(ctx context.Context) (map[string]string, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("airport repository not initialized")
	}

	rows, err := r.pool.Query(ctx, `SELECT icao, country FROM reference_airports`)
	if err != nil {
		return nil, fmt.Errorf("failed to load reference airports: %w", err)
	}
	defer rows.Close()

	reference := make(map[string]string)
	for rows.Next() {
		var icao, country string
		if scanErr := rows.Scan(&icao, &country); scanErr != nil {
			return nil, fmt.Errorf("failed to scan reference airport: %w", scanErr)
		}
		reference[strings.ToUpper(icao)] = country
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate reference airports: %w", rowsErr)
	}

	return reference, nil
}

func (r *airportRepository) Append(ctx context.Context, airport domain.Airport) error {
	if r.pool == nil {
		return fmt.Errorf("airport repository not initialized")
	}

	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO reference_airports (icao, name, country, latitude, longitude)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (icao) DO UPDATE
		 SET name = EXCLUDED.name,
		     country = EXCLUDED.country,
		     latitude = EXCLUDED.latitude,
		     longitude = EXCLUDED.longitude`,
		strings.ToUpper(strings.TrimSpace(airport.ICAO)),
		airport.Name,
		airport.Country,
		airport.Latitude,
		airport.Longitude,
	)
	if err != nil {
		return fmt.Errorf("failed to append reference airport: %w", err)
	}
	return nil
}
