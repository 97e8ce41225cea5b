package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

type countryAliasRepository struct {
	pool *pgxpool.Pool
}

// NewCountryAliasRepository wires a repository backed by pgxpool.
func NewCountryAliasRepository(pool *pgxpool.Pool) CountryAliasRepository {
	return &countryAliasRepository{pool: pool}
}

func (r *countryAliasRepository) Load(ctx context.Context) (map[string][]string, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("country alias repository not initialized")
	}

	rows, err := r.pool.Query(ctx, `SELECT official_name, alias FROM country_aliases ORDER BY official_name, alias`)
	if err != nil {
		return nil, fmt.Errorf("failed to load country aliases: %w", err)
	}
	defer rows.Close()

	aliases := make(map[string][]string)
	for rows.Next() {
		var official, alias string
		if scanErr := rows.Scan(&official, &alias); scanErr != nil {
			return nil, fmt.Errorf("failed to scan country alias: %w", scanErr)
		}
		aliases[official] = append(aliases[official], alias)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate country aliases: %w", rowsErr)
	}

	return aliases, nil
}

func (r *countryAliasRepository) Add(ctx context.Context, official, alias string) error {
	if r.pool == nil {
		return fmt.Errorf("country alias repository not initialized")
	}

	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO country_aliases (official_name, alias)
		 VALUES ($1, $2)
		 ON CONFLICT (official_name, alias) DO NOTHING`,
		strings.TrimSpace(official),
		strings.TrimSpace(alias),
	)
	if err != nil {
		return fmt.Errorf("failed to record country alias: %w", err)
	}
	return nil
}
