package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

type invalidCodeRepository struct {
	pool *pgxpool.Pool
}

// NewInvalidCodeRepository wires a repository backed by pgxpool.
func NewInvalidCodeRepository(pool *pgxpool.Pool) InvalidCodeRepository {
	return &invalidCodeRepository{pool: pool}
}

func (r *invalidCodeRepository) Load(ctx context.Context) (map[string]struct{}, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("invalid code repository not initialized")
	}

	rows, err := r.pool.Query(ctx, `SELECT code FROM invalid_icao_codes`)
	if err != nil {
		return nil, fmt.Errorf("failed to load invalid codes: %w", err)
	}
	defer rows.Close()

	codes := make(map[string]struct{})
	for rows.Next() {
		var code string
		if scanErr := rows.Scan(&code); scanErr != nil {
			return nil, fmt.Errorf("failed to scan invalid code: %w", scanErr)
		}
		codes[strings.ToUpper(code)] = struct{}{}
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate invalid codes: %w", rowsErr)
	}

	return codes, nil
}

func (r *invalidCodeRepository) Add(ctx context.Context, code string) error {
	if r.pool == nil {
		return fmt.Errorf("invalid code repository not initialized")
	}

	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO invalid_icao_codes (code) VALUES ($1) ON CONFLICT (code) DO NOTHING`,
		strings.ToUpper(strings.TrimSpace(code)),
	)
	if err != nil {
		return fmt.Errorf("failed to record invalid code: %w", err)
	}
	return nil
}
