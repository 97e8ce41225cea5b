package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/aeroaudit/flightcheck/internal/db"
	"github.com/aeroaudit/flightcheck/internal/domain"
)

type validationLogRepository struct {
	conn *db.Connection
}

// NewValidationLogRepository wires a repository backed by the shared
// connection; batch writes run inside one transaction.
func NewValidationLogRepository(conn *db.Connection) ValidationLogRepository {
	return &validationLogRepository{conn: conn}
}

func (r *validationLogRepository) RecordBatch(ctx context.Context, entries []domain.ValidationLogEntry) error {
	if r.conn == nil || r.conn.Pool == nil {
		return fmt.Errorf("validation log repository not initialized")
	}
	if len(entries) == 0 {
		return nil
	}

	return r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		for _, entry := range entries {
			var rowIndex any
			if entry.RowIndex != nil {
				rowIndex = *entry.RowIndex
			}

			if _, err := tx.Exec(
				ctx,
				`INSERT INTO validation_logs (upload_id, file_name, row_index, category, reason)
				 VALUES ($1, $2, $3, $4, $5)`,
				entry.UploadID,
				entry.FileName,
				rowIndex,
				string(entry.Category),
				entry.Reason,
			); err != nil {
				return fmt.Errorf("failed to record validation log: %w", err)
			}
		}
		return nil
	})
}

func (r *validationLogRepository) List(ctx context.Context, uploadID uuid.UUID, limit int, offset int) ([]domain.ValidationLogEntry, error) {
	if r.conn == nil || r.conn.Pool == nil {
		return nil, fmt.Errorf("validation log repository not initialized")
	}

	if limit <= 0 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.conn.Pool.Query(
		ctx,
		`SELECT id, upload_id, file_name, row_index, category, reason, created_at
		 FROM validation_logs
		 WHERE upload_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		uploadID,
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list validation logs: %w", err)
	}
	defer rows.Close()

	logs := []domain.ValidationLogEntry{}
	for rows.Next() {
		var (
			entry     domain.ValidationLogEntry
			rowIndex  pgtype.Int4
			category  string
			createdAt pgtype.Timestamptz
		)
		if scanErr := rows.Scan(
			&entry.ID,
			&entry.UploadID,
			&entry.FileName,
			&rowIndex,
			&category,
			&entry.Reason,
			&createdAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan validation log: %w", scanErr)
		}

		if rowIndex.Valid {
			value := int(rowIndex.Int32)
			entry.RowIndex = &value
		}
		entry.Category = domain.ErrorCategory(category)
		if createdAt.Valid {
			entry.CreatedAt = createdAt.Time
		}

		logs = append(logs, entry)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate validation logs: %w", rowsErr)
	}

	return logs, nil
}
