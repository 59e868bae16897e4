package repository

import (
	"context"
	"fmt"

	"github.com/epeers/secmaster/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

const updateLogColumns = `id, table_name, start_dt, end_dt, elapsed_seconds,
			api_queries, api_requests, new_records, updated_records, inserted_records`

// UpdateLogRepository appends and reads update_log rows. There is no update or
// delete; the table rejects both.
type UpdateLogRepository struct {
	pool *pgxpool.Pool
}

// NewUpdateLogRepository creates a new UpdateLogRepository
func NewUpdateLogRepository(pool *pgxpool.Pool) *UpdateLogRepository {
	return &UpdateLogRepository{pool: pool}
}

// Record appends one run and sets run.ID. elapsed_seconds is recomputed from
// the two instants so it always satisfies the table CHECK.
func (r *UpdateLogRepository) Record(ctx context.Context, run *models.UpdateRun) (int64, error) {
	if run.TableName == "" {
		return 0, fmt.Errorf("table_name is required")
	}
	if run.End.Before(run.Start) {
		return 0, fmt.Errorf("end_dt %s is before start_dt %s", run.End, run.Start)
	}
	run.ElapsedSeconds = models.ElapsedSeconds(run.Start, run.End)

	query := `
		INSERT INTO update_log (table_name, start_dt, end_dt, elapsed_seconds,
			api_queries, api_requests, new_records, updated_records, inserted_records)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err := r.pool.QueryRow(ctx, query,
		run.TableName, run.Start, run.End, run.ElapsedSeconds,
		run.APIQueries, run.APIRequests, run.NewRecords, run.UpdatedRecords, run.InsertedRecords,
	).Scan(&run.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to record update run for %s: %w", run.TableName, classifyWrite(err))
	}
	return run.ID, nil
}

// List returns the most recent runs, newest first. An empty tableName matches every table.
func (r *UpdateLogRepository) List(ctx context.Context, tableName string, limit int) ([]*models.UpdateRun, error) {
	query := `
		SELECT ` + updateLogColumns + `
		FROM update_log
		WHERE $1::text = '' OR table_name = $1
		ORDER BY id DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, tableName, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query update_log: %w", err)
	}
	defer rows.Close()

	var result []*models.UpdateRun
	for rows.Next() {
		run := &models.UpdateRun{}
		if err := rows.Scan(&run.ID, &run.TableName, &run.Start, &run.End, &run.ElapsedSeconds,
			&run.APIQueries, &run.APIRequests, &run.NewRecords, &run.UpdatedRecords, &run.InsertedRecords); err != nil {
			return nil, fmt.Errorf("failed to scan update_log: %w", err)
		}
		result = append(result, run)
	}
	return result, rows.Err()
}
