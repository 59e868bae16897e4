package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/epeers/secmaster/internal/database"
	"github.com/epeers/secmaster/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

const pricesLogColumns = `secid, min_date, max_date, update_dt, check_dt`

// PricesLogRepository handles the derived prices_log coverage table
type PricesLogRepository struct {
	pool *pgxpool.Pool
}

// NewPricesLogRepository creates a new PricesLogRepository
func NewPricesLogRepository(pool *pgxpool.Pool) *PricesLogRepository {
	return &PricesLogRepository{pool: pool}
}

func scanPricesLog(row pgx.Row) (*models.PricesLog, error) {
	pl := &models.PricesLog{}
	err := row.Scan(&pl.SecID, &pl.MinDate, &pl.MaxDate, &pl.UpdateDT, &pl.CheckDT)
	return pl, err
}

// Rebuild drops prices_log and recreates it from security_prices.
//
// Everything happens in one transaction. The SHARE lock keeps price writers
// out until commit so the aggregate is exact, and the DROP/CREATE is not
// visible to other sessions until then. update_dt and check_dt are not
// carried over. Returns the number of rows written.
func (r *PricesLogRepository) Rebuild(ctx context.Context) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `LOCK TABLE security_prices IN SHARE MODE`); err != nil {
		return 0, fmt.Errorf("failed to lock security_prices: %w", err)
	}

	exists, err := database.TableExists(ctx, tx, database.TablePricesLog)
	if err != nil {
		return 0, err
	}
	if exists {
		if _, err := tx.Exec(ctx, `DROP TABLE prices_log`); err != nil {
			return 0, fmt.Errorf("failed to drop prices_log: %w", err)
		}
	} else {
		log.Warn("prices_log missing, creating it")
	}

	if _, err := tx.Exec(ctx, database.CreatePricesLogSQL); err != nil {
		return 0, fmt.Errorf("failed to create prices_log: %w", err)
	}

	tag, err := tx.Exec(ctx, `
		INSERT INTO prices_log (secid, min_date, max_date)
		SELECT secid, MIN(date), MAX(date)
		FROM security_prices
		GROUP BY secid
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to populate prices_log: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit prices_log rebuild: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Get returns the coverage row for a security, or nil if it has none
func (r *PricesLogRepository) Get(ctx context.Context, secid string) (*models.PricesLog, error) {
	query := `SELECT ` + pricesLogColumns + ` FROM prices_log WHERE secid = $1`
	pl, err := scanPricesLog(r.pool.QueryRow(ctx, query, secid))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prices_log: %w", err)
	}
	return pl, nil
}

// List returns coverage rows ordered by secid
func (r *PricesLogRepository) List(ctx context.Context, limit, offset int) ([]*models.PricesLog, error) {
	query := `SELECT ` + pricesLogColumns + ` FROM prices_log ORDER BY secid LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query prices_log: %w", err)
	}
	defer rows.Close()

	var result []*models.PricesLog
	for rows.Next() {
		pl, err := scanPricesLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prices_log: %w", err)
		}
		result = append(result, pl)
	}
	return result, rows.Err()
}

// MarkChecked records that the gap planner looked at a security. Securities
// without a coverage row are left alone.
func (r *PricesLogRepository) MarkChecked(ctx context.Context, secid string, at time.Time) error {
	if _, err := r.pool.Exec(ctx, `UPDATE prices_log SET check_dt = $2 WHERE secid = $1`, secid, at); err != nil {
		return fmt.Errorf("failed to mark %s checked: %w", secid, err)
	}
	return nil
}
