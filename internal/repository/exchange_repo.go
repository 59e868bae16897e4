package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/epeers/secmaster/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const exchangeColumns = `excid, mic, acronym, name, country, country_code, city, website,
		first_stock_price_date, last_stock_price_date`

const upsertExchangeSQL = `
	INSERT INTO exchanges (excid, mic, acronym, name, country, country_code, city, website,
		first_stock_price_date, last_stock_price_date)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (excid, mic) DO UPDATE SET
		acronym = EXCLUDED.acronym,
		name = EXCLUDED.name,
		country = EXCLUDED.country,
		country_code = EXCLUDED.country_code,
		city = EXCLUDED.city,
		website = EXCLUDED.website,
		first_stock_price_date = EXCLUDED.first_stock_price_date,
		last_stock_price_date = EXCLUDED.last_stock_price_date
	RETURNING (xmax = 0) AS inserted
`

// ExchangeRepository handles database operations for exchanges
type ExchangeRepository struct {
	pool *pgxpool.Pool
}

// NewExchangeRepository creates a new ExchangeRepository
func NewExchangeRepository(pool *pgxpool.Pool) *ExchangeRepository {
	return &ExchangeRepository{pool: pool}
}

func exchangeArgs(e *models.Exchange) []any {
	return []any{e.ExcID, e.MIC, e.Acronym, e.Name, e.Country, e.CountryCode, e.City, e.Website,
		e.FirstStockPriceDate, e.LastStockPriceDate}
}

func scanExchange(row pgx.Row) (*models.Exchange, error) {
	e := &models.Exchange{}
	err := row.Scan(&e.ExcID, &e.MIC, &e.Acronym, &e.Name, &e.Country, &e.CountryCode, &e.City, &e.Website,
		&e.FirstStockPriceDate, &e.LastStockPriceDate)
	return e, err
}

// Upsert inserts or updates one (excid, mic) row.
// The bool reports whether a new row was created.
func (r *ExchangeRepository) Upsert(ctx context.Context, e *models.Exchange) (bool, error) {
	if e.ExcID == "" || e.MIC == "" {
		return false, fmt.Errorf("excid and mic are required")
	}
	var inserted bool
	if err := r.pool.QueryRow(ctx, upsertExchangeSQL, exchangeArgs(e)...).Scan(&inserted); err != nil {
		return false, fmt.Errorf("failed to upsert exchange %s/%s: %w", e.ExcID, e.MIC, classifyWrite(err))
	}
	return inserted, nil
}

// BulkUpsert upserts many exchange rows in one batch
func (r *ExchangeRepository) BulkUpsert(ctx context.Context, exchanges []*models.Exchange) (inserted int, updated int, errs []error) {
	if len(exchanges) == 0 {
		return 0, 0, nil
	}

	batch := &pgx.Batch{}
	for _, e := range exchanges {
		batch.Queue(upsertExchangeSQL, exchangeArgs(e)...)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for _, e := range exchanges {
		var wasInsert bool
		if err := br.QueryRow().Scan(&wasInsert); err != nil {
			errs = append(errs, fmt.Errorf("failed to upsert exchange %s/%s: %w", e.ExcID, e.MIC, classifyWrite(err)))
			continue
		}
		if wasInsert {
			inserted++
		} else {
			updated++
		}
	}
	return inserted, updated, errs
}

// GetByExcID returns every MIC row for an exchange, ordered by mic
func (r *ExchangeRepository) GetByExcID(ctx context.Context, excid string) ([]*models.Exchange, error) {
	query := `SELECT ` + exchangeColumns + ` FROM exchanges WHERE excid = $1 ORDER BY mic`
	result, err := r.query(ctx, query, excid)
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, ErrExchangeNotFound
	}
	return result, nil
}

// Get returns a single (excid, mic) row
func (r *ExchangeRepository) Get(ctx context.Context, excid, mic string) (*models.Exchange, error) {
	query := `SELECT ` + exchangeColumns + ` FROM exchanges WHERE excid = $1 AND mic = $2`
	e, err := scanExchange(r.pool.QueryRow(ctx, query, excid, mic))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrExchangeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get exchange: %w", err)
	}
	return e, nil
}

// GetAll returns all exchange rows
func (r *ExchangeRepository) GetAll(ctx context.Context) ([]*models.Exchange, error) {
	return r.query(ctx, `SELECT `+exchangeColumns+` FROM exchanges ORDER BY excid, mic`)
}

func (r *ExchangeRepository) query(ctx context.Context, query string, args ...any) ([]*models.Exchange, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query exchanges: %w", err)
	}
	defer rows.Close()

	var result []*models.Exchange
	for rows.Next() {
		e, err := scanExchange(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan exchange: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}
