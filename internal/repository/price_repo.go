package repository

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/epeers/secmaster/internal/database"
	"github.com/epeers/secmaster/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const priceColumns = `secid, date, frequency, intraperiod, open, high, low, close, volume,
		adj_open, adj_high, adj_low, adj_close, adj_volume`

// upsertPriceSQL amends in place on the natural key. Last committed write wins.
const upsertPriceSQL = `
	INSERT INTO security_prices (secid, date, frequency, intraperiod, open, high, low, close, volume,
		adj_open, adj_high, adj_low, adj_close, adj_volume)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	ON CONFLICT (secid, date, frequency, intraperiod) DO UPDATE SET
		open = EXCLUDED.open,
		high = EXCLUDED.high,
		low = EXCLUDED.low,
		close = EXCLUDED.close,
		volume = EXCLUDED.volume,
		adj_open = EXCLUDED.adj_open,
		adj_high = EXCLUDED.adj_high,
		adj_low = EXCLUDED.adj_low,
		adj_close = EXCLUDED.adj_close,
		adj_volume = EXCLUDED.adj_volume
	RETURNING (xmax = 0) AS inserted
`

// extendCoverageSQL widens a prices_log row to include [$2, $3]. LEAST and
// GREATEST ignore NULLs so an empty row takes the new bounds.
const extendCoverageSQL = `
	INSERT INTO prices_log (secid, min_date, max_date, update_dt)
	VALUES ($1, $2, $3, now())
	ON CONFLICT (secid) DO UPDATE SET
		min_date = LEAST(prices_log.min_date, EXCLUDED.min_date),
		max_date = GREATEST(prices_log.max_date, EXCLUDED.max_date),
		update_dt = now()
`

// PriceRepository handles database operations for security_prices
type PriceRepository struct {
	pool *pgxpool.Pool
}

// NewPriceRepository creates a new PriceRepository
func NewPriceRepository(pool *pgxpool.Pool) *PriceRepository {
	return &PriceRepository{pool: pool}
}

// UpsertResult counts the rows a price upsert created and amended
type UpsertResult struct {
	Inserted int
	Updated  int
}

func priceArgs(p *models.SecurityPrice) []any {
	return []any{
		p.SecID, p.Date, string(p.Frequency), p.Intraperiod,
		p.Open, p.High, p.Low, p.Close, p.Volume,
		p.AdjOpen, p.AdjHigh, p.AdjLow, p.AdjClose, p.AdjVolume,
	}
}

func scanPrice(row pgx.Row) (models.SecurityPrice, error) {
	var p models.SecurityPrice
	var freq string
	err := row.Scan(
		&p.SecID, &p.Date, &freq, &p.Intraperiod,
		&p.Open, &p.High, &p.Low, &p.Close, &p.Volume,
		&p.AdjOpen, &p.AdjHigh, &p.AdjLow, &p.AdjClose, &p.AdjVolume,
	)
	p.Frequency = models.Frequency(freq)
	return p, err
}

// Upsert writes a batch of bars in one transaction. A bar whose key already
// exists is amended. The coverage row of every touched security is extended in
// the same transaction. Any failure rolls back the whole batch; a bar for an
// unregistered secid fails with ErrUnknownSecurity.
//
// Rows are written in key order and coverage rows in secid order, so
// concurrent batches over the same keys take their row locks in the same
// order and queue behind each other instead of deadlocking.
func (r *PriceRepository) Upsert(ctx context.Context, prices []models.SecurityPrice) (UpsertResult, error) {
	var res UpsertResult
	if len(prices) == 0 {
		return res, nil
	}
	prices = sortedByKey(prices)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for i := range prices {
		batch.Queue(upsertPriceSQL, priceArgs(&prices[i])...)
	}

	br := tx.SendBatch(ctx, batch)
	for i := range prices {
		var inserted bool
		if err := br.QueryRow().Scan(&inserted); err != nil {
			br.Close()
			p := prices[i]
			return UpsertResult{}, fmt.Errorf("failed to upsert price %s %s %s: %w",
				p.SecID, p.Date.Format(models.DateLayout), p.Frequency, classifyWrite(err))
		}
		if inserted {
			res.Inserted++
		} else {
			res.Updated++
		}
	}
	if err := br.Close(); err != nil {
		return UpsertResult{}, fmt.Errorf("failed to upsert prices: %w", classifyWrite(err))
	}

	for _, w := range coverageBounds(prices) {
		if err := extendCoverage(ctx, tx, w.secid, w.min, w.max); err != nil {
			return UpsertResult{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return UpsertResult{}, fmt.Errorf("failed to commit prices: %w", classifyWrite(err))
	}
	return res, nil
}

type coverageBound struct {
	secid    string
	min, max time.Time
}

// comparePriceKeys orders bars by (secid, date, frequency, intraperiod)
func comparePriceKeys(a, b models.SecurityPrice) int {
	if c := strings.Compare(a.SecID, b.SecID); c != 0 {
		return c
	}
	if c := a.Date.Compare(b.Date); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Frequency, b.Frequency); c != 0 {
		return c
	}
	switch {
	case a.Intraperiod == b.Intraperiod:
		return 0
	case !a.Intraperiod:
		return -1
	}
	return 1
}

// sortedByKey returns a key-ordered copy; the caller's slice is left as is.
func sortedByKey(prices []models.SecurityPrice) []models.SecurityPrice {
	out := slices.Clone(prices)
	slices.SortStableFunc(out, comparePriceKeys)
	return out
}

// coverageBounds returns the min and max bar date per secid, ordered by secid.
func coverageBounds(prices []models.SecurityPrice) []coverageBound {
	idx := make(map[string]int)
	var bounds []coverageBound
	for _, p := range prices {
		i, ok := idx[p.SecID]
		if !ok {
			idx[p.SecID] = len(bounds)
			bounds = append(bounds, coverageBound{secid: p.SecID, min: p.Date, max: p.Date})
			continue
		}
		if p.Date.Before(bounds[i].min) {
			bounds[i].min = p.Date
		}
		if p.Date.After(bounds[i].max) {
			bounds[i].max = p.Date
		}
	}
	slices.SortFunc(bounds, func(a, b coverageBound) int {
		return strings.Compare(a.secid, b.secid)
	})
	return bounds
}

func extendCoverage(ctx context.Context, db database.Execer, secid string, minDate, maxDate time.Time) error {
	if _, err := db.Exec(ctx, extendCoverageSQL, secid, minDate, maxDate); err != nil {
		return fmt.Errorf("failed to extend coverage for %s: %w", secid, classifyWrite(err))
	}
	return nil
}

// GetRange retrieves bars for a security within [start, end], oldest first
func (r *PriceRepository) GetRange(ctx context.Context, secid string, start, end time.Time, freq models.Frequency, intraperiod bool) ([]models.SecurityPrice, error) {
	query := `
		SELECT ` + priceColumns + `
		FROM security_prices
		WHERE secid = $1 AND date >= $2 AND date <= $3 AND frequency = $4 AND intraperiod = $5
		ORDER BY date ASC
	`
	rows, err := r.pool.Query(ctx, query, secid, start, end, string(freq), intraperiod)
	if err != nil {
		return nil, fmt.Errorf("failed to query prices: %w", err)
	}
	defer rows.Close()

	var prices []models.SecurityPrice
	for rows.Next() {
		p, err := scanPrice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan price data: %w", err)
		}
		prices = append(prices, p)
	}
	return prices, rows.Err()
}

// GetLatest retrieves the most recent non-intraperiod bar, or nil if the
// security has none at that frequency.
func (r *PriceRepository) GetLatest(ctx context.Context, secid string, freq models.Frequency) (*models.SecurityPrice, error) {
	query := `
		SELECT ` + priceColumns + `
		FROM security_prices
		WHERE secid = $1 AND frequency = $2 AND NOT intraperiod
		ORDER BY date DESC
		LIMIT 1
	`
	p, err := scanPrice(r.pool.QueryRow(ctx, query, secid, string(freq)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest price: %w", err)
	}
	return &p, nil
}
