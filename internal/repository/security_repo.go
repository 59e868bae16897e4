package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/epeers/secmaster/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// securityColumns is the SELECT list matching scanSecurity
const securityColumns = `secid, company_id, name, code, share_class, currency, round_lot_size,
		ticker, exchange_ticker, composite_ticker, alternate_tickers, previous_tickers,
		figi, composite_figi, share_class_figi, figi_uniqueid, cik,
		active, etf, delisted, primary_listing, primary_security,
		first_stock_price, last_stock_price, last_stock_price_adjustment, last_corporate_action,
		update_dt`

// upsertSecuritySQL inserts or updates on secid. secid itself is never in the
// SET list. When the ticker changes the old one is appended to previous_tickers.
const upsertSecuritySQL = `
	INSERT INTO securities (
		secid, company_id, name, code, share_class, currency, round_lot_size,
		ticker, exchange_ticker, composite_ticker, alternate_tickers,
		figi, composite_figi, share_class_figi, figi_uniqueid, cik,
		active, etf, delisted, primary_listing, primary_security,
		first_stock_price, last_stock_price, last_stock_price_adjustment, last_corporate_action,
		update_dt
	)
	VALUES (
		$1, $2, $3, $4, $5, $6, $7,
		$8, $9, $10, COALESCE($11::text[], '{}'),
		$12, $13, $14, $15, $16,
		$17, $18, $19, $20, $21,
		$22, $23, $24, $25,
		now()
	)
	ON CONFLICT (secid) DO UPDATE SET
		company_id = EXCLUDED.company_id,
		name = EXCLUDED.name,
		code = EXCLUDED.code,
		share_class = EXCLUDED.share_class,
		currency = EXCLUDED.currency,
		round_lot_size = EXCLUDED.round_lot_size,
		ticker = EXCLUDED.ticker,
		exchange_ticker = EXCLUDED.exchange_ticker,
		composite_ticker = EXCLUDED.composite_ticker,
		alternate_tickers = EXCLUDED.alternate_tickers,
		previous_tickers = CASE
			WHEN securities.ticker IS NOT NULL
				AND securities.ticker IS DISTINCT FROM EXCLUDED.ticker
				AND NOT (securities.ticker = ANY(securities.previous_tickers))
			THEN array_append(securities.previous_tickers, securities.ticker)
			ELSE securities.previous_tickers
		END,
		figi = EXCLUDED.figi,
		composite_figi = EXCLUDED.composite_figi,
		share_class_figi = EXCLUDED.share_class_figi,
		figi_uniqueid = EXCLUDED.figi_uniqueid,
		cik = EXCLUDED.cik,
		active = EXCLUDED.active,
		etf = EXCLUDED.etf,
		delisted = EXCLUDED.delisted,
		primary_listing = EXCLUDED.primary_listing,
		primary_security = EXCLUDED.primary_security,
		first_stock_price = EXCLUDED.first_stock_price,
		last_stock_price = EXCLUDED.last_stock_price,
		last_stock_price_adjustment = EXCLUDED.last_stock_price_adjustment,
		last_corporate_action = EXCLUDED.last_corporate_action,
		update_dt = now()
	RETURNING previous_tickers, update_dt, (xmax = 0) AS inserted
`

// SecurityRepository handles database operations for securities
type SecurityRepository struct {
	pool *pgxpool.Pool
}

// NewSecurityRepository creates a new SecurityRepository
func NewSecurityRepository(pool *pgxpool.Pool) *SecurityRepository {
	return &SecurityRepository{pool: pool}
}

func securityArgs(s *models.Security) []any {
	return []any{
		s.SecID, s.CompanyID, s.Name, s.Code, s.ShareClass, s.Currency, s.RoundLotSize,
		s.Ticker, s.ExchangeTicker, s.CompositeTicker, s.AltTickers,
		s.FIGI, s.CompositeFIGI, s.ShareClassFIGI, s.FIGIUniqueID, s.CIK,
		s.Active, s.ETF, s.Delisted, s.PrimaryListing, s.PrimarySecurity,
		s.FirstStockPrice, s.LastStockPrice, s.LastStockPriceAdjustment, s.LastCorporateAction,
	}
}

func scanSecurity(row pgx.Row) (*models.Security, error) {
	s := &models.Security{}
	err := row.Scan(
		&s.SecID, &s.CompanyID, &s.Name, &s.Code, &s.ShareClass, &s.Currency, &s.RoundLotSize,
		&s.Ticker, &s.ExchangeTicker, &s.CompositeTicker, &s.AltTickers, &s.PrevTickers,
		&s.FIGI, &s.CompositeFIGI, &s.ShareClassFIGI, &s.FIGIUniqueID, &s.CIK,
		&s.Active, &s.ETF, &s.Delisted, &s.PrimaryListing, &s.PrimarySecurity,
		&s.FirstStockPrice, &s.LastStockPrice, &s.LastStockPriceAdjustment, &s.LastCorporateAction,
		&s.UpdateDT,
	)
	return s, err
}

// Upsert inserts or updates a security keyed on secid. On return s carries the
// stored previous_tickers and update_dt. The bool reports whether a new row was created.
func (r *SecurityRepository) Upsert(ctx context.Context, s *models.Security) (bool, error) {
	if s.SecID == "" {
		return false, fmt.Errorf("secid is required")
	}
	var inserted bool
	err := r.pool.QueryRow(ctx, upsertSecuritySQL, securityArgs(s)...).Scan(&s.PrevTickers, &s.UpdateDT, &inserted)
	if err != nil {
		return false, fmt.Errorf("failed to upsert security %s: %w", s.SecID, classifyWrite(err))
	}
	return inserted, nil
}

// BulkUpsert upserts many securities in one batch.
// Returns the count of inserted and updated rows, plus any per-row errors.
func (r *SecurityRepository) BulkUpsert(ctx context.Context, securities []*models.Security) (inserted int, updated int, errs []error) {
	if len(securities) == 0 {
		return 0, 0, nil
	}

	batch := &pgx.Batch{}
	for _, s := range securities {
		batch.Queue(upsertSecuritySQL, securityArgs(s)...)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for _, s := range securities {
		var wasInsert bool
		if err := br.QueryRow().Scan(&s.PrevTickers, &s.UpdateDT, &wasInsert); err != nil {
			errs = append(errs, fmt.Errorf("failed to upsert security %s: %w", s.SecID, classifyWrite(err)))
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

// GetBySecID retrieves a security by its stable identifier
func (r *SecurityRepository) GetBySecID(ctx context.Context, secid string) (*models.Security, error) {
	query := `SELECT ` + securityColumns + ` FROM securities WHERE secid = $1`
	s, err := scanSecurity(r.pool.QueryRow(ctx, query, secid))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSecurityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get security: %w", err)
	}
	return s, nil
}

// GetByTicker resolves a ticker to a security. A current ticker match wins over
// a previous_tickers match, and active listings win over inactive ones.
func (r *SecurityRepository) GetByTicker(ctx context.Context, ticker string) (*models.Security, error) {
	query := `
		SELECT ` + securityColumns + `
		FROM securities
		WHERE ticker = $1 OR $1 = ANY(previous_tickers)
		ORDER BY (ticker = $1) DESC NULLS LAST, active DESC NULLS LAST, secid
		LIMIT 1
	`
	s, err := scanSecurity(r.pool.QueryRow(ctx, query, ticker))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSecurityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get security: %w", err)
	}
	return s, nil
}

// List returns securities ordered by secid
func (r *SecurityRepository) List(ctx context.Context, limit, offset int) ([]*models.Security, error) {
	query := `SELECT ` + securityColumns + ` FROM securities ORDER BY secid LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query securities: %w", err)
	}
	defer rows.Close()

	var result []*models.Security
	for rows.Next() {
		s, err := scanSecurity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan security: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// Delete removes a security. It fails with ErrSecurityHasPrices while any
// security_prices row references it.
func (r *SecurityRepository) Delete(ctx context.Context, secid string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM securities WHERE secid = $1`, secid)
	if err != nil {
		return fmt.Errorf("failed to delete security %s: %w", secid, classifyDelete(err))
	}
	if tag.RowsAffected() == 0 {
		return ErrSecurityNotFound
	}
	return nil
}
