package services

import (
	"context"
	"fmt"
	"time"

	"github.com/epeers/secmaster/internal/cache"
	"github.com/epeers/secmaster/internal/database"
	"github.com/epeers/secmaster/internal/models"
	"github.com/epeers/secmaster/internal/util"
	log "github.com/sirupsen/logrus"
)

// DefaultBackfillYears bounds the first window for a security with no known
// first trading date.
const DefaultBackfillYears = 20

// CoverageStore reads and rebuilds prices_log
type CoverageStore interface {
	Rebuild(ctx context.Context) (int64, error)
	Get(ctx context.Context, secid string) (*models.PricesLog, error)
	MarkChecked(ctx context.Context, secid string, at time.Time) error
}

// SecurityReader looks up a single security
type SecurityReader interface {
	GetBySecID(ctx context.Context, secid string) (*models.Security, error)
}

// CoverageService maintains prices_log and plans backfills from it
type CoverageService struct {
	coverage   CoverageStore
	securities SecurityReader
	runs       RunRecorder
	memCache   *cache.MemoryCache
	now        func() time.Time
}

// NewCoverageService creates a new CoverageService
func NewCoverageService(coverage CoverageStore, securities SecurityReader, runs RunRecorder, memCache *cache.MemoryCache) *CoverageService {
	return &CoverageService{
		coverage:   coverage,
		securities: securities,
		runs:       runs,
		memCache:   memCache,
		now:        time.Now,
	}
}

// Rebuild recomputes prices_log from security_prices and audits the run.
func (s *CoverageService) Rebuild(ctx context.Context) (*models.RebuildResponse, error) {
	defer TrackTime("RebuildPricesLog", time.Now())
	timer := StartRun(database.TablePricesLog)

	rows, err := s.coverage.Rebuild(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild prices_log: %w", err)
	}
	if s.memCache != nil {
		s.memCache.ClearCoverage()
	}
	Warnf(ctx, models.WarnCoverageRebuilt, "update_dt and check_dt were reset on %d rows", rows)

	run := timer.Finish()
	run.NewRecords = int32Ptr(int(rows))
	run.InsertedRecords = int32Ptr(int(rows))
	id, err := s.runs.Record(ctx, run)
	if err != nil {
		return nil, err
	}

	log.Infof("Rebuilt prices_log: %d rows in %ss", rows, run.ElapsedSeconds)
	return &models.RebuildResponse{Rows: rows, UpdateLogID: id}, nil
}

// Coverage returns the prices_log row for a security, or nil if it has no prices.
func (s *CoverageService) Coverage(ctx context.Context, secid string) (*models.PricesLog, error) {
	if s.memCache != nil {
		if row, ok := s.memCache.GetCoverage(secid); ok {
			return row, nil
		}
	}
	row, err := s.coverage.Get(ctx, secid)
	if err != nil {
		return nil, err
	}
	if s.memCache != nil {
		s.memCache.SetCoverage(secid, row)
	}
	return row, nil
}

func (s *CoverageService) security(ctx context.Context, secid string) (*models.Security, error) {
	if s.memCache != nil {
		if sec, ok := s.memCache.GetSecurity(secid); ok {
			return sec, nil
		}
	}
	sec, err := s.securities.GetBySecID(ctx, secid)
	if err != nil {
		return nil, err
	}
	if s.memCache != nil {
		s.memCache.SetSecurity(sec)
	}
	return sec, nil
}

// Gaps returns the date windows a security still needs backfilled as of asOf.
//
// History is expected to run from the security's first_stock_price (or
// DefaultBackfillYears before asOf when unknown) to the last completed market
// date, cut short at last_stock_price for delisted securities. Interior holes
// are not detected; prices_log only knows the bounds.
func (s *CoverageService) Gaps(ctx context.Context, secid string, asOf time.Time) (*models.GapsResponse, error) {
	sec, err := s.security(ctx, secid)
	if err != nil {
		return nil, err
	}
	cov, err := s.Coverage(ctx, secid)
	if err != nil {
		return nil, err
	}

	end := util.LastMarketDate(asOf)
	if sec.LastStockPrice != nil && sec.LastStockPrice.Before(end) {
		end = normalizeDate(*sec.LastStockPrice)
	}

	resp := &models.GapsResponse{
		SecID:   secid,
		AsOf:    asOf.UTC().Format(models.DateLayout),
		Windows: []models.DateWindow{},
	}

	addWindow := func(start, stop time.Time) {
		if !start.After(stop) {
			resp.Windows = append(resp.Windows, models.DateWindow{Start: start, End: stop})
		}
	}

	if cov == nil || cov.MinDate == nil || cov.MaxDate == nil {
		Warnf(ctx, models.WarnNoCoverage, "%s has no price history", secid)
		start := normalizeDate(asOf).AddDate(-DefaultBackfillYears, 0, 0)
		if sec.FirstStockPrice != nil {
			start = normalizeDate(*sec.FirstStockPrice)
		}
		addWindow(start, end)
		return resp, nil
	}

	if sec.FirstStockPrice != nil && sec.FirstStockPrice.Before(*cov.MinDate) {
		addWindow(normalizeDate(*sec.FirstStockPrice), util.PrevBusinessDay(*cov.MinDate))
	}
	addWindow(util.NextBusinessDay(*cov.MaxDate), end)

	checked := s.now().UTC()
	if err := s.coverage.MarkChecked(ctx, secid, checked); err != nil {
		return nil, err
	}
	if s.memCache != nil {
		s.memCache.InvalidateCoverage(secid)
	}
	row := *cov
	row.CheckDT = &checked
	resp.Coverage = &row

	return resp, nil
}
