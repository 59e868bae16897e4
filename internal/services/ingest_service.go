package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/epeers/secmaster/internal/cache"
	"github.com/epeers/secmaster/internal/database"
	"github.com/epeers/secmaster/internal/models"
	"github.com/epeers/secmaster/internal/repository"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DefaultChunkSize is the number of bars one worker upserts per transaction
const DefaultChunkSize = 500

// PriceStore writes price bars
type PriceStore interface {
	Upsert(ctx context.Context, prices []models.SecurityPrice) (repository.UpsertResult, error)
}

// SecurityStore writes and removes securities
type SecurityStore interface {
	BulkUpsert(ctx context.Context, securities []*models.Security) (int, int, []error)
	Delete(ctx context.Context, secid string) error
}

// ExchangeStore writes exchanges
type ExchangeStore interface {
	BulkUpsert(ctx context.Context, exchanges []*models.Exchange) (int, int, []error)
}

// RunRecorder appends update_log rows
type RunRecorder interface {
	Record(ctx context.Context, run *models.UpdateRun) (int64, error)
}

// IngestService loads reference rows and price bars and audits every run
type IngestService struct {
	prices     PriceStore
	securities SecurityStore
	exchanges  ExchangeStore
	runs       RunRecorder
	memCache   *cache.MemoryCache
	workers    int
	chunkSize  int
}

// NewIngestService creates a new IngestService
func NewIngestService(
	prices PriceStore,
	securities SecurityStore,
	exchanges ExchangeStore,
	runs RunRecorder,
	memCache *cache.MemoryCache,
	workers int,
) *IngestService {
	if workers < 1 {
		workers = 1
	}
	return &IngestService{
		prices:     prices,
		securities: securities,
		exchanges:  exchanges,
		runs:       runs,
		memCache:   memCache,
		workers:    workers,
		chunkSize:  DefaultChunkSize,
	}
}

type barKey struct {
	secid       string
	date        time.Time
	frequency   models.Frequency
	intraperiod bool
}

// normalizeDate drops the time of day, keeping the calendar date as written
func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// validateBar returns a reason the bar cannot be stored, or "".
func validateBar(b models.SecurityPrice) string {
	if b.SecID == "" {
		return "missing secid"
	}
	if b.Date.IsZero() {
		return "missing date"
	}
	if !b.Frequency.Valid() {
		return fmt.Sprintf("unknown frequency %q", b.Frequency)
	}
	for _, f := range []struct {
		name string
		v    decimal.NullDecimal
	}{
		{"open", b.Open}, {"high", b.High}, {"low", b.Low}, {"close", b.Close}, {"volume", b.Volume},
		{"adj_open", b.AdjOpen}, {"adj_high", b.AdjHigh}, {"adj_low", b.AdjLow}, {"adj_close", b.AdjClose}, {"adj_volume", b.AdjVolume},
	} {
		if f.v.Valid && f.v.Decimal.IsNegative() {
			return f.name + " is negative"
		}
	}
	if b.High.Valid && b.Low.Valid && b.High.Decimal.LessThan(b.Low.Decimal) {
		return "high is below low"
	}
	return ""
}

// prepareBars drops invalid bars and collapses duplicate keys, keeping the
// last occurrence. Both are reported as warnings on ctx.
func prepareBars(ctx context.Context, bars []models.SecurityPrice) []models.SecurityPrice {
	idx := make(map[barKey]int, len(bars))
	out := make([]models.SecurityPrice, 0, len(bars))

	for i, b := range bars {
		b.Date = normalizeDate(b.Date)
		if reason := validateBar(b); reason != "" {
			Warnf(ctx, models.WarnInvalidBar, "bar %d (%s %s) dropped: %s", i, b.SecID, b.Date.Format(models.DateLayout), reason)
			continue
		}

		k := barKey{b.SecID, b.Date, b.Frequency, b.Intraperiod}
		if j, seen := idx[k]; seen {
			Warnf(ctx, models.WarnDuplicateBar, "bar %d duplicates %s %s %s; last one kept", i, b.SecID, b.Date.Format(models.DateLayout), b.Frequency)
			out[j] = b
			continue
		}
		idx[k] = len(out)
		out = append(out, b)
	}
	return out
}

func chunk[T any](items []T, size int) [][]T {
	var chunks [][]T
	for size < len(items) {
		chunks = append(chunks, items[:size:size])
		items = items[size:]
	}
	if len(items) > 0 {
		chunks = append(chunks, items)
	}
	return chunks
}

// IngestPrices validates and upserts bars, then appends one update_log row for
// the run. Chunks are written concurrently by up to the configured number of
// workers; each chunk is its own transaction. The first failing chunk cancels
// the rest and its error is returned, but the audit row is still written for
// whatever committed.
func (s *IngestService) IngestPrices(ctx context.Context, tableName string, bars []models.SecurityPrice) (*models.IngestResult, error) {
	defer TrackTime("IngestPrices", time.Now())
	if tableName == "" {
		tableName = database.TableSecurityPrices
	}
	timer := StartRun(tableName)

	valid := prepareBars(ctx, bars)
	result := &models.IngestResult{
		Received: len(bars),
		Rejected: len(bars) - len(valid),
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, c := range chunk(valid, s.chunkSize) {
		g.Go(func() error {
			res, err := s.prices.Upsert(gctx, c)
			if err != nil {
				return err
			}
			mu.Lock()
			result.Inserted += res.Inserted
			result.Updated += res.Updated
			mu.Unlock()
			return nil
		})
	}
	ingestErr := g.Wait()

	if s.memCache != nil {
		touched := make(map[string]struct{})
		for _, b := range valid {
			touched[b.SecID] = struct{}{}
		}
		for secid := range touched {
			s.memCache.InvalidateCoverage(secid)
		}
	}

	run := timer.Finish()
	run.NewRecords = int32Ptr(result.Inserted)
	run.UpdatedRecords = int32Ptr(result.Updated)
	run.InsertedRecords = int32Ptr(result.Inserted + result.Updated)
	id, recErr := s.runs.Record(ctx, run)
	if recErr != nil {
		log.Errorf("failed to record %s run: %v", tableName, recErr)
	}
	result.UpdateLogID = id

	log.Infof("Ingested %d/%d bars into %s: %d inserted, %d updated",
		result.Inserted+result.Updated, result.Received, tableName, result.Inserted, result.Updated)

	if ingestErr != nil {
		return result, fmt.Errorf("failed to ingest prices: %w", errors.Join(ingestErr, recErr))
	}
	if recErr != nil {
		return result, recErr
	}
	return result, nil
}

// UpsertSecurities bulk upserts securities and audits the run against the securities table.
func (s *IngestService) UpsertSecurities(ctx context.Context, securities []*models.Security) (*models.IngestResult, error) {
	defer TrackTime("UpsertSecurities", time.Now())
	timer := StartRun(database.TableSecurities)
	result := &models.IngestResult{Received: len(securities)}

	var valid []*models.Security
	for i, sec := range securities {
		if sec == nil || sec.SecID == "" {
			Warnf(ctx, models.WarnInvalidRecord, "security %d dropped: missing secid", i)
			continue
		}
		valid = append(valid, sec)
	}

	inserted, updated, errs := s.securities.BulkUpsert(ctx, valid)
	result.Inserted, result.Updated = inserted, updated
	result.Rejected = len(securities) - inserted - updated

	if s.memCache != nil {
		for _, sec := range valid {
			s.memCache.InvalidateSecurity(sec.SecID)
		}
	}

	return s.finishReferenceRun(ctx, timer, result, errs)
}

// DeleteSecurity removes a security without price history and drops it from
// the cache so gap planning stops seeing it.
func (s *IngestService) DeleteSecurity(ctx context.Context, secid string) error {
	if err := s.securities.Delete(ctx, secid); err != nil {
		return err
	}
	if s.memCache != nil {
		s.memCache.InvalidateSecurity(secid)
		s.memCache.InvalidateCoverage(secid)
	}
	log.Infof("Deleted security %s", secid)
	return nil
}

// UpsertExchanges bulk upserts exchange rows and audits the run against the exchanges table.
func (s *IngestService) UpsertExchanges(ctx context.Context, exchanges []*models.Exchange) (*models.IngestResult, error) {
	defer TrackTime("UpsertExchanges", time.Now())
	timer := StartRun(database.TableExchanges)
	result := &models.IngestResult{Received: len(exchanges)}

	var valid []*models.Exchange
	for i, e := range exchanges {
		if e == nil || e.ExcID == "" || e.MIC == "" {
			Warnf(ctx, models.WarnInvalidRecord, "exchange %d dropped: excid and mic are required", i)
			continue
		}
		valid = append(valid, e)
	}

	inserted, updated, errs := s.exchanges.BulkUpsert(ctx, valid)
	result.Inserted, result.Updated = inserted, updated
	result.Rejected = len(exchanges) - inserted - updated

	return s.finishReferenceRun(ctx, timer, result, errs)
}

func (s *IngestService) finishReferenceRun(ctx context.Context, timer *RunTimer, result *models.IngestResult, errs []error) (*models.IngestResult, error) {
	run := timer.Finish()
	run.NewRecords = int32Ptr(result.Inserted)
	run.UpdatedRecords = int32Ptr(result.Updated)
	run.InsertedRecords = int32Ptr(result.Inserted + result.Updated)

	id, recErr := s.runs.Record(ctx, run)
	result.UpdateLogID = id
	if recErr != nil {
		errs = append(errs, recErr)
	}

	for _, err := range errs {
		log.Warn(err)
	}
	return result, errors.Join(errs...)
}
