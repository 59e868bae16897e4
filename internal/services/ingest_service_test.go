package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/epeers/secmaster/internal/cache"
	"github.com/epeers/secmaster/internal/models"
	"github.com/epeers/secmaster/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func price(secid, day, closePx string) models.SecurityPrice {
	return models.SecurityPrice{
		SecID:     secid,
		Date:      date(day),
		Frequency: models.FrequencyDaily,
		Close:     decimal.NewNullDecimal(decimal.RequireFromString(closePx)),
	}
}

func TestIngestPricesAmendThenCount(t *testing.T) {
	store := newFakePriceStore("AAPL-US")
	runs := &fakeRunRecorder{}
	svc := NewIngestService(store, nil, nil, runs, cache.NewMemoryCache(time.Minute), 2)
	ctx := context.Background()

	res, err := svc.IngestPrices(ctx, "", []models.SecurityPrice{price("AAPL-US", "2024-01-02", "185.64")})
	assert.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)

	res, err = svc.IngestPrices(ctx, "", []models.SecurityPrice{price("AAPL-US", "2024-01-02", "185.70")})
	assert.NoError(t, err)
	assert.Equal(t, 0, res.Inserted)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, int64(2), res.UpdateLogID)

	assert.Len(t, store.rows, 1)
	for _, p := range store.rows {
		assert.Equal(t, "185.7", p.Close.Decimal.String())
	}

	last := runs.runs[1]
	assert.Equal(t, "security_prices", last.TableName)
	assert.Equal(t, int32(0), *last.NewRecords)
	assert.Equal(t, int32(1), *last.UpdatedRecords)
	assert.Equal(t, int32(1), *last.InsertedRecords)
	assert.False(t, last.End.Before(last.Start))
}

func TestIngestPricesDropsInvalidBars(t *testing.T) {
	store := newFakePriceStore("AAPL-US")
	svc := NewIngestService(store, nil, nil, &fakeRunRecorder{}, nil, 1)
	ctx, wc := NewWarningContext(context.Background())

	negative := price("AAPL-US", "2024-01-03", "185.64")
	negative.Volume = decimal.NewNullDecimal(decimal.NewFromInt(-10))
	inverted := price("AAPL-US", "2024-01-04", "185.64")
	inverted.High = decimal.NewNullDecimal(decimal.RequireFromString("180"))
	inverted.Low = decimal.NewNullDecimal(decimal.RequireFromString("190"))
	hourly := price("AAPL-US", "2024-01-05", "185.64")
	hourly.Frequency = "hourly"

	res, err := svc.IngestPrices(ctx, "", []models.SecurityPrice{
		price("AAPL-US", "2024-01-02", "185.64"),
		price("", "2024-01-02", "1"),
		{SecID: "AAPL-US", Frequency: models.FrequencyDaily},
		negative,
		inverted,
		hourly,
	})
	assert.NoError(t, err)
	assert.Equal(t, 6, res.Received)
	assert.Equal(t, 5, res.Rejected)
	assert.Equal(t, 1, res.Inserted)

	warnings := wc.GetWarnings()
	assert.Len(t, warnings, 5)
	for _, w := range warnings {
		assert.Equal(t, models.WarnInvalidBar, w.Code)
	}
}

func TestIngestPricesCollapsesDuplicates(t *testing.T) {
	store := newFakePriceStore("AAPL-US")
	svc := NewIngestService(store, nil, nil, &fakeRunRecorder{}, nil, 1)
	ctx, wc := NewWarningContext(context.Background())

	later := price("AAPL-US", "2024-01-02", "185.70")
	later.Date = later.Date.Add(16 * time.Hour)

	res, err := svc.IngestPrices(ctx, "", []models.SecurityPrice{
		price("AAPL-US", "2024-01-02", "185.64"),
		later,
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, 1, res.Rejected)
	assert.Equal(t, models.WarnDuplicateBar, wc.GetWarnings()[0].Code)
	assert.Equal(t, "185.7", store.rows[barKey{"AAPL-US", date("2024-01-02"), models.FrequencyDaily, false}].Close.Decimal.String())
}

func TestIngestPricesUnknownSecurity(t *testing.T) {
	store := newFakePriceStore("AAPL-US")
	runs := &fakeRunRecorder{}
	svc := NewIngestService(store, nil, nil, runs, nil, 4)

	res, err := svc.IngestPrices(context.Background(), "", []models.SecurityPrice{price("UNKNOWN", "2024-01-02", "1.00")})
	assert.ErrorIs(t, err, repository.ErrUnknownSecurity)
	assert.Equal(t, 0, res.Inserted)
	assert.Len(t, runs.runs, 1, "the run is audited even when it fails")
	assert.Empty(t, store.rows)
}

func TestIngestPricesChunksAcrossWorkers(t *testing.T) {
	store := newFakePriceStore("MSFT-US")
	svc := NewIngestService(store, nil, nil, &fakeRunRecorder{}, nil, 3)
	svc.chunkSize = 10

	start := date("2020-01-01")
	var bars []models.SecurityPrice
	for i := 0; i < 95; i++ {
		bars = append(bars, price("MSFT-US", start.AddDate(0, 0, i).Format(models.DateLayout), fmt.Sprintf("%d.25", 100+i)))
	}

	res, err := svc.IngestPrices(context.Background(), "", bars)
	assert.NoError(t, err)
	assert.Equal(t, 95, res.Inserted)
	assert.Equal(t, 10, store.batches)
	assert.Len(t, store.rows, 95)
}

func TestIngestPricesInvalidatesCoverage(t *testing.T) {
	memCache := cache.NewMemoryCache(time.Hour)
	memCache.SetCoverage("AAPL-US", &models.PricesLog{SecID: "AAPL-US"})
	memCache.SetCoverage("MSFT-US", &models.PricesLog{SecID: "MSFT-US"})
	svc := NewIngestService(newFakePriceStore("AAPL-US"), nil, nil, &fakeRunRecorder{}, memCache, 1)

	_, err := svc.IngestPrices(context.Background(), "", []models.SecurityPrice{price("AAPL-US", "2024-01-02", "185.64")})
	assert.NoError(t, err)

	_, ok := memCache.GetCoverage("AAPL-US")
	assert.False(t, ok)
	_, ok = memCache.GetCoverage("MSFT-US")
	assert.True(t, ok)
}

func TestUpsertSecuritiesRecordsRun(t *testing.T) {
	secs := &fakeSecurityStore{secs: map[string]*models.Security{"AAPL-US": {SecID: "AAPL-US"}}}
	runs := &fakeRunRecorder{}
	memCache := cache.NewMemoryCache(time.Hour)
	memCache.SetSecurity(&models.Security{SecID: "AAPL-US"})
	svc := NewIngestService(nil, secs, fakeExchangeStore{}, runs, memCache, 1)
	ctx, wc := NewWarningContext(context.Background())

	res, err := svc.UpsertSecurities(ctx, []*models.Security{{SecID: "AAPL-US"}, {SecID: "MSFT-US"}, {}})
	assert.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 1, res.Rejected)
	assert.Len(t, wc.GetWarnings(), 1)
	assert.Equal(t, "securities", runs.runs[0].TableName)

	_, ok := memCache.GetSecurity("AAPL-US")
	assert.False(t, ok)

	res, err = svc.UpsertExchanges(ctx, []*models.Exchange{{ExcID: "NASDAQ", MIC: "XNAS"}, {ExcID: "NASDAQ"}})
	assert.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, 1, res.Rejected)
	assert.Equal(t, "exchanges", runs.runs[1].TableName)
}

func TestDeleteSecurityEvictsCache(t *testing.T) {
	memCache := cache.NewMemoryCache(time.Hour)
	secs := &fakeSecurityStore{secs: map[string]*models.Security{
		"IBM-US": {SecID: "IBM-US", FirstStockPrice: datePtr("2024-01-02")},
	}}
	coverage := NewCoverageService(&fakeCoverageStore{rows: map[string]*models.PricesLog{}}, secs, &fakeRunRecorder{}, memCache)
	coverage.now = func() time.Time { return asOf }
	ingest := NewIngestService(nil, secs, nil, &fakeRunRecorder{}, memCache, 1)
	ctx := context.Background()

	// warm the cache through gap planning
	_, err := coverage.Gaps(ctx, "IBM-US", asOf)
	assert.NoError(t, err)
	_, cached := memCache.GetSecurity("IBM-US")
	assert.True(t, cached)

	assert.NoError(t, ingest.DeleteSecurity(ctx, "IBM-US"))
	_, cached = memCache.GetSecurity("IBM-US")
	assert.False(t, cached)

	_, err = coverage.Gaps(ctx, "IBM-US", asOf)
	assert.ErrorIs(t, err, repository.ErrSecurityNotFound)

	assert.ErrorIs(t, ingest.DeleteSecurity(ctx, "IBM-US"), repository.ErrSecurityNotFound)
}

func TestChunk(t *testing.T) {
	assert.Empty(t, chunk([]int{}, 3))
	assert.Equal(t, [][]int{{1, 2, 3}, {4, 5}}, chunk([]int{1, 2, 3, 4, 5}, 3))
	assert.Equal(t, [][]int{{1, 2}}, chunk([]int{1, 2}, 2))
}
