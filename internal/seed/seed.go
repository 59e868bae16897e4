// Package seed generates a synthetic but internally consistent dataset of
// exchanges, securities and daily bars for demos and local development.
package seed

import (
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/epeers/secmaster/internal/models"
	"github.com/epeers/secmaster/internal/util"
	"github.com/shopspring/decimal"
)

// Options controls the size and shape of a generated dataset
type Options struct {
	Securities int
	Days       int
	Seed       uint64
	// AsOf anchors the newest bar; zero means now
	AsOf time.Time
}

// Dataset is everything Generate produces, ready for ingestion in order:
// exchanges, then securities, then prices.
type Dataset struct {
	Exchanges  []*models.Exchange
	Securities []*models.Security
	Prices     []models.SecurityPrice
}

type listing struct {
	excid, mic, acronym, name, city, website string
}

var listings = []listing{
	{"NYSE", "XNYS", "NYSE", "New York Stock Exchange", "New York", "www.nyse.com"},
	{"NASDAQ", "XNAS", "NASDAQ", "Nasdaq All Markets", "New York", "www.nasdaq.com"},
	{"NASDAQ", "XNGS", "NASDAQ", "Nasdaq Global Select Market", "New York", "www.nasdaq.com"},
	{"ARCA", "ARCX", "NYSE ARCA", "NYSE Arca", "Chicago", "www.nyse.com"},
}

// Generator produces datasets from a seeded faker
type Generator struct {
	faker *gofakeit.Faker
}

// NewGenerator creates a Generator. The same seed always yields the same dataset.
func NewGenerator(seed uint64) *Generator {
	return &Generator{faker: gofakeit.New(seed)}
}

// Generate builds a dataset with opts.Securities securities, each with
// opts.Days consecutive business-day bars ending on the last completed market
// date before opts.AsOf.
func Generate(opts Options) (*Dataset, error) {
	if opts.Securities < 1 {
		return nil, fmt.Errorf("securities must be positive, got %d", opts.Securities)
	}
	if opts.Days < 1 {
		return nil, fmt.Errorf("days must be positive, got %d", opts.Days)
	}
	if opts.AsOf.IsZero() {
		opts.AsOf = time.Now()
	}
	return NewGenerator(opts.Seed).Generate(opts), nil
}

// Generate builds a dataset; opts must already be validated.
func (g *Generator) Generate(opts Options) *Dataset {
	ds := &Dataset{Exchanges: g.exchanges()}
	dates := businessDays(util.LastMarketDate(opts.AsOf), opts.Days)

	used := make(map[string]struct{}, opts.Securities)
	for range opts.Securities {
		ticker := g.uniqueTicker(used)
		sec := g.security(ticker, dates[0])
		ds.Securities = append(ds.Securities, sec)
		ds.Prices = append(ds.Prices, g.walk(sec.SecID, dates)...)
	}
	return ds
}

func (g *Generator) exchanges() []*models.Exchange {
	country, code := "United States of America", "US"
	out := make([]*models.Exchange, 0, len(listings))
	for _, l := range listings {
		out = append(out, &models.Exchange{
			ExcID:       l.excid,
			MIC:         l.mic,
			Acronym:     strPtr(l.acronym),
			Name:        strPtr(l.name),
			Country:     strPtr(country),
			CountryCode: strPtr(code),
			City:        strPtr(l.city),
			Website:     strPtr(l.website),
		})
	}
	return out
}

func (g *Generator) uniqueTicker(used map[string]struct{}) string {
	for {
		ticker := strings.ToUpper(g.faker.LetterN(uint(g.faker.IntRange(2, 5))))
		if _, dup := used[ticker]; !dup {
			used[ticker] = struct{}{}
			return ticker
		}
	}
}

func (g *Generator) security(ticker string, first time.Time) *models.Security {
	l := listings[g.faker.IntRange(0, len(listings)-1)]
	etf := g.faker.Float64Range(0, 1) < 0.1

	code := "EQS"
	if etf {
		code = "ETF"
	}
	active := true
	primary := true
	lot := int32(100)

	return &models.Security{
		SecID:           ticker + "-US",
		Name:            strPtr(g.faker.Company()),
		Code:            strPtr(code),
		ShareClass:      strPtr("Common"),
		Currency:        strPtr("USD"),
		RoundLotSize:    &lot,
		Ticker:          strPtr(ticker),
		ExchangeTicker:  strPtr(ticker + ":" + l.acronym),
		CompositeTicker: strPtr(ticker + ":US"),
		AltTickers:      []string{},
		FIGI:            strPtr("BBG" + strings.ToUpper(g.faker.LetterN(9))),
		Active:          &active,
		ETF:             &etf,
		PrimaryListing:  &primary,
		PrimarySecurity: &primary,
		FirstStockPrice: &first,
	}
}

// walk produces one daily bar per date as a bounded random walk. Moves are
// drawn in basis points so every price stays exact in decimal.
func (g *Generator) walk(secid string, dates []time.Time) []models.SecurityPrice {
	bars := make([]models.SecurityPrice, 0, len(dates))
	prev := decimal.New(int64(g.faker.IntRange(500, 50_000)), -2)

	for _, d := range dates {
		open := prev.Mul(g.move(-100, 100)).Round(4)
		closePx := decimal.Max(minPrice, prev.Mul(g.move(-300, 300)).Round(4))
		high := decimal.Max(open, closePx).Mul(g.move(0, 150)).Round(4)
		low := decimal.Min(open, closePx).Mul(g.move(-150, 0)).Round(4)
		volume := decimal.NewFromInt(int64(g.faker.IntRange(100_000, 50_000_000)))

		o, h, l, c, v := nd(open), nd(high), nd(low), nd(closePx), nd(volume)
		bars = append(bars, models.SecurityPrice{
			SecID:     secid,
			Date:      d,
			Frequency: models.FrequencyDaily,
			Open:      o,
			High:      h,
			Low:       l,
			Close:     c,
			Volume:    v,
			AdjOpen:   o,
			AdjHigh:   h,
			AdjLow:    l,
			AdjClose:  c,
			AdjVolume: v,
		})
		prev = closePx
	}
	return bars
}

var minPrice = decimal.New(1, -2)

// move returns a multiplier of 1 plus a random number of basis points in [lo, hi]
func (g *Generator) move(lo, hi int) decimal.Decimal {
	return decimal.New(int64(10_000+g.faker.IntRange(lo, hi)), -4)
}

// businessDays returns n weekdays ending at last, oldest first
func businessDays(last time.Time, n int) []time.Time {
	dates := make([]time.Time, n)
	d := last
	for i := n - 1; i >= 0; i-- {
		dates[i] = d
		d = util.PrevBusinessDay(d)
	}
	return dates
}

func nd(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NewNullDecimal(d)
}

func strPtr(s string) *string { return &s }
