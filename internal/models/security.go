package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequency is the bar period of a SecurityPrice row
type Frequency string

const (
	FrequencyDaily     Frequency = "daily"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
)

// Valid reports whether f is one of the frequencies accepted by security_prices.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly, FrequencyYearly:
		return true
	}
	return false
}

// Security is one row of the securities table. SecID is assigned once and never
// changes, even when the instrument's ticker does.
type Security struct {
	SecID           string   `json:"secid"`
	CompanyID       *string  `json:"company_id"`
	Name            *string  `json:"name"`
	Code            *string  `json:"code"` // instrument type
	ShareClass      *string  `json:"share_class"`
	Currency        *string  `json:"currency"`
	RoundLotSize    *int32   `json:"round_lot_size"`
	Ticker          *string  `json:"ticker"`
	ExchangeTicker  *string  `json:"exchange_ticker"`
	CompositeTicker *string  `json:"composite_ticker"`
	AltTickers      []string `json:"alternate_tickers"`
	PrevTickers     []string `json:"previous_tickers"` // maintained by the store on ticker change

	FIGI           *string `json:"figi"`
	CompositeFIGI  *string `json:"composite_figi"`
	ShareClassFIGI *string `json:"share_class_figi"`
	FIGIUniqueID   *string `json:"figi_uniqueid"`
	CIK            *string `json:"cik"`

	Active          *bool `json:"active"`
	ETF             *bool `json:"etf"`
	Delisted        *bool `json:"delisted"`
	PrimaryListing  *bool `json:"primary_listing"`
	PrimarySecurity *bool `json:"primary_security"`

	FirstStockPrice          *time.Time `json:"first_stock_price"`
	LastStockPrice           *time.Time `json:"last_stock_price"`
	LastStockPriceAdjustment *time.Time `json:"last_stock_price_adjustment"`
	LastCorporateAction      *time.Time `json:"last_corporate_action"`

	UpdateDT time.Time `json:"update_dt"`
}

// Exchange is one (excid, mic) row. A venue with several MICs has several rows.
type Exchange struct {
	ExcID               string     `json:"excid"`
	MIC                 string     `json:"mic"`
	Acronym             *string    `json:"acronym"`
	Name                *string    `json:"name"`
	Country             *string    `json:"country"`
	CountryCode         *string    `json:"country_code"`
	City                *string    `json:"city"`
	Website             *string    `json:"website"`
	FirstStockPriceDate *time.Time `json:"first_stock_price_date"`
	LastStockPriceDate  *time.Time `json:"last_stock_price_date"`
}

// SecurityPrice is one OHLCV bar keyed by (SecID, Date, Frequency, Intraperiod).
// Raw values are NUMERIC(20,6); adjusted values are NUMERIC(100,20) and stay
// decimal end to end.
type SecurityPrice struct {
	SecID       string    `json:"secid"`
	Date        time.Time `json:"date"`
	Frequency   Frequency `json:"frequency"`
	Intraperiod bool      `json:"intraperiod"`

	Open   decimal.NullDecimal `json:"open"`
	High   decimal.NullDecimal `json:"high"`
	Low    decimal.NullDecimal `json:"low"`
	Close  decimal.NullDecimal `json:"close"`
	Volume decimal.NullDecimal `json:"volume"`

	AdjOpen   decimal.NullDecimal `json:"adj_open"`
	AdjHigh   decimal.NullDecimal `json:"adj_high"`
	AdjLow    decimal.NullDecimal `json:"adj_low"`
	AdjClose  decimal.NullDecimal `json:"adj_close"`
	AdjVolume decimal.NullDecimal `json:"adj_volume"`
}

// PricesLog is the derived coverage row for one security.
type PricesLog struct {
	SecID    string     `json:"secid"`
	MinDate  *time.Time `json:"min_date"`
	MaxDate  *time.Time `json:"max_date"`
	UpdateDT *time.Time `json:"update_dt"`
	CheckDT  *time.Time `json:"check_dt"`
}

// UpdateRun is one append-only update_log row. Counts are nil when the run
// type does not track them.
type UpdateRun struct {
	ID              int64           `json:"id"`
	TableName       string          `json:"table_name"`
	Start           time.Time       `json:"start_dt"`
	End             time.Time       `json:"end_dt"`
	ElapsedSeconds  decimal.Decimal `json:"elapsed_seconds"`
	APIQueries      *int32          `json:"api_queries"`
	APIRequests     *int32          `json:"api_requests"`
	NewRecords      *int32          `json:"new_records"`
	UpdatedRecords  *int32          `json:"updated_records"`
	InsertedRecords *int32          `json:"inserted_records"`
}

// ElapsedSeconds returns end - start in seconds rounded to 4 decimal places.
// Both instants are truncated to microseconds first, matching what PostgreSQL
// stores for TIMESTAMPTZ.
func ElapsedSeconds(start, end time.Time) decimal.Decimal {
	us := end.Truncate(time.Microsecond).Sub(start.Truncate(time.Microsecond)).Microseconds()
	return decimal.New(us, -6).Round(4)
}

// DateWindow is an inclusive range of dates.
type DateWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}
