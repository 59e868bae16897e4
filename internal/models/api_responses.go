package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// SecurityRequest is the body of PUT /admin/securities.
// Dates accept either RFC3339 or YYYY-MM-DD.
type SecurityRequest struct {
	SecID           string   `json:"secid" binding:"required"`
	CompanyID       *string  `json:"company_id"`
	Name            *string  `json:"name"`
	Code            *string  `json:"code"`
	ShareClass      *string  `json:"share_class"`
	Currency        *string  `json:"currency"`
	RoundLotSize    *int32   `json:"round_lot_size"`
	Ticker          *string  `json:"ticker"`
	ExchangeTicker  *string  `json:"exchange_ticker"`
	CompositeTicker *string  `json:"composite_ticker"`
	AltTickers      []string `json:"alternate_tickers"`

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

	FirstStockPrice          *FlexibleDate `json:"first_stock_price"`
	LastStockPrice           *FlexibleDate `json:"last_stock_price"`
	LastStockPriceAdjustment *FlexibleDate `json:"last_stock_price_adjustment"`
	LastCorporateAction      *FlexibleDate `json:"last_corporate_action"`
}

// ToSecurity converts the request into a store row
func (r SecurityRequest) ToSecurity() *Security {
	return &Security{
		SecID:                    r.SecID,
		CompanyID:                r.CompanyID,
		Name:                     r.Name,
		Code:                     r.Code,
		ShareClass:               r.ShareClass,
		Currency:                 r.Currency,
		RoundLotSize:             r.RoundLotSize,
		Ticker:                   r.Ticker,
		ExchangeTicker:           r.ExchangeTicker,
		CompositeTicker:          r.CompositeTicker,
		AltTickers:               r.AltTickers,
		FIGI:                     r.FIGI,
		CompositeFIGI:            r.CompositeFIGI,
		ShareClassFIGI:           r.ShareClassFIGI,
		FIGIUniqueID:             r.FIGIUniqueID,
		CIK:                      r.CIK,
		Active:                   r.Active,
		ETF:                      r.ETF,
		Delisted:                 r.Delisted,
		PrimaryListing:           r.PrimaryListing,
		PrimarySecurity:          r.PrimarySecurity,
		FirstStockPrice:          r.FirstStockPrice.TimePtr(),
		LastStockPrice:           r.LastStockPrice.TimePtr(),
		LastStockPriceAdjustment: r.LastStockPriceAdjustment.TimePtr(),
		LastCorporateAction:      r.LastCorporateAction.TimePtr(),
	}
}

// ExchangeRequest is the body of PUT /admin/exchanges
type ExchangeRequest struct {
	ExcID               string        `json:"excid" binding:"required"`
	MIC                 string        `json:"mic" binding:"required"`
	Acronym             *string       `json:"acronym"`
	Name                *string       `json:"name"`
	Country             *string       `json:"country"`
	CountryCode         *string       `json:"country_code"`
	City                *string       `json:"city"`
	Website             *string       `json:"website"`
	FirstStockPriceDate *FlexibleDate `json:"first_stock_price_date"`
	LastStockPriceDate  *FlexibleDate `json:"last_stock_price_date"`
}

// ToExchange converts the request into a store row
func (r ExchangeRequest) ToExchange() *Exchange {
	return &Exchange{
		ExcID:               r.ExcID,
		MIC:                 r.MIC,
		Acronym:             r.Acronym,
		Name:                r.Name,
		Country:             r.Country,
		CountryCode:         r.CountryCode,
		City:                r.City,
		Website:             r.Website,
		FirstStockPriceDate: r.FirstStockPriceDate.TimePtr(),
		LastStockPriceDate:  r.LastStockPriceDate.TimePtr(),
	}
}

// PriceBarRequest is one bar in POST /admin/prices.
// An empty frequency means daily.
type PriceBarRequest struct {
	SecID       string              `json:"secid" binding:"required"`
	Date        FlexibleDate        `json:"date"`
	Frequency   Frequency           `json:"frequency"`
	Intraperiod bool                `json:"intraperiod"`
	Open        decimal.NullDecimal `json:"open"`
	High        decimal.NullDecimal `json:"high"`
	Low         decimal.NullDecimal `json:"low"`
	Close       decimal.NullDecimal `json:"close"`
	Volume      decimal.NullDecimal `json:"volume"`
	AdjOpen     decimal.NullDecimal `json:"adj_open"`
	AdjHigh     decimal.NullDecimal `json:"adj_high"`
	AdjLow      decimal.NullDecimal `json:"adj_low"`
	AdjClose    decimal.NullDecimal `json:"adj_close"`
	AdjVolume   decimal.NullDecimal `json:"adj_volume"`
}

// ToSecurityPrice converts the request into a store row
func (r PriceBarRequest) ToSecurityPrice() SecurityPrice {
	freq := r.Frequency
	if freq == "" {
		freq = FrequencyDaily
	}
	return SecurityPrice{
		SecID:       r.SecID,
		Date:        r.Date.Time,
		Frequency:   freq,
		Intraperiod: r.Intraperiod,
		Open:        r.Open,
		High:        r.High,
		Low:         r.Low,
		Close:       r.Close,
		Volume:      r.Volume,
		AdjOpen:     r.AdjOpen,
		AdjHigh:     r.AdjHigh,
		AdjLow:      r.AdjLow,
		AdjClose:    r.AdjClose,
		AdjVolume:   r.AdjVolume,
	}
}

// IngestPricesRequest is the body of POST /admin/prices
type IngestPricesRequest struct {
	Bars []PriceBarRequest `json:"bars" binding:"required,dive"`
}

// IngestResult summarizes one ingestion run
type IngestResult struct {
	Received    int       `json:"received"`
	Rejected    int       `json:"rejected"`
	Inserted    int       `json:"inserted"`
	Updated     int       `json:"updated"`
	UpdateLogID int64     `json:"update_log_id"`
	Warnings    []Warning `json:"warnings,omitempty"`
}

// RebuildResponse is returned by POST /admin/prices-log/rebuild
type RebuildResponse struct {
	Rows        int64     `json:"rows"`
	UpdateLogID int64     `json:"update_log_id"`
	Warnings    []Warning `json:"warnings,omitempty"`
}

// GapsResponse lists the date windows a security still needs backfilled
type GapsResponse struct {
	SecID    string       `json:"secid"`
	AsOf     string       `json:"as_of"`
	Coverage *PricesLog   `json:"coverage"`
	Windows  []DateWindow `json:"windows"`
	Warnings []Warning    `json:"warnings,omitempty"`
}

// RecordRunRequest is the body of POST /admin/update-log
type RecordRunRequest struct {
	TableName       string    `json:"table_name" binding:"required"`
	Start           time.Time `json:"start_dt"`
	End             time.Time `json:"end_dt"`
	APIQueries      *int32    `json:"api_queries"`
	APIRequests     *int32    `json:"api_requests"`
	NewRecords      *int32    `json:"new_records"`
	UpdatedRecords  *int32    `json:"updated_records"`
	InsertedRecords *int32    `json:"inserted_records"`
}

// GetPricesRequest holds the query parameters of GET /securities/:secid/prices
type GetPricesRequest struct {
	StartDate   string `form:"start_date" binding:"required"`
	EndDate     string `form:"end_date" binding:"required"`
	Frequency   string `form:"frequency"`
	Intraperiod bool   `form:"intraperiod"`
}

// GetPricesResponse is returned by GET /securities/:secid/prices
type GetPricesResponse struct {
	SecID      string          `json:"secid"`
	StartDate  string          `json:"start_date"`
	EndDate    string          `json:"end_date"`
	DataPoints int             `json:"data_points"`
	Prices     []SecurityPrice `json:"prices"`
}

// CSVUploadResponse is returned by POST /admin/prices/csv
type CSVUploadResponse struct {
	IngestResult
	SkippedRows int `json:"skipped_rows"`
}
