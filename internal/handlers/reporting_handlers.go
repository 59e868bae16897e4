package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/epeers/secmaster/internal/models"
	"github.com/epeers/secmaster/internal/services"
	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 100
	maxPageSize     = 1000
)

// SecurityReader reads securities
type SecurityReader interface {
	GetBySecID(ctx context.Context, secid string) (*models.Security, error)
	GetByTicker(ctx context.Context, ticker string) (*models.Security, error)
	List(ctx context.Context, limit, offset int) ([]*models.Security, error)
}

// ExchangeReader reads exchanges
type ExchangeReader interface {
	GetByExcID(ctx context.Context, excid string) ([]*models.Exchange, error)
	GetAll(ctx context.Context) ([]*models.Exchange, error)
}

// PriceReader reads price bars
type PriceReader interface {
	GetRange(ctx context.Context, secid string, start, end time.Time, freq models.Frequency, intraperiod bool) ([]models.SecurityPrice, error)
}

// UpdateLogReader reads the audit trail
type UpdateLogReader interface {
	List(ctx context.Context, tableName string, limit int) ([]*models.UpdateRun, error)
}

// CoveragePlanner reads coverage and plans backfills
type CoveragePlanner interface {
	Coverage(ctx context.Context, secid string) (*models.PricesLog, error)
	Gaps(ctx context.Context, secid string, asOf time.Time) (*models.GapsResponse, error)
}

// ReportingHandler serves the read-only endpoints used by reporting consumers
type ReportingHandler struct {
	securities SecurityReader
	exchanges  ExchangeReader
	prices     PriceReader
	updateLog  UpdateLogReader
	coverage   CoveragePlanner
}

// NewReportingHandler creates a new ReportingHandler
func NewReportingHandler(securities SecurityReader, exchanges ExchangeReader, prices PriceReader, updateLog UpdateLogReader, coverage CoveragePlanner) *ReportingHandler {
	return &ReportingHandler{
		securities: securities,
		exchanges:  exchanges,
		prices:     prices,
		updateLog:  updateLog,
		coverage:   coverage,
	}
}

// ListSecurities handles GET /securities
// @Summary List securities
// @Description Page through securities ordered by secid, or resolve a current or previous ticker
// @Tags securities
// @Produce json
// @Param ticker query string false "Resolve a ticker (current or previous)"
// @Param limit query int false "Page size (default 100, max 1000)"
// @Param offset query int false "Rows to skip"
// @Success 200 {array} models.Security
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /securities [get]
func (h *ReportingHandler) ListSecurities(c *gin.Context) {
	ctx := c.Request.Context()

	if ticker := c.Query("ticker"); ticker != "" {
		sec, err := h.securities.GetByTicker(ctx, ticker)
		if err != nil {
			storeError(c, err)
			return
		}
		c.JSON(http.StatusOK, []*models.Security{sec})
		return
	}

	limit, ok := intQuery(c, "limit", defaultPageSize)
	if !ok {
		return
	}
	if limit == 0 || limit > maxPageSize {
		limit = maxPageSize
	}
	offset, ok := intQuery(c, "offset", 0)
	if !ok {
		return
	}

	secs, err := h.securities.List(ctx, limit, offset)
	if err != nil {
		storeError(c, err)
		return
	}
	if secs == nil {
		secs = []*models.Security{}
	}
	c.JSON(http.StatusOK, secs)
}

// GetSecurity handles GET /securities/:secid
// @Summary Get a security
// @Tags securities
// @Produce json
// @Param secid path string true "Security ID"
// @Success 200 {object} models.Security
// @Failure 404 {object} models.ErrorResponse
// @Router /securities/{secid} [get]
func (h *ReportingHandler) GetSecurity(c *gin.Context) {
	sec, err := h.securities.GetBySecID(c.Request.Context(), c.Param("secid"))
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sec)
}

// GetPrices handles GET /securities/:secid/prices
// @Summary Get price bars for a security
// @Description Bars between start_date and end_date inclusive, oldest first
// @Tags securities
// @Produce json
// @Param secid path string true "Security ID"
// @Param start_date query string true "Start date (YYYY-MM-DD)"
// @Param end_date query string true "End date (YYYY-MM-DD)"
// @Param frequency query string false "daily, weekly, monthly, quarterly or yearly (default daily)"
// @Param intraperiod query bool false "Return the in-progress bars instead of closed ones"
// @Success 200 {object} models.GetPricesResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /securities/{secid}/prices [get]
func (h *ReportingHandler) GetPrices(c *gin.Context) {
	var req models.GetPricesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	startDate, err := models.ParseDate(req.StartDate)
	if err != nil {
		badRequest(c, "start_date must be in YYYY-MM-DD format")
		return
	}
	endDate, err := models.ParseDate(req.EndDate)
	if err != nil {
		badRequest(c, "end_date must be in YYYY-MM-DD format")
		return
	}
	if endDate.Before(startDate) {
		badRequest(c, "end_date is before start_date")
		return
	}

	freq := models.Frequency(req.Frequency)
	if freq == "" {
		freq = models.FrequencyDaily
	}
	if !freq.Valid() {
		badRequest(c, "unknown frequency "+req.Frequency)
		return
	}

	ctx := c.Request.Context()
	secid := c.Param("secid")
	if _, err := h.securities.GetBySecID(ctx, secid); err != nil {
		storeError(c, err)
		return
	}

	prices, err := h.prices.GetRange(ctx, secid, startDate, endDate, freq, req.Intraperiod)
	if err != nil {
		storeError(c, err)
		return
	}
	if prices == nil {
		prices = []models.SecurityPrice{}
	}

	c.JSON(http.StatusOK, models.GetPricesResponse{
		SecID:      secid,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		DataPoints: len(prices),
		Prices:     prices,
	})
}

// ListExchanges handles GET /exchanges
// @Summary List exchanges
// @Description One row per (excid, mic)
// @Tags exchanges
// @Produce json
// @Success 200 {array} models.Exchange
// @Router /exchanges [get]
func (h *ReportingHandler) ListExchanges(c *gin.Context) {
	rows, err := h.exchanges.GetAll(c.Request.Context())
	if err != nil {
		storeError(c, err)
		return
	}
	if rows == nil {
		rows = []*models.Exchange{}
	}
	c.JSON(http.StatusOK, rows)
}

// GetExchange handles GET /exchanges/:excid
// @Summary Get every MIC row of an exchange
// @Tags exchanges
// @Produce json
// @Param excid path string true "Exchange ID"
// @Success 200 {array} models.Exchange
// @Failure 404 {object} models.ErrorResponse
// @Router /exchanges/{excid} [get]
func (h *ReportingHandler) GetExchange(c *gin.Context) {
	rows, err := h.exchanges.GetByExcID(c.Request.Context(), c.Param("excid"))
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// GetCoverage handles GET /prices-log/:secid
// @Summary Get the price coverage of a security
// @Tags prices-log
// @Produce json
// @Param secid path string true "Security ID"
// @Success 200 {object} models.PricesLog
// @Failure 404 {object} models.ErrorResponse
// @Router /prices-log/{secid} [get]
func (h *ReportingHandler) GetCoverage(c *gin.Context) {
	secid := c.Param("secid")
	row, err := h.coverage.Coverage(c.Request.Context(), secid)
	if err != nil {
		storeError(c, err)
		return
	}
	if row == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "no price coverage for " + secid,
		})
		return
	}
	c.JSON(http.StatusOK, row)
}

// GetGaps handles GET /prices-log/:secid/gaps
// @Summary Plan the backfill for a security
// @Description Date windows outside the current coverage that still need prices
// @Tags prices-log
// @Produce json
// @Param secid path string true "Security ID"
// @Param as_of query string false "Plan as of this date (YYYY-MM-DD, default now)"
// @Success 200 {object} models.GapsResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /prices-log/{secid}/gaps [get]
func (h *ReportingHandler) GetGaps(c *gin.Context) {
	asOf := time.Now()
	if raw := c.Query("as_of"); raw != "" {
		d, err := models.ParseDate(raw)
		if err != nil {
			badRequest(c, "as_of must be in YYYY-MM-DD format")
			return
		}
		// end of that day, so the day's close counts
		asOf = d.Add(24*time.Hour - time.Second)
	}

	ctx, wc := services.NewWarningContext(c.Request.Context())
	resp, err := h.coverage.Gaps(ctx, c.Param("secid"), asOf)
	if err != nil {
		storeError(c, err)
		return
	}
	resp.Warnings = wc.GetWarnings()
	c.JSON(http.StatusOK, resp)
}

// ListUpdateLog handles GET /update-log
// @Summary List update runs
// @Description Most recent runs first
// @Tags update-log
// @Produce json
// @Param table query string false "Only runs against this table"
// @Param limit query int false "Max rows (default 100, max 1000)"
// @Success 200 {array} models.UpdateRun
// @Failure 400 {object} models.ErrorResponse
// @Router /update-log [get]
func (h *ReportingHandler) ListUpdateLog(c *gin.Context) {
	limit, ok := intQuery(c, "limit", defaultPageSize)
	if !ok {
		return
	}
	if limit == 0 || limit > maxPageSize {
		limit = maxPageSize
	}

	runs, err := h.updateLog.List(c.Request.Context(), c.Query("table"), limit)
	if err != nil {
		storeError(c, err)
		return
	}
	if runs == nil {
		runs = []*models.UpdateRun{}
	}
	c.JSON(http.StatusOK, runs)
}
