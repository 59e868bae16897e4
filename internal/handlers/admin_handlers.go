package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/epeers/secmaster/internal/database"
	"github.com/epeers/secmaster/internal/models"
	"github.com/epeers/secmaster/internal/services"
	"github.com/gin-gonic/gin"
)

// maxCSVUploadBytes caps POST /admin/prices/csv bodies
const maxCSVUploadBytes = 64 << 20

// Ingester writes reference rows and price bars
type Ingester interface {
	IngestPrices(ctx context.Context, tableName string, bars []models.SecurityPrice) (*models.IngestResult, error)
	UpsertSecurities(ctx context.Context, securities []*models.Security) (*models.IngestResult, error)
	UpsertExchanges(ctx context.Context, exchanges []*models.Exchange) (*models.IngestResult, error)
}

// SecurityDeleter removes securities
type SecurityDeleter interface {
	DeleteSecurity(ctx context.Context, secid string) error
}

// Rebuilder recomputes prices_log
type Rebuilder interface {
	Rebuild(ctx context.Context) (*models.RebuildResponse, error)
}

// RunRecorder appends update_log rows for runs done outside this service
type RunRecorder interface {
	Record(ctx context.Context, run *models.UpdateRun) (int64, error)
}

// AdminHandler handles the ingestion and maintenance endpoints
type AdminHandler struct {
	ingest    Ingester
	deleter   SecurityDeleter
	rebuilder Rebuilder
	runs      RunRecorder
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(ingest Ingester, deleter SecurityDeleter, rebuilder Rebuilder, runs RunRecorder) *AdminHandler {
	return &AdminHandler{
		ingest:    ingest,
		deleter:   deleter,
		rebuilder: rebuilder,
		runs:      runs,
	}
}

// UpsertSecurities handles PUT /admin/securities
// @Summary Upsert securities
// @Description Insert or update securities keyed on secid. A changed ticker is appended to previous_tickers.
// @Tags admin
// @Accept json
// @Produce json
// @Param securities body []models.SecurityRequest true "Securities"
// @Success 200 {object} models.IngestResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /admin/securities [put]
func (h *AdminHandler) UpsertSecurities(c *gin.Context) {
	var reqs []models.SecurityRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		badRequest(c, err.Error())
		return
	}

	securities := make([]*models.Security, 0, len(reqs))
	for _, r := range reqs {
		securities = append(securities, r.ToSecurity())
	}

	ctx, wc := services.NewWarningContext(c.Request.Context())
	result, err := h.ingest.UpsertSecurities(ctx, securities)
	if err != nil {
		storeError(c, err)
		return
	}
	result.Warnings = wc.GetWarnings()
	c.JSON(http.StatusOK, result)
}

// DeleteSecurity handles DELETE /admin/securities/:secid
// @Summary Delete a security
// @Description Fails with 409 while price history references the security
// @Tags admin
// @Param secid path string true "Security ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /admin/securities/{secid} [delete]
func (h *AdminHandler) DeleteSecurity(c *gin.Context) {
	secid := c.Param("secid")
	if err := h.deleter.DeleteSecurity(c.Request.Context(), secid); err != nil {
		storeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpsertExchanges handles PUT /admin/exchanges
// @Summary Upsert exchanges
// @Description Insert or update exchange rows keyed on (excid, mic)
// @Tags admin
// @Accept json
// @Produce json
// @Param exchanges body []models.ExchangeRequest true "Exchanges"
// @Success 200 {object} models.IngestResult
// @Failure 400 {object} models.ErrorResponse
// @Router /admin/exchanges [put]
func (h *AdminHandler) UpsertExchanges(c *gin.Context) {
	var reqs []models.ExchangeRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		badRequest(c, err.Error())
		return
	}

	exchanges := make([]*models.Exchange, 0, len(reqs))
	for _, r := range reqs {
		exchanges = append(exchanges, r.ToExchange())
	}

	ctx, wc := services.NewWarningContext(c.Request.Context())
	result, err := h.ingest.UpsertExchanges(ctx, exchanges)
	if err != nil {
		storeError(c, err)
		return
	}
	result.Warnings = wc.GetWarnings()
	c.JSON(http.StatusOK, result)
}

// IngestPrices handles POST /admin/prices
// @Summary Upsert price bars
// @Description Bars are amended in place on (secid, date, frequency, intraperiod). Invalid bars are dropped with a warning.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body models.IngestPricesRequest true "Bars"
// @Success 200 {object} models.IngestResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Router /admin/prices [post]
func (h *AdminHandler) IngestPrices(c *gin.Context) {
	var req models.IngestPricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	bars := make([]models.SecurityPrice, 0, len(req.Bars))
	for _, b := range req.Bars {
		bars = append(bars, b.ToSecurityPrice())
	}

	ctx, wc := services.NewWarningContext(c.Request.Context())
	result, err := h.ingest.IngestPrices(ctx, database.TableSecurityPrices, bars)
	if err != nil {
		storeError(c, err)
		return
	}
	result.Warnings = wc.GetWarnings()
	c.JSON(http.StatusOK, result)
}

// UploadPricesCSV handles POST /admin/prices/csv
// @Summary Upload price bars as CSV
// @Description Multipart form with a "file" part. Columns: secid, date, and optionally frequency, intraperiod, open, high, low, close, volume, adj_open, adj_high, adj_low, adj_close, adj_volume.
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Success 200 {object} models.CSVUploadResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Router /admin/prices/csv [post]
func (h *AdminHandler) UploadPricesCSV(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxCSVUploadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "multipart form must include a \"file\" part")
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		badRequest(c, fmt.Sprintf("failed to open upload: %v", err))
		return
	}
	defer f.Close()

	bars, skipped, err := ParsePricesCSV(f)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx, wc := services.NewWarningContext(c.Request.Context())
	for _, w := range skipped {
		services.AddWarning(ctx, w)
	}

	result, err := h.ingest.IngestPrices(ctx, database.TableSecurityPrices, bars)
	if err != nil {
		storeError(c, err)
		return
	}
	result.Warnings = wc.GetWarnings()
	c.JSON(http.StatusOK, models.CSVUploadResponse{
		IngestResult: *result,
		SkippedRows:  len(skipped),
	})
}

// RebuildPricesLog handles POST /admin/prices-log/rebuild
// @Summary Rebuild prices_log
// @Description Drop and recompute prices_log from security_prices in one transaction
// @Tags admin
// @Produce json
// @Success 200 {object} models.RebuildResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /admin/prices-log/rebuild [post]
func (h *AdminHandler) RebuildPricesLog(c *gin.Context) {
	ctx, wc := services.NewWarningContext(c.Request.Context())
	resp, err := h.rebuilder.Rebuild(ctx)
	if err != nil {
		storeError(c, err)
		return
	}
	resp.Warnings = wc.GetWarnings()
	c.JSON(http.StatusOK, resp)
}

// RecordRun handles POST /admin/update-log
// @Summary Record an update run
// @Description Append one audit row for a run performed by an external loader. elapsed_seconds is derived from start_dt and end_dt.
// @Tags admin
// @Accept json
// @Produce json
// @Param run body models.RecordRunRequest true "Run"
// @Success 201 {object} models.UpdateRun
// @Failure 400 {object} models.ErrorResponse
// @Router /admin/update-log [post]
func (h *AdminHandler) RecordRun(c *gin.Context) {
	var req models.RecordRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if req.Start.IsZero() || req.End.IsZero() {
		badRequest(c, "start_dt and end_dt are required")
		return
	}
	if req.End.Before(req.Start) {
		badRequest(c, "end_dt is before start_dt")
		return
	}

	run := &models.UpdateRun{
		TableName:       req.TableName,
		Start:           req.Start,
		End:             req.End,
		APIQueries:      req.APIQueries,
		APIRequests:     req.APIRequests,
		NewRecords:      req.NewRecords,
		UpdatedRecords:  req.UpdatedRecords,
		InsertedRecords: req.InsertedRecords,
	}
	if _, err := h.runs.Record(c.Request.Context(), run); err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, run)
}
