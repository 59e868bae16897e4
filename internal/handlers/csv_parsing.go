package handlers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/epeers/secmaster/internal/models"
	"github.com/shopspring/decimal"
)

// priceCSVColumns are the optional price columns, in upload order
var priceCSVColumns = []string{
	"open", "high", "low", "close", "volume",
	"adj_open", "adj_high", "adj_low", "adj_close", "adj_volume",
}

// ParsePricesCSV parses a price bar upload.
// Required columns: secid, date (YYYY-MM-DD)
// Optional columns: frequency (default daily), intraperiod (default false),
// open, high, low, close, volume, adj_open, adj_high, adj_low, adj_close, adj_volume.
// Empty price cells are NULL. Rows that cannot be parsed are skipped and
// reported as W1003 warnings; only header and read errors fail the upload.
func ParsePricesCSV(r io.Reader) ([]models.SecurityPrice, []models.Warning, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colIdx := make(map[string]int)
	for i, col := range header {
		colIdx[strings.ToLower(strings.TrimSpace(col))] = i
	}

	for _, col := range []string{"secid", "date"} {
		if _, ok := colIdx[col]; !ok {
			return nil, nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	optionalCol := func(record []string, col string) string {
		idx, ok := colIdx[col]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var bars []models.SecurityPrice
	var warnings []models.Warning
	skip := func(row int, format string, args ...any) {
		warnings = append(warnings, models.Warning{
			Code:    models.WarnSkippedCSVRow,
			Message: fmt.Sprintf("row %d: ", row) + fmt.Sprintf(format, args...),
		})
	}

	reader.FieldsPerRecord = -1
	rowNum := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: failed to read CSV record: %w", rowNum+1, err)
		}
		rowNum++

		secid := optionalCol(record, "secid")
		if secid == "" {
			skip(rowNum, "secid is empty")
			continue
		}

		dateStr := optionalCol(record, "date")
		date, err := models.ParseDate(dateStr)
		if err != nil {
			skip(rowNum, "invalid date %q", dateStr)
			continue
		}

		bar := models.SecurityPrice{
			SecID:     secid,
			Date:      date,
			Frequency: models.FrequencyDaily,
		}
		if f := optionalCol(record, "frequency"); f != "" {
			bar.Frequency = models.Frequency(strings.ToLower(f))
		}
		if ip := optionalCol(record, "intraperiod"); ip != "" {
			bar.Intraperiod, err = strconv.ParseBool(ip)
			if err != nil {
				skip(rowNum, "invalid intraperiod %q", ip)
				continue
			}
		}

		fields := map[string]*decimal.NullDecimal{
			"open": &bar.Open, "high": &bar.High, "low": &bar.Low, "close": &bar.Close, "volume": &bar.Volume,
			"adj_open": &bar.AdjOpen, "adj_high": &bar.AdjHigh, "adj_low": &bar.AdjLow,
			"adj_close": &bar.AdjClose, "adj_volume": &bar.AdjVolume,
		}
		bad := ""
		for _, col := range priceCSVColumns {
			raw := optionalCol(record, col)
			if raw == "" {
				continue
			}
			d, err := decimal.NewFromString(raw)
			if err != nil {
				bad = fmt.Sprintf("invalid %s %q", col, raw)
				break
			}
			*fields[col] = decimal.NewNullDecimal(d)
		}
		if bad != "" {
			skip(rowNum, "%s", bad)
			continue
		}

		bars = append(bars, bar)
	}

	return bars, warnings, nil
}
