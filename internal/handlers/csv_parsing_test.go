package handlers

import (
	"strings"
	"testing"
	"time"

	"github.com/epeers/secmaster/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestParsePricesCSV_HappyPath(t *testing.T) {
	csv := "secid,date,frequency,intraperiod,open,high,low,close,volume,adj_close\n" +
		"AAPL-US,2024-01-02,daily,false,187.15,188.44,183.885,185.64,82488700,185.12345678901234567890\n" +
		"AAPL-US, 2024-01-03,,,,,,184.25,,\n"

	bars, warnings, err := ParsePricesCSV(strings.NewReader(csv))
	assert.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Len(t, bars, 2)

	first := bars[0]
	assert.Equal(t, "AAPL-US", first.SecID)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, models.FrequencyDaily, first.Frequency)
	assert.Equal(t, "183.885", first.Low.Decimal.String())
	assert.Equal(t, "82488700", first.Volume.Decimal.String())
	assert.Equal(t, "185.1234567890123456789", first.AdjClose.Decimal.String())
	assert.False(t, first.AdjOpen.Valid)

	second := bars[1]
	assert.Equal(t, models.FrequencyDaily, second.Frequency)
	assert.False(t, second.Open.Valid)
	assert.True(t, second.Close.Valid)
	assert.False(t, second.Volume.Valid)
}

func TestParsePricesCSV_MinimalColumns(t *testing.T) {
	csv := "SecID,Date,Close\nMSFT-US,2024-01-02,370.87\n"
	bars, _, err := ParsePricesCSV(strings.NewReader(csv))
	assert.NoError(t, err)
	assert.Len(t, bars, 1)
	assert.Equal(t, "370.87", bars[0].Close.Decimal.String())
}

func TestParsePricesCSV_MissingColumn(t *testing.T) {
	_, _, err := ParsePricesCSV(strings.NewReader("secid,close\nAAPL-US,1\n"))
	assert.ErrorContains(t, err, "missing required column: date")
}

func TestParsePricesCSV_SkipsBadRows(t *testing.T) {
	csv := "secid,date,intraperiod,close\n" +
		",2024-01-02,false,1\n" +
		"AAPL-US,01/02/2024,false,1\n" +
		"AAPL-US,2024-01-02,maybe,1\n" +
		"AAPL-US,2024-01-02,false,abc\n" +
		"AAPL-US,2024-01-02,true,185.64\n"

	bars, warnings, err := ParsePricesCSV(strings.NewReader(csv))
	assert.NoError(t, err)
	assert.Len(t, bars, 1)
	assert.True(t, bars[0].Intraperiod)
	assert.Len(t, warnings, 4)
	for _, w := range warnings {
		assert.Equal(t, models.WarnSkippedCSVRow, w.Code)
	}
	assert.Contains(t, warnings[0].Message, "row 2")
	assert.Contains(t, warnings[3].Message, "invalid close")
}

func TestParsePricesCSV_HeaderOnly(t *testing.T) {
	bars, warnings, err := ParsePricesCSV(strings.NewReader("secid,date,close\n"))
	assert.NoError(t, err)
	assert.Empty(t, bars)
	assert.Empty(t, warnings)
}
