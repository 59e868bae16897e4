package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestElapsedSeconds(t *testing.T) {
	start := time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		end      time.Time
		expected string
	}{
		{"zero", start, "0"},
		{"whole seconds", start.Add(90 * time.Second), "90"},
		{"rounds down", start.Add(1234*time.Millisecond + 40*time.Microsecond), "1.234"},
		{"rounds half up", start.Add(1*time.Second + 123450*time.Microsecond), "1.1235"},
		{"nanoseconds ignored", start.Add(2*time.Second + 999*time.Nanosecond), "2"},
		{"over a day", start.Add(26*time.Hour + 1500*time.Microsecond), "93600.0015"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ElapsedSeconds(start, tc.end)
			want := decimal.RequireFromString(tc.expected)
			assert.True(t, got.Equal(want), "expected %s, got %s", want, got)
		})
	}
}

func TestElapsedSecondsMatchesSubtraction(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(3*time.Minute + 7*time.Second + 250*time.Millisecond)

	got := ElapsedSeconds(start, end)
	want := decimal.NewFromFloat(end.Sub(start).Seconds()).Round(4)
	assert.True(t, got.Equal(want), "expected %s, got %s", want, got)
}

func TestFrequencyValid(t *testing.T) {
	for _, f := range []Frequency{FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly, FrequencyYearly} {
		assert.True(t, f.Valid(), "expected %q to be valid", f)
	}
	for _, f := range []Frequency{"", "Daily", "intraday", "hourly"} {
		assert.False(t, f.Valid(), "expected %q to be invalid", f)
	}
}

func TestFlexibleDateUnmarshal(t *testing.T) {
	var body struct {
		A FlexibleDate `json:"a"`
		B FlexibleDate `json:"b"`
	}
	err := json.Unmarshal([]byte(`{"a":"2024-01-02","b":"2024-03-01T16:30:00Z"}`), &body)
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), body.A.Time)
	assert.Equal(t, time.Date(2024, 3, 1, 16, 30, 0, 0, time.UTC), body.B.Time)

	err = json.Unmarshal([]byte(`{"a":"01/02/2024"}`), &body)
	assert.Error(t, err)
}

func TestPriceBarRequestDefaultsToDaily(t *testing.T) {
	var req PriceBarRequest
	err := json.Unmarshal([]byte(`{"secid":"AAPL-US","date":"2024-01-02","close":185.64,"adj_close":"185.12345678901234567890"}`), &req)
	assert.NoError(t, err)

	bar := req.ToSecurityPrice()
	assert.Equal(t, FrequencyDaily, bar.Frequency)
	assert.False(t, bar.Intraperiod)
	assert.True(t, bar.Close.Valid)
	assert.Equal(t, "185.64", bar.Close.Decimal.String())
	assert.Equal(t, "185.1234567890123456789", bar.AdjClose.Decimal.String())
	assert.False(t, bar.Open.Valid)
}

func TestSecurityRequestToSecurity(t *testing.T) {
	var req SecurityRequest
	err := json.Unmarshal([]byte(`{"secid":"AAPL-US","ticker":"AAPL","first_stock_price":"1980-12-12"}`), &req)
	assert.NoError(t, err)

	sec := req.ToSecurity()
	assert.Equal(t, "AAPL-US", sec.SecID)
	assert.Equal(t, "AAPL", *sec.Ticker)
	assert.NotNil(t, sec.FirstStockPrice)
	assert.Equal(t, time.Date(1980, 12, 12, 0, 0, 0, 0, time.UTC), *sec.FirstStockPrice)
	assert.Nil(t, sec.LastStockPrice)
}
