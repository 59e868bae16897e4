package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextMarketDate(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("should have loaded timezone America/New_York: %v", err)
	}

	testCases := []struct {
		name     string
		input    time.Time
		expected time.Time
	}{
		{
			name:     "Weekday before 4:30 PM",
			input:    time.Date(2024, 7, 23, 10, 0, 0, 0, ny),
			expected: time.Date(2024, 7, 23, 16, 30, 0, 0, ny),
		},
		{
			name:     "Weekday after 4:30 PM",
			input:    time.Date(2024, 7, 23, 17, 0, 0, 0, ny),
			expected: time.Date(2024, 7, 24, 16, 30, 0, 0, ny),
		},
		{
			name:     "Friday after 4:30 PM",
			input:    time.Date(2024, 7, 26, 18, 0, 0, 0, ny),
			expected: time.Date(2024, 7, 29, 16, 30, 0, 0, ny),
		},
		{
			name:     "Sunday",
			input:    time.Date(2024, 7, 28, 12, 0, 0, 0, ny),
			expected: time.Date(2024, 7, 29, 16, 30, 0, 0, ny),
		},
		{
			name:     "Weekday at exactly 4:30 PM",
			input:    time.Date(2024, 7, 23, 16, 30, 0, 0, ny),
			expected: time.Date(2024, 7, 23, 16, 30, 0, 0, ny),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			actual := NextMarketDate(tc.input)
			assert.Equal(t, tc.expected.UTC(), actual, "The expected date should be %v but was %v", tc.expected.UTC(), actual)
		})
	}
}

func TestLastMarketDate(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("should have loaded timezone America/New_York: %v", err)
	}
	date := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

	testCases := []struct {
		name     string
		input    time.Time
		expected time.Time
	}{
		{"Tuesday before close", time.Date(2024, 7, 23, 10, 0, 0, 0, ny), date(2024, 7, 22)},
		{"Tuesday after close", time.Date(2024, 7, 23, 17, 0, 0, 0, ny), date(2024, 7, 23)},
		{"Tuesday at close", time.Date(2024, 7, 23, 16, 30, 0, 0, ny), date(2024, 7, 23)},
		{"Monday before close", time.Date(2024, 7, 29, 9, 0, 0, 0, ny), date(2024, 7, 26)},
		{"Saturday", time.Date(2024, 7, 27, 12, 0, 0, 0, ny), date(2024, 7, 26)},
		{"Sunday", time.Date(2024, 7, 28, 23, 0, 0, 0, ny), date(2024, 7, 26)},
		{"UTC input past midnight", time.Date(2024, 7, 24, 2, 0, 0, 0, time.UTC), date(2024, 7, 23)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, LastMarketDate(tc.input))
		})
	}
}

func TestBusinessDaySteps(t *testing.T) {
	fri := time.Date(2024, 7, 26, 0, 0, 0, 0, time.UTC)
	mon := time.Date(2024, 7, 29, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, mon, NextBusinessDay(fri))
	assert.Equal(t, fri, PrevBusinessDay(mon))
	assert.Equal(t, mon, NextBusinessDay(fri.AddDate(0, 0, 1)))
	assert.True(t, IsWeekend(fri.AddDate(0, 0, 2)))
	assert.False(t, IsWeekend(mon))
}
