package util

import (
	"time"

	log "github.com/sirupsen/logrus"
)

func marketLocation() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		log.Errorf("Failed to load location 'America/New_York': %v. Falling back to UTC.", err)
		return time.UTC
	}
	return loc
}

// IsWeekend reports whether d falls on a Saturday or Sunday
func IsWeekend(d time.Time) bool {
	return d.Weekday() == time.Saturday || d.Weekday() == time.Sunday
}

// NextMarketDate predicts the date of the next stock market update.
// It handles timezone conversion, business day logic.
// It returns the next valid market date (a weekday) at 4:30 PM New York time, in UTC.
func NextMarketDate(input time.Time) time.Time {
	loc := marketLocation()
	nowET := input.In(loc)

	// Start with today at 4:30 PM ET
	next := time.Date(nowET.Year(), nowET.Month(), nowET.Day(), 16, 30, 0, 0, loc)

	// If it's already past 4:30 PM, move to the next day
	if nowET.After(next) {
		next = next.AddDate(0, 0, 1)
	}

	// Skip weekends to find the next business day
	for IsWeekend(next) {
		next = next.AddDate(0, 0, 1)
	}

	return next.UTC()
}

// LastMarketDate returns the most recent weekday whose 4:30 PM New York close
// is at or before input, as a date at UTC midnight. This is the newest bar a
// complete daily price history can contain.
func LastMarketDate(input time.Time) time.Time {
	loc := marketLocation()
	nowET := input.In(loc)

	last := time.Date(nowET.Year(), nowET.Month(), nowET.Day(), 16, 30, 0, 0, loc)
	if nowET.Before(last) {
		last = last.AddDate(0, 0, -1)
	}
	for IsWeekend(last) {
		last = last.AddDate(0, 0, -1)
	}

	return time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, time.UTC)
}

// NextBusinessDay returns the first weekday strictly after d
func NextBusinessDay(d time.Time) time.Time {
	next := d.AddDate(0, 0, 1)
	for IsWeekend(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// PrevBusinessDay returns the last weekday strictly before d
func PrevBusinessDay(d time.Time) time.Time {
	prev := d.AddDate(0, 0, -1)
	for IsWeekend(prev) {
		prev = prev.AddDate(0, 0, -1)
	}
	return prev
}
