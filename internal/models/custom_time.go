package models

import (
	"encoding/json"
	"strings"
	"time"
)

// DateLayout is the YYYY-MM-DD layout used for DATE columns
const DateLayout = "2006-01-02"

// FlexibleDate is a custom time type that can unmarshal both RFC3339 and "YYYY-MM-DD" formats
type FlexibleDate struct {
	time.Time
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *FlexibleDate) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)

	// Try parsing as RFC3339 full timestamp first
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		f.Time = t
		return nil
	}

	// If that fails, try parsing as a date-only string
	t, err = time.Parse(DateLayout, s)
	if err != nil {
		return err
	}
	f.Time = t
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (f FlexibleDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Time)
}

// TimePtr returns nil for a nil receiver, otherwise the wrapped time.
func (f *FlexibleDate) TimePtr() *time.Time {
	if f == nil {
		return nil
	}
	t := f.Time
	return &t
}

// ParseDate parses a YYYY-MM-DD string as a UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
