package storage

import (
	"fmt"
	"time"
)

// TimeLayout is the text encoding of timestamp columns.
const TimeLayout = "2006-01-02T15:04:05.999999999Z07:00"

// FormatTime encodes t for a timestamp column; the zero time encodes as NULL.
func FormatTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(TimeLayout)
}

// ParseTime decodes a timestamp column written by FormatTime or by hand.
func ParseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time: %s", s)
}
