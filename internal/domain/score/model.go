package score

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"balancehealth/internal/domain/activity"
)

// DateLayout is the calendar-day layout of date_set.
const DateLayout = "2006-01-02"

// MaxSamples bounds the raw signal stored per entry.
const MaxSamples = 20000

// Domain errors
var (
	ErrEmptyPatient  = errors.New("score document requires a patient email")
	ErrInvalidDate   = errors.New("date_set must be a calendar date (YYYY-MM-DD)")
	ErrTooManySample = errors.New("acc_data exceeds the sample limit")
	ErrEmptyLabel    = errors.New("score entry requires an activity label")
)

// Entry is one balance attempt as reported by the device app.
type Entry struct {
	ActivityName string    `json:"activityName"`
	DateSet      string    `json:"date_set"`
	MaxValue     float64   `json:"max_value"`
	MinValue     float64   `json:"min_value"`
	AvgValue     float64   `json:"avg_value"`
	Completed    bool      `json:"completed"`
	AccData      []float64 `json:"acc_data"`
}

// Day parses DateSet to a UTC calendar day.
// Accepts plain dates and full timestamps. Timestamps with an offset are
// moved to UTC before the time of day is discarded.
func (e Entry) Day() (time.Time, error) {
	s := strings.TrimSpace(e.DateSet)
	for _, layout := range []string{DateLayout, time.RFC3339Nano, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, e.DateSet)
}

// Document is one upload of score entries for a patient, keyed by activity label.
type Document struct {
	ID           string
	PatientEmail string
	ReceivedAt   time.Time
	Entries      map[string]Entry
}

// ParseEntries decodes a document body: a JSON object of activity label to Entry.
func ParseEntries(body []byte) (map[string]Entry, error) {
	var entries map[string]Entry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("decode score document: %w", err)
	}
	if entries == nil {
		entries = map[string]Entry{}
	}
	return entries, nil
}

// Body encodes the entries in the document wire format.
func (d *Document) Body() ([]byte, error) {
	entries := d.Entries
	if entries == nil {
		entries = map[string]Entry{}
	}
	return json.Marshal(entries)
}

// Validate checks a document received from a device.
// Unknown labels are allowed here; they are reported when the document is flattened.
// PRE: Document struct is populated
// POST: Returns nil if valid, error otherwise
func (d *Document) Validate() error {
	if strings.TrimSpace(d.PatientEmail) == "" {
		return ErrEmptyPatient
	}
	for label, e := range d.Entries {
		if strings.TrimSpace(label) == "" {
			return ErrEmptyLabel
		}
		if _, err := e.Day(); err != nil {
			return fmt.Errorf("%s: %w", label, err)
		}
		if len(e.AccData) > MaxSamples {
			return fmt.Errorf("%s: %w", label, ErrTooManySample)
		}
	}
	return nil
}

// Row is one flattened attempt of a known activity.
type Row struct {
	DocumentID   string
	ActivityName string
	Kind         activity.Kind
	Date         time.Time
	Max          float64
	Min          float64
	Avg          float64
	Completed    bool
	Samples      []float64
}

// DateString formats Date as a calendar day.
func (r Row) DateString() string {
	return r.Date.Format(DateLayout)
}
