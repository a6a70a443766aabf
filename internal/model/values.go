package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ID is an entity identifier. Backends send either numbers or strings.
type ID string

// UnmarshalJSON accepts a JSON string, number or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decoding id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decoding id %s: %w", data, err)
	}
	*id = ID(n.String())
	return nil
}

// timestampLayouts are tried in order when decoding a Timestamp.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z07",
	"2006-01-02 15:04:05.999999999",
}

const dateLayout = "2006-01-02"

// Timestamp is a point in time or a calendar date. Values decoded from a
// bare "YYYY-MM-DD" have DateOnly set and are interpreted as a civil date
// in whatever location the caller compares them in.
type Timestamp struct {
	time.Time
	DateOnly bool
}

// Date returns a date-only Timestamp.
func Date(year int, month time.Month, day int) Timestamp {
	return Timestamp{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC), DateOnly: true}
}

// At returns a full Timestamp.
func At(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// ParseTimestamp parses the formats backends are known to send.
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Timestamp{}, nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return Timestamp{Time: t, DateOnly: true}, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// UnmarshalJSON accepts a string in any supported layout, or null.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*ts = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decoding timestamp: %w", err)
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}

// MarshalJSON writes date-only values back as "YYYY-MM-DD".
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	if ts.DateOnly {
		return json.Marshal(ts.Time.Format(dateLayout))
	}
	return json.Marshal(ts.Time.Format(time.RFC3339Nano))
}

// Day returns midnight of the calendar day ts falls on, in loc.
func (ts Timestamp) Day(loc *time.Location) time.Time {
	if ts.DateOnly {
		y, m, d := ts.Time.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	}
	y, m, d := ts.Time.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// Amount is a money value. Backends send numbers or numeric strings
// (Postgres numeric columns come back quoted).
type Amount float64

// UnmarshalJSON accepts a JSON number, numeric string or null.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decoding amount: %w", err)
		}
		if strings.TrimSpace(s) == "" {
			*a = 0
			return nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("decoding amount %q: %w", s, err)
		}
		*a = Amount(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("decoding amount %s: %w", data, err)
	}
	*a = Amount(f)
	return nil
}
