package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Timestamp is a time that is stored as epoch milliseconds, the format the
// dashboard has always written into the key-value store.
//
// It unmarshals from any of:
//   - epoch milliseconds (number): 1705314600000
//   - epoch milliseconds (string): "1705314600000"
//   - RFC3339 string: "2024-01-15T10:30:00Z"
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// Now returns the current time as a Timestamp.
func Now() Timestamp {
	return Timestamp{Time: time.Now()}
}

// UnmarshalJSON handles flexible time parsing.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		ts.Time = time.Time{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			ts.Time = time.UnixMilli(ms)
			return nil
		}
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			ts.Time = t
			return nil
		}
		return fmt.Errorf("cannot parse time string: %s", s)
	}

	// Some encoders emit large integers as floats.
	var ms float64
	if err := json.Unmarshal(data, &ms); err == nil {
		ts.Time = time.UnixMilli(int64(ms))
		return nil
	}

	return fmt.Errorf("cannot unmarshal %s into Timestamp", string(data))
}

// MarshalJSON writes epoch milliseconds. The zero time is written as null.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(ts.UnixMilli(), 10)), nil
}
