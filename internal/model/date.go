package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateFormat is the canonical on-disk date layout.
const DateFormat = "2006-01-02"

// dayLayouts carry no time of day and are taken at face value.
var dayLayouts = []string{
	DateFormat,
	"2006-1-2",
}

// instantLayouts name a moment in time. The millisecond RFC3339 form is what
// the mobile client writes for date pickers. Layouts without an offset are
// read as local wall-clock time.
var instantLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
}

// Date is a calendar day with no time-of-day or zone component.
type Date struct {
	t time.Time // always midnight UTC
}

// NewDate returns a normalized Date, so NewDate(2025, 2, 30) is March 2nd.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Date())
}

// Today returns the current local calendar day.
func Today() Date { return DateOf(time.Now()) }

// ParseDate parses a single date string using the accepted layouts.
// Timestamps resolve to the calendar day they fall on in local time.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	for _, layout := range dayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), nil
		}
	}
	for _, layout := range instantLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return DateOf(t.In(time.Local)), nil
		}
	}
	return Date{}, fmt.Errorf("invalid date %q, want format %q", s, DateFormat)
}

// MustParseDate is like ParseDate but panics on error.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err.Error())
	}
	return d
}

func (d Date) IsZero() bool       { return d.t.IsZero() }
func (d Date) Time() time.Time    { return d.t }
func (d Date) Before(x Date) bool { return d.t.Before(x.t) }
func (d Date) After(x Date) bool  { return d.t.After(x.t) }
func (d Date) Equal(x Date) bool  { return d.t.Equal(x.t) }

// AddMonths adds n calendar months, normalizing overflowing days the same way
// time.Date does (Nov 30 + 3 months is Mar 2 in a non-leap year).
func (d Date) AddMonths(n int) Date {
	y, m, day := d.t.Date()
	return NewDate(y, m+time.Month(n), day)
}

// String formats the date as YYYY-MM-DD, or "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateFormat)
}

// Format formats the date with a time layout.
func (d Date) Format(layout string) string { return d.t.Format(layout) }

// MarshalJSON always writes a single string.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts a date string or an array of date strings, in which
// case the first element wins. null and [] decode to the zero date.
func (d *Date) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}

	var s string
	if len(data) > 0 && data[0] == '[' {
		var arr []string
		if err := json.Unmarshal(data, &arr); err != nil {
			return fmt.Errorf("decoding date array: %w", err)
		}
		if len(arr) > 0 {
			s = arr[0]
		}
	} else if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decoding date: %w", err)
	}

	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
