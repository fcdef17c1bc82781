package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a civil date (no time-of-day, no zone) serialized as "2006-01-02".
// Trip dates, check-in/out dates, and forecast dates all use this type so the
// wire format stays identical across LLM prompts and exports.
type Date struct {
	t time.Time
}

// NewDate creates a Date from year, month, and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a time.Time to its civil date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a "2006-01-02" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{t: t}, nil
}

func (d Date) IsZero() bool        { return d.t.IsZero() }
func (d Date) String() string      { return d.t.Format(dateLayout) }
func (d Date) Time() time.Time     { return d.t }
func (d Date) Before(o Date) bool  { return d.t.Before(o.t) }
func (d Date) After(o Date) bool   { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool   { return d.t.Equal(o.t) }
func (d Date) AddDays(n int) Date  { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) DaysUntil(o Date) int {
	return int(o.t.Sub(d.t).Hours() / 24)
}

// Format renders the date with a custom layout, e.g. "Jan 2, 2006".
func (d Date) Format(layout string) string { return d.t.Format(layout) }

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil || *s == "" {
		*d = Date{}
		return nil
	}
	// LLMs occasionally return full timestamps; accept and truncate them.
	if parsed, err := time.Parse(dateLayout, *s); err == nil {
		*d = Date{t: parsed}
		return nil
	}
	if parsed, err := time.Parse(time.RFC3339, *s); err == nil {
		*d = DateOf(parsed)
		return nil
	}
	return fmt.Errorf("invalid date %q", *s)
}
