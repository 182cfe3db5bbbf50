package aggregate

import (
	"fmt"
	"strings"
	"time"

	"github.com/jinzhu/now"
)

// timestampLayouts are tried in order when parsing record timestamps.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Calendar aligns instants to bucket boundaries in a fixed location.
type Calendar struct {
	loc    *time.Location
	config *now.Config
}

// NewCalendar creates a Calendar for loc. A nil loc means time.Local.
func NewCalendar(loc *time.Location) *Calendar {
	if loc == nil {
		loc = time.Local
	}
	return &Calendar{
		loc: loc,
		config: &now.Config{
			WeekStartDay: time.Monday,
			TimeLocation: loc,
		},
	}
}

// Location returns the calendar's time zone.
func (c *Calendar) Location() *time.Location {
	return c.loc
}

// DailyStart returns midnight of t's calendar day.
func (c *Calendar) DailyStart(t time.Time) time.Time {
	return c.config.With(t.In(c.loc)).BeginningOfDay()
}

// WeeklyStart returns midnight of the Monday on or before t.
func (c *Calendar) WeeklyStart(t time.Time) time.Time {
	return c.config.With(t.In(c.loc)).BeginningOfWeek()
}

// MonthlyStart returns midnight of the first day of t's month.
func (c *Calendar) MonthlyStart(t time.Time) time.Time {
	return c.config.With(t.In(c.loc)).BeginningOfMonth()
}

// YearlyStart returns midnight of January 1 of t's year.
func (c *Calendar) YearlyStart(t time.Time) time.Time {
	return c.config.With(t.In(c.loc)).BeginningOfYear()
}

// Align returns the start of the bucket containing t.
func (c *Calendar) Align(t time.Time, g Granularity) time.Time {
	switch g {
	case Weekly:
		return c.WeeklyStart(t)
	case Monthly:
		return c.MonthlyStart(t)
	case Yearly:
		return c.YearlyStart(t)
	default:
		return c.DailyStart(t)
	}
}

// Advance returns the start of the bucket following start.
func (c *Calendar) Advance(start time.Time, g Granularity) time.Time {
	switch g {
	case Weekly:
		return start.AddDate(0, 0, 7)
	case Monthly:
		return start.AddDate(0, 1, 0)
	case Yearly:
		return start.AddDate(1, 0, 0)
	default:
		return start.AddDate(0, 0, 1)
	}
}

// Label renders the short chart label of a bucket starting at start.
func (c *Calendar) Label(start time.Time, g Granularity) string {
	start = start.In(c.loc)
	switch g {
	case Weekly:
		return "Wk " + start.Format("02/01")
	case Monthly:
		return start.Format("01/2006")
	case Yearly:
		return start.Format("2006")
	default:
		return start.Format("02/01")
	}
}

// NormalizeRange swaps from and to when to is before from.
func NormalizeRange(from, to time.Time) (time.Time, time.Time) {
	if to.Before(from) {
		return to, from
	}
	return from, to
}

// DaysBetween counts whole calendar days from a to b in the calendar's zone.
func (c *Calendar) DaysBetween(a, b time.Time) int {
	ay, am, ad := a.In(c.loc).Date()
	by, bm, bd := b.In(c.loc).Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

// ParseTimestamp parses a record timestamp. Timestamps without a zone are read
// in the calendar's location; a space separating date and time is accepted.
func (c *Calendar) ParseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if !strings.Contains(raw, "T") {
		raw = strings.Replace(raw, " ", "T", 1)
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, raw, c.loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseDay parses a YYYY-MM-DD date at midnight in the calendar's location.
func (c *Calendar) ParseDay(raw string) (time.Time, error) {
	t, err := time.ParseInLocation(dayLayout, strings.TrimSpace(raw), c.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", raw, err)
	}
	return t, nil
}
