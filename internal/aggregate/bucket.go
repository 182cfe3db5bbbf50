package aggregate

import (
	"strings"
	"time"
)

// MaxBuckets caps bucket generation. Reaching it means the calendar arithmetic
// is broken, so output is truncated instead of looping forever.
const MaxBuckets = 5000

// Line is a per-item breakdown of a record, e.g. one dish of an order.
type Line struct {
	EntityID string
	Category string
	Amount   float64
	Quantity float64
}

// Record is a timestamped monetary/quantity observation.
// When Lines is non-empty it takes precedence over Amount and Quantity.
type Record struct {
	Timestamp string
	Amount    float64
	Quantity  float64
	EntityID  string
	Category  string
	Lines     []Line
}

// EntityFilter restricts aggregation to one entity and/or category.
// The zero value matches everything.
type EntityFilter struct {
	EntityID string
	Category string
}

// Active reports whether the filter restricts anything.
func (f EntityFilter) Active() bool {
	return f.EntityID != "" || f.Category != ""
}

func (f EntityFilter) matches(entityID, category string) bool {
	if f.EntityID != "" && f.EntityID != entityID {
		return false
	}
	if f.Category != "" && !strings.EqualFold(f.Category, category) {
		return false
	}
	return true
}

// measure returns the record's amount and quantity after filtering and whether
// it should be counted at all.
func (r Record) measure(f EntityFilter) (amount, quantity float64, ok bool) {
	if len(r.Lines) > 0 {
		for _, l := range r.Lines {
			if !f.matches(l.EntityID, l.Category) {
				continue
			}
			amount += l.Amount
			quantity += l.Quantity
		}
	} else if f.matches(r.EntityID, r.Category) {
		amount, quantity = r.Amount, r.Quantity
	}

	if f.Active() && amount == 0 && quantity == 0 {
		return 0, 0, false
	}
	return amount, quantity, true
}

// Bucket is one calendar-aligned slot of an aggregated series.
type Bucket struct {
	Start       time.Time `json:"start"`
	Label       string    `json:"label"`
	SumAmount   float64   `json:"sum_amount"`
	SumQuantity float64   `json:"sum_quantity"`
	RecordCount int       `json:"record_count"`
}

// GenerateBuckets returns the empty, gap-free bucket sequence spanning
// [Align(from), Align(to)] inclusive.
func (c *Calendar) GenerateBuckets(from, to time.Time, g Granularity) []Bucket {
	from, to = NormalizeRange(from, to)

	cur := c.Align(from, g)
	end := c.Align(to, g)

	buckets := make([]Bucket, 0, 32)
	for i := 0; i < MaxBuckets; i++ {
		buckets = append(buckets, Bucket{Start: cur, Label: c.Label(cur, g)})
		if !cur.Before(end) {
			break
		}
		cur = c.Advance(cur, g)
	}
	return buckets
}

// Aggregate folds records into the buckets spanning the inclusive day range
// [from, to]. Records with unparsable timestamps, outside the range or
// filtered out contribute nothing.
func (c *Calendar) Aggregate(records []Record, from, to time.Time, g Granularity, filter EntityFilter) []Bucket {
	from, to = NormalizeRange(from, to)
	buckets := c.GenerateBuckets(from, to, g)

	index := make(map[int64]int, len(buckets))
	for i, b := range buckets {
		index[b.Start.Unix()] = i
	}

	lo, hi := c.dayWindow(from, to)

	for _, rec := range records {
		ts, ok := c.ParseTimestamp(rec.Timestamp)
		if !ok {
			continue
		}
		if ts.Before(lo) || !ts.Before(hi) {
			continue
		}

		i, ok := index[c.Align(ts, g).Unix()]
		if !ok {
			continue
		}

		amount, quantity, ok := rec.measure(filter)
		if !ok {
			continue
		}

		buckets[i].SumAmount += amount
		buckets[i].SumQuantity += quantity
		buckets[i].RecordCount++
	}

	return buckets
}

// dayWindow returns the half-open instant window covering the calendar days
// from..to inclusive.
func (c *Calendar) dayWindow(from, to time.Time) (time.Time, time.Time) {
	return c.DailyStart(from), c.DailyStart(to).AddDate(0, 0, 1)
}
