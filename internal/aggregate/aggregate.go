// Package aggregate groups timestamped records into calendar buckets, compares
// periods, and builds running-balance ledgers.
//
// Everything here is a pure function of its inputs: no I/O, no shared state.
// Malformed records are dropped rather than reported.
package aggregate

import "time"

// AggregateIntoBuckets buckets records in the local time zone.
func AggregateIntoBuckets(records []Record, from, to time.Time, g Granularity, filter EntityFilter) []Bucket {
	return NewCalendar(time.Local).Aggregate(records, from, to, g, filter)
}

// ComputePeriodDelta compares periods in the local time zone.
func ComputePeriodDelta(records []Record, from, to time.Time, filter EntityFilter) PeriodDelta {
	return NewCalendar(time.Local).ComputePeriodDelta(records, from, to, filter)
}
