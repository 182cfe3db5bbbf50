package aggregate

import "time"

// PeriodTotals are flat sums over a date window.
type PeriodTotals struct {
	From     time.Time `json:"from"`
	To       time.Time `json:"to"`
	Amount   float64   `json:"amount"`
	Quantity float64   `json:"quantity"`
	Count    int       `json:"count"`
}

// AverageTicket is Amount per counted record, 0 when nothing was counted.
func (p PeriodTotals) AverageTicket() float64 {
	if p.Count == 0 {
		return 0
	}
	return p.Amount / float64(p.Count)
}

// PeriodDelta compares a window against the preceding window of equal length.
type PeriodDelta struct {
	Current          PeriodTotals `json:"current"`
	Previous         PeriodTotals `json:"previous"`
	DeltaPct         float64      `json:"delta_pct"`
	DeltaQuantityPct float64      `json:"delta_quantity_pct"`
	DeltaCountPct    float64      `json:"delta_count_pct"`
	DeltaTicketPct   float64      `json:"delta_ticket_pct"`
}

// Pct returns the percentage change from previous to current.
//
// A zero previous baseline yields exactly 0, whatever current is. This is a
// reporting policy, not a mathematical result: callers that need to tell
// "no change" from "no baseline" must check Previous themselves.
func Pct(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

// Totals sums the filtered records in the inclusive day range [from, to].
func (c *Calendar) Totals(records []Record, from, to time.Time, filter EntityFilter) PeriodTotals {
	from, to = NormalizeRange(from, to)
	lo, hi := c.dayWindow(from, to)

	totals := PeriodTotals{From: lo, To: c.DailyStart(to)}
	for _, rec := range records {
		ts, ok := c.ParseTimestamp(rec.Timestamp)
		if !ok || ts.Before(lo) || !ts.Before(hi) {
			continue
		}
		amount, quantity, ok := rec.measure(filter)
		if !ok {
			continue
		}
		totals.Amount += amount
		totals.Quantity += quantity
		totals.Count++
	}
	return totals
}

// ComputePeriodDelta compares [from, to] against the window of the same number
// of days immediately before it.
func (c *Calendar) ComputePeriodDelta(records []Record, from, to time.Time, filter EntityFilter) PeriodDelta {
	from, to = NormalizeRange(from, to)

	length := c.DaysBetween(from, to) + 1
	prevFrom := c.DailyStart(from).AddDate(0, 0, -length)
	prevTo := c.DailyStart(to).AddDate(0, 0, -length)

	current := c.Totals(records, from, to, filter)
	previous := c.Totals(records, prevFrom, prevTo, filter)

	return PeriodDelta{
		Current:          current,
		Previous:         previous,
		DeltaPct:         Pct(current.Amount, previous.Amount),
		DeltaQuantityPct: Pct(current.Quantity, previous.Quantity),
		DeltaCountPct:    Pct(float64(current.Count), float64(previous.Count)),
		DeltaTicketPct:   Pct(current.AverageTicket(), previous.AverageTicket()),
	}
}
