package aggregate

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dayLayout = "2006-01-02"

// Direction is the sign of a ledger entry.
type Direction string

const (
	Incoming Direction = "INCOMING"
	Outgoing Direction = "OUTGOING"
)

func (d Direction) rank() int {
	if d == Incoming {
		return 0
	}
	return 1
}

// LedgerEntry is a source record normalized for the ledger. Date may carry a
// time part; only its calendar day is used.
type LedgerEntry struct {
	Date      string
	Direction Direction
	Label     string
	Category  string
	Reference string
	Amount    decimal.Decimal
}

// LedgerRow is a ledger entry annotated with the balance after it.
type LedgerRow struct {
	Date           string          `json:"date"`
	Direction      Direction       `json:"direction"`
	Label          string          `json:"label"`
	Category       string          `json:"category"`
	Reference      string          `json:"reference"`
	Amount         decimal.Decimal `json:"amount"`
	RunningBalance decimal.Decimal `json:"running_balance"`
}

// LedgerSources groups the heterogeneous inputs of a ledger.
type LedgerSources struct {
	Orders   []LedgerEntry
	Expenses []LedgerEntry
	Manual   []LedgerEntry
}

// LedgerFilter narrows the ledger. Empty fields do not filter.
// From and To are inclusive YYYY-MM-DD days.
type LedgerFilter struct {
	From     string
	To       string
	Category string
	Search   string
}

// Ledger is the ordered, balance-annotated result.
type Ledger struct {
	Rows         []LedgerRow     `json:"rows"`
	SumIncoming  decimal.Decimal `json:"sum_incoming"`
	SumOutgoing  decimal.Decimal `json:"sum_outgoing"`
	FinalBalance decimal.Decimal `json:"final_balance"`
}

// CalendarDay extracts the YYYY-MM-DD day of a date or date-time string.
func CalendarDay(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if len(raw) < len(dayLayout) {
		return "", false
	}
	day := raw[:len(dayLayout)]
	if _, err := time.Parse(dayLayout, day); err != nil {
		return "", false
	}
	return day, true
}

// BuildLedger merges the sources into one chronological ledger with a running
// balance. Entries without a derivable calendar day are dropped.
func BuildLedger(src LedgerSources, filter LedgerFilter) Ledger {
	from, to := filter.From, filter.To
	if from != "" && to != "" && to < from {
		from, to = to, from
	}
	category := strings.ToLower(strings.TrimSpace(filter.Category))
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	total := len(src.Orders) + len(src.Expenses) + len(src.Manual)
	rows := make([]LedgerRow, 0, total)

	for _, group := range [][]LedgerEntry{src.Orders, src.Expenses, src.Manual} {
		for _, e := range group {
			day, ok := CalendarDay(e.Date)
			if !ok {
				continue
			}
			if from != "" && day < from {
				continue
			}
			if to != "" && day > to {
				continue
			}
			if category != "" && !strings.Contains(strings.ToLower(e.Category), category) {
				continue
			}
			if search != "" && !matchesSearch(e, day, search) {
				continue
			}

			dir := e.Direction
			if dir != Incoming {
				dir = Outgoing
			}
			rows = append(rows, LedgerRow{
				Date:      day,
				Direction: dir,
				Label:     e.Label,
				Category:  e.Category,
				Reference: e.Reference,
				Amount:    e.Amount.Abs(),
			})
		}
	}

	slices.SortStableFunc(rows, compareRows)

	ledger := Ledger{
		Rows:         rows,
		SumIncoming:  decimal.Zero,
		SumOutgoing:  decimal.Zero,
		FinalBalance: decimal.Zero,
	}

	balance := decimal.Zero
	for i := range ledger.Rows {
		row := &ledger.Rows[i]
		if row.Direction == Incoming {
			balance = balance.Add(row.Amount)
			ledger.SumIncoming = ledger.SumIncoming.Add(row.Amount)
		} else {
			balance = balance.Sub(row.Amount)
			ledger.SumOutgoing = ledger.SumOutgoing.Add(row.Amount)
		}
		row.RunningBalance = balance
	}
	ledger.FinalBalance = balance

	return ledger
}

func compareRows(a, b LedgerRow) int {
	if c := strings.Compare(a.Date, b.Date); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Direction.rank(), b.Direction.rank()); c != 0 {
		return c
	}
	return strings.Compare(a.Reference, b.Reference)
}

func matchesSearch(e LedgerEntry, day, needle string) bool {
	for _, hay := range []string{e.Label, e.Category, e.Reference, day} {
		if strings.Contains(strings.ToLower(hay), needle) {
			return true
		}
	}
	return false
}

// LedgerBucket holds the exact flows of one calendar bucket of a ledger.
type LedgerBucket struct {
	Start    time.Time
	Label    string
	Incoming decimal.Decimal
	Outgoing decimal.Decimal
	Rows     int
}

// Balance is Incoming minus Outgoing.
func (b LedgerBucket) Balance() decimal.Decimal {
	return b.Incoming.Sub(b.Outgoing)
}

// BucketLedger sums ledger rows into the gap-free buckets spanning the
// inclusive day range [from, to] without leaving decimal arithmetic. Rows
// outside the range are skipped.
func (c *Calendar) BucketLedger(l Ledger, from, to time.Time, g Granularity) []LedgerBucket {
	from, to = NormalizeRange(from, to)
	grid := c.GenerateBuckets(from, to, g)

	out := make([]LedgerBucket, len(grid))
	index := make(map[int64]int, len(grid))
	for i, b := range grid {
		out[i] = LedgerBucket{Start: b.Start, Label: b.Label, Incoming: decimal.Zero, Outgoing: decimal.Zero}
		index[b.Start.Unix()] = i
	}

	lo, hi := c.dayWindow(from, to)
	for _, row := range l.Rows {
		ts, ok := c.ParseTimestamp(row.Date)
		if !ok || ts.Before(lo) || !ts.Before(hi) {
			continue
		}
		i, ok := index[c.Align(ts, g).Unix()]
		if !ok {
			continue
		}
		if row.Direction == Incoming {
			out[i].Incoming = out[i].Incoming.Add(row.Amount)
		} else {
			out[i].Outgoing = out[i].Outgoing.Add(row.Amount)
		}
		out[i].Rows++
	}
	return out
}
