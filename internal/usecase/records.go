package usecase

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/restoledger/internal/aggregate"
	"github.com/iho/restoledger/internal/domain"
)

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// orderRecord turns an order into an aggregation record with one line per
// dish, priced from the current menu.
func orderRecord(o *domain.Order, prices domain.PriceList) aggregate.Record {
	lines := make([]aggregate.Line, 0, len(o.Items))
	for _, it := range o.Items {
		amount := prices.Price(it.DishID).Mul(decimal.NewFromInt(int64(it.Quantity)))
		lines = append(lines, aggregate.Line{
			EntityID: formatID(it.DishID),
			Amount:   amount.InexactFloat64(),
			Quantity: float64(it.Quantity),
		})
	}

	return aggregate.Record{
		Timestamp: o.PlacedAt,
		Amount:    o.TotalWith(prices).InexactFloat64(),
		Quantity:  float64(o.ItemCount()),
		Category:  string(o.Status),
		Lines:     lines,
	}
}

func orderRecords(orders []*domain.Order, prices domain.PriceList) []aggregate.Record {
	records := make([]aggregate.Record, 0, len(orders))
	for _, o := range orders {
		records = append(records, orderRecord(o, prices))
	}
	return records
}

// ordersBetween returns the orders placed in the half-open window [lo, hi).
func ordersBetween(cal *aggregate.Calendar, orders []*domain.Order, lo, hi time.Time) []*domain.Order {
	out := make([]*domain.Order, 0, len(orders))
	for _, o := range orders {
		ts, ok := cal.ParseTimestamp(o.PlacedAt)
		if !ok || ts.Before(lo) || !ts.Before(hi) {
			continue
		}
		out = append(out, o)
	}
	return out
}

// orderLedgerEntries maps delivered orders to incoming ledger entries.
func orderLedgerEntries(orders []*domain.Order, prices domain.PriceList) []aggregate.LedgerEntry {
	entries := make([]aggregate.LedgerEntry, 0, len(orders))
	for _, o := range orders {
		if o.Status != domain.StatusDelivered {
			continue
		}
		entries = append(entries, aggregate.LedgerEntry{
			Date:      o.PlacedAt,
			Direction: aggregate.Incoming,
			Label:     "Venta #" + formatID(o.ID),
			Category:  "VENTAS",
			Reference: "order-" + formatID(o.ID),
			Amount:    o.TotalWith(prices),
		})
	}
	return entries
}

func expenseLedgerEntries(expenses []*domain.Expense) []aggregate.LedgerEntry {
	entries := make([]aggregate.LedgerEntry, 0, len(expenses))
	for _, e := range expenses {
		entries = append(entries, aggregate.LedgerEntry{
			Date:      e.Date,
			Direction: aggregate.Outgoing,
			Label:     e.Concept,
			Category:  domain.NormalizeCategory(e.Category),
			Reference: "expense-" + formatID(e.ID),
			Amount:    e.Amount,
		})
	}
	return entries
}

func movementLedgerEntries(movements []*domain.Movement) []aggregate.LedgerEntry {
	entries := make([]aggregate.LedgerEntry, 0, len(movements))
	for _, m := range movements {
		dir := aggregate.Outgoing
		if m.Type == domain.MovementIncome {
			dir = aggregate.Incoming
		}
		category := m.Category
		if category == "" {
			category = m.Type.DefaultCategory()
		}
		entries = append(entries, aggregate.LedgerEntry{
			Date:      m.Date,
			Direction: dir,
			Label:     m.Concept,
			Category:  category,
			Reference: "movement-" + formatID(m.ID),
			Amount:    m.Amount,
		})
	}
	return entries
}
