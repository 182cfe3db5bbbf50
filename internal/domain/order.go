package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// OrderStatus is the kitchen status of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pendiente"
	StatusPreparing OrderStatus = "preparando"
	StatusReady     OrderStatus = "listo"
	StatusDelivered OrderStatus = "entregado"
	StatusCancelled OrderStatus = "cancelado"
)

// OrderStatuses lists every status in board column order.
var OrderStatuses = []OrderStatus{
	StatusPending,
	StatusPreparing,
	StatusReady,
	StatusDelivered,
	StatusCancelled,
}

var statusFlow = map[OrderStatus]OrderStatus{
	StatusPending:   StatusPreparing,
	StatusPreparing: StatusReady,
	StatusReady:     StatusDelivered,
}

// IsValid reports whether s is one of the five known statuses.
func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Next returns the status that follows s in the kitchen flow.
// Delivered and cancelled orders have no successor.
func (s OrderStatus) Next() (OrderStatus, bool) {
	next, ok := statusFlow[s]
	return next, ok
}

// NormalizeOrderStatus maps a raw backend value onto a known status.
// Unknown and empty values become pending.
func NormalizeOrderStatus(raw string) OrderStatus {
	s := OrderStatus(strings.ToLower(strings.TrimSpace(raw)))
	if s.IsValid() {
		return s
	}
	return StatusPending
}

// ParseOrderStatus is the strict counterpart of NormalizeOrderStatus, used for
// operator input.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	s := OrderStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

// OrderItem is one dish line of an order.
type OrderItem struct {
	DishID   int64
	Quantity int
}

// Order is a table order as reported by the backend.
type Order struct {
	ID       int64
	TableID  int64
	Status   OrderStatus
	Items    []OrderItem
	Comment  string
	PlacedAt string // raw backend timestamp
	Total    *decimal.Decimal
}

// ItemCount sums the quantities of all lines.
func (o *Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// TotalWith returns the order total. A total reported by the backend wins;
// otherwise lines are priced from the menu.
func (o *Order) TotalWith(prices PriceList) decimal.Decimal {
	if o.Total != nil {
		return *o.Total
	}
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(prices.Price(it.DishID).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}
