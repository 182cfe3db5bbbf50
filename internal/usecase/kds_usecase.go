package usecase

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/iho/restoledger/internal/aggregate"
	"github.com/iho/restoledger/internal/domain"
)

// KDSUseCase drives the kitchen display.
type KDSUseCase struct {
	menuRepo  MenuRepository
	orderRepo OrderRepository
	calendar  *aggregate.Calendar
	now       func() time.Time
}

// NewKDSUseCase creates a new KDSUseCase.
func NewKDSUseCase(menuRepo MenuRepository, orderRepo OrderRepository, calendar *aggregate.Calendar) *KDSUseCase {
	return &KDSUseCase{
		menuRepo:  menuRepo,
		orderRepo: orderRepo,
		calendar:  calendar,
		now:       time.Now,
	}
}

// Ticket is an order as shown on the board.
type Ticket struct {
	ID         int64              `json:"id"`
	TableID    int64              `json:"table_id"`
	Status     domain.OrderStatus `json:"status"`
	NextStatus domain.OrderStatus `json:"next_status,omitempty"`
	Comment    string             `json:"comment,omitempty"`
	PlacedAt   string             `json:"placed_at"`
	ItemCount  int                `json:"item_count"`
	Total      decimal.Decimal    `json:"total"`

	placed time.Time
}

// Column holds the tickets of one status.
type Column struct {
	Status  domain.OrderStatus `json:"status"`
	Tickets []Ticket           `json:"tickets"`
}

// Board groups live orders into one column per status, newest first.
func (uc *KDSUseCase) Board(ctx context.Context) ([]Column, error) {
	menu, orders, err := uc.load(ctx, func(ctx context.Context) ([]*domain.Order, error) {
		return uc.orderRepo.ListLive(ctx)
	})
	if err != nil {
		return nil, err
	}

	prices := domain.NewPriceList(menu)
	byStatus := make(map[domain.OrderStatus][]Ticket, len(domain.OrderStatuses))
	for _, o := range orders {
		t := uc.ticket(o, prices)
		byStatus[t.Status] = append(byStatus[t.Status], t)
	}

	columns := make([]Column, 0, len(domain.OrderStatuses))
	for _, s := range domain.OrderStatuses {
		tickets := byStatus[s]
		slices.SortFunc(tickets, newestFirst)
		if tickets == nil {
			tickets = []Ticket{}
		}
		columns = append(columns, Column{Status: s, Tickets: tickets})
	}
	return columns, nil
}

// Move sets the status of an order.
func (uc *KDSUseCase) Move(ctx context.Context, id int64, status string) error {
	s, err := domain.ParseOrderStatus(status)
	if err != nil {
		return err
	}
	return uc.orderRepo.UpdateStatus(ctx, id, s)
}

// Advance moves an order one step along the kitchen flow and returns the new
// status.
func (uc *KDSUseCase) Advance(ctx context.Context, id int64, current string) (domain.OrderStatus, error) {
	next, ok := domain.NormalizeOrderStatus(current).Next()
	if !ok {
		return "", domain.ErrInvalidStatus
	}
	if err := uc.orderRepo.UpdateStatus(ctx, id, next); err != nil {
		return "", err
	}
	return next, nil
}

// History returns the orders of the last HistoryWindowDays days, highest ID
// first. Orders without a parsable timestamp are left out.
func (uc *KDSUseCase) History(ctx context.Context) ([]Ticket, error) {
	menu, orders, err := uc.load(ctx, func(ctx context.Context) ([]*domain.Order, error) {
		return uc.orderRepo.ListHistory(ctx, HistoryFetchLimit)
	})
	if err != nil {
		return nil, err
	}

	cutoff := uc.calendar.DailyStart(uc.now()).AddDate(0, 0, -HistoryWindowDays)
	prices := domain.NewPriceList(menu)

	tickets := make([]Ticket, 0, len(orders))
	for _, o := range orders {
		t := uc.ticket(o, prices)
		if t.placed.IsZero() || t.placed.Before(cutoff) {
			continue
		}
		tickets = append(tickets, t)
	}
	slices.SortFunc(tickets, func(a, b Ticket) int {
		return cmp.Compare(b.ID, a.ID)
	})
	return tickets, nil
}

func (uc *KDSUseCase) load(ctx context.Context, orders func(context.Context) ([]*domain.Order, error)) ([]*domain.MenuItem, []*domain.Order, error) {
	var (
		menu []*domain.MenuItem
		list []*domain.Order
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		menu, err = uc.menuRepo.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		list, err = orders(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return menu, list, nil
}

func (uc *KDSUseCase) ticket(o *domain.Order, prices domain.PriceList) Ticket {
	status := domain.NormalizeOrderStatus(string(o.Status))
	next, _ := status.Next()
	placed, _ := uc.calendar.ParseTimestamp(o.PlacedAt)

	return Ticket{
		ID:         o.ID,
		TableID:    o.TableID,
		Status:     status,
		NextStatus: next,
		Comment:    o.Comment,
		PlacedAt:   o.PlacedAt,
		ItemCount:  o.ItemCount(),
		Total:      o.TotalWith(prices),
		placed:     placed,
	}
}

func newestFirst(a, b Ticket) int {
	if c := b.placed.Compare(a.placed); c != 0 {
		return c
	}
	return cmp.Compare(b.ID, a.ID)
}
