package usecase

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/iho/restoledger/internal/aggregate"
	"github.com/iho/restoledger/internal/domain"
)

// AnalyticsUseCase computes sales series and reports from order history.
type AnalyticsUseCase struct {
	menuRepo  MenuRepository
	orderRepo OrderRepository
	calendar  *aggregate.Calendar
	recorder  Recorder
	now       func() time.Time
}

// NewAnalyticsUseCase creates a new AnalyticsUseCase.
func NewAnalyticsUseCase(menuRepo MenuRepository, orderRepo OrderRepository, calendar *aggregate.Calendar, recorder Recorder) *AnalyticsUseCase {
	return &AnalyticsUseCase{
		menuRepo:  menuRepo,
		orderRepo: orderRepo,
		calendar:  calendar,
		recorder:  recorderOrNop(recorder),
		now:       time.Now,
	}
}

// SalesSeriesInput selects a sales chart. A zero To means today and a zero From
// the preset span of the granularity before To; DishID 0 means all dishes.
type SalesSeriesInput struct {
	From        time.Time
	To          time.Time
	Granularity aggregate.Granularity
	DishID      int64
}

// SalesSeries is a bucketed sales chart plus its period comparison.
type SalesSeries struct {
	From        time.Time             `json:"from"`
	To          time.Time             `json:"to"`
	Granularity aggregate.Granularity `json:"granularity"`
	DishID      int64                 `json:"dish_id,omitempty"`
	Buckets     []aggregate.Bucket    `json:"buckets"`
	Delta       aggregate.PeriodDelta `json:"delta"`
}

// DefaultRange returns the preset window of a granularity ending today:
// 30 days, 26 weeks, 24 months or 5 years.
func (uc *AnalyticsUseCase) DefaultRange(g aggregate.Granularity, now time.Time) (time.Time, time.Time) {
	to := uc.calendar.DailyStart(now)
	return presetStart(g, to), to
}

func presetStart(g aggregate.Granularity, to time.Time) time.Time {
	switch g {
	case aggregate.Weekly:
		return to.AddDate(0, 0, -26*7)
	case aggregate.Monthly:
		return to.AddDate(0, -24, 0)
	case aggregate.Yearly:
		return to.AddDate(-5, 0, 0)
	default:
		return to.AddDate(0, 0, -30)
	}
}

// resolveRange fills only the bounds the caller left out: to defaults to
// today, from to the preset span before to.
func (uc *AnalyticsUseCase) resolveRange(g aggregate.Granularity, from, to time.Time) (time.Time, time.Time) {
	if to.IsZero() {
		to = uc.calendar.DailyStart(uc.now())
	}
	if from.IsZero() {
		from = presetStart(g, uc.calendar.DailyStart(to))
	}
	return aggregate.NormalizeRange(from, to)
}

// SalesSeries buckets order revenue over the requested range.
func (uc *AnalyticsUseCase) SalesSeries(ctx context.Context, input SalesSeriesInput) (*SalesSeries, error) {
	if !input.Granularity.IsValid() {
		return nil, fmt.Errorf("%w: %q", aggregate.ErrUnknownGranularity, input.Granularity)
	}
	from, to := uc.resolveRange(input.Granularity, input.From, input.To)

	menu, orders, err := uc.load(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	records := orderRecords(orders, domain.NewPriceList(menu))

	var filter aggregate.EntityFilter
	if input.DishID != 0 {
		filter.EntityID = formatID(input.DishID)
	}

	series := &SalesSeries{
		From:        uc.calendar.DailyStart(from),
		To:          uc.calendar.DailyStart(to),
		Granularity: input.Granularity,
		DishID:      input.DishID,
		Buckets:     uc.calendar.Aggregate(records, from, to, input.Granularity, filter),
		Delta:       uc.calendar.ComputePeriodDelta(records, from, to, filter),
	}
	uc.recorder.ObserveAggregation("sales_series", time.Since(start), len(series.Buckets))

	return series, nil
}

// DishSales is the per-dish outcome of a window.
type DishSales struct {
	DishID   int64           `json:"dish_id"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// SalesSummary reports what was sold in one day, week or month.
type SalesSummary struct {
	Period  aggregate.Granularity `json:"period"`
	From    time.Time             `json:"from"`
	To      time.Time             `json:"to"`
	Orders  int                   `json:"orders"`
	Items   int                   `json:"items"`
	Revenue decimal.Decimal       `json:"revenue"`
	Dishes  []DishSales           `json:"dishes"`
}

// Summary reports sales for the day, week or month containing date.
func (uc *AnalyticsUseCase) Summary(ctx context.Context, period aggregate.Granularity, date time.Time) (*SalesSummary, error) {
	switch period {
	case aggregate.Daily, aggregate.Weekly, aggregate.Monthly:
	default:
		return nil, fmt.Errorf("%w: summary period %q", aggregate.ErrUnknownGranularity, period)
	}
	if date.IsZero() {
		date = uc.now()
	}

	lo := uc.calendar.Align(date, period)
	hi := uc.calendar.Advance(lo, period)

	menu, orders, err := uc.load(ctx)
	if err != nil {
		return nil, err
	}

	window := ordersBetween(uc.calendar, orders, lo, hi)
	dishes := rankDishes(window, menu)

	summary := &SalesSummary{
		Period:  period,
		From:    lo,
		To:      hi.AddDate(0, 0, -1),
		Orders:  len(window),
		Revenue: decimal.Zero,
		Dishes:  dishes,
	}
	for _, d := range dishes {
		summary.Items += d.Quantity
		summary.Revenue = summary.Revenue.Add(d.Revenue)
	}
	return summary, nil
}

// TopDishes ranks dishes by revenue over the inclusive day range.
// A limit of 0 or less returns every dish that sold.
func (uc *AnalyticsUseCase) TopDishes(ctx context.Context, from, to time.Time, limit int) ([]DishSales, error) {
	from, to = uc.resolveRange(aggregate.Daily, from, to)

	menu, orders, err := uc.load(ctx)
	if err != nil {
		return nil, err
	}

	lo := uc.calendar.DailyStart(from)
	hi := uc.calendar.DailyStart(to).AddDate(0, 0, 1)
	dishes := rankDishes(ordersBetween(uc.calendar, orders, lo, hi), menu)

	if limit > 0 && len(dishes) > limit {
		dishes = dishes[:limit]
	}
	return dishes, nil
}

func (uc *AnalyticsUseCase) load(ctx context.Context) ([]*domain.MenuItem, []*domain.Order, error) {
	var (
		menu   []*domain.MenuItem
		orders []*domain.Order
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		menu, err = uc.menuRepo.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		orders, err = uc.orderRepo.ListHistory(gctx, HistoryFetchLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return menu, orders, nil
}

func rankDishes(orders []*domain.Order, menu []*domain.MenuItem) []DishSales {
	prices := domain.NewPriceList(menu)
	names := domain.MenuNames(menu)

	byDish := make(map[int64]*DishSales)
	for _, o := range orders {
		for _, it := range o.Items {
			if it.Quantity == 0 {
				continue
			}
			d, ok := byDish[it.DishID]
			if !ok {
				name := names[it.DishID]
				if name == "" {
					name = "#" + formatID(it.DishID)
				}
				d = &DishSales{DishID: it.DishID, Name: name, Revenue: decimal.Zero}
				byDish[it.DishID] = d
			}
			d.Quantity += it.Quantity
			d.Revenue = d.Revenue.Add(prices.Price(it.DishID).Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
	}

	out := make([]DishSales, 0, len(byDish))
	for _, d := range byDish {
		out = append(out, *d)
	}
	slices.SortFunc(out, func(a, b DishSales) int {
		if c := b.Revenue.Cmp(a.Revenue); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Quantity, a.Quantity); c != 0 {
			return c
		}
		return cmp.Compare(a.DishID, b.DishID)
	})
	return out
}
