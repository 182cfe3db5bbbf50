package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/iho/restoledger/internal/aggregate"
	"github.com/iho/restoledger/internal/domain"
)

// LedgerUseCase builds the accounting journal from sales, expenses and manual
// movements.
type LedgerUseCase struct {
	menuRepo     MenuRepository
	orderRepo    OrderRepository
	expenseRepo  ExpenseRepository
	movementRepo MovementRepository
	calendar     *aggregate.Calendar
	recorder     Recorder
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	menuRepo MenuRepository,
	orderRepo OrderRepository,
	expenseRepo ExpenseRepository,
	movementRepo MovementRepository,
	calendar *aggregate.Calendar,
	recorder Recorder,
) *LedgerUseCase {
	return &LedgerUseCase{
		menuRepo:     menuRepo,
		orderRepo:    orderRepo,
		expenseRepo:  expenseRepo,
		movementRepo: movementRepo,
		calendar:     calendar,
		recorder:     recorderOrNop(recorder),
	}
}

// LedgerInput filters the journal. Days are YYYY-MM-DD and inclusive.
type LedgerInput struct {
	From     string
	To       string
	Category string
	Search   string
}

// Build fetches every source concurrently and returns the running ledger.
func (uc *LedgerUseCase) Build(ctx context.Context, input LedgerInput) (*aggregate.Ledger, error) {
	if err := domain.ValidateDateRange(input.From, input.To); err != nil {
		return nil, err
	}

	src, err := uc.sources(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	ledger := aggregate.BuildLedger(src, aggregate.LedgerFilter{
		From:     input.From,
		To:       input.To,
		Category: input.Category,
		Search:   input.Search,
	})
	uc.recorder.ObserveAggregation("ledger", time.Since(start), len(ledger.Rows))

	return &ledger, nil
}

func (uc *LedgerUseCase) sources(ctx context.Context) (aggregate.LedgerSources, error) {
	var (
		menu      []*domain.MenuItem
		orders    []*domain.Order
		expenses  []*domain.Expense
		movements []*domain.Movement
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		menu, err = uc.menuRepo.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		orders, err = uc.orderRepo.ListHistory(gctx, HistoryFetchLimit)
		return err
	})
	g.Go(func() (err error) {
		expenses, err = uc.expenseRepo.List(gctx, domain.ExpenseFilter{Limit: AccountingFetchLimit})
		return err
	})
	g.Go(func() (err error) {
		movements, err = uc.movementRepo.List(gctx, AccountingFetchLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return aggregate.LedgerSources{}, err
	}

	return aggregate.LedgerSources{
		Orders:   orderLedgerEntries(orders, domain.NewPriceList(menu)),
		Expenses: expenseLedgerEntries(expenses),
		Manual:   movementLedgerEntries(movements),
	}, nil
}

// MonthlyBalance is one month of the income statement.
type MonthlyBalance struct {
	Month    string          `json:"month"`
	Start    time.Time       `json:"start"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Balance  decimal.Decimal `json:"balance"`
}

// MonthlyBalance groups the filtered ledger into calendar months. Without an
// explicit range the months span the first to the last ledger row.
func (uc *LedgerUseCase) MonthlyBalance(ctx context.Context, input LedgerInput) ([]MonthlyBalance, error) {
	ledger, err := uc.Build(ctx, input)
	if err != nil {
		return nil, err
	}
	if len(ledger.Rows) == 0 {
		return []MonthlyBalance{}, nil
	}

	fromDay, toDay := strings.TrimSpace(input.From), strings.TrimSpace(input.To)
	if fromDay == "" {
		fromDay = ledger.Rows[0].Date
	}
	if toDay == "" {
		toDay = ledger.Rows[len(ledger.Rows)-1].Date
	}
	from, err := uc.calendar.ParseDay(fromDay)
	if err != nil {
		return nil, err
	}
	to, err := uc.calendar.ParseDay(toDay)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	buckets := uc.calendar.BucketLedger(*ledger, from, to, aggregate.Monthly)

	months := make([]MonthlyBalance, 0, len(buckets))
	for _, b := range buckets {
		months = append(months, MonthlyBalance{
			Month:    b.Label,
			Start:    b.Start,
			Income:   b.Incoming,
			Expenses: b.Outgoing,
			Balance:  b.Balance(),
		})
	}
	uc.recorder.ObserveAggregation("monthly_balance", time.Since(start), len(months))

	return months, nil
}
