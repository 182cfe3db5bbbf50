package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/iho/restoledger/internal/domain"
	"github.com/iho/restoledger/internal/usecase"
)

func notFound(err error, target error, id int64) error {
	if errors.Is(err, errNotFound) {
		return fmt.Errorf("%w: %d", target, id)
	}
	return err
}

// listFetchLimit bounds listings the backend does not paginate itself.
const listFetchLimit = usecase.AccountingFetchLimit

// MenuRepository implements usecase.MenuRepository against /menu.
type MenuRepository struct {
	client *Client
}

// NewMenuRepository creates a new MenuRepository.
func NewMenuRepository(client *Client) *MenuRepository {
	return &MenuRepository{client: client}
}

func (r *MenuRepository) List(ctx context.Context) ([]*domain.MenuItem, error) {
	var raw json.RawMessage
	if err := r.client.get(ctx, "/menu", nil, &raw); err != nil {
		return nil, err
	}
	payloads, err := decodeList[menuPayload](raw)
	if err != nil {
		return nil, fmt.Errorf("decode menu: %w", err)
	}

	items := make([]*domain.MenuItem, 0, len(payloads))
	for _, p := range payloads {
		items = append(items, p.toDomain())
	}
	return items, nil
}

func (r *MenuRepository) Create(ctx context.Context, item *domain.MenuItem) (*domain.MenuItem, error) {
	var out menuPayload
	if err := r.client.send(ctx, http.MethodPost, "/menu", newMenuWritePayload(item), &out); err != nil {
		return nil, err
	}
	return mergeMenuItem(item, out), nil
}

func (r *MenuRepository) Update(ctx context.Context, item *domain.MenuItem) (*domain.MenuItem, error) {
	var out menuPayload
	path := "/menu/" + strconv.FormatInt(item.ID, 10)
	if err := r.client.send(ctx, http.MethodPut, path, newMenuWritePayload(item), &out); err != nil {
		return nil, notFound(err, domain.ErrMenuItemNotFound, item.ID)
	}
	return mergeMenuItem(item, out), nil
}

func (r *MenuRepository) Delete(ctx context.Context, id int64) error {
	err := r.client.send(ctx, http.MethodDelete, "/menu/"+strconv.FormatInt(id, 10), nil, nil)
	return notFound(err, domain.ErrMenuItemNotFound, id)
}

// mergeMenuItem prefers what the backend echoed back and falls back to what
// was sent when the response body was empty.
func mergeMenuItem(sent *domain.MenuItem, echoed menuPayload) *domain.MenuItem {
	got := echoed.toDomain()
	if got.ID == 0 {
		got.ID = sent.ID
	}
	if got.Name == "" {
		got.Name = sent.Name
		got.Price = sent.Price
		got.Category = sent.Category
	}
	return got
}

// OrderRepository implements usecase.OrderRepository against /pedidos.
type OrderRepository struct {
	client *Client
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(client *Client) *OrderRepository {
	return &OrderRepository{client: client}
}

func (r *OrderRepository) ListLive(ctx context.Context) ([]*domain.Order, error) {
	return r.list(ctx, "/pedidos", nil)
}

func (r *OrderRepository) ListHistory(ctx context.Context, limit int) ([]*domain.Order, error) {
	var query map[string]string
	if limit > 0 {
		query = map[string]string{"limit": strconv.Itoa(limit)}
	}
	return r.list(ctx, "/pedidos_historial", query)
}

func (r *OrderRepository) list(ctx context.Context, path string, query map[string]string) ([]*domain.Order, error) {
	var raw json.RawMessage
	if err := r.client.get(ctx, path, query, &raw); err != nil {
		return nil, err
	}
	payloads, err := decodeList[orderPayload](raw)
	if err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}

	orders := make([]*domain.Order, 0, len(payloads))
	for _, p := range payloads {
		orders = append(orders, p.toDomain())
	}
	return orders, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	path := "/pedidos/" + strconv.FormatInt(id, 10)
	err := r.client.send(ctx, http.MethodPatch, path, orderStatusPayload{Status: status}, nil)
	return notFound(err, domain.ErrOrderNotFound, id)
}

// ExpenseRepository implements usecase.ExpenseRepository against /gastos.
//
// The backend only honours limit, so date and category filters are applied
// here.
type ExpenseRepository struct {
	client *Client
}

// NewExpenseRepository creates a new ExpenseRepository.
func NewExpenseRepository(client *Client) *ExpenseRepository {
	return &ExpenseRepository{client: client}
}

func (r *ExpenseRepository) List(ctx context.Context, filter domain.ExpenseFilter) ([]*domain.Expense, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = listFetchLimit
	}

	var raw json.RawMessage
	if err := r.client.get(ctx, "/gastos", map[string]string{"limit": strconv.Itoa(limit)}, &raw); err != nil {
		return nil, err
	}
	payloads, err := decodeList[expensePayload](raw)
	if err != nil {
		return nil, fmt.Errorf("decode expenses: %w", err)
	}

	category := strings.ToUpper(strings.TrimSpace(filter.Category))
	expenses := make([]*domain.Expense, 0, len(payloads))
	for _, p := range payloads {
		e := p.toDomain()
		if filter.From != "" && (e.Date == "" || e.Date < filter.From) {
			continue
		}
		if filter.To != "" && (e.Date == "" || e.Date > filter.To) {
			continue
		}
		if category != "" && e.Category != category {
			continue
		}
		expenses = append(expenses, e)
	}
	return expenses, nil
}

func (r *ExpenseRepository) Create(ctx context.Context, expense *domain.Expense) (*domain.Expense, error) {
	var out expensePayload
	if err := r.client.send(ctx, http.MethodPost, "/gastos", newExpenseWritePayload(expense), &out); err != nil {
		return nil, err
	}
	return mergeExpense(expense, out), nil
}

func (r *ExpenseRepository) Update(ctx context.Context, expense *domain.Expense) (*domain.Expense, error) {
	var out expensePayload
	path := "/gastos/" + strconv.FormatInt(expense.ID, 10)
	if err := r.client.send(ctx, http.MethodPut, path, newExpenseWritePayload(expense), &out); err != nil {
		return nil, notFound(err, domain.ErrExpenseNotFound, expense.ID)
	}
	return mergeExpense(expense, out), nil
}

func (r *ExpenseRepository) Delete(ctx context.Context, id int64) error {
	err := r.client.send(ctx, http.MethodDelete, "/gastos/"+strconv.FormatInt(id, 10), nil, nil)
	return notFound(err, domain.ErrExpenseNotFound, id)
}

func mergeExpense(sent *domain.Expense, echoed expensePayload) *domain.Expense {
	got := echoed.toDomain()
	if got.ID == 0 {
		got.ID = sent.ID
	}
	if got.Concept == "" {
		cp := *sent
		cp.ID = got.ID
		return &cp
	}
	return got
}

// MovementRepository implements usecase.MovementRepository against
// /contabilidad/movimientos.
type MovementRepository struct {
	client *Client
}

// NewMovementRepository creates a new MovementRepository.
func NewMovementRepository(client *Client) *MovementRepository {
	return &MovementRepository{client: client}
}

func (r *MovementRepository) List(ctx context.Context, limit int) ([]*domain.Movement, error) {
	if limit <= 0 {
		limit = listFetchLimit
	}

	var raw json.RawMessage
	if err := r.client.get(ctx, "/contabilidad/movimientos", map[string]string{"limit": strconv.Itoa(limit)}, &raw); err != nil {
		return nil, err
	}
	payloads, err := decodeList[movementPayload](raw)
	if err != nil {
		return nil, fmt.Errorf("decode movements: %w", err)
	}

	movements := make([]*domain.Movement, 0, len(payloads))
	for _, p := range payloads {
		movements = append(movements, p.toDomain())
	}
	return movements, nil
}

func (r *MovementRepository) Create(ctx context.Context, movement *domain.Movement) (*domain.Movement, error) {
	var out movementPayload
	if err := r.client.send(ctx, http.MethodPost, "/contabilidad/movimientos", newMovementWritePayload(movement), &out); err != nil {
		return nil, err
	}
	got := out.toDomain()
	if got.Concept == "" {
		cp := *movement
		cp.ID = got.ID
		return &cp, nil
	}
	return got, nil
}

var (
	_ usecase.MenuRepository     = (*MenuRepository)(nil)
	_ usecase.OrderRepository    = (*OrderRepository)(nil)
	_ usecase.ExpenseRepository  = (*ExpenseRepository)(nil)
	_ usecase.MovementRepository = (*MovementRepository)(nil)
)
