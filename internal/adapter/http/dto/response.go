package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/restoledger/internal/domain"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// MenuItemResponse represents a dish in API responses.
type MenuItemResponse struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category,omitempty"`
}

// MenuItemFromDomain converts a domain dish to response.
func MenuItemFromDomain(m *domain.MenuItem) *MenuItemResponse {
	return &MenuItemResponse{ID: m.ID, Name: m.Name, Price: m.Price, Category: m.Category}
}

// MenuItemsFromDomain converts domain dishes to responses.
func MenuItemsFromDomain(items []*domain.MenuItem) []*MenuItemResponse {
	result := make([]*MenuItemResponse, len(items))
	for i, m := range items {
		result[i] = MenuItemFromDomain(m)
	}
	return result
}

// ExpenseResponse represents an expense in API responses.
type ExpenseResponse struct {
	ID       int64           `json:"id"`
	Date     string          `json:"date"`
	Concept  string          `json:"concept"`
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
}

// ExpenseFromDomain converts a domain expense to response.
func ExpenseFromDomain(e *domain.Expense) *ExpenseResponse {
	return &ExpenseResponse{ID: e.ID, Date: e.Date, Concept: e.Concept, Amount: e.Amount, Category: e.Category}
}

// ExpensesFromDomain converts domain expenses to responses.
func ExpensesFromDomain(expenses []*domain.Expense) []*ExpenseResponse {
	result := make([]*ExpenseResponse, len(expenses))
	for i, e := range expenses {
		result[i] = ExpenseFromDomain(e)
	}
	return result
}

// MovementResponse represents a manual movement in API responses.
type MovementResponse struct {
	ID       int64           `json:"id"`
	Date     string          `json:"date"`
	Type     string          `json:"type"`
	Concept  string          `json:"concept"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// MovementFromDomain converts a domain movement to response.
func MovementFromDomain(m *domain.Movement) *MovementResponse {
	return &MovementResponse{
		ID:       m.ID,
		Date:     m.Date,
		Type:     string(m.Type),
		Concept:  m.Concept,
		Category: m.Category,
		Amount:   m.Amount,
	}
}

// MovementsFromDomain converts domain movements to responses.
func MovementsFromDomain(movements []*domain.Movement) []*MovementResponse {
	result := make([]*MovementResponse, len(movements))
	for i, m := range movements {
		result[i] = MovementFromDomain(m)
	}
	return result
}

// LoginResponse represents a successful login.
type LoginResponse struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionResponse describes the current session.
type SessionResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionFromDomain converts a domain session to response.
func SessionFromDomain(s *domain.Session) *SessionResponse {
	return &SessionResponse{ID: s.ID, Email: s.Email, IssuedAt: s.IssuedAt, ExpiresAt: s.ExpiresAt}
}

// ListResponse wraps a listing with its size.
type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Count int `json:"count"`
}

// NewListResponse builds a ListResponse, never with a nil slice.
func NewListResponse[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Data: items, Count: len(items)}
}
