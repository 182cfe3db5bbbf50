package handler

import (
	"context"
	"net/http"

	"github.com/iho/restoledger/internal/adapter/export"
	"github.com/iho/restoledger/internal/adapter/http/dto"
	"github.com/iho/restoledger/internal/domain"
	"github.com/iho/restoledger/internal/usecase"
)

// ExpenseService defines the behavior needed by ExpenseHandler.
type ExpenseService interface {
	List(ctx context.Context, filter domain.ExpenseFilter) ([]*domain.Expense, error)
	Create(ctx context.Context, input usecase.ExpenseInput) (*domain.Expense, error)
	Update(ctx context.Context, id int64, input usecase.ExpenseInput) (*domain.Expense, error)
	Delete(ctx context.Context, id int64) error
	Categories(ctx context.Context) ([]string, error)
}

// ExpenseHandler handles expense HTTP requests.
type ExpenseHandler struct {
	expenseUC ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseUC ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseUC: expenseUC}
}

func expenseFilter(r *http.Request) domain.ExpenseFilter {
	q := r.URL.Query()
	return domain.ExpenseFilter{
		From:     q.Get("from"),
		To:       q.Get("to"),
		Category: q.Get("category"),
		Limit:    parseIntQuery(r, "limit", 0),
	}
}

// List returns expenses. Query: from, to, category, limit.
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.expenseUC.List(r.Context(), expenseFilter(r))
	if err != nil {
		writeDomainError(w, "failed to list expenses", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewListResponse(dto.ExpensesFromDomain(expenses)))
}

// Create records an expense.
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.ExpenseRequest
	if err := decodeJSON(r, w, &req); err != nil {
		writeDomainError(w, "invalid request body", err)
		return
	}

	expense, err := h.expenseUC.Create(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to create expense", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ExpenseFromDomain(expense))
}

// Update replaces an expense.
func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid expense ID", err.Error())
		return
	}

	var req dto.ExpenseRequest
	if err := decodeJSON(r, w, &req); err != nil {
		writeDomainError(w, "invalid request body", err)
		return
	}

	expense, err := h.expenseUC.Update(r.Context(), id, req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to update expense", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ExpenseFromDomain(expense))
}

// Delete removes an expense.
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid expense ID", err.Error())
		return
	}

	if err := h.expenseUC.Delete(r.Context(), id); err != nil {
		writeDomainError(w, "failed to delete expense", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Categories returns the default categories plus those found in the data.
func (h *ExpenseHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.expenseUC.Categories(r.Context())
	if err != nil {
		writeDomainError(w, "failed to list categories", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewListResponse(categories))
}

// Export downloads the filtered expenses as CSV or XLSX.
func (h *ExpenseHandler) Export(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeDomainError(w, "invalid format", err)
		return
	}

	expenses, err := h.expenseUC.List(r.Context(), expenseFilter(r))
	if err != nil {
		writeDomainError(w, "failed to list expenses", err)
		return
	}

	writeDownload(w, format, "gastos", export.ExpensesTable(expenses))
}
