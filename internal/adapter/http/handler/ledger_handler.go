package handler

import (
	"context"
	"net/http"

	"github.com/iho/restoledger/internal/adapter/export"
	"github.com/iho/restoledger/internal/aggregate"
	"github.com/iho/restoledger/internal/usecase"
)

// LedgerService defines the behavior needed by LedgerHandler.
type LedgerService interface {
	Build(ctx context.Context, input usecase.LedgerInput) (*aggregate.Ledger, error)
	MonthlyBalance(ctx context.Context, input usecase.LedgerInput) ([]usecase.MonthlyBalance, error)
}

// LedgerHandler serves the running-balance journal.
type LedgerHandler struct {
	ledgerUC LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

func ledgerInput(r *http.Request) usecase.LedgerInput {
	q := r.URL.Query()
	return usecase.LedgerInput{
		From:     q.Get("from"),
		To:       q.Get("to"),
		Category: q.Get("category"),
		Search:   q.Get("q"),
	}
}

// List returns the filtered ledger with its totals.
func (h *LedgerHandler) List(w http.ResponseWriter, r *http.Request) {
	ledger, err := h.ledgerUC.Build(r.Context(), ledgerInput(r))
	if err != nil {
		writeDomainError(w, "failed to build ledger", err)
		return
	}

	writeJSON(w, http.StatusOK, ledger)
}

// Export downloads the filtered ledger as CSV or XLSX.
func (h *LedgerHandler) Export(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeDomainError(w, "invalid format", err)
		return
	}

	ledger, err := h.ledgerUC.Build(r.Context(), ledgerInput(r))
	if err != nil {
		writeDomainError(w, "failed to build ledger", err)
		return
	}

	writeDownload(w, format, "libro", export.LedgerTable(*ledger))
}

// Monthly returns the income statement by month. With a format query
// parameter it is downloaded instead.
func (h *LedgerHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	rawFormat := r.URL.Query().Get("format")
	var format export.Format
	if rawFormat != "" {
		var err error
		if format, err = export.ParseFormat(rawFormat); err != nil {
			writeDomainError(w, "invalid format", err)
			return
		}
	}

	months, err := h.ledgerUC.MonthlyBalance(r.Context(), ledgerInput(r))
	if err != nil {
		writeDomainError(w, "failed to compute monthly balance", err)
		return
	}

	if format != "" {
		writeDownload(w, format, "balance-mensual", export.MonthlyTable(months))
		return
	}
	if months == nil {
		months = []usecase.MonthlyBalance{}
	}
	writeJSON(w, http.StatusOK, months)
}
