package export

import (
	"github.com/iho/restoledger/internal/aggregate"
	"github.com/iho/restoledger/internal/domain"
	"github.com/iho/restoledger/internal/usecase"
)

// LedgerTable lays out ledger rows followed by a totals line.
func LedgerTable(l aggregate.Ledger) Table {
	t := Table{
		Sheet:  "Libro",
		Header: []string{"Fecha", "Tipo", "Concepto", "Categoria", "Referencia", "Monto", "Saldo"},
	}
	for _, r := range l.Rows {
		t.Rows = append(t.Rows, []any{r.Date, directionLabel(r.Direction), r.Label, r.Category, r.Reference, r.Amount, r.RunningBalance})
	}
	t.Rows = append(t.Rows,
		[]any{"", "", "Total ingresos", "", "", l.SumIncoming, ""},
		[]any{"", "", "Total gastos", "", "", l.SumOutgoing, ""},
		[]any{"", "", "Saldo final", "", "", "", l.FinalBalance},
	)
	return t
}

func directionLabel(d aggregate.Direction) string {
	if d == aggregate.Outgoing {
		return "GASTO"
	}
	return "INGRESO"
}

// ExpensesTable lays out an expense listing.
func ExpensesTable(expenses []*domain.Expense) Table {
	t := Table{
		Sheet:  "Gastos",
		Header: []string{"ID", "Fecha", "Concepto", "Categoria", "Monto"},
	}
	for _, e := range expenses {
		t.Rows = append(t.Rows, []any{e.ID, e.Date, e.Concept, e.Category, e.Amount})
	}
	return t
}

// MonthlyTable lays out monthly balances.
func MonthlyTable(months []usecase.MonthlyBalance) Table {
	t := Table{
		Sheet:  "Balance mensual",
		Header: []string{"Mes", "Ingresos", "Gastos", "Balance"},
	}
	for _, m := range months {
		t.Rows = append(t.Rows, []any{m.Month, m.Income, m.Expenses, m.Balance})
	}
	return t
}
