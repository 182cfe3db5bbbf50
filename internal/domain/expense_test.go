package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNormalizeCategory(t *testing.T) {
	t.Parallel()

	if got := NormalizeCategory("  insumos "); got != "INSUMOS" {
		t.Fatalf("expected INSUMOS, got %q", got)
	}

	if got := NormalizeCategory(""); got != DefaultExpenseCategory {
		t.Fatalf("expected default category, got %q", got)
	}
}

func TestExpenseValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		expense Expense
		wantErr error
	}{
		{"valid", Expense{Concept: "Harina", Amount: decimal.NewFromInt(10), Date: "2024-01-02"}, nil},
		{"zero amount and no date", Expense{Concept: "Ajuste", Amount: decimal.Zero}, nil},
		{"blank concept", Expense{Concept: "  ", Amount: decimal.NewFromInt(1)}, ErrEmptyConcept},
		{"negative amount", Expense{Concept: "Gas", Amount: decimal.NewFromInt(-1)}, ErrInvalidAmount},
		{"bad date", Expense{Concept: "Gas", Amount: decimal.NewFromInt(1), Date: "02/01/2024"}, ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := tt.expense
			err := e.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if e.Category != DefaultExpenseCategory {
					t.Fatalf("expected category to default, got %q", e.Category)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestMovementValidate(t *testing.T) {
	t.Parallel()

	m := Movement{Type: "ingreso", Concept: "Aporte socio", Amount: decimal.NewFromInt(500)}
	if err := m.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Type != MovementIncome || m.Category != "INGRESOS" {
		t.Fatalf("expected normalized income movement, got %+v", m)
	}

	g := Movement{Type: MovementExpense, Concept: "Propinas", Amount: decimal.NewFromInt(5)}
	if err := g.Validate(); err != nil || g.Category != "GASTOS" {
		t.Fatalf("expected GASTOS default category, got %q (%v)", g.Category, err)
	}

	bad := Movement{Type: "TRANSFER", Concept: "x", Amount: decimal.NewFromInt(1)}
	if err := bad.Validate(); !errors.Is(err, ErrInvalidMovement) {
		t.Fatalf("expected ErrInvalidMovement, got %v", err)
	}
}

func TestMenuItemValidate(t *testing.T) {
	t.Parallel()

	item := MenuItem{Name: " Ceviche ", Price: decimal.NewFromInt(15)}
	if err := item.Validate(); err != nil || item.Name != "Ceviche" {
		t.Fatalf("expected trimmed valid item, got %+v (%v)", item, err)
	}

	if err := (&MenuItem{Name: ""}).Validate(); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}

	if err := (&MenuItem{Name: "x", Price: decimal.NewFromInt(-2)}).Validate(); !errors.Is(err, ErrInvalidPrice) {
		t.Fatalf("expected ErrInvalidPrice, got %v", err)
	}
}
