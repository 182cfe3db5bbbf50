package dto

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/restoledger/internal/domain"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		req       any
		wantField string
	}{
		{"valid login", &LoginRequest{Email: "chef@example.com", Password: "secret"}, ""},
		{"bad email", &LoginRequest{Email: "chef", Password: "secret"}, "email"},
		{"missing password", &LoginRequest{Email: "chef@example.com"}, "password"},
		{"valid status", &OrderStatusRequest{Status: "listo"}, ""},
		{"unknown status", &OrderStatusRequest{Status: "servido"}, "status"},
		{"next needs current", &OrderStatusRequest{Status: "next"}, "current"},
		{"next with current", &OrderStatusRequest{Status: "next", Current: "pendiente"}, ""},
		{"expense without date", &ExpenseRequest{Concept: "Gas", Amount: decimal.NewFromInt(3)}, ""},
		{"expense bad date", &ExpenseRequest{Date: "03/01/2024", Concept: "Gas"}, "date"},
		{"expense missing concept", &ExpenseRequest{Date: "2024-01-03"}, "concept"},
		{"movement bad type", &MovementRequest{Type: "TRANSFER", Concept: "x"}, "type"},
		{"menu missing name", &MenuItemRequest{Price: decimal.NewFromInt(1)}, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.req)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if _, ok := verr.Fields[tt.wantField]; !ok {
				t.Fatalf("expected field %q in %v", tt.wantField, verr.Fields)
			}
		})
	}
}

func TestMovementRequest_ToUseCaseInput(t *testing.T) {
	req := MovementRequest{Date: "2024-02-01", Type: "ingreso", Concept: "Aporte", Amount: decimal.NewFromInt(100)}
	in := req.ToUseCaseInput()

	if in.Type != domain.MovementType("ingreso") || in.Concept != "Aporte" || !in.Amount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("unexpected input %+v", in)
	}
}

func TestNewListResponse_NeverNil(t *testing.T) {
	resp := NewListResponse[*ExpenseResponse](nil)
	if resp.Data == nil || resp.Count != 0 {
		t.Fatalf("expected empty non-nil list, got %+v", resp)
	}
}
