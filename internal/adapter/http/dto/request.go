package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/iho/restoledger/internal/domain"
	"github.com/iho/restoledger/internal/usecase"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidationError lists the fields that failed validation, keyed by their
// JSON name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for f, rule := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, rule))
	}
	return "invalid request: " + strings.Join(parts, ", ")
}

// Validate checks req against its struct tags.
func Validate(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		out.Fields[fe.Field()] = rule
	}
	return out
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
}

// MenuItemRequest creates or replaces a dish.
type MenuItemRequest struct {
	Name     string          `json:"name"     validate:"required,max=255"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category" validate:"max=100"`
}

// ToUseCaseInput converts to use case input.
func (r *MenuItemRequest) ToUseCaseInput() usecase.MenuItemInput {
	return usecase.MenuItemInput{Name: r.Name, Price: r.Price, Category: r.Category}
}

// OrderStatusRequest moves a KDS ticket. Status is either a target status or
// the literal "next".
type OrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pendiente preparando listo entregado cancelado next"`
	// Current is the status the operator saw; only used with "next".
	Current string `json:"current" validate:"required_if=Status next"`
}

// ExpenseRequest creates or replaces an expense.
type ExpenseRequest struct {
	Date     string          `json:"date"     validate:"omitempty,datetime=2006-01-02"`
	Concept  string          `json:"concept"  validate:"required,max=255"`
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category" validate:"max=100"`
}

// ToUseCaseInput converts to use case input.
func (r *ExpenseRequest) ToUseCaseInput() usecase.ExpenseInput {
	return usecase.ExpenseInput{Date: r.Date, Concept: r.Concept, Amount: r.Amount, Category: r.Category}
}

// MovementRequest records a manual movement.
type MovementRequest struct {
	Date     string          `json:"date"     validate:"omitempty,datetime=2006-01-02"`
	Type     string          `json:"type"     validate:"required,oneof=INGRESO GASTO ingreso gasto"`
	Concept  string          `json:"concept"  validate:"required,max=255"`
	Category string          `json:"category" validate:"max=100"`
	Amount   decimal.Decimal `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *MovementRequest) ToUseCaseInput() usecase.MovementInput {
	return usecase.MovementInput{
		Date:     r.Date,
		Type:     domain.MovementType(r.Type),
		Concept:  r.Concept,
		Category: r.Category,
		Amount:   r.Amount,
	}
}
