package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/restoledger/internal/domain"
)

// flexInt accepts a JSON number or a numeric string. Unparsable values decode
// as zero.
type flexInt int64

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(bytes.TrimSpace(data), `"`)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	if n, err := strconv.ParseInt(string(data), 10, 64); err == nil {
		*f = flexInt(n)
		return nil
	}
	if v, err := strconv.ParseFloat(string(data), 64); err == nil {
		*f = flexInt(v)
		return nil
	}
	*f = 0
	return nil
}

// flexDecimal accepts a JSON number, a numeric string or null.
type flexDecimal struct {
	decimal.Decimal
	Valid bool
}

func (f *flexDecimal) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(bytes.TrimSpace(data), `"`)
	if len(data) == 0 || string(data) == "null" {
		*f = flexDecimal{}
		return nil
	}
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		*f = flexDecimal{}
		return nil
	}
	*f = flexDecimal{Decimal: d, Valid: true}
	return nil
}

func (f flexDecimal) orZero() decimal.Decimal {
	if !f.Valid {
		return decimal.Zero
	}
	return f.Decimal
}

// optionalDay renders an empty day as JSON null.
func optionalDay(day string) *string {
	if day == "" {
		return nil
	}
	return &day
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

type menuPayload struct {
	ID       flexInt     `json:"id,omitempty"`
	Name     string      `json:"nombre"`
	Price    flexDecimal `json:"precio"`
	Category string      `json:"categoria,omitempty"`
}

type menuWritePayload struct {
	Name     string          `json:"nombre"`
	Price    decimal.Decimal `json:"precio"`
	Category string          `json:"categoria,omitempty"`
}

func (p menuPayload) toDomain() *domain.MenuItem {
	return &domain.MenuItem{
		ID:       int64(p.ID),
		Name:     strings.TrimSpace(p.Name),
		Price:    p.Price.orZero(),
		Category: strings.TrimSpace(p.Category),
	}
}

func newMenuWritePayload(item *domain.MenuItem) menuWritePayload {
	return menuWritePayload{Name: item.Name, Price: item.Price, Category: item.Category}
}

type orderItemPayload struct {
	DishID   flexInt `json:"plato_id"`
	Quantity flexInt `json:"cantidad"`
}

type orderPayload struct {
	ID        flexInt            `json:"id"`
	TableID   flexInt            `json:"mesa_id"`
	Status    string             `json:"estado"`
	Items     []orderItemPayload `json:"items"`
	FechaHora *string            `json:"fecha_hora"`
	CreatedAt *string            `json:"created_at"`
	Total     flexDecimal        `json:"total"`

	Comentario    *string `json:"comentario"`
	Nota          *string `json:"nota"`
	Observaciones *string `json:"observaciones"`
	Observacion   *string `json:"observacion"`
	Comment       *string `json:"comment"`
}

// comment returns the first non-empty of the fields the backend has used for
// kitchen notes over time.
func (p orderPayload) comment() string {
	for _, c := range []*string{p.Comentario, p.Nota, p.Observaciones, p.Observacion, p.Comment} {
		if s := derefString(c); s != "" {
			return s
		}
	}
	return ""
}

func (p orderPayload) placedAt() string {
	if s := derefString(p.FechaHora); s != "" {
		return s
	}
	return derefString(p.CreatedAt)
}

func (p orderPayload) toDomain() *domain.Order {
	o := &domain.Order{
		ID:       int64(p.ID),
		TableID:  int64(p.TableID),
		Status:   domain.NormalizeOrderStatus(p.Status),
		Comment:  p.comment(),
		PlacedAt: p.placedAt(),
	}
	for _, it := range p.Items {
		o.Items = append(o.Items, domain.OrderItem{DishID: int64(it.DishID), Quantity: int(it.Quantity)})
	}
	if p.Total.Valid {
		total := p.Total.Decimal
		o.Total = &total
	}
	return o
}

type orderStatusPayload struct {
	Status domain.OrderStatus `json:"estado"`
}

type expensePayload struct {
	ID       flexInt     `json:"id"`
	Date     *string     `json:"fecha"`
	Concept  string      `json:"concepto"`
	Amount   flexDecimal `json:"monto"`
	Category string      `json:"categoria"`
}

type expenseWritePayload struct {
	Date     *string         `json:"fecha"`
	Concept  string          `json:"concepto"`
	Amount   decimal.Decimal `json:"monto"`
	Category string          `json:"categoria"`
}

func (p expensePayload) toDomain() *domain.Expense {
	return &domain.Expense{
		ID:       int64(p.ID),
		Date:     dayOf(derefString(p.Date)),
		Concept:  strings.TrimSpace(p.Concept),
		Amount:   p.Amount.orZero(),
		Category: domain.NormalizeCategory(p.Category),
	}
}

func newExpenseWritePayload(e *domain.Expense) expenseWritePayload {
	return expenseWritePayload{
		Date:     optionalDay(e.Date),
		Concept:  e.Concept,
		Amount:   e.Amount,
		Category: e.Category,
	}
}

type movementPayload struct {
	ID       flexInt     `json:"id"`
	Date     *string     `json:"fecha"`
	Type     string      `json:"tipo"`
	Concept  string      `json:"concepto"`
	Category string      `json:"categoria"`
	Amount   flexDecimal `json:"monto"`
}

type movementWritePayload struct {
	Date     *string             `json:"fecha"`
	Type     domain.MovementType `json:"tipo"`
	Concept  string              `json:"concepto"`
	Category string              `json:"categoria"`
	Amount   decimal.Decimal     `json:"monto"`
}

func (p movementPayload) toDomain() *domain.Movement {
	return &domain.Movement{
		ID:       int64(p.ID),
		Date:     dayOf(derefString(p.Date)),
		Type:     domain.MovementType(strings.ToUpper(strings.TrimSpace(p.Type))),
		Concept:  strings.TrimSpace(p.Concept),
		Category: strings.ToUpper(strings.TrimSpace(p.Category)),
		Amount:   p.Amount.orZero(),
	}
}

func newMovementWritePayload(m *domain.Movement) movementWritePayload {
	return movementWritePayload{
		Date:     optionalDay(m.Date),
		Type:     m.Type,
		Concept:  m.Concept,
		Category: m.Category,
		Amount:   m.Amount,
	}
}

// dayOf keeps the YYYY-MM-DD prefix of a backend date or timestamp.
func dayOf(raw string) string {
	if len(raw) >= len(domain.DayLayout) && domain.ValidateDay(raw[:len(domain.DayLayout)]) == nil {
		return raw[:len(domain.DayLayout)]
	}
	return ""
}

// decodeList decodes a JSON array, also accepting the {"data": [...]} envelope
// some backend routes use.
func decodeList[T any](raw json.RawMessage) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var list []T
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, err
		}
		return list, nil
	}

	var envelope struct {
		Data []T `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("unexpected list payload: %w", err)
	}
	return envelope.Data, nil
}
