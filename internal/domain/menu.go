package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MenuItem is a dish offered by the restaurant.
type MenuItem struct {
	ID       int64
	Name     string
	Price    decimal.Decimal
	Category string
}

// Validate checks the fields an operator can edit.
func (m *MenuItem) Validate() error {
	m.Name = strings.TrimSpace(m.Name)
	m.Category = strings.TrimSpace(m.Category)

	if m.Name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}
	if len(m.Name) > MaxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, MaxNameLength)
	}
	if m.Price.IsNegative() {
		return ErrInvalidPrice
	}
	return nil
}

// PriceList maps dish IDs to their current price.
type PriceList map[int64]decimal.Decimal

// NewPriceList indexes the menu by dish ID.
func NewPriceList(items []*MenuItem) PriceList {
	prices := make(PriceList, len(items))
	for _, it := range items {
		prices[it.ID] = it.Price
	}
	return prices
}

// Price returns the price of a dish, zero when unknown.
func (p PriceList) Price(dishID int64) decimal.Decimal {
	if price, ok := p[dishID]; ok {
		return price
	}
	return decimal.Zero
}

// MenuNames maps dish IDs to display names.
func MenuNames(items []*MenuItem) map[int64]string {
	names := make(map[int64]string, len(items))
	for _, it := range items {
		names[it.ID] = it.Name
	}
	return names
}
